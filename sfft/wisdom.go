package sfft

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
)

// ExportWisdom writes the set of currently-cached FFT sizes to path, one
// size per line, so a future process can warm its cache with ImportWisdom
// without recomputing factorizations from scratch on the RT-sensitive
// startup path.
func ExportWisdom(path string) error {
	stateCacheMu.Lock()
	sizes := make([]int, 0, len(stateCache))
	for n := range stateCache {
		sizes = append(sizes, n)
	}
	stateCacheMu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sfft: export wisdom: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, n := range sizes {
		fmt.Fprintln(w, n)
	}
	return w.Flush()
}

// ImportWisdom reads a wisdom file written by ExportWisdom and pre-warms
// the FFT plan cache for every size it lists. Missing files are not an
// error; a fresh process simply pays the (tiny) factorization cost lazily.
func ImportWisdom(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("sfft: import wisdom: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n, err := strconv.Atoi(sc.Text())
		if err != nil || n <= 0 {
			continue
		}
		getFFTState(n)
	}
	return sc.Err()
}
