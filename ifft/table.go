// Package ifft implements per-partial windowed spectral rendering: each
// sine partial is placed into a shared frequency-domain buffer as nine
// precomputed window-transform coefficients around its quantized bin, and
// one inverse FFT per audio block turns the accumulated spectrum (sines
// plus noise) into samples.
package ifft

import (
	"sync"

	"github.com/swesterfeld/spectmorph-sub000/sfft"
	"github.com/swesterfeld/spectmorph-sub000/window"
)

const (
	zeroPadding  = 256
	partialRange = 4
	coeffsPerBin = 2*partialRange + 1
)

// Table holds the process-wide, read-only data a Synth needs for one
// block size: the expanded Blackman-Harris-92 window transform indexed by
// 256-step frequency fraction, and the per-sample retargeting ratio to a
// Hann window.
type Table struct {
	blockSize int
	winTrans  [][coeffsPerBin]float64 // [freqFrac][i+partialRange]
	winScale  []float64
}

var (
	tableCache   = map[int]*Table{}
	tableCacheMu sync.Mutex
)

// GetTable returns the shared Table for blockSize, building it on first
// use. blockSize must be a power of two.
func GetTable(blockSize int) *Table {
	tableCacheMu.Lock()
	defer tableCacheMu.Unlock()

	if t, ok := tableCache[blockSize]; ok {
		return t
	}
	t := buildTable(blockSize)
	tableCache[blockSize] = t
	return t
}

func buildTable(blockSize int) *Table {
	n := blockSize * zeroPadding

	win := make([]float64, n)
	half := blockSize / 2
	for i := 0; i < blockSize; i++ {
		if i < half {
			x := float64(half-i)/float64(blockSize)*2 - 1.0
			win[i] = window.BlackmanHarris92Func(x)
		} else {
			x := float64(i-half)/float64(blockSize)*2 - 1.0
			win[len(win)-blockSize+i] = window.BlackmanHarris92Func(x)
		}
	}

	spectrum := make([]float64, n)
	if err := sfft.FFTARFloat(n, win, spectrum); err != nil {
		panic(err) // n is always a power of two times 256, always supported
	}

	nBins := n / 2
	real := make([]float64, nBins+1)
	real[0] = spectrum[0]
	real[nBins] = spectrum[1]
	for b := 1; b < nBins; b++ {
		real[b] = spectrum[2*b]
	}

	winTrans := make([][coeffsPerBin]float64, zeroPadding)
	for freqFrac := 0; freqFrac < zeroPadding; freqFrac++ {
		for i := -partialRange; i <= partialRange; i++ {
			pos := i*zeroPadding - freqFrac
			if pos < 0 {
				pos = -pos
			}
			winTrans[freqFrac][i+partialRange] = real[pos]
		}
	}

	winScale := make([]float64, blockSize)
	for i := 0; i < blockSize; i++ {
		x := 2*float64(i)/float64(blockSize) - 1.0
		winScale[(i+half)%blockSize] = window.HannFunc(x) / window.BlackmanHarris92Func(x)
	}

	return &Table{blockSize: blockSize, winTrans: winTrans, winScale: winScale}
}
