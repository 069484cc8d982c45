package sfft

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFFTARFloatRoundTrip(t *testing.T) {
	n := 256
	src := rand.New(rand.NewSource(1))
	in := make([]float64, n)
	for i := range in {
		in[i] = src.Float64()*2 - 1
	}

	spec := make([]float64, n)
	require.NoError(t, FFTARFloat(n, in, spec))

	out := make([]float64, n)
	require.NoError(t, FFTSR(n, spec, out))

	for i := range in {
		assert.InDelta(t, in[i], out[i], 1e-9)
	}
}

func TestFFTARPureTone(t *testing.T) {
	n := 512
	freqBin := 10
	in := make([]float64, n)
	for i := range in {
		in[i] = math.Cos(2 * math.Pi * float64(freqBin) * float64(i) / float64(n))
	}

	spec := make([]float64, n)
	require.NoError(t, FFTARFloat(n, in, spec))

	mag := math.Hypot(spec[2*freqBin], spec[2*freqBin+1])
	assert.InDelta(t, float64(n)/2, mag, 1e-6)

	for k := 1; k < n/2; k++ {
		if k == freqBin {
			continue
		}
		m := math.Hypot(spec[2*k], spec[2*k+1])
		assert.Less(t, m, 1e-6)
	}
}

func TestFFTACFFTSCRoundTrip(t *testing.T) {
	n := 60 // factors into 2,3,5
	src := rand.New(rand.NewSource(2))
	in := make([]complex128, n)
	for i := range in {
		in[i] = complex(src.Float64(), src.Float64())
	}

	fwd := make([]complex128, n)
	require.NoError(t, FFTAC(n, in, fwd))

	back := make([]complex128, n)
	require.NoError(t, FFTSC(n, fwd, back))

	for i := range in {
		assert.InDelta(t, real(in[i]), real(back[i]), 1e-9)
		assert.InDelta(t, imag(in[i]), imag(back[i]), 1e-9)
	}
}

func TestUnsupportedSizeReturnsError(t *testing.T) {
	n := 127 // prime, unsupported
	in := make([]float64, n)
	out := make([]float64, n)
	assert.Error(t, FFTARFloat(n, in, out))
}

func TestWisdomRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wisdom")

	require.NoError(t, Prepare(128))
	require.NoError(t, ExportWisdom(path))

	_, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, ImportWisdom(path))
	require.NoError(t, ImportWisdom(filepath.Join(dir, "missing")))
}
