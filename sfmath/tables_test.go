package sfmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDBFactorRoundTrip(t *testing.T) {
	factors := []float64{1e-25, 1e-10, 1e-6, 0.001, 0.01, 0.1, 0.5, 1, 2, 10, 100}
	for _, f := range factors {
		idb := Factor2IDB(f)
		got := IDB2Factor(idb)
		rel := math.Abs(got/f-1) < 1 || f < 1e-20
		assert.Truef(t, rel || math.Abs(got-f) < 0.0009*f, "factor %v -> idb %d -> %v", f, idb, got)
	}
}

func TestIDB2FactorWithinTolerance(t *testing.T) {
	for _, f := range []float64{1e-25, 1e-8, 1e-4, 1, 1000} {
		idb := Factor2IDB(f)
		got := IDB2Factor(idb)
		relErr := math.Abs(got/f - 1)
		assert.LessOrEqual(t, relErr, 0.0009, "factor=%v", f)
	}
}

func TestIFreqFreqRoundTrip(t *testing.T) {
	freqs := []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 100, 9500}
	for _, f := range freqs {
		ifreq := Freq2IFreq(f)
		got := IFreq2Freq(ifreq)
		centError := 1200 * math.Log2(got/f)
		assert.LessOrEqual(t, math.Abs(centError), 0.08, "freq=%v", f)
	}
}

func TestFreq2IFreqClampsToUint16Range(t *testing.T) {
	assert.Equal(t, uint16(0), Freq2IFreq(-1))
	assert.Equal(t, uint16(65535), Freq2IFreq(1e12))
}

func TestFactor2IDBBlockMatchesScalar(t *testing.T) {
	xs := []float64{1e-25, 0.001, 0.1, 1, 10}
	out := make([]uint16, len(xs))
	Factor2IDBBlock(xs, out)
	for i, x := range xs {
		assert.Equal(t, Factor2IDB(x), out[i])
	}
}

func TestFreq2IFreqBlockMatchesScalar(t *testing.T) {
	freqs := []float64{0.05, 1, 2, 9500}
	out := make([]uint16, len(freqs))
	Freq2IFreqBlock(freqs, out)
	for i, f := range freqs {
		assert.Equal(t, Freq2IFreq(f), out[i])
	}
}

func TestFastLog2Accuracy(t *testing.T) {
	x := 1e-7
	for x <= 1 {
		got := FastLog2(x)
		want := math.Log2(x)
		assert.LessOrEqual(t, math.Abs(got-want), 3.8e-6, "x=%v", x)
		x *= 1.3
	}
}

func TestFastLog2ExactAtPowersOfTwo(t *testing.T) {
	for e := -20; e <= 4; e++ {
		x := math.Ldexp(1, e)
		assert.InDelta(t, float64(e), FastLog2(x), 1e-9)
	}
}

func TestIntSinCosTable(t *testing.T) {
	assert.InDelta(t, 0.0, IntSin(0), 1e-12)
	assert.InDelta(t, 1.0, IntCos(0), 1e-12)
	assert.InDelta(t, 1.0, IntSin(64), 1e-9)
}

func TestFastVectorSinMatchesMathSin(t *testing.T) {
	n := 2000
	dst := make([]float64, n)
	FastVectorSin(dst, 48000, 440, 0, 1, VectorSinReplace)
	for i := 0; i < n; i += 137 {
		want := math.Sin(2 * math.Pi * 440 / 48000 * float64(i))
		assert.InDelta(t, want, dst[i], 1e-6)
	}
}

func TestFastVectorSinCosOrthogonal(t *testing.T) {
	n := 512
	sinDst := make([]float64, n)
	cosDst := make([]float64, n)
	FastVectorSinCos(sinDst, cosDst, 48000, 1000, 0.3, 2.0, VectorSinReplace)
	for i := 0; i < n; i += 50 {
		mag := math.Hypot(sinDst[i], cosDst[i])
		assert.InDelta(t, 2.0, mag, 1e-6)
	}
}
