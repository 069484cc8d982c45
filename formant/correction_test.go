package formant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreserveSpectralEnvelopePreservesEnergy(t *testing.T) {
	env := NewEnvelope([]float64{0, 500, 1000, 2000}, []float64{1, 2, 1.5, 1})
	p := &Partials{
		Freqs: []float64{100, 200, 300},
		Mags:  []float64{1, 0.5, 0.25},
	}
	before := sumSquares(p.Mags)

	PreserveSpectralEnvelope(p, env, 2.0, 1e9)

	after := sumSquares(p.Mags)
	assert.InDelta(t, before, after, before*1e-6)
}

func TestPreserveSpectralEnvelopeTruncatesAboveMaxPartials(t *testing.T) {
	env := NewEnvelope([]float64{0, 1000}, []float64{1, 1})
	p := &Partials{
		Freqs: []float64{100, 2000},
		Mags:  []float64{1, 1},
	}
	PreserveSpectralEnvelope(p, env, 1.0, 1500)
	assert.Len(t, p.Freqs, 1)
}

func TestHarmonicResynthesisPlacesExpectedCount(t *testing.T) {
	env := NewEnvelope([]float64{0, 1000, 2000}, []float64{1, 1, 1})
	p := &Partials{}
	HarmonicResynthesis(p, env, 110, 1.0, 20, nil)
	assert.Len(t, p.Freqs, 21)
	assert.InDelta(t, 110, p.Freqs[0], 1e-9)
}

func TestFuzzyResynthFactorsStayWithinBound(t *testing.T) {
	f := NewFuzzyResynth(1, 20, 8)
	for i := 0; i < 10; i++ {
		factor := f.Factor(i, 10)
		cents := 1200 * math.Log2(factor)
		assert.LessOrEqual(t, cents, 10.0+1e-6)
		assert.GreaterOrEqual(t, cents, -10.0-1e-6)
	}
}
