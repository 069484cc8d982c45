package formant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeAtInterpolatesLinearly(t *testing.T) {
	e := NewEnvelope([]float64{100, 200, 300}, []float64{1, 2, 4})
	assert.InDelta(t, 1.5, e.At(150), 1e-9)
	assert.InDelta(t, 3.0, e.At(250), 1e-9)
}

func TestEnvelopeAtClampsOutOfRange(t *testing.T) {
	e := NewEnvelope([]float64{100, 200}, []float64{1, 2})
	assert.InDelta(t, 1, e.At(0), 1e-9)
	assert.InDelta(t, 2, e.At(1000), 1e-9)
}
