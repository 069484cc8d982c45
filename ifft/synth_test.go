package ifft

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddPartialProducesApproximateSineTone(t *testing.T) {
	blockSize := 512
	mixFreq := 48000.0
	freq := 1000.0

	s := NewSynth(blockSize, mixFreq, WinBlackmanHarris92)
	s.Clear()
	s.AddPartial(freq, 1.0, 0)

	samples := make([]float64, blockSize)
	s.GetSamples(samples, Replace)

	// The block should not be silent and should not blow up numerically.
	var energy float64
	for _, v := range samples {
		energy += v * v
		assert.False(t, math.IsNaN(v))
	}
	assert.Greater(t, energy, 0.0)
}

func TestQuantizedFreqIsCloseToInput(t *testing.T) {
	s := NewSynth(256, 48000, WinBlackmanHarris92)
	q := s.QuantizedFreq(440)
	assert.InDelta(t, 440, q, 5)
}

func TestGetTableCachesPerBlockSize(t *testing.T) {
	a := GetTable(256)
	b := GetTable(256)
	assert.Same(t, a, b)
}

func TestAddPartialZeroMagnitudeIsSilent(t *testing.T) {
	s := NewSynth(256, 48000, WinBlackmanHarris92)
	s.Clear()
	s.AddPartial(1000, 0, 0)

	samples := make([]float64, 256)
	s.GetSamples(samples, Replace)
	for _, v := range samples {
		assert.InDelta(t, 0, v, 1e-9)
	}
}
