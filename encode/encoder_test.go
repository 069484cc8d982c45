package encode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineWave(freq, mixFreq float64, nSamples int) []float32 {
	out := make([]float32, nSamples)
	for i := range out {
		out[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / mixFreq))
	}
	return out
}

func TestEncodeProducesNonEmptyFrames(t *testing.T) {
	cfg := DefaultConfig(440, 44100)
	cfg.Attack = false
	samples := sineWave(440, 44100, 44100/4)

	audio, err := Encode(samples, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, audio.Contents)

	foundPartial := false
	for _, b := range audio.Contents {
		if len(b.Freqs) > 0 {
			foundPartial = true
			break
		}
	}
	assert.True(t, foundPartial, "expected at least one frame with a detected partial")
}

func TestEncodeValidatesCleanly(t *testing.T) {
	cfg := DefaultConfig(440, 44100)
	cfg.Attack = false
	samples := sineWave(440, 44100, 44100/4)

	audio, err := Encode(samples, cfg)
	require.NoError(t, err)
	assert.NoError(t, audio.Validate())
}
