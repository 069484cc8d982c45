package poly

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSampleAtIntegerPositionsReproducesSignal(t *testing.T) {
	signal := make([]float32, 64)
	for i := range signal {
		signal[i] = float32(math.Sin(2 * math.Pi * float64(i) / 16))
	}

	ip := Shared()
	for i := 16; i < 48; i++ {
		got := ip.GetSample(signal, float64(i))
		assert.InDelta(t, float64(signal[i]), got, 1e-6)
	}
}

func TestGetSampleOutsideSignalIsZeroPadded(t *testing.T) {
	signal := make([]float32, 8)
	ip := Shared()
	got := ip.GetSample(signal, -1000)
	assert.InDelta(t, 0, got, 1e-12)
}

func TestGetSampleInterpolatesBetweenSamples(t *testing.T) {
	signal := []float32{0, 1, 0, -1, 0, 1, 0, -1, 0, 1, 0, -1, 0, 1, 0, -1}
	ip := Shared()
	got := ip.GetSample(signal, 7.5)
	assert.InDelta(t, -math.Sqrt2/2, got, 1e-5)
}
