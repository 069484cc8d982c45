package rtmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAudioBlockAssignAndDequantize(t *testing.T) {
	area := NewArea()
	var b AudioBlock
	b.Assign(area, []uint16{18000, 18000 + 6000}, []uint16{512 * 64}, make([]uint16, 32))

	assert.Equal(t, 2, b.Freqs.Len())
	assert.InDelta(t, 1.0, b.FreqsF(0), 1e-9)
	assert.InDelta(t, 2.718281828, b.FreqsF(1), 1e-6)
	assert.InDelta(t, 1.0, b.MagsF(0), 1e-9)
	assert.Equal(t, 32, b.Noise.Len())
}
