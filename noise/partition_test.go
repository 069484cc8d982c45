package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPartitionCoversAllBins(t *testing.T) {
	p := NewPartition(1026, 48000)
	nBins := (1026 - 2) / 2
	total := 0
	for b := 0; b < NBands; b++ {
		total += p.BinCount(b)
	}
	assert.Equal(t, nBins+1, total)
}

func TestBandForFreqIsMonotone(t *testing.T) {
	p := NewPartition(2050, 48000)
	last := 0
	for k := 0; k < len(p.bandOfBin); k++ {
		b := p.BandOfBin(k)
		assert.GreaterOrEqual(t, b, last)
		last = b
	}
}
