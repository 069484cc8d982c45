package rtmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocUint16RoundTrips(t *testing.T) {
	area := NewArea()
	v := AllocUint16(area, 8)
	for i := range v {
		v[i] = uint16(i * 7)
	}
	for i := range v {
		assert.Equal(t, uint16(i*7), v[i])
	}
}

func TestAllocFloat64RoundTrips(t *testing.T) {
	area := NewArea()
	v := AllocFloat64(area, 4)
	for i := range v {
		v[i] = float64(i) * 1.5
	}
	for i := range v {
		assert.InDelta(t, float64(i)*1.5, v[i], 1e-12)
	}
}

func TestFreeAllResetsUsage(t *testing.T) {
	area := NewArea()
	AllocUint16(area, 10)
	assert.Greater(t, area.used, 0)
	area.FreeAll()
	assert.Equal(t, 0, area.used)
}

func TestAllocFallsBackWhenExhausted(t *testing.T) {
	area := &Area{mem: make([]byte, 32)}
	v := AllocUint16(area, 100)
	assert.Len(t, v, 100)
	assert.True(t, area.fellBack)

	area.FreeAll()
	assert.Greater(t, len(area.mem), 32)
}

func TestAllocZeroLengthReturnsNil(t *testing.T) {
	area := NewArea()
	assert.Nil(t, AllocUint16(area, 0))
	assert.Nil(t, AllocFloat64(area, 0))
}
