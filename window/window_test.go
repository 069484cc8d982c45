package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowsAreZeroOutsideRange(t *testing.T) {
	for _, ty := range []Type{Hann, Hamming, Blackman, BlackmanHarris92} {
		assert.Equal(t, 0.0, Eval(ty, 1.5))
		assert.Equal(t, 0.0, Eval(ty, -2))
	}
}

func TestHannEndpointsAndCenter(t *testing.T) {
	assert.InDelta(t, 0.0, HannFunc(-1), 1e-12)
	assert.InDelta(t, 0.0, HannFunc(1), 1e-12)
	assert.InDelta(t, 1.0, HannFunc(0), 1e-12)
}

func TestBlackmanHarris92Endpoints(t *testing.T) {
	// a0 - a1 + a2 - a3 at x = +-1
	want := bh92A0 - bh92A1 + bh92A2 - bh92A3
	assert.InDelta(t, want, BlackmanHarris92Func(1), 1e-12)
	assert.InDelta(t, want, BlackmanHarris92Func(-1), 1e-12)
}

func TestParseName(t *testing.T) {
	cases := map[string]Type{
		"cos":                Hann,
		"hann":               Hann,
		"":                   Hann,
		"hamming":            Hamming,
		"blackman":           Blackman,
		"blackman_harris_92": BlackmanHarris92,
	}
	for name, want := range cases {
		got, ok := ParseName(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := ParseName("nonsense")
	assert.False(t, ok)
}

func TestCenteredSymmetric(t *testing.T) {
	dst := make([]float64, 9)
	Centered(Hann, 9, dst)
	for i := 0; i < len(dst); i++ {
		assert.InDelta(t, dst[i], dst[len(dst)-1-i], 1e-12)
	}
	assert.InDelta(t, 1.0, dst[4], 1e-9)
}
