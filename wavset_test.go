package spectmorph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestMatchPicksClosestFundamental(t *testing.T) {
	a220 := &Audio{FundamentalFreq: 220}
	a440 := &Audio{FundamentalFreq: 440}
	w := &WavSet{Tracksels: []Tracksel{
		{Channel: 0, MidiNote: 57, VelocityMin: 0, VelocityMax: 127, Audio: a220},
		{Channel: 0, MidiNote: 69, VelocityMin: 0, VelocityMax: 127, Audio: a440},
	}}

	got, err := w.BestMatch(0, 450, 100)
	require.NoError(t, err)
	assert.Same(t, a440, got)
}

func TestBestMatchRespectsChannelAndVelocityMask(t *testing.T) {
	a := &Audio{FundamentalFreq: 220}
	w := &WavSet{Tracksels: []Tracksel{
		{Channel: 1, MidiNote: 57, VelocityMin: 64, VelocityMax: 127, Audio: a},
	}}

	_, err := w.BestMatch(0, 220, 100)
	assert.Error(t, err)

	_, err = w.BestMatch(1, 220, 10)
	assert.Error(t, err)

	got, err := w.BestMatch(1, 220, 100)
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestBestMatchEmptySetReturnsError(t *testing.T) {
	w := &WavSet{}
	_, err := w.BestMatch(0, 440, 100)
	assert.ErrorIs(t, err, ErrEmptyWavSet)
}
