package spectmorph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestAudio(nFrames int) *Audio {
	blocks := make([]AudioBlock, nFrames)
	for i := range blocks {
		blocks[i] = AudioBlock{
			Freqs: []uint16{18000},
			Mags:  []uint16{512*64 + 2000},
		}
	}
	return &Audio{
		FundamentalFreq: 440,
		MixFreq:         48000,
		FrameStepMs:     4,
		LoopType:        LoopNone,
		LoopStart:       -1,
		LoopEnd:         -1,
		Contents:        blocks,
	}
}

func TestLiveDecoderRendersFiniteAudio(t *testing.T) {
	audio := buildTestAudio(60)
	d := NewLiveDecoder()
	d.Retrigger(audio, 440, 100, UnisonParams{Unison: 1, NoiseSeed: 5})

	out := make([]float64, 2000)
	d.Process(len(out), nil, out)

	for _, v := range out {
		require.False(t, v != v)
	}
}

func TestLiveDecoderRetriggerFromWavSetSelectsClosestMatch(t *testing.T) {
	audio := buildTestAudio(60)
	other := buildTestAudio(60)
	other.FundamentalFreq = 880
	w := &WavSet{Tracksels: []Tracksel{
		{Channel: 0, MidiNote: 81, VelocityMin: 0, VelocityMax: 127, Audio: other},
		{Channel: 0, MidiNote: 69, VelocityMin: 0, VelocityMax: 127, Audio: audio},
	}}

	best, err := w.BestMatch(0, 440, 100)
	require.NoError(t, err)
	assert.Same(t, audio, best)

	d := NewLiveDecoder()
	err = d.RetriggerFromWavSet(w, 0, 440, 100, UnisonParams{Unison: 1, NoiseSeed: 5})
	require.NoError(t, err)

	out := make([]float64, 1000)
	assert.NotPanics(t, func() {
		d.Process(len(out), nil, out)
	})
}

func TestLiveDecoderEnableToggles(t *testing.T) {
	audio := buildTestAudio(30)
	d := NewLiveDecoder()
	d.EnableNoise(false)
	d.EnableSines(true)
	d.EnableLoop(false)
	d.EnableStartSkip(false)
	d.Retrigger(audio, 440, 100, UnisonParams{Unison: 1, NoiseSeed: 9})
	d.SetNoiseSeed(42)

	out := make([]float64, 1000)
	assert.NotPanics(t, func() {
		d.Process(len(out), nil, out)
	})
	assert.GreaterOrEqual(t, d.TimeOffsetMs(), 0.0)
}

func TestLiveDecoderOriginalSamplesMode(t *testing.T) {
	audio := buildTestAudio(10)
	audio.OriginalSamples = make([]float32, 10000)
	for i := range audio.OriginalSamples {
		audio.OriginalSamples[i] = float32(i%50) / 50
	}

	d := NewLiveDecoder()
	d.EnableOriginalSamples(true)
	d.Retrigger(audio, 440, 100, UnisonParams{Unison: 1, NoiseSeed: 9})

	out := make([]float64, 1000)
	d.Process(len(out), nil, out)
	for _, v := range out {
		require.False(t, v != v)
	}
}

func TestLiveDecoderTimeBasedLoopTypesDoNotDegradeToNone(t *testing.T) {
	for _, lt := range []LoopType{LoopTimeForward, LoopTimePingPong} {
		audio := buildTestAudio(6)
		audio.LoopType = lt
		audio.LoopStart = 1
		audio.LoopEnd = 4

		d := NewLiveDecoder()
		d.Retrigger(audio, 440, 100, UnisonParams{Unison: 1, NoiseSeed: 9})

		out := make([]float64, 40000)
		assert.NotPanics(t, func() {
			d.Process(len(out), nil, out)
		})
		assert.False(t, d.Done(), "time-based loop %v should keep the voice alive past its source frames", lt)
	}
}

func TestLiveDecoderPerSamplePitchCurve(t *testing.T) {
	audio := buildTestAudio(80)
	d := NewLiveDecoder()
	d.Retrigger(audio, 440, 100, UnisonParams{Unison: 1, NoiseSeed: 9})

	n := 2000
	freqIn := make([]float64, n)
	for i := range freqIn {
		freqIn[i] = 440 + 110*float64(i)/float64(n)
	}
	out := make([]float64, n)
	assert.NotPanics(t, func() {
		d.Process(n, freqIn, out)
	})
}
