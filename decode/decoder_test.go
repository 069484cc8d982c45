package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineFrame(freqRel, mag float64, noiseLevel uint16) SourceFrame {
	f := SourceFrame{
		Freqs: []uint16{freqToIFreq(freqRel)},
		Mags:  []uint16{magToIDB(mag)},
	}
	for i := range f.Noise {
		f.Noise[i] = noiseLevel
	}
	return f
}

// freqToIFreq and magToIDB build fixture values only; they do not invert the
// quantization formulas. freqToIFreq is linear in relFreq (0 gives 18000,
// the fundamental), and magToIDB returns a fixed +31.25 dB for any mag > 0.
func freqToIFreq(relFreq float64) uint16 {
	const zero = 18000
	const scale = 6000.0
	v := zero + relFreq*scale
	if v < 0 {
		v = 0
	}
	if v > 65535 {
		v = 65535
	}
	return uint16(v)
}

func magToIDB(mag float64) uint16 {
	const zero = 512 * 64
	if mag <= 0 {
		return 0
	}
	v := zero + 2000
	if v > 65535 {
		v = 65535
	}
	return uint16(v)
}

func newTestAudio(nFrames int) *SourceAudio {
	frames := make([]SourceFrame, nFrames)
	for i := range frames {
		frames[i] = sineFrame(0, 1.0, 0)
	}
	return &SourceAudio{
		FundamentalFreq: 440,
		MixFreq:         48000,
		FrameStepMs:     4,
		AttackStartMs:   0,
		AttackEndMs:     0,
		LoopType:        0,
		LoopStart:       -1,
		LoopEnd:         -1,
		Frames:          frames,
	}
}

func TestRetriggerAndProcessProducesFiniteOutput(t *testing.T) {
	audio := newTestAudio(50)
	d := New()
	d.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 1, NoiseSeed: 7})

	out := make([]float64, 2000)
	d.Process(len(out), nil, out)

	for _, v := range out {
		require.False(t, v != v, "output contains NaN")
	}
}

func TestProcessIsDeterministicWithFixedNoiseSeed(t *testing.T) {
	audio := newTestAudio(50)

	run := func() []float64 {
		d := New()
		d.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 1, NoiseSeed: 99})
		out := make([]float64, 1000)
		d.Process(len(out), nil, out)
		return out
	}

	assert.Equal(t, run(), run())
}

func TestDoneTransitionsAfterNonLoopedFramesExhausted(t *testing.T) {
	audio := newTestAudio(4)
	d := New()
	d.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 1, NoiseSeed: 1})

	out := make([]float64, 20000)
	d.Process(len(out), nil, out)

	assert.True(t, d.state == AlmostDone || d.state == Done)
}

func TestUnisonReplicatesVoicesWithoutPanicking(t *testing.T) {
	audio := newTestAudio(30)
	d := New()
	d.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 3, DetuneCents: 10, NoiseSeed: 3})

	out := make([]float64, 2000)
	assert.NotPanics(t, func() {
		d.Process(len(out), nil, out)
	})
}

func TestProcessWithPerSamplePitchCurveTracksPortamento(t *testing.T) {
	audio := newTestAudio(80)
	d := New()
	d.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 1, NoiseSeed: 11})

	n := 4000
	freqIn := make([]float64, n)
	for i := range freqIn {
		freqIn[i] = 440 + 220*float64(i)/float64(n) // ramp up toward 660Hz
	}
	out := make([]float64, n)

	assert.NotPanics(t, func() {
		d.Process(n, freqIn, out)
	})
	for _, v := range out {
		require.False(t, v != v, "portamento output contains NaN")
	}
}

func TestProcessWithScalarFreqMatchesOriginalBlockGranularPath(t *testing.T) {
	audio := newTestAudio(50)

	run := func(freqIn []float64) []float64 {
		d := New()
		d.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 1, NoiseSeed: 21})
		out := make([]float64, 1000)
		d.Process(len(out), freqIn, out)
		return out
	}

	assert.Equal(t, run(nil), run([]float64{440}))
}

func TestTimeForwardLoopKeepsRenderingPastSourceFrames(t *testing.T) {
	audio := newTestAudio(6)
	audio.LoopType = LoopTimeForward
	audio.LoopStart = 1
	audio.LoopEnd = 4

	d := New()
	d.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 1, NoiseSeed: 2})

	out := make([]float64, 40000)
	d.Process(len(out), nil, out)

	assert.Equal(t, Active, d.state)
}

func TestTimePingPongLoopKeepsRenderingPastSourceFrames(t *testing.T) {
	audio := newTestAudio(6)
	audio.LoopType = LoopTimePingPong
	audio.LoopStart = 1
	audio.LoopEnd = 4

	d := New()
	d.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 1, NoiseSeed: 2})

	out := make([]float64, 40000)
	d.Process(len(out), nil, out)

	assert.Equal(t, Active, d.state)
}

func TestEnableLoopFalseIgnoresLoopPointsAndFinishes(t *testing.T) {
	audio := newTestAudio(6)
	audio.LoopType = LoopTimeForward
	audio.LoopStart = 1
	audio.LoopEnd = 4

	d := New()
	d.EnableLoop(false)
	d.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 1, NoiseSeed: 2})

	out := make([]float64, 40000)
	d.Process(len(out), nil, out)

	assert.True(t, d.state == AlmostDone || d.state == Done)
}

func TestEnableNoiseAndEnableSinesCanBeDisabledIndependently(t *testing.T) {
	audio := newTestAudio(20)
	d := New()
	d.EnableNoise(false)
	d.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 1, NoiseSeed: 5})

	out := make([]float64, 1000)
	assert.NotPanics(t, func() {
		d.Process(len(out), nil, out)
	})

	d2 := New()
	d2.EnableSines(false)
	d2.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 1, NoiseSeed: 5})
	out2 := make([]float64, 1000)
	assert.NotPanics(t, func() {
		d2.Process(len(out2), nil, out2)
	})
}

func TestOriginalSamplesModeReadsThroughInterpolator(t *testing.T) {
	audio := newTestAudio(10)
	audio.OriginalSamples = make([]float32, 20000)
	for i := range audio.OriginalSamples {
		audio.OriginalSamples[i] = float32(i%100) / 100
	}

	d := New()
	d.EnableOriginalSamples(true)
	d.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 1, NoiseSeed: 6})

	out := make([]float64, 2000)
	d.Process(len(out), nil, out)

	nonZero := false
	for _, v := range out {
		require.False(t, v != v, "original-samples output contains NaN")
		if v != 0 {
			nonZero = true
		}
	}
	assert.True(t, nonZero, "expected original-samples playback to produce non-silent output")
}

func TestTimeOffsetMsAdvancesWithinAndAcrossProcessCalls(t *testing.T) {
	audio := newTestAudio(50)
	d := New()
	d.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 1, NoiseSeed: 8})

	out := make([]float64, 2000)
	d.Process(len(out), nil, out)
	first := d.TimeOffsetMs()
	assert.GreaterOrEqual(t, first, 0.0)

	d.Process(len(out), nil, out)
	second := d.TimeOffsetMs()
	assert.GreaterOrEqual(t, second, 0.0)
}

func TestSetNoiseSeedChangesSubsequentNoise(t *testing.T) {
	audio := newTestAudio(50)

	render := func(seed int) []float64 {
		d := New()
		d.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 1, NoiseSeed: 1})
		d.SetNoiseSeed(seed)
		out := make([]float64, 2000)
		d.Process(len(out), nil, out)
		return out
	}

	assert.NotEqual(t, render(1), render(2))
}
