package spectmorph

import (
	"github.com/swesterfeld/spectmorph-sub000/decode"
)

// LiveDecoder renders one voice of an Audio (or the best-matching Tracksel
// of a WavSet) in real time. It's a thin adapter from the public Audio model
// to the decode package's RT-safe core, converted once at Retrigger and
// never again on the audio thread.
type LiveDecoder struct {
	core *decode.Decoder
}

// NewLiveDecoder returns an idle LiveDecoder; call Retrigger before Process.
func NewLiveDecoder() *LiveDecoder {
	return &LiveDecoder{core: decode.New()}
}

// UnisonParams configures optional unison detuning and vibrato, applied on
// top of whichever Audio a Retrigger call selects.
type UnisonParams struct {
	Unison            int
	DetuneCents       float64
	VibratoDepthCents float64
	VibratoFreqHz     float64
	VibratoAttackMs   float64
	NoiseSeed         int
}

// Retrigger starts a new note directly from an Audio.
func (d *LiveDecoder) Retrigger(audio *Audio, freq float64, midiVelocity int, up UnisonParams) {
	d.core.Retrigger(toSourceAudio(audio), decode.VoiceParams{
		Freq:              freq,
		MidiVelocity:      midiVelocity,
		MixFreq:           audio.MixFreq,
		Unison:            up.Unison,
		DetuneCents:       up.DetuneCents,
		VibratoDepthCents: up.VibratoDepthCents,
		VibratoFreqHz:     up.VibratoFreqHz,
		VibratoAttackMs:   up.VibratoAttackMs,
		NoiseSeed:         up.NoiseSeed,
	})
}

// RetriggerFromWavSet selects the closest-matching Tracksel via
// WavSet.BestMatch and retriggers it.
func (d *LiveDecoder) RetriggerFromWavSet(w *WavSet, channel int, freq float64, velocity int, up UnisonParams) error {
	audio, err := w.BestMatch(channel, freq, velocity)
	if err != nil {
		return err
	}
	d.Retrigger(audio, freq, velocity, up)
	return nil
}

// Process renders nValues samples into out. freqIn is this call's pitch
// curve: nil or empty keeps the current pitch, a single value is a
// block-granular pitch update, and a value per output sample drives
// sample-accurate portamento tracking (see decode.Decoder.Process).
func (d *LiveDecoder) Process(nValues int, freqIn []float64, out []float64) {
	d.core.Process(nValues, freqIn, out)
}

// Done reports whether the voice has finished playing and may be freed.
func (d *LiveDecoder) Done() bool {
	return d.core.Done()
}

// TimeOffsetMs returns the offset, in milliseconds, of the most recently
// rendered frame's position within the current (or most recent) Process
// call.
func (d *LiveDecoder) TimeOffsetMs() float64 {
	return d.core.TimeOffsetMs()
}

// EnableNoise toggles the noise-envelope contribution to rendered blocks.
func (d *LiveDecoder) EnableNoise(enable bool) { d.core.EnableNoise(enable) }

// EnableSines toggles the sine-partial contribution to rendered blocks.
func (d *LiveDecoder) EnableSines(enable bool) { d.core.EnableSines(enable) }

// EnableOriginalSamples switches the voice between model-based synthesis
// and direct playback of the source's original recorded samples.
func (d *LiveDecoder) EnableOriginalSamples(enable bool) { d.core.EnableOriginalSamples(enable) }

// EnableLoop toggles whether the voice honors the source's loop points.
func (d *LiveDecoder) EnableLoop(enable bool) { d.core.EnableLoop(enable) }

// EnableStartSkip toggles the half-block lead-in skip applied at Retrigger
// to avoid a fade-in click.
func (d *LiveDecoder) EnableStartSkip(enable bool) { d.core.EnableStartSkip(enable) }

// SetNoiseSeed reseeds the running voice's noise generator.
func (d *LiveDecoder) SetNoiseSeed(seed int) { d.core.SetNoiseSeed(seed) }

// SetFilterCallback installs a callback invoked once per source frame
// crossing, letting a host resynchronize a per-voice filter.
func (d *LiveDecoder) SetFilterCallback(cb func(frameIdx int)) {
	d.core.FilterCallback = cb
}

func toSourceAudio(a *Audio) *decode.SourceAudio {
	frames := make([]decode.SourceFrame, len(a.Contents))
	for i, b := range a.Contents {
		frames[i] = decode.SourceFrame{
			Freqs:  b.Freqs,
			Mags:   b.Mags,
			Phases: b.Phases,
			Noise:  b.Noise,
		}
	}
	loopType := decode.LoopNone
	switch a.LoopType {
	case LoopFrameForward:
		loopType = decode.LoopFrameForward
	case LoopFramePingPong:
		loopType = decode.LoopFramePingPong
	case LoopTimeForward:
		loopType = decode.LoopTimeForward
	case LoopTimePingPong:
		loopType = decode.LoopTimePingPong
	}
	return &decode.SourceAudio{
		FundamentalFreq: a.FundamentalFreq,
		MixFreq:         a.MixFreq,
		FrameStepMs:     a.FrameStepMs,
		AttackStartMs:   a.AttackStartMs,
		AttackEndMs:     a.AttackEndMs,
		LoopType:        loopType,
		LoopStart:       a.LoopStart,
		LoopEnd:         a.LoopEnd,
		OriginalSamples: a.OriginalSamples,
		Frames:          frames,
	}
}
