package spectmorph

import "fmt"

// LoopType selects how a LiveDecoder folds frame or sample indices once it
// reaches the end of an Audio's content, for sustaining a note past the
// length of the recording it was built from.
type LoopType int

const (
	LoopNone LoopType = iota
	LoopFrameForward
	LoopFramePingPong
	LoopTimeForward
	LoopTimePingPong
)

// AudioBlock is one analysis frame: quantized sine partials plus a 32-band
// mel noise envelope. Freqs are stored relative to the fundamental and
// sorted ascending.
type AudioBlock struct {
	Freqs  []uint16 // ifreq, relative to fundamental
	Mags   []uint16 // idb
	Phases []uint16 // optional; empty or same length as Freqs
	Noise  [32]uint16

	// Env and EnvF0 optionally carry a linearly-interpolated spectral
	// envelope for formant correction; Env is empty when not present.
	Env   []float64
	EnvF0 float64
}

// Validate checks the invariants spec §8 requires of every frame: equal
// freqs/mags length, phases empty or matching, and non-decreasing freqs.
func (b *AudioBlock) Validate() error {
	if len(b.Freqs) != len(b.Mags) {
		return fmt.Errorf("%w: freqs=%d mags=%d", ErrPartialLengthMismatch, len(b.Freqs), len(b.Mags))
	}
	if len(b.Phases) != 0 && len(b.Phases) != len(b.Freqs) {
		return fmt.Errorf("%w: phases=%d freqs=%d", ErrPartialLengthMismatch, len(b.Phases), len(b.Freqs))
	}
	for i := 1; i < len(b.Freqs); i++ {
		if b.Freqs[i] < b.Freqs[i-1] {
			return fmt.Errorf("%w: at index %d", ErrNonMonotonePartials, i)
		}
	}
	return nil
}

// Audio is one recorded/synthesized sample: a fundamental frequency, a mix
// (sample) rate, and an ordered sequence of AudioBlock frames, plus the
// parameters a LiveDecoder needs to retrigger and render it.
type Audio struct {
	FundamentalFreq   float64
	MixFreq           float64
	SampleCount       int
	ZeroValuesAtStart int

	FrameSizeMs float64
	FrameStepMs float64
	Zeropad     int

	AttackStartMs float64
	AttackEndMs   float64

	LoopType  LoopType
	LoopStart int
	LoopEnd   int

	OriginalSamples       []float32
	OriginalSamplesNormDb float64

	Contents []AudioBlock
}

// Validate checks the Audio-level invariants from spec §3/§8: frame loop
// bounds within range, and every contained AudioBlock individually valid.
func (a *Audio) Validate() error {
	if a.LoopType == LoopFrameForward || a.LoopType == LoopFramePingPong {
		if a.LoopStart < 0 || a.LoopStart > a.LoopEnd || a.LoopEnd >= len(a.Contents) {
			return fmt.Errorf("%w: start=%d end=%d frames=%d", ErrInvalidLoopBounds, a.LoopStart, a.LoopEnd, len(a.Contents))
		}
	}
	for i := range a.Contents {
		if err := a.Contents[i].Validate(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

// FrameStep returns the decoder's frame step in samples at the Audio's own
// mix rate.
func (a *Audio) FrameStep() int {
	return int(a.FrameStepMs * a.MixFreq / 1000.0)
}
