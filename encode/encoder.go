// Package encode implements the offline analysis pipeline that turns a
// mono sample sequence into a spectmorph.Audio: STFT-based peak picking,
// frame-to-frame partial linking, spectral subtraction and a 32-band mel
// noise envelope, quantized into AudioBlocks.
package encode

import (
	"math"

	"github.com/swesterfeld/spectmorph-sub000/noise"
	"github.com/swesterfeld/spectmorph-sub000/rng"
	"github.com/swesterfeld/spectmorph-sub000/sfft"
	"github.com/swesterfeld/spectmorph-sub000/sfmath"
	"github.com/swesterfeld/spectmorph-sub000/window"
	spectmorph "github.com/swesterfeld/spectmorph-sub000"
)

// OptLevel selects how much refinement Encode applies to the peaks it
// finds before quantizing them.
type OptLevel int

const (
	OptNone OptLevel = iota
	OptFast
	OptFull
)

// Config holds the per-call tunables spec §4.4 lists; FundamentalFreq and
// MixFreq are mandatory, everything else has the teacher-idiomatic zero
// value as a sane default.
type Config struct {
	FundamentalFreq float64
	MixFreq         float64

	Window      window.Type
	FrameSizeMs float64
	FrameStepMs float64
	Zeropad     int

	Opt         OptLevel
	Attack      bool
	TrackSines  bool

	AttackSeed uint32
}

// DefaultConfig returns a Config with the window, frame sizing and
// zeropad spec §4.4 assumes when the caller has no opinion.
func DefaultConfig(fundamentalFreq, mixFreq float64) Config {
	return Config{
		FundamentalFreq: fundamentalFreq,
		MixFreq:         mixFreq,
		Window:          window.BlackmanHarris92,
		FrameSizeMs:     40,
		FrameStepMs:     4,
		Zeropad:         4,
		Opt:             OptFast,
		Attack:          true,
		AttackSeed:      0x5350_4d01,
	}
}

// Encode runs the full analysis pipeline over samples (mono, in [-1, 1])
// and returns the resulting Audio.
func Encode(samples []float32, cfg Config) (*spectmorph.Audio, error) {
	frameSize := msToSamples(cfg.FrameSizeMs, cfg.MixFreq)
	frameStep := msToSamples(cfg.FrameStepMs, cfg.MixFreq)
	blockSize := nextSmoothSize(frameSize * cfg.Zeropad)

	if err := sfft.Prepare(blockSize); err != nil {
		return nil, err
	}

	win := make([]float64, frameSize)
	window.Centered(cfg.Window, frameSize, win)
	windowSum := window.Sum(win)

	padded := prependZeros(samples, frameSize, frameStep)

	nFrames := 0
	if len(padded) >= frameSize {
		nFrames = (len(padded)-frameSize)/frameStep + 1
	}

	peaksByFrame := make([][]peak, nFrames)
	for f := 0; f < nFrames; f++ {
		spectrum := stftFrame(padded, f*frameStep, frameSize, blockSize, win)
		peaksByFrame[f] = findPeaks(spectrum, blockSize, frameSize, cfg.MixFreq, windowSum)
	}

	chains := validateChains(linkPartials(peaksByFrame))

	partialsByFrame := make([][]framePartial, nFrames)
	for _, c := range chains {
		for i, p := range c.peaks {
			f := c.startFrame + i
			if f >= nFrames {
				break
			}
			partialsByFrame[f] = append(partialsByFrame[f], framePartial{p.freq, p.mag, p.phase})
		}
	}

	noisePartition := noise.NewPartition(blockSize+2, cfg.MixFreq)

	contents := make([]spectmorph.AudioBlock, nFrames)
	for f := 0; f < nFrames; f++ {
		spectrum := stftFrame(padded, f*frameStep, frameSize, blockSize, win)
		subtractSineModel(spectrum, partialsByFrame[f], blockSize, cfg.MixFreq, win)

		noiseEnv := computeNoiseEnvelope(spectrum, noisePartition, blockSize, cfg.MixFreq, windowSum)

		ps := partialsByFrame[f]
		sortByFreq(ps)

		freqs := make([]uint16, 0, len(ps))
		mags := make([]uint16, 0, len(ps))
		phases := make([]uint16, 0, len(ps))
		for _, p := range ps {
			if p.mag <= 0 {
				continue
			}
			relFreq := p.freq / cfg.FundamentalFreq
			ifreq := sfmath.Freq2IFreq(relFreq)

			qfreq := sfmath.IFreq2Freq(ifreq) * cfg.FundamentalFreq
			phase := p.phase - 2*math.Pi*qfreq/cfg.MixFreq*float64(frameSize-1)/2
			phase = wrapPhase(phase)

			freqs = append(freqs, ifreq)
			mags = append(mags, sfmath.Factor2IDB(p.mag))
			phases = append(phases, sfmath.Phase2IPhase(phase))
		}

		var noiseArr [32]uint16
		copy(noiseArr[:], noiseEnv)

		contents[f] = spectmorph.AudioBlock{
			Freqs:  freqs,
			Mags:   mags,
			Phases: phases,
			Noise:  noiseArr,
		}
	}

	audio := &spectmorph.Audio{
		FundamentalFreq:   cfg.FundamentalFreq,
		MixFreq:           cfg.MixFreq,
		SampleCount:       len(samples),
		ZeroValuesAtStart: len(padded) - len(samples),
		FrameSizeMs:       cfg.FrameSizeMs,
		FrameStepMs:       cfg.FrameStepMs,
		Zeropad:           cfg.Zeropad,
		LoopType:          spectmorph.LoopNone,
		LoopStart:         -1,
		LoopEnd:           -1,
		Contents:          contents,
	}

	if cfg.Attack {
		optimizeAttack(audio, padded, frameSize, frameStep, win, cfg.AttackSeed)
	}

	return audio, nil
}

// nextSmoothSize returns the smallest integer >= n whose only prime
// factors are 2, 3 and 5, matching sfft's supported transform sizes.
func nextSmoothSize(n int) int {
	if n < 1 {
		n = 1
	}
	for {
		m := n
		for m%5 == 0 {
			m /= 5
		}
		for m%3 == 0 {
			m /= 3
		}
		for m%2 == 0 {
			m /= 2
		}
		if m == 1 {
			return n
		}
		n++
	}
}

func msToSamples(ms, mixFreq float64) int {
	n := int(math.Round(ms * mixFreq / 1000.0))
	if n < 1 {
		n = 1
	}
	return n
}

// prependZeros inserts frame_size - frame_step/2 leading zeros so the
// first frame's centre aligns to t=0, per spec §4.4 step 1.
func prependZeros(samples []float32, frameSize, frameStep int) []float32 {
	lead := frameSize - frameStep/2
	if lead < 0 {
		lead = 0
	}
	out := make([]float32, lead+len(samples))
	copy(out[lead:], samples)
	return out
}

// stftFrame windows frameSize samples starting at offset, odd-centers
// them into a blockSize FFT input buffer (wrapping the back half to the
// front, the standard zero-phase windowing trick) and forward-transforms,
// per spec §4.4 step 2.
func stftFrame(samples []float32, offset, frameSize, blockSize int, win []float64) []float64 {
	fftIn := make([]float64, blockSize)
	half := frameSize / 2
	for i := 0; i < frameSize; i++ {
		idx := offset + i
		var s float64
		if idx >= 0 && idx < len(samples) {
			s = float64(samples[idx])
		}
		v := s * win[i]
		if i < half {
			fftIn[blockSize-half+i] = v
		} else {
			fftIn[i-half] = v
		}
	}
	spectrum := make([]float64, blockSize)
	_ = sfft.FFTARFloat(blockSize, fftIn, spectrum)
	return spectrum
}

// framePartial is one linked partial's sample within a single frame.
type framePartial struct {
	freq, mag, phase float64
}

func sortByFreq(ps []framePartial) {
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0 && ps[j].freq < ps[j-1].freq; j-- {
			ps[j], ps[j-1] = ps[j-1], ps[j]
		}
	}
}

// rngForAttack is the PCG32 generator used by optimizeAttack, seeded fixed
// per Config.AttackSeed for deterministic output across runs.
func rngForAttack(seed uint32) *rng.Random {
	return rng.NewRandom(seed)
}
