package formant

import (
	"math"

	"github.com/swesterfeld/spectmorph-sub000/rng"
)

// Mode selects the formant correction strategy applied between a source
// frame and the decoder.
type Mode int

const (
	// Repitch is the identity transform: the decoder's own pitch argument
	// is all that's needed.
	Repitch Mode = iota
	// PreserveSpectralEnvelope rescales each partial's magnitude so the
	// block's spectral envelope shape survives a pitch change.
	PreserveSpectralEnvelope
	// HarmonicResynthesis discards the source partials entirely and places
	// fresh harmonics sampled from the envelope, with slow random detuning.
	HarmonicResynthesis
)

// Partials is a mutable, parallel-slice view of one frame's sine partials,
// shared by PreserveSpectralEnvelope (in place) and HarmonicResynthesis
// (fully replaced).
type Partials struct {
	Freqs []float64
	Mags  []float64
}

// PreserveSpectralEnvelope rescales each partial in p at frequency f by
// env(f*ratio)/env(f), truncating partials whose
// rescaled frequency exceeds maxPartials (expressed as a frequency bound),
// and renormalizes so total sine energy (sum of mag^2) is preserved.
func PreserveSpectralEnvelope(p *Partials, env *Envelope, ratio, maxPartialFreq float64) {
	energyBefore := sumSquares(p.Mags)

	freqs := p.Freqs[:0:0]
	mags := p.Mags[:0:0]
	for i, f := range p.Freqs {
		rescaled := f * ratio
		if rescaled > maxPartialFreq {
			continue
		}
		before := env.At(f)
		after := env.At(rescaled)
		scale := 1.0
		if before > 0 {
			scale = after / before
		}
		freqs = append(freqs, f)
		mags = append(mags, p.Mags[i]*scale)
	}
	p.Freqs = freqs
	p.Mags = mags

	energyAfter := sumSquares(p.Mags)
	if energyAfter > 0 {
		norm := math.Sqrt(energyBefore / energyAfter)
		for i := range p.Mags {
			p.Mags[i] *= norm
		}
	}
}

func sumSquares(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x * x
	}
	return sum
}

// FuzzyResynth holds the two detuning-factor sets HarmonicResynthesis
// crossfades between, and the state needed to keep drawing new targets.
type FuzzyResynth struct {
	random     *rng.Random
	cents      float64
	freqHz     float64 // crossfade rate, Hz
	phase      float64 // [0, 1)
	source     []float64
	target     []float64
}

// NewFuzzyResynth returns a FuzzyResynth that detunes up to +/- cents/2
// cents (clamped per-harmonic, see drawFactors) and crossfades between
// factor sets at freqHz, which must lie in [6, 10] per spec.
func NewFuzzyResynth(seed uint32, cents, freqHz float64) *FuzzyResynth {
	return &FuzzyResynth{random: rng.NewRandom(seed), cents: cents, freqHz: freqHz}
}

func (f *FuzzyResynth) ensureSized(n int) {
	if len(f.source) == n {
		return
	}
	f.source = f.drawFactors(n)
	f.target = f.drawFactors(n)
	f.phase = 0
}

func (f *FuzzyResynth) drawFactors(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		harmonic := i + 1
		maxDeviationCents := 50 * f.cents / float64(harmonic)
		bound := math.Min(f.cents/2, maxDeviationCents)
		centsOffset := f.random.DoubleRange(-bound, bound)
		out[i] = math.Pow(2, centsOffset/1200)
	}
	return out
}

// Advance moves the crossfade forward by dt seconds, drawing a new target
// set once the crossfade completes.
func (f *FuzzyResynth) Advance(dt float64) {
	if len(f.source) == 0 {
		return
	}
	f.phase += dt * f.freqHz
	if f.phase >= 1.0 {
		f.phase = 0
		f.source = f.target
		f.target = f.drawFactors(len(f.target))
	}
}

// Factor returns the current crossfaded detuning factor for harmonic index
// i (0-based), sizing the factor sets to n on first use.
func (f *FuzzyResynth) Factor(i, n int) float64 {
	f.ensureSized(n)
	return f.source[i]*(1-f.phase) + f.target[i]*f.phase
}

// HarmonicResynthesis replaces p's partials with min(round(maxPartials/ratio)+1, 1000)
// harmonics of envF0, each magnitude sampled from env at i*ratio and each
// frequency detuned by fuzzy's current crossfaded factor.
func HarmonicResynthesis(p *Partials, env *Envelope, envF0, ratio float64, maxPartials int, fuzzy *FuzzyResynth) {
	n := int(math.Round(float64(maxPartials)/ratio)) + 1
	if n > 1000 {
		n = 1000
	}
	if n < 0 {
		n = 0
	}

	freqs := make([]float64, n)
	mags := make([]float64, n)
	for i := 0; i < n; i++ {
		harmonic := float64(i + 1)
		detune := 1.0
		if fuzzy != nil {
			detune = fuzzy.Factor(i, n)
		}
		freqs[i] = harmonic * envF0 * detune
		mags[i] = env.At(harmonic * ratio)
	}
	p.Freqs = freqs
	p.Mags = mags
}
