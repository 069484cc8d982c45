// Package poly implements fractional-sample lookup from a finite signal: a
// high-quality windowed-sinc polyphase interpolator for the decode path,
// and a lightweight linear-interpolating resampler for offline preview
// tooling.
package poly

import (
	"math"
	"sync"

	"github.com/swesterfeld/spectmorph-sub000/window"
)

const (
	oversample = 64
	width      = 7
)

// Interpolator evaluates a band-limited reconstruction of a sampled signal
// at an arbitrary real-valued position, built from a single shared,
// precomputed coefficient table (the table depends only on width and
// oversample, never on the signal).
//
// The original engine ships this table as a generated constant array; the
// exact coefficients were not available to this implementation, so the
// table is generated on the first call to Shared from a Blackman-windowed sinc
// kernel of the same width and oversampling factor. This changes
// least-significant-bit behavior versus the original but preserves its
// algorithmic contract: width-7, 64x-oversampled, linearly interpolated
// between oversample steps.
type Interpolator struct {
	taps         []float64
	filterCenter int
}

var (
	shared     *Interpolator
	sharedOnce sync.Once
)

// Shared returns the process-wide Interpolator instance, built once.
func Shared() *Interpolator {
	sharedOnce.Do(func() {
		shared = newInterpolator()
	})
	return shared
}

func newInterpolator() *Interpolator {
	n := width*2*oversample + 1
	taps := make([]float64, n)
	center := n / 2

	for p := 0; p < n; p++ {
		t := float64(p-center) / oversample
		taps[p] = sinc(t) * window.BlackmanFunc(t/width)
	}

	return &Interpolator{taps: taps, filterCenter: center}
}

func sinc(t float64) float64 {
	if t == 0 {
		return 1
	}
	x := math.Pi * t
	return math.Sin(x) / x
}

func sig(signal []float32, pos int) float64 {
	if pos >= 0 && pos < len(signal) {
		return float64(signal[pos])
	}
	return 0
}

// GetSample returns the interpolated value of signal at the fractional
// position pos, zero-padding outside the signal's bounds.
func (ip *Interpolator) GetSample(signal []float32, pos float64) float64 {
	var ipos int
	if pos < 0 {
		ipos = int(pos - 1.0)
	} else {
		ipos = int(pos)
	}

	frac64 := int((pos - float64(ipos)) * oversample)
	xFrac := (pos-float64(ipos))*oversample - float64(frac64)

	result := 0.0
	j := -width
	p := ip.filterCenter + j*oversample - frac64
	for p < 0 {
		p += oversample
		j++
	}
	if p == 0 {
		result += sig(signal, ipos+j) * ip.taps[p] * (1 - xFrac)
		p += oversample
		j++
	}
	for p < len(ip.taps) {
		interX := ip.taps[p]*(1-xFrac) + ip.taps[p-1]*xFrac
		result += sig(signal, ipos+j) * interX
		p += oversample
		j++
	}
	return result
}

// GetSample interpolates signal at pos using the shared process-wide
// Interpolator, the entry point the decode path calls.
func GetSample(signal []float32, pos float64) float64 {
	return Shared().GetSample(signal, pos)
}
