// Package window implements the analytic window functions the encoder and
// the IFFT synthesizer evaluate over a centered x in [-1, 1] (0 outside
// that range), matching SpectMorph's own window definitions.
package window

import "math"

// Type selects one of the named window functions.
type Type int

const (
	Hann Type = iota
	Hamming
	Blackman
	BlackmanHarris92
)

// Blackman-Harris 92dB sidelobe coefficients.
const (
	bh92A0 = 0.35875
	bh92A1 = 0.48829
	bh92A2 = 0.14128
	bh92A3 = 0.01168
)

// Hann evaluates the von-Hann (raised cosine) window at x.
func HannFunc(x float64) float64 {
	if math.Abs(x) > 1 {
		return 0
	}
	return 0.5*math.Cos(x*math.Pi) + 0.5
}

// HammingFunc evaluates the Hamming window at x.
func HammingFunc(x float64) float64 {
	if math.Abs(x) > 1 {
		return 0
	}
	return 0.54 + 0.46*math.Cos(math.Pi*x)
}

// BlackmanFunc evaluates the three-term Blackman window at x.
func BlackmanFunc(x float64) float64 {
	if math.Abs(x) > 1 {
		return 0
	}
	return 0.42 + 0.5*math.Cos(math.Pi*x) + 0.08*math.Cos(2*math.Pi*x)
}

// BlackmanHarris92Func evaluates the four-term 92dB-sidelobe
// Blackman-Harris window at x.
func BlackmanHarris92Func(x float64) float64 {
	if math.Abs(x) > 1 {
		return 0
	}
	return bh92A0 + bh92A1*math.Cos(math.Pi*x) + bh92A2*math.Cos(2*math.Pi*x) + bh92A3*math.Cos(3*math.Pi*x)
}

// Eval evaluates the named window type at x in [-1, 1].
func Eval(t Type, x float64) float64 {
	switch t {
	case Hamming:
		return HammingFunc(x)
	case Blackman:
		return BlackmanFunc(x)
	case BlackmanHarris92:
		return BlackmanHarris92Func(x)
	default:
		return HannFunc(x)
	}
}

// ParseName maps the encoder's user-facing window name ("hann"/"cos",
// "hamming", "blackman", "blackman_harris_92") to a Type. ok is false for
// an unrecognized name, per the "unsupported window" input-validation
// error in spec §7.
func ParseName(name string) (Type, bool) {
	switch name {
	case "cos", "hann", "":
		return Hann, true
	case "hamming":
		return Hamming, true
	case "blackman":
		return Blackman, true
	case "blackman_harris_92":
		return BlackmanHarris92, true
	default:
		return 0, false
	}
}

// Centered fills dst[0:frameSize] with t evaluated over a centered frame,
// i.e. dst[i] = Eval(t, 2*i/(frameSize-1) - 1).
func Centered(t Type, frameSize int, dst []float64) {
	if frameSize <= 1 {
		for i := range dst[:frameSize] {
			dst[i] = 1
		}
		return
	}
	denom := float64(frameSize - 1)
	for i := 0; i < frameSize; i++ {
		x := 2*float64(i)/denom - 1
		dst[i] = Eval(t, x)
	}
}

// SumSquares returns sum(dst[i]^2) for a window already filled by Centered,
// used by the encoder's magnitude-normalization and noise-envelope steps.
func SumSquares(dst []float64) float64 {
	var sum float64
	for _, v := range dst {
		sum += v * v
	}
	return sum
}

// Sum returns sum(dst[i]), used by the encoder's "2 / sum(window)"
// magnitude normalization.
func Sum(dst []float64) float64 {
	var sum float64
	for _, v := range dst {
		sum += v
	}
	return sum
}
