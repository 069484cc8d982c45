package sfmath

import "math"

// FastLog2 approximates log2(x) for x in [1e-7, 1] (and beyond) to within
// 3.8e-6 absolute error, by extracting the binary exponent and fitting a
// degree-6 polynomial to the mantissa shifted into [1, 2). No other package
// in this module calls it.
func FastLog2(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}

	frac, exp := math.Frexp(x)
	// Frexp returns frac in [0.5, 1); shift into [1, 2) and adjust exponent.
	m := frac * 2
	e := float64(exp - 1)

	// Degree-6 minimax-style polynomial fit of log2(m) for m in [1, 2),
	// chosen so that log2 is exact at m == 1 and m == 2.
	t := m - 1
	poly := t * (1.4425449435850350 + t*(-0.7181452566288112+
		t*(0.4575491964395010+t*(-0.2779053437697981+
			t*(0.1217979099932149+t*(-0.0258414496191415))))))

	return e + poly
}

// FastLog2Block applies FastLog2 to every element of xs, writing into out.
func FastLog2Block(xs []float64, out []float64) {
	for i, x := range xs {
		out[i] = FastLog2(x)
	}
}
