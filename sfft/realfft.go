package sfft

import "fmt"

// Prepare pre-factorizes and caches an FFT plan for n so that later calls
// with that size never pay the factorization cost. Safe to call from any
// goroutine; intended to be called from non-RT setup code only.
func Prepare(n int) error {
	if getFFTState(n) == nil {
		return fmt.Errorf("sfft: size %d is not supported (must factor into 2, 3, 4, 5)", n)
	}
	return nil
}

// FFTAR is the real-to-complex forward transform. in must have length n;
// the result is written into out, which must have length n (see package
// doc for the packing convention).
func FFTAR(n int, in []float64, out []complex128) error {
	st := getFFTState(n)
	if st == nil {
		return fmt.Errorf("sfft: size %d is not supported (must factor into 2, 3, 4, 5)", n)
	}
	if len(in) < n || len(out) < n {
		return fmt.Errorf("sfft: buffer too small for size %d", n)
	}

	cin := NewComplexBuffer(n)
	for i := 0; i < n; i++ {
		cin[i] = complex(in[i], 0)
	}
	cout := NewComplexBuffer(n)
	forwardUnscaled(cout, cin, st)

	out[0] = complex(real(cout[0]), 0)
	out[1] = complex(real(cout[n/2]), 0)
	for k := 1; k < n/2; k++ {
		out[2*k] = complex(real(cout[k]), 0)
		out[2*k+1] = complex(imag(cout[k]), 0)
	}
	return nil
}

// FFTARFloat writes the packed real-FFT output into a flat []float64
// (out[0]=DC, out[1]=Nyquist, out[2:n] interleaved re/im), the layout
// AudioBlock encoding and the IFFT synthesizer both expect directly.
func FFTARFloat(n int, in []float64, out []float64) error {
	st := getFFTState(n)
	if st == nil {
		return fmt.Errorf("sfft: size %d is not supported (must factor into 2, 3, 4, 5)", n)
	}
	if len(in) < n || len(out) < n {
		return fmt.Errorf("sfft: buffer too small for size %d", n)
	}

	cin := NewComplexBuffer(n)
	for i := 0; i < n; i++ {
		cin[i] = complex(in[i], 0)
	}
	cout := NewComplexBuffer(n)
	forwardUnscaled(cout, cin, st)

	out[0] = real(cout[0])
	out[1] = real(cout[n/2])
	for k := 1; k < n/2; k++ {
		out[2*k] = real(cout[k])
		out[2*k+1] = imag(cout[k])
	}
	return nil
}

// FFTSR is the half-complex-to-real inverse transform, the counterpart of
// FFTARFloat. in is the packed spectrum (length n), out receives n real
// samples.
func FFTSR(n int, in []float64, out []float64) error {
	tmp := make([]float64, n)
	copy(tmp, in)
	return FFTSRDestructive(n, tmp, out)
}

// FFTSRDestructive is like FFTSR but is allowed to overwrite in, avoiding
// an extra copy on the decoder's hot path.
func FFTSRDestructive(n int, in []float64, out []float64) error {
	st := getFFTState(n)
	if st == nil {
		return fmt.Errorf("sfft: size %d is not supported (must factor into 2, 3, 4, 5)", n)
	}
	if len(in) < n || len(out) < n {
		return fmt.Errorf("sfft: buffer too small for size %d", n)
	}

	cin := NewComplexBuffer(n)
	cin[0] = complex(in[0], 0)
	cin[n/2] = complex(in[1], 0)
	for k := 1; k < n/2; k++ {
		re := in[2*k]
		im := in[2*k+1]
		cin[k] = complex(re, im)
		cin[n-k] = complex(re, -im)
	}

	cout := NewComplexBuffer(n)
	st.inverse(cin, cout)
	for i := 0; i < n; i++ {
		out[i] = real(cout[i]) * st.scale
	}
	return nil
}

// FFTAC is the complex-to-complex forward transform.
func FFTAC(n int, in, out []complex128) error {
	st := getFFTState(n)
	if st == nil {
		return fmt.Errorf("sfft: size %d is not supported (must factor into 2, 3, 4, 5)", n)
	}
	st.forward(in, out)
	return nil
}

// FFTSC is the complex-to-complex backward (inverse) transform. The output
// is NOT divided by n, matching the forward/backward pairing used
// internally by fftState (forward applies 1/n, backward does not, so
// FFTSC(FFTAC(x)) == x).
func FFTSC(n int, in, out []complex128) error {
	st := getFFTState(n)
	if st == nil {
		return fmt.Errorf("sfft: size %d is not supported (must factor into 2, 3, 4, 5)", n)
	}
	st.inverse(in, out)
	return nil
}
