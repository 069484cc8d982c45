// Package sfft provides the real/complex FFT primitives the encoder and
// the live decoder build on: a real-input forward transform (fftar), a
// half-complex-to-real inverse transform (fftsr / fftsr_destructive), and
// complex-to-complex forward/backward transforms (fftac / fftsc).
//
// Packing convention for the real transforms matches the rest of the
// engine's storage format: for an N-sample real signal, the forward
// transform produces an N-float array where out[0] holds the DC bin (whose
// imaginary part is always zero) and out[1] holds the Nyquist bin (mix_freq
// / 2, also always real), freeing up slot 1 instead of wasting it. The
// remaining N/2-1 complex bins are packed as interleaved (re, im) pairs in
// out[2:N].
//
// Plans are cached per FFT size behind a mutex (see getFFTState) and are
// never constructed on the real-time decode path; callers that know their
// block sizes ahead of time should warm the cache once at startup via
// Prepare. ExportWisdom/ImportWisdom persist the set of prepared sizes so a
// process can skip the factorization step on the next run, mirroring the
// "wisdom" file convention without the full measured-plan machinery — this
// FFT is an unmeasured mixed-radix transform, so there's nothing to measure,
// only sizes to pre-factor.
package sfft

// FFTArrayPadding is the number of extra float64 slots callers should
// allocate beyond a real/complex buffer's logical length, for alignment
// headroom when buffers are handed to future SIMD-accelerated backends.
const FFTArrayPadding = 2

// NewRealBuffer allocates a real-valued scratch buffer of length n with
// FFTArrayPadding extra capacity, matching the alignment contract in
// spec §4.2.
func NewRealBuffer(n int) []float64 {
	return make([]float64, n, n+FFTArrayPadding)[:n]
}

// NewComplexBuffer allocates a complex scratch buffer of length n with
// FFTArrayPadding extra capacity.
func NewComplexBuffer(n int) []complex128 {
	return make([]complex128, n, n+FFTArrayPadding)[:n]
}
