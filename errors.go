// errors.go defines public error types for the spectmorph package.

package spectmorph

import "errors"

// Public error types for encoding, loading and playback operations. The
// real-time decode path never returns any of these: per spec it degrades
// to silence and reports Done() instead (see decode package).
var (
	// ErrUnsupportedWindow indicates an encoder window name that does not
	// match any analytic window this engine implements.
	ErrUnsupportedWindow = errors.New("spectmorph: unsupported window")

	// ErrMissingFundamentalFreq indicates an encode request that needs a
	// fundamental frequency (e.g. for ifreq encoding) but was not given one.
	ErrMissingFundamentalFreq = errors.New("spectmorph: missing fundamental frequency")

	// ErrInvalidConfigKey indicates an unknown key in an EncoderParams
	// config file.
	ErrInvalidConfigKey = errors.New("spectmorph: invalid config key")

	// ErrInvalidLoopBounds indicates loop start/end indices that are out of
	// range for the frame or sample count they index into.
	ErrInvalidLoopBounds = errors.New("spectmorph: invalid loop bounds")

	// ErrNonMonotonePartials indicates an AudioBlock whose freqs are not
	// non-decreasing, rejected at load time per the model-invariant policy.
	ErrNonMonotonePartials = errors.New("spectmorph: partials not sorted by frequency")

	// ErrPartialLengthMismatch indicates an AudioBlock whose freqs and mags
	// slices differ in length, or whose phases slice is a non-matching
	// non-zero length.
	ErrPartialLengthMismatch = errors.New("spectmorph: freqs/mags/phases length mismatch")

	// ErrInvalidNoiseBandCount indicates an AudioBlock noise envelope whose
	// length is not exactly 32 bands.
	ErrInvalidNoiseBandCount = errors.New("spectmorph: noise envelope must have 32 bands")

	// ErrEmptyWavSet indicates a WavSet with no Tracksel entries, which
	// cannot be retriggered.
	ErrEmptyWavSet = errors.New("spectmorph: wav set has no tracksels")

	// ErrUnsupportedFFTSize indicates a transform length that does not
	// factor into 2, 3, 4 and 5, the only radices the FFT plan supports.
	ErrUnsupportedFFTSize = errors.New("spectmorph: unsupported fft size")
)
