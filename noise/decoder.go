package noise

import (
	"math"

	"github.com/swesterfeld/spectmorph-sub000/rng"
	"github.com/swesterfeld/spectmorph-sub000/sfft"
	"github.com/swesterfeld/spectmorph-sub000/sfmath"
	"github.com/swesterfeld/spectmorph-sub000/window"
)

// OutputMode selects how Decoder.Process combines its rendered spectrum
// with the caller's buffer.
type OutputMode int

const (
	// AddSpectrumBH92 adds the noise spectrum, convolved with a
	// Blackman-Harris-92 window kernel in the frequency domain, into an
	// existing packed spectrum (the common case: combined with IFFTSynth's
	// sine spectrum before one shared inverse FFT).
	AddSpectrumBH92 OutputMode = iota
	// SetSpectrumHann overwrites with a Hann-windowed spectrum instead of
	// adding.
	SetSpectrumHann
	// Replace performs its own inverse FFT, multiplies by a time-domain
	// Hann window and overwrites samples.
	Replace
	// Add is like Replace but adds into samples instead of overwriting.
	Add
	// DebugUnwindowed performs its own inverse FFT with no window applied,
	// for inspecting the raw reconstructed noise.
	DebugUnwindowed
)

// Decoder reconstructs a windowed spectral contribution from a quantized
// 32-band noise envelope, for one fixed block size and mix frequency.
type Decoder struct {
	mixFreq   float64
	blockSize int
	partition *Partition
	cosWindow []float64
	random    *rng.Random

	// spectrum, samples and windowResult are Process scratch, preallocated
	// so the Replace/Add/AddSpectrumBH92/SetSpectrumHann paths stay off the
	// allocator once a voice has been retriggered.
	spectrum     []float64
	samples      []float64
	windowResult []float64
}

// NewDecoder returns a Decoder for blockSize-sample blocks at mixFreq.
// blockSize must be a power of two.
func NewDecoder(mixFreq float64, blockSize int) *Decoder {
	cos := make([]float64, blockSize)
	for i := range cos {
		cos[i] = window.HannFunc(2*float64(i)/float64(blockSize) - 1)
	}

	return &Decoder{
		mixFreq:   mixFreq,
		blockSize: blockSize,
		partition: NewPartition(blockSize+2, mixFreq),
		cosWindow: cos,
		random:    rng.NewRandom(0),
		spectrum:     make([]float64, blockSize+2),
		samples:      make([]float64, blockSize),
		windowResult: make([]float64, blockSize),
	}
}

// SetSeed reseeds the decoder's PCG32 generator, giving bit-identical noise
// across runs for the same seed (spec §4.6, §8 determinism property).
func (d *Decoder) SetSeed(seed uint32) {
	d.random.SetSeed(seed)
}

// PreferredBlockSize returns the smallest power of two whose duration at
// mixFreq is at least 40ms.
func PreferredBlockSize(mixFreq float64) int {
	bs := 1
	for float64(bs)/mixFreq < 0.040 {
		bs *= 2
	}
	return bs
}

// Process dequantizes noiseEnvelope (32 mel bands) into a packed
// DC/Nyquist/re-im spectrum and combines it into out according to mode.
// When portamentoStretch > 1.01, every bin above blockSize/(2*stretch) is
// zeroed so that the stretched noise does not alias.
func (d *Decoder) Process(noiseEnvelope []uint16, out []float64, mode OutputMode, portamentoStretch float64) {
	norm := 0.5 * d.mixFreq * window.SumSquares(d.cosWindow)
	scale := math.Sqrt(norm)

	spectrum := d.spectrum
	d.envelopeToSpectrum(noiseEnvelope, spectrum, scale)

	if portamentoStretch > 1.01 {
		boundary := 2 * int(float64(d.blockSize/2)/portamentoStretch)
		for i := boundary; i < len(spectrum); i++ {
			spectrum[i] = 0
		}
	}

	switch mode {
	case AddSpectrumBH92:
		applyWindowFreqDomain(spectrum, out, bh92ConvKernel[:], true, d.windowResult)
	case SetSpectrumHann:
		applyWindowFreqDomain(spectrum, out, hannConvKernel[:], false, d.windowResult)
	case Replace, Add:
		samples := d.samples
		_ = sfft.FFTSRDestructive(d.blockSize, spectrum, samples)
		for i := range samples {
			samples[i] *= d.cosWindow[i]
		}
		if mode == Replace {
			copy(out, samples)
		} else {
			for i := range samples {
				out[i] += samples[i]
			}
		}
	case DebugUnwindowed:
		_ = sfft.FFTSRDestructive(d.blockSize, spectrum, out[:d.blockSize])
	}
}

// envelopeToSpectrum distributes each band's dequantized magnitude over its
// member bins with a uniformly random phase, per spec §4.6 step 1.
func (d *Decoder) envelopeToSpectrum(noiseEnvelope []uint16, spectrum []float64, scale float64) {
	nBins := d.blockSize/2 + 1
	for k := 0; k < nBins; k++ {
		band := d.partition.BandOfBin(k)
		mag := sfmath.IDB2Factor(noiseEnvelope[band]) * scale

		switch k {
		case 0:
			spectrum[0] = mag * d.sign()
		case nBins - 1:
			spectrum[1] = mag * d.sign()
		default:
			c := d.random.UnitComplex()
			spectrum[2*k] = mag * real(c)
			spectrum[2*k+1] = mag * imag(c)
		}
	}
}

func (d *Decoder) sign() float64 {
	if d.random.DoubleRange(0, 1) < 0.5 {
		return -1
	}
	return 1
}

// bh92ConvKernel holds the frequency-domain convolution coefficients for a
// Blackman-Harris-92 window: a0, a1/2, a2/2, a3/2.
var bh92ConvKernel = [4]float64{0.35875, 0.244145, 0.07064, 0.00584}

// hannConvKernel holds the same coefficients for a Hann window: a0, a1/2.
var hannConvKernel = [2]float64{0.5, 0.25}

// extend mirrors the half-complex spectrum's conjugate symmetry so that
// bins just outside [0, blockSize] can be referenced by the convolution
// below without bounds checks. idx is offset in real/imag pairs from the
// start of spectrum; spectrum has layout [DC, Nyquist, re1, im1, re2, im2, ...].
func extend(spectrum []float64, blockSize, i int) (re, im float64) {
	// i is a raw index into a virtual array of length blockSize+2 where
	// index 1 holds the Nyquist bin (spectrum[1]) and the DC/Nyquist bins
	// are purely real. Negative and >blockSize indices mirror with a sign
	// flip on the imaginary part, matching real-FFT conjugate symmetry.
	if i < 0 {
		re, im = extend(spectrum, blockSize, -i)
		return re, -im
	}
	if i > blockSize {
		re, im = extend(spectrum, blockSize, 2*blockSize-i)
		return re, -im
	}
	switch i {
	case 0:
		return spectrum[0], 0
	case blockSize:
		return spectrum[1], 0
	default:
		return spectrum[2*i], spectrum[2*i+1]
	}
}

// applyWindowFreqDomain convolves spectrum with a small symmetric window
// kernel (the frequency-domain equivalent of multiplying by the window in
// the time domain before an inverse FFT) and writes the result into dst in
// the same packed layout, either adding to or overwriting dst's contents.
// result is caller-owned scratch of length blockSize, reused across calls to
// keep this off the allocator on the decode hot path.
func applyWindowFreqDomain(spectrum []float64, dst []float64, kernel []float64, add bool, result []float64) {
	blockSize := len(spectrum) - 2
	nBins := blockSize/2 + 1

	for k := 0; k < nBins; k++ {
		var outRe, outIm float64
		for j := 0; j < len(kernel); j++ {
			reP, imP := extend(spectrum, blockSize, k+j)
			reM, imM := extend(spectrum, blockSize, k-j)
			w := kernel[j]
			if j == 0 {
				outRe += w * reP
				outIm += w * imP
			} else {
				outRe += w * (reP + reM)
				outIm += w * (imP + imM)
			}
		}
		switch k {
		case 0:
			result[0] = outRe
		case nBins - 1:
			result[1] = outRe
		default:
			result[2*k] = outRe
			result[2*k+1] = outIm
		}
	}

	if add {
		for i := range result {
			dst[i] += result[i]
		}
	} else {
		copy(dst, result)
	}
}
