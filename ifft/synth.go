package ifft

import (
	"math"

	"github.com/swesterfeld/spectmorph-sub000/sfft"
)

// WindowType selects what the output block is ultimately windowed with;
// BH92 needs no retargeting since that's what the table was built from.
type WindowType int

const (
	WinBlackmanHarris92 WindowType = iota
	WinHann
)

// OutputMode selects whether GetSamples overwrites or accumulates into the
// caller's buffer.
type OutputMode int

const (
	Replace OutputMode = iota
	Add
)

// Synth accumulates sine partials into a shared frequency-domain buffer for
// one audio block and renders them with a single inverse FFT. One Synth is
// owned per voice; the Table it reads is shared and read-only.
type Synth struct {
	blockSize     int
	mixFreq       float64
	table         *Table
	useWinScale   bool
	fftIn         []float64
	fftOut        []float64 // GetSamples scratch, preallocated to stay off the hot path
	freq256Factor float64
	magNorm       float64
}

// NewSynth returns a Synth for blockSize-sample blocks at mixFreq, windowed
// as winType.
func NewSynth(blockSize int, mixFreq float64, winType WindowType) *Synth {
	return &Synth{
		blockSize:     blockSize,
		mixFreq:       mixFreq,
		table:         GetTable(blockSize),
		useWinScale:   winType != WinBlackmanHarris92,
		fftIn:         make([]float64, blockSize),
		fftOut:        make([]float64, blockSize),
		freq256Factor: 1 / mixFreq * float64(blockSize) * zeroPadding,
		magNorm:       0.5 / float64(blockSize),
	}
}

// Clear zeroes the accumulated spectrum, preparing the Synth for the next
// block's partials.
func (s *Synth) Clear() {
	for i := range s.fftIn {
		s.fftIn[i] = 0
	}
}

// Spectrum exposes the block's packed real-spectrum buffer so callers (the
// noise decoder) can add their own contribution before the shared inverse
// FFT in GetSamples.
func (s *Synth) Spectrum() []float64 {
	return s.fftIn
}

// AddPartial accumulates one sine partial of frequency freq (Hz), linear
// magnitude mag and phase (radians) into the block's spectrum.
func (s *Synth) AddPartial(freq, mag, phase float64) {
	freq256 := int(math.Round(freq * s.freq256Factor))
	binCenter := freq256 >> 8
	freqFrac := freq256 & 0xff

	coeffs := &s.table.winTrans[freqFrac]
	c, sn := math.Cos(phase), math.Sin(phase)
	re, im := mag*c, mag*sn

	half := s.blockSize / 2
	for i := -partialRange; i <= partialRange; i++ {
		bin := binCenter + i
		coeff := coeffs[i+partialRange]
		if coeff == 0 {
			continue
		}
		s.accumulateBin(bin, half, coeff*re, coeff*im)
	}
}

// accumulateBin adds (re, im) into the packed spectrum at bin, mirroring
// around DC and Nyquist via conjugate symmetry for out-of-range bins (the
// partial's support overlaps into the mirrored side near block edges).
func (s *Synth) accumulateBin(bin, half int, re, im float64) {
	if bin < 0 {
		bin = -bin
		im = -im
	}
	if bin > half {
		bin = 2*half - bin
		im = -im
	}
	switch bin {
	case 0:
		s.fftIn[0] += re
	case half:
		s.fftIn[1] += re
	default:
		s.fftIn[2*bin] += re
		s.fftIn[2*bin+1] += im
	}
}

// GetSamples runs the inverse FFT over the accumulated spectrum and writes
// blockSize time-domain samples into samples, according to mode.
func (s *Synth) GetSamples(samples []float64, mode OutputMode) {
	fftOut := s.fftOut
	if err := sfft.FFTSRDestructive(s.blockSize, s.fftIn, fftOut); err != nil {
		panic(err)
	}

	if s.useWinScale {
		for i := range fftOut {
			fftOut[i] *= s.table.winScale[i]
		}
	}

	half := s.blockSize / 2
	switch mode {
	case Replace:
		copy(samples[:half], fftOut[half:])
		copy(samples[half:], fftOut[:half])
	case Add:
		for i := 0; i < half; i++ {
			samples[i] += fftOut[half+i]
			samples[half+i] += fftOut[i]
		}
	}
}

// QuantizedFreq returns the frequency AddPartial actually renders for freq
// after 256ths-of-a-bin quantization.
func (s *Synth) QuantizedFreq(freq float64) float64 {
	freq256 := math.Round(freq * s.freq256Factor)
	qfreq := freq256 / 256.0
	return qfreq / float64(s.blockSize) * s.mixFreq
}
