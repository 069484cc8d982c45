package sfmath

import "math"

// SinTableSize is the number of entries in the coarse sin/cos phase tables.
// i represents a fraction i/SinTableSize of a full 2*pi rotation.
const SinTableSize = 256

var (
	intSin [SinTableSize]float64
	intCos [SinTableSize]float64
)

func init() {
	for i := 0; i < SinTableSize; i++ {
		phase := 2 * math.Pi * float64(i) / SinTableSize
		intSin[i] = math.Sin(phase)
		intCos[i] = math.Cos(phase)
	}
}

// IntSin returns the micro-table sine value for phase fraction i (mod 256).
func IntSin(i int) float64 {
	return intSin[i&(SinTableSize-1)]
}

// IntCos returns the micro-table cosine value for phase fraction i (mod 256).
func IntCos(i int) float64 {
	return intCos[i&(SinTableSize-1)]
}

// VectorSinMode selects whether FastVectorSin/FastVectorSinCos overwrite or
// accumulate into the destination buffer.
type VectorSinMode int

const (
	VectorSinReplace VectorSinMode = iota
	VectorSinAdd
)

// fastVectorRecurrence advances a complex rotor (re, im) step by step,
// re-seeding it from math.Sincos every 256 samples to bound the
// accumulated phase error of the incremental complex multiply. This
// mirrors SpectMorph's fast_vector_sin reseed-every-256-samples scheme.
type fastVectorRecurrence struct {
	re, im         float64
	incRe, incIm   float64
	phaseInc       float64
	basePhase      float64
	mag            float64
	n              int
}

func newFastVectorRecurrence(freq, mixFreq, phase, mag float64) *fastVectorRecurrence {
	phaseInc := freq / mixFreq * 2 * math.Pi
	im, re := math.Sincos(phase)
	return &fastVectorRecurrence{
		re:        re * mag,
		im:        im * mag,
		incRe:     math.Cos(phaseInc),
		incIm:     math.Sin(phaseInc),
		phaseInc:  phaseInc,
		basePhase: phase,
		mag:       mag,
	}
}

func (f *fastVectorRecurrence) next() (im, re float64) {
	im, re = f.im, f.re
	f.n++
	if f.n&255 == 255 {
		sinP, cosP := math.Sincos(f.phaseInc*float64(f.n) + f.basePhase)
		f.re = cosP * f.mag
		f.im = sinP * f.mag
	} else {
		nre := f.re*f.incRe - f.im*f.incIm
		nim := f.re*f.incIm + f.im*f.incRe
		f.re, f.im = nre, nim
	}
	return im, re
}

// FastVectorSin writes (mode==Replace) or accumulates (mode==Add) mag *
// sin(phase + 2*pi*freq/mixFreq*n) into dst, for n = 0..len(dst)-1.
func FastVectorSin(dst []float64, mixFreq, freq, phase, mag float64, mode VectorSinMode) {
	r := newFastVectorRecurrence(freq, mixFreq, phase, mag)
	for i := range dst {
		im, _ := r.next()
		if mode == VectorSinReplace {
			dst[i] = im
		} else {
			dst[i] += im
		}
	}
}

// FastVectorSinCos is like FastVectorSin but also produces the matching
// cosine wave into cosDst, amortizing the complex rotor across both.
func FastVectorSinCos(sinDst, cosDst []float64, mixFreq, freq, phase, mag float64, mode VectorSinMode) {
	r := newFastVectorRecurrence(freq, mixFreq, phase, mag)
	n := len(sinDst)
	if len(cosDst) < n {
		n = len(cosDst)
	}
	for i := 0; i < n; i++ {
		im, re := r.next()
		if mode == VectorSinReplace {
			sinDst[i] = im
			cosDst[i] = re
		} else {
			sinDst[i] += im
			cosDst[i] += re
		}
	}
}
