package encode

import (
	"math"

	"github.com/swesterfeld/spectmorph-sub000/noise"
	"github.com/swesterfeld/spectmorph-sub000/sfft"
	"github.com/swesterfeld/spectmorph-sub000/sfmath"
)

// subtractSineModel synthesizes the linked partials in the time domain,
// windows and transforms them, then subtracts the sine model's magnitude
// from spectrum bin by bin (clamped at zero), preserving spectrum's phase,
// per spec §4.4 step 7. spectrum is modified in place.
func subtractSineModel(spectrum []float64, partials []framePartial, blockSize int, mixFreq float64, win []float64) {
	if len(partials) == 0 {
		return
	}

	frameSize := len(win)
	half := frameSize / 2
	synth := make([]float64, blockSize)
	for i := 0; i < frameSize; i++ {
		var s float64
		for _, p := range partials {
			phase := p.phase + 2*math.Pi*p.freq/mixFreq*float64(i)
			s += p.mag * math.Sin(phase)
		}
		v := s * win[i]
		if i < half {
			synth[blockSize-half+i] = v
		} else {
			synth[i-half] = v
		}
	}

	sineSpectrum := make([]float64, blockSize)
	_ = sfft.FFTARFloat(blockSize, synth, sineSpectrum)

	nBins := blockSize/2 + 1
	subtractBin := func(re, im, sineRe, sineIm float64) (float64, float64) {
		origMag := math.Hypot(re, im)
		sineMag := math.Hypot(sineRe, sineIm)
		newMag := origMag - sineMag
		if newMag < 0 {
			newMag = 0
		}
		if origMag == 0 {
			return 0, 0
		}
		scale := newMag / origMag
		return re * scale, im * scale
	}

	spectrum[0], _ = subtractBin(spectrum[0], 0, sineSpectrum[0], 0)
	spectrum[1], _ = subtractBin(spectrum[1], 0, sineSpectrum[1], 0)
	for k := 1; k < nBins-1; k++ {
		re, im := subtractBin(spectrum[2*k], spectrum[2*k+1], sineSpectrum[2*k], sineSpectrum[2*k+1])
		spectrum[2*k] = re
		spectrum[2*k+1] = im
	}
}

// computeNoiseEnvelope accumulates |X_k|^2 into 32 mel bands and returns
// the quantized per-band magnitude, per spec §4.4 step 8.
func computeNoiseEnvelope(spectrum []float64, partition *noise.Partition, blockSize int, mixFreq, windowSum float64) []uint16 {
	nBins := blockSize/2 + 1
	energy := make([]float64, noise.NBands)
	count := make([]int, noise.NBands)

	add := func(k int, re, im, scale float64) {
		band := partition.BandOfBin(k)
		mag := math.Hypot(re, im) * scale
		energy[band] += mag * mag
		count[band]++
	}

	add(0, spectrum[0], 0, math.Sqrt2)
	add(nBins-1, spectrum[1], 0, math.Sqrt2)
	for k := 1; k < nBins-1; k++ {
		add(k, spectrum[2*k], spectrum[2*k+1], 1)
	}

	norm := 0.5 * mixFreq * windowSum * windowSum
	out := make([]uint16, noise.NBands)
	for b := 0; b < noise.NBands; b++ {
		if count[b] == 0 || norm == 0 {
			continue
		}
		mag := math.Sqrt(energy[b] / (norm * float64(count[b])))
		out[b] = sfmath.Factor2IDB(mag)
	}
	return out
}
