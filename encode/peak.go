package encode

import "math"

// peak is one detected spectral peak within a single analysis frame, in
// linear (not yet quantized) units.
type peak struct {
	freq  float64
	mag   float64
	phase float64
}

// findPeaks runs search_local_maxima over one frame's packed real spectrum
// (spectrum has blockSize entries: DC, Nyquist, interleaved re/im) and
// returns sub-bin-interpolated peaks, per spec §4.4 step 3.
func findPeaks(spectrum []float64, blockSize, frameSize int, mixFreq float64, windowSum float64) []peak {
	nBins := blockSize/2 + 1
	mags := make([]float64, nBins)
	re := make([]float64, nBins)
	im := make([]float64, nBins)

	re[0], im[0] = spectrum[0], 0
	re[nBins-1], im[nBins-1] = spectrum[1], 0
	for k := 1; k < nBins-1; k++ {
		re[k] = spectrum[2*k]
		im[k] = spectrum[2*k+1]
	}
	for k := range mags {
		mags[k] = math.Hypot(re[k], im[k])
	}

	var peaks []peak
	for k := 1; k < nBins-1; k++ {
		if !(mags[k] > mags[k-1] && mags[k] > mags[k+1]) {
			continue
		}

		// parabolic interpolation of dB magnitude around the bin
		dbm1 := toDB(mags[k-1])
		db0 := toDB(mags[k])
		dbp1 := toDB(mags[k+1])
		denom := dbm1 - 2*db0 + dbp1
		xMax := 0.0
		if denom != 0 {
			xMax = 0.5 * (dbm1 - dbp1) / denom
		}

		tfreq := (float64(k) + xMax) * mixFreq / float64(blockSize)
		if tfreq < 10 {
			continue
		}

		interpRe := interp3(re[k-1], re[k], re[k+1], xMax)
		interpIm := interp3(im[k-1], im[k], im[k+1], xMax)
		phase := math.Atan2(interpIm, interpRe) + math.Pi/2
		phase -= float64(frameSize-1) / 2 / mixFreq * tfreq * 2 * math.Pi
		phase = wrapPhase(phase)

		mag := interp3(mags[k-1], mags[k], mags[k+1], xMax) * 2 / windowSum

		peaks = append(peaks, peak{freq: tfreq, mag: mag, phase: phase})
	}

	if len(peaks) == 0 {
		return peaks
	}
	maxMag := peaks[0].mag
	for _, p := range peaks {
		if p.mag > maxMag {
			maxMag = p.mag
		}
	}
	floor := maxMag * dbToFactor(-90)
	kept := peaks[:0]
	for _, p := range peaks {
		if p.mag >= floor {
			kept = append(kept, p)
		}
	}
	return kept
}

func interp3(a, b, c, x float64) float64 {
	return b + 0.5*x*(c-a) + 0.5*x*x*(a-2*b+c)
}

func toDB(mag float64) float64 {
	if mag <= 0 {
		return -300
	}
	return 20 * math.Log10(mag)
}

func dbToFactor(db float64) float64 {
	return math.Pow(10, db/20)
}

func wrapPhase(p float64) float64 {
	const twoPi = 2 * math.Pi
	p = math.Mod(p, twoPi)
	if p < 0 {
		p += twoPi
	}
	return p
}
