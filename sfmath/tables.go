// Package sfmath implements the fixed-point <-> float conversions the
// encoder and decoder use to store partials and noise bands compactly.
//
// Two mappings matter for throughput: idb -> factor (amplitude) and
// ifreq -> freq (frequency relative to the fundamental). Both are evaluated
// once per partial per frame on the real-time decode path, so both are
// implemented as two-level 256x256 split tables rather than per-sample
// transcendental calls. The forward mappings (factor2idb, freq2ifreq) run
// at encode time only and use math.Log directly.
package sfmath

import "math"

const (
	// idbZero is the idb value representing 0 dB (factor 1.0).
	idbZero = 512 * 64

	// ifreqZero is the ifreq value representing a partial at the
	// fundamental frequency (relative freq 1.0).
	ifreqZero = 18000

	// ifreqScale converts a natural-log frequency ratio to ifreq units.
	ifreqScale = 6000.0
)

var (
	idb2FactorHi [256]float64
	idb2FactorLo [256]float64

	ifreq2FreqHi [256]float64
	ifreq2FreqLo [256]float64
)

func init() {
	for hi := 0; hi < 256; hi++ {
		dBHi := float64(hi)*256.0/64.0 - 512.0
		idb2FactorHi[hi] = math.Pow(10, dBHi/20)

		freqHi := float64(hi)*256.0 - ifreqZero
		ifreq2FreqHi[hi] = math.Exp(freqHi / ifreqScale)
	}
	for lo := 0; lo < 256; lo++ {
		dBLo := float64(lo) / 64.0
		idb2FactorLo[lo] = math.Pow(10, dBLo/20)

		ifreq2FreqLo[lo] = math.Exp(float64(lo) / ifreqScale)
	}
}

// IDB2Factor converts a quantized decibel value back to a linear amplitude
// factor using the two-level split table.
func IDB2Factor(idb uint16) float64 {
	hi := idb >> 8
	lo := idb & 0xff
	return idb2FactorHi[hi] * idb2FactorLo[lo]
}

// Factor2IDB quantizes a linear amplitude factor into the idb representation.
// factor is clamped to a minimum of 1e-25 before conversion, matching the
// encoder's clamp against -inf dB.
func Factor2IDB(factor float64) uint16 {
	if factor < 1e-25 {
		factor = 1e-25
	}
	dB := 20 * math.Log10(factor)
	idb := math.Round(dB*64 + idbZero)
	return clampU16(idb)
}

// Factor2IDBBlock applies Factor2IDB to every element of xs. This is the
// block-vectorizable counterpart required for throughput on the encoder's
// spectral-subtraction and noise-envelope stages.
func Factor2IDBBlock(xs []float64, out []uint16) {
	for i, x := range xs {
		out[i] = Factor2IDB(x)
	}
}

// IFreq2Freq converts a quantized, fundamental-relative log frequency back
// to a linear frequency ratio using the two-level split table.
func IFreq2Freq(ifreq uint16) float64 {
	hi := ifreq >> 8
	lo := ifreq & 0xff
	return ifreq2FreqHi[hi] * ifreq2FreqLo[lo]
}

// Freq2IFreq quantizes a fundamental-relative frequency ratio into the
// ifreq representation. Domain is clamped to roughly [0.05, 9500] by the
// caller; out-of-range results are clamped to the uint16 range here.
func Freq2IFreq(freq float64) uint16 {
	if freq <= 0 {
		return 0
	}
	ifreq := math.Round(math.Log(freq)*ifreqScale + ifreqZero)
	return clampU16(ifreq)
}

// Freq2IFreqBlock applies Freq2IFreq to every element of freqs.
func Freq2IFreqBlock(freqs []float64, out []uint16) {
	for i, f := range freqs {
		out[i] = Freq2IFreq(f)
	}
}

// iphaseScale maps [0, 2π) linearly onto the full uint16 range.
const iphaseScale = 65536.0 / (2 * math.Pi)

// Phase2IPhase quantizes a phase in radians, wrapped to [0, 2π), into the
// iphase representation.
func Phase2IPhase(phase float64) uint16 {
	for phase < 0 {
		phase += 2 * math.Pi
	}
	for phase >= 2*math.Pi {
		phase -= 2 * math.Pi
	}
	return uint16(math.Round(phase * iphaseScale))
}

// IPhase2Phase dequantizes iphase back into radians in [0, 2π).
func IPhase2Phase(iphase uint16) float64 {
	return float64(iphase) / iphaseScale
}

func clampU16(v float64) uint16 {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}
