// Package rng implements the PCG32 pseudo-random generator used wherever
// the engine needs reproducible randomness: the noise decoder's per-bin
// phase, the encoder's attack-envelope Monte-Carlo search, and the
// formant corrector's fuzzy-resynthesis detuning.
package rng

import "math"

const (
	pcgMultiplier uint64 = 6364136223846793005
	pcgIncrement  uint64 = 1442695040888963407
)

// Random is a PCG32 generator. The zero value is not seeded: its state and
// increment are both 0, so every draw returns 0. Use NewRandom or call
// SetSeed before drawing.
type Random struct {
	state uint64
	inc   uint64
}

// NewRandom returns a Random seeded with seed.
func NewRandom(seed uint32) *Random {
	r := &Random{}
	r.SetSeed(seed)
	return r
}

// SetSeed (re)seeds the generator deterministically. Calling SetSeed with
// the same seed and then drawing the same sequence of operations always
// reproduces the same values, which is what makes LiveDecoder's
// noise_seed >= 0 contract (spec §5, §8) possible.
func (r *Random) SetSeed(seed uint32) {
	r.state = 0
	r.inc = (uint64(seed) << 1) | 1
	r.step()
	r.state += uint64(seed)
	r.step()
}

func (r *Random) step() uint32 {
	old := r.state
	r.state = old*pcgMultiplier + r.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// Uint32 returns the next raw 32-bit output.
func (r *Random) Uint32() uint32 {
	return r.step()
}

// Block fills dst with successive Uint32 draws, avoiding per-value call
// overhead when many values are needed at once.
func (r *Random) Block(dst []uint32) {
	for i := range dst {
		dst[i] = r.step()
	}
}

// DoubleRange returns a uniform double in [begin, end).
func (r *Random) DoubleRange(begin, end float64) float64 {
	const randMax = float64(^uint32(0))
	scale := 1.0 / (randMax + 1.0)
	return float64(r.Uint32())*scale*(end-begin) + begin
}

// UnitComplex returns a complex value of magnitude 1 with a uniformly
// distributed random phase, the "rand_unit_complex()" draw the noise
// decoder needs per spectrum bin.
func (r *Random) UnitComplex() complex128 {
	phase := r.DoubleRange(0, 2*math.Pi)
	s, c := math.Sincos(phase)
	return complex(c, s)
}
