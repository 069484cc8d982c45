package rtmem

import (
	"github.com/swesterfeld/spectmorph-sub000/sfmath"
)

// Uint16Vector is a non-owning view into an Area-backed []uint16, the
// quantized representation AudioBlock stores freqs/mags/noise in.
type Uint16Vector struct {
	data []uint16
}

// Assign copies src into a freshly arena-allocated backing slice.
func (v *Uint16Vector) Assign(area *Area, src []uint16) {
	v.data = AllocUint16(area, len(src))
	copy(v.data, src)
}

// Len returns the number of elements.
func (v *Uint16Vector) Len() int { return len(v.data) }

// At returns the raw quantized value at idx.
func (v *Uint16Vector) At(idx int) uint16 { return v.data[idx] }

// Block is a read-only view of the backing slice for vectorized ops.
func (v *Uint16Vector) Block() []uint16 { return v.data }

// AudioBlock is a non-owning, arena-backed view of one AudioBlock's
// quantized fields, built fresh every time the decoder crosses a block
// boundary instead of copying the source AudioBlock.
type AudioBlock struct {
	Freqs Uint16Vector
	Mags  Uint16Vector
	Noise Uint16Vector
}

// Assign populates block from plain quantized slices, using area for the
// backing storage.
func (b *AudioBlock) Assign(area *Area, freqs, mags, noise []uint16) {
	b.Freqs.Assign(area, freqs)
	b.Mags.Assign(area, mags)
	b.Noise.Assign(area, noise)
}

// FreqsF returns the dequantized frequency (relative to the fundamental)
// of partial i.
func (b *AudioBlock) FreqsF(i int) float64 {
	return sfmath.IFreq2Freq(b.Freqs.At(i))
}

// MagsF returns the dequantized linear magnitude of partial i.
func (b *AudioBlock) MagsF(i int) float64 {
	return sfmath.IDB2Factor(b.Mags.At(i))
}

// NoiseF returns the dequantized linear magnitude of noise band i.
func (b *AudioBlock) NoiseF(i int) float64 {
	return sfmath.IDB2Factor(b.Noise.At(i))
}
