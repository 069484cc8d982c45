package poly

// MiniResampler is a lightweight, linear-interpolating fixed-speedup reader
// over an in-memory signal, a cheaper and lower-quality alternative to the
// Interpolator. No command in this module uses it.
type MiniResampler struct {
	samples       []float32
	speedupFactor float64
}

// NewMiniResampler wraps samples, read back speedupFactor times faster
// (values > 1) or slower (values < 1) than their original rate.
func NewMiniResampler(samples []float32, speedupFactor float64) *MiniResampler {
	return &MiniResampler{samples: samples, speedupFactor: speedupFactor}
}

// Read fills out[0:n] starting at source position pos (in output-rate
// sample units) and returns n, the number of samples actually written;
// n < len(out) once the underlying signal is exhausted.
func (r *MiniResampler) Read(pos uint64, out []float32) int {
	nValues := uint64(len(r.samples))
	for i := range out {
		dpos := float64(pos+uint64(i)) * r.speedupFactor
		left := uint64(dpos)
		right := left + 1
		if right >= nValues {
			return i
		}
		fade := dpos - float64(left)
		out[i] = float32((1-fade)*float64(r.samples[left]) + fade*float64(r.samples[right]))
	}
	return len(out)
}

// Length returns the resampler's output length in samples.
func (r *MiniResampler) Length() uint64 {
	return uint64(float64(len(r.samples)) / r.speedupFactor)
}
