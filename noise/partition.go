// Package noise implements the mel-band noise envelope model: mapping
// linear FFT bins to 32 mel bands (shared by the encoder and decoder), and
// reconstructing a windowed half-complex spectrum contribution from a
// quantized noise envelope at decode time.
package noise

import "math"

// NBands is the number of mel bands a noise envelope always has.
const NBands = 32

const (
	melLowBase = 30.0
	melSpan    = 4000.0
	melDivisor = 1127.0
)

// bandEdgeHz returns the lower edge, in Hz, of mel band b (b in [0, NBands]
// gives NBands+1 edges, the last being the top edge of the last band).
func bandEdgeHz(b int) float64 {
	mel := melLowBase + melSpan*float64(b)/NBands
	return 700 * (math.Exp(mel/melDivisor) - 1)
}

// Partition maps each of a spectrum's linear FFT bins to one of NBands mel
// bands, matching the table the encoder used to build the noise envelope in
// the first place. It is built once per (block size, mix freq) pair and
// reused across every block the decoder processes at that configuration.
type Partition struct {
	nSpectrumBins int
	bandOfBin     []int   // len == nSpectrumBins/2, band index per linear bin
	bandBinCount  [NBands]int
}

// NewPartition builds a Partition for a real spectrum packed the way sfft
// produces it: nSpectrumBins == blockSize+2 (DC, Nyquist, and blockSize/2-1
// complex pairs), sampled at mixFreq.
func NewPartition(nSpectrumBins int, mixFreq float64) *Partition {
	blockSize := nSpectrumBins - 2
	nBins := blockSize/2 + 1

	edges := make([]float64, NBands+1)
	for b := 0; b <= NBands; b++ {
		edges[b] = bandEdgeHz(b)
	}

	p := &Partition{nSpectrumBins: nSpectrumBins, bandOfBin: make([]int, nBins)}
	for k := 0; k < nBins; k++ {
		hz := float64(k) * mixFreq / float64(blockSize)
		band := bandForFreq(edges, hz)
		p.bandOfBin[k] = band
		p.bandBinCount[band]++
	}
	return p
}

func bandForFreq(edges []float64, hz float64) int {
	if hz <= edges[0] {
		return 0
	}
	for b := 0; b < NBands; b++ {
		if hz < edges[b+1] {
			return b
		}
	}
	return NBands - 1
}

// NSpectrumBins returns the packed real-spectrum length this partition was
// built for.
func (p *Partition) NSpectrumBins() int { return p.nSpectrumBins }

// BandOfBin returns the mel band linear bin k belongs to.
func (p *Partition) BandOfBin(k int) int { return p.bandOfBin[k] }

// BinCount returns the number of linear bins assigned to band b.
func (p *Partition) BinCount(b int) int { return p.bandBinCount[b] }
