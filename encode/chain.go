package encode

import "math"

// linkThreshold is the maximum relative frequency deviation (Δf/f) for a
// peak in frame n+1 to be considered a continuation of a peak in frame n.
const linkThreshold = 0.05

// minChainDB is the minimum over-chain-lifetime peak magnitude, in dB
// relative to the loudest peak of the whole signal, for a chain to survive
// validation.
const minChainDB = -90

// chain tracks one partial across consecutive frames: peaks[i] points at
// its peak in peaksByFrame[startFrame+i]. A chain has a peak in every frame
// it spans.
type chain struct {
	startFrame int
	peaks      []*peak
}

// linkPartials greedily links each frame's peaks to the nearest-by-frequency
// unclaimed peak in the next frame (an exhaustive search), accepting a link
// only within linkThreshold relative deviation, per spec §4.4 step 4. The
// first peak of the previous frame to claim a target keeps it; a later peak
// with a smaller deviation does not take it over.
func linkPartials(peaksByFrame [][]peak) []chain {
	nFrames := len(peaksByFrame)
	// active[i] is the chain currently ending at peaksByFrame[frame][i],
	// or nil if peak i hasn't been claimed by a chain yet.
	var active []*chain
	var chains []*chain

	for f := 0; f < nFrames; f++ {
		cur := peaksByFrame[f]
		next := make([]*chain, len(cur))

		used := make([]bool, len(cur))
		if f > 0 {
			prev := peaksByFrame[f-1]
			for pi := range prev {
				if active[pi] == nil {
					continue
				}
				best := -1
				bestDelta := math.Inf(1)
				for ci := range cur {
					if used[ci] {
						continue
					}
					delta := math.Abs(cur[ci].freq-prev[pi].freq) / prev[pi].freq
					if delta < bestDelta {
						bestDelta = delta
						best = ci
					}
				}
				if best >= 0 && bestDelta < linkThreshold {
					used[best] = true
					active[pi].peaks = append(active[pi].peaks, &cur[best])
					next[best] = active[pi]
				}
			}
		}

		for ci := range cur {
			if next[ci] == nil {
				c := &chain{startFrame: f, peaks: []*peak{&cur[ci]}}
				chains = append(chains, c)
				next[ci] = c
			}
		}
		active = next
	}

	result := make([]chain, len(chains))
	for i, c := range chains {
		result[i] = *c
	}
	return result
}

// validateChains drops chains whose loudest peak never reaches minChainDB
// relative to the overall loudest peak across all chains, per spec §4.4
// step 5.
func validateChains(chains []chain) []chain {
	if len(chains) == 0 {
		return chains
	}
	globalMax := 0.0
	for _, c := range chains {
		for _, p := range c.peaks {
			if p.mag > globalMax {
				globalMax = p.mag
			}
		}
	}
	if globalMax == 0 {
		return nil
	}
	floor := globalMax * dbToFactor(minChainDB)

	kept := chains[:0]
	for _, c := range chains {
		chainMax := 0.0
		for _, p := range c.peaks {
			if p.mag > chainMax {
				chainMax = p.mag
			}
		}
		if chainMax >= floor {
			kept = append(kept, c)
		}
	}
	return kept
}
