package encode

import (
	"math"

	spectmorph "github.com/swesterfeld/spectmorph-sub000"
	"github.com/swesterfeld/spectmorph-sub000/sfmath"
)

// attackFrameLimit is how many leading frames optimizeAttack's objective
// function scores, per spec §4.4 step 9.
const attackFrameLimit = 20

// attackStages holds the decreasing search radii (ms) of the Monte-Carlo
// random search, narrowing around the current best guess each stage.
var attackStages = []float64{20, 8, 3, 1}

const attackTrialsPerStage = 16
const minAttackWidthMs = 5

// optimizeAttack searches for (attack_start_ms, attack_end_ms) minimizing
// the squared error between the envelope-scaled sine reconstruction and
// the original samples over the note's first attackFrameLimit frames, then
// bakes the resulting per-frame scale into each frame's magnitudes.
func optimizeAttack(audio *spectmorph.Audio, padded []float32, frameSize, frameStep int, win []float64, seed uint32) {
	if len(audio.Contents) == 0 {
		return
	}
	r := rngForAttack(seed)

	nFrames := len(audio.Contents)
	if nFrames > attackFrameLimit {
		nFrames = attackFrameLimit
	}

	maxMs := float64(nFrames) * audio.FrameStepMs

	start, end := 0.0, maxMs*0.25
	bestErr := attackObjective(audio, padded, frameSize, frameStep, win, start, end, nFrames)

	for _, radius := range attackStages {
		for t := 0; t < attackTrialsPerStage; t++ {
			cs := start + r.DoubleRange(-radius, radius)
			ce := end + r.DoubleRange(-radius, radius)
			if ce-cs < minAttackWidthMs {
				continue
			}
			if cs < 0 {
				cs = 0
			}
			if ce > maxMs {
				ce = maxMs
			}
			errv := attackObjective(audio, padded, frameSize, frameStep, win, cs, ce, nFrames)
			if errv < bestErr {
				bestErr = errv
				start, end = cs, ce
			}
		}
	}

	audio.AttackStartMs = start
	audio.AttackEndMs = end

	for f := 0; f < nFrames; f++ {
		posMs := float64(f) * audio.FrameStepMs
		scale := attackScale(posMs, start, end)
		if scale == 1 {
			continue
		}
		block := &audio.Contents[f]
		for i, m := range block.Mags {
			factor := sfmath.IDB2Factor(m) * scale
			block.Mags[i] = sfmath.Factor2IDB(factor)
		}
	}
}

func attackScale(posMs, start, end float64) float64 {
	if posMs < start {
		return 0
	}
	if posMs >= end || end <= start {
		return 1
	}
	return (posMs - start) / (end - start)
}

// attackObjective reconstructs the sine mix for the first nFrames frames
// with the given attack envelope applied and returns its squared error
// against the original samples.
func attackObjective(audio *spectmorph.Audio, padded []float32, frameSize, frameStep int, win []float64, start, end float64, nFrames int) float64 {
	sumSq := 0.0
	for f := 0; f < nFrames; f++ {
		block := &audio.Contents[f]
		scale := attackScale(float64(f)*audio.FrameStepMs, start, end)
		offset := f * frameStep

		for i := 0; i < frameSize; i++ {
			idx := offset + i
			if idx < 0 || idx >= len(padded) {
				continue
			}
			var recon float64
			for j := range block.Freqs {
				freq := sfmath.IFreq2Freq(block.Freqs[j]) * audio.FundamentalFreq
				mag := sfmath.IDB2Factor(block.Mags[j]) * scale
				phase := 0.0
				if j < len(block.Phases) {
					phase = sfmath.IPhase2Phase(block.Phases[j])
				}
				recon += mag * math.Sin(phase+2*math.Pi*freq/audio.MixFreq*float64(i))
			}
			diff := float64(padded[idx]) - recon
			sumSq += diff * diff
		}
	}
	return sumSq
}
