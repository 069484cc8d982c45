// Package decode implements the real-time LiveDecoder: given an Audio
// (or a pitch-keyed WavSet) it renders continuous audio frame by frame,
// combining IFFT-based sine synthesis with noise-envelope synthesis,
// overlap-adding consecutive blocks and applying the attack envelope,
// vibrato and looping the source model describes.
//
// Process never allocates once a voice has been retriggered; per-block
// scratch (the IFFT buffers) comes from an rtmem.Area bump allocator reset
// once per render call, while state that must survive across calls (the
// overlap-add tail, the phase-continuation history, the portamento
// history) lives in fixed-capacity buffers sized at Retrigger time.
package decode

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/swesterfeld/spectmorph-sub000/formant"
	"github.com/swesterfeld/spectmorph-sub000/ifft"
	"github.com/swesterfeld/spectmorph-sub000/noise"
	"github.com/swesterfeld/spectmorph-sub000/poly"
	"github.com/swesterfeld/spectmorph-sub000/rtmem"
	"github.com/swesterfeld/spectmorph-sub000/sfmath"
)

// State is the voice's lifecycle state.
type State int

const (
	Active State = iota
	AlmostDone
	Done
)

// fmatchThreshold is the relative frequency deviation below which a new
// frame's partial is considered a continuation of a previous-frame
// partial, letting its phase evolve instead of restarting at zero.
const fmatchThreshold = 0.05

// antiAliasStartRatio is the fraction of mix_freq above which partials
// start tapering toward silence at Nyquist.
const antiAliasStartRatio = 18000.0 / 44100.0

// Loop type values, matching spectmorph.LoopType's int encoding; defined
// here (rather than imported) for the same reason as SourceAudio below.
const (
	LoopNone int = iota
	LoopFrameForward
	LoopFramePingPong
	LoopTimeForward
	LoopTimePingPong
)

// portamentoHistoryBlocks sizes the sliding waveform buffer the portamento
// path resamples from, in units of half-blocks; the tradeoff is a fixed
// read/write lag of roughly half this many half-blocks.
const portamentoHistoryBlocks = 4

// SourceAudio is the minimal view of an Audio the decoder needs; defined
// here (rather than imported from the root package) to avoid a root<->decode
// import cycle, since the root package wraps this decoder.
type SourceAudio struct {
	FundamentalFreq float64
	MixFreq         float64
	FrameStepMs     float64
	AttackStartMs   float64
	AttackEndMs     float64

	LoopType  int // matches spectmorph.LoopType's int values
	LoopStart int
	LoopEnd   int

	// OriginalSamples, when non-empty, backs original-samples mode: a
	// bypass of sine+noise synthesis that instead reads this signal
	// directly through the polyphase interpolator.
	OriginalSamples []float32

	Frames []SourceFrame
}

// SourceFrame is the minimal per-frame view the decoder reads.
type SourceFrame struct {
	Freqs  []uint16
	Mags   []uint16
	Phases []uint16
	Noise  [32]uint16
}

type partialState struct {
	freq  float64
	phase float64
}

// VoiceParams configures a Decoder at Retrigger time.
type VoiceParams struct {
	Channel      int
	Freq         float64
	MidiVelocity int
	MixFreq      float64

	Unison            int     // 1 disables unison
	DetuneCents       float64 // total spread across unison voices
	VibratoDepthCents float64
	VibratoFreqHz     float64
	VibratoAttackMs   float64

	NoiseSeed int // >= 0 for deterministic noise, -1 for time-varying
}

// Decoder is a single real-time voice.
type Decoder struct {
	audio *SourceAudio

	currentFreq float64
	mixFreq     float64

	frameStep int
	blockSize int
	half      int

	synth    *ifft.Synth
	noiseDec *noise.Decoder
	arena    *rtmem.Area

	envPos float64

	// frameBufs is a ping-pong pair of fixed-capacity partial-history
	// buffers: d.prevFrame always points at the one NOT being written this
	// render call, so continuationPhase never reads a buffer that is
	// concurrently being overwritten.
	frameBufs  [2][]partialState
	frameCur   int
	prevFrame  []partialState
	maxPartial int

	tail []float64

	// portamento history: a sliding window of already-rendered, already
	// overlap-added samples, resampled through the polyphase interpolator
	// when Process is given a per-sample pitch curve.
	history     []float32
	historyEnd  float64 // absolute sample index of history's last sample
	portRead    float64 // absolute fractional read cursor
	refPitch    float64
	processBase float64 // d.envPos at the start of the current Process call

	lastFrameOffsetMs float64

	origPos float64 // absolute read position for original-samples mode

	attackStartMs float64
	attackEndMs   float64

	unison      int
	detuneCents float64

	vibratoDepthCents float64
	vibratoFreqHz     float64
	vibratoAttackMs   float64
	vibratoPhase      float64

	state State

	enableNoise           bool
	enableSines           bool
	enableOriginalSamples bool
	enableLoop            bool
	enableStartSkip       bool

	// FilterCallback, if set, is invoked once per source frame crossing
	// with the frame index, letting the host resync filter coefficients.
	FilterCallback func(frameIdx int)
}

// New returns an idle Decoder with the default voice-level toggles (all
// synthesis paths and looping enabled); call Retrigger before Process.
func New() *Decoder {
	return &Decoder{
		enableNoise:     true,
		enableSines:     true,
		enableLoop:      true,
		enableStartSkip: true,
	}
}

// EnableNoise toggles whether rendered blocks include the noise-envelope
// contribution.
func (d *Decoder) EnableNoise(enable bool) { d.enableNoise = enable }

// EnableSines toggles whether rendered blocks include the sine-partial
// contribution.
func (d *Decoder) EnableSines(enable bool) { d.enableSines = enable }

// EnableOriginalSamples switches the voice between model-based synthesis
// and direct playback of the source's original recorded samples.
func (d *Decoder) EnableOriginalSamples(enable bool) { d.enableOriginalSamples = enable }

// EnableLoop toggles whether the voice honors the source's loop points;
// disabled, every loop type behaves like LoopNone.
func (d *Decoder) EnableLoop(enable bool) { d.enableLoop = enable }

// EnableStartSkip toggles the half-block lead-in skip Retrigger applies to
// avoid a fade-in click; disabled, playback starts exactly at frame zero.
func (d *Decoder) EnableStartSkip(enable bool) { d.enableStartSkip = enable }

// SetNoiseSeed reseeds the running voice's noise generator, independent of
// the seed given at Retrigger.
func (d *Decoder) SetNoiseSeed(seed int) {
	if d.noiseDec != nil {
		d.noiseDec.SetSeed(uint32(seed))
	}
}

// Retrigger (re)initializes the voice for a new note.
func (d *Decoder) Retrigger(audio *SourceAudio, p VoiceParams) {
	d.audio = audio
	d.currentFreq = p.Freq
	d.mixFreq = p.MixFreq

	d.frameStep = int(audio.FrameStepMs * d.mixFreq / 1000.0)
	if d.frameStep < 1 {
		d.frameStep = 1
	}
	d.blockSize = noise.PreferredBlockSize(d.mixFreq)
	d.half = d.blockSize / 2

	d.synth = ifft.NewSynth(d.blockSize, d.mixFreq, ifft.WinBlackmanHarris92)
	d.noiseDec = noise.NewDecoder(d.mixFreq, d.blockSize)
	if p.NoiseSeed >= 0 {
		d.noiseDec.SetSeed(uint32(p.NoiseSeed))
	} else {
		d.noiseDec.SetSeed(uint32(time.Now().UnixNano()))
	}

	if d.arena == nil {
		d.arena = rtmem.NewArea()
	} else {
		d.arena.FreeAll()
	}

	d.unison = p.Unison
	if d.unison < 1 {
		d.unison = 1
	}
	d.detuneCents = p.DetuneCents

	d.maxPartial = 1
	for _, f := range audio.Frames {
		if n := len(f.Freqs) * d.unison; n > d.maxPartial {
			d.maxPartial = n
		}
	}
	d.frameBufs[0] = make([]partialState, 0, d.maxPartial)
	d.frameBufs[1] = make([]partialState, 0, d.maxPartial)
	d.frameCur = 0
	d.prevFrame = nil

	d.tail = make([]float64, d.half)

	historyLen := portamentoHistoryBlocks * d.half
	d.history = make([]float32, historyLen)
	d.historyEnd = 0
	d.portRead = -float64(historyLen - 1)
	d.refPitch = p.Freq
	d.processBase = 0
	d.lastFrameOffsetMs = 0
	d.origPos = 0

	d.attackStartMs = audio.AttackStartMs
	d.attackEndMs = audio.AttackEndMs

	d.vibratoDepthCents = p.VibratoDepthCents
	d.vibratoFreqHz = p.VibratoFreqHz
	d.vibratoAttackMs = p.VibratoAttackMs
	d.vibratoPhase = 0

	d.state = Active

	// skip block_size/2 samples at start to avoid a fade-in click
	if d.enableStartSkip {
		d.envPos = float64(d.half)
	} else {
		d.envPos = 0
	}
}

// Done reports whether the voice has finished and may be freed.
func (d *Decoder) Done() bool { return d.state == Done }

// TimeOffsetMs returns the offset, in milliseconds, of the most recently
// rendered frame's position within the current (or most recent) Process
// call.
func (d *Decoder) TimeOffsetMs() float64 { return d.lastFrameOffsetMs }

// foldFrameIndex folds idx into [LoopStart, LoopEnd] for the frame-based
// loop types. Time-based loop types are folded earlier, on the sample
// position, by foldEnvPos.
func (d *Decoder) foldFrameIndex(idx int) int {
	a := d.audio
	if idx <= a.LoopStart || !d.enableLoop {
		return idx
	}
	switch a.LoopType {
	case LoopFrameForward:
		if a.LoopEnd < a.LoopStart {
			return idx
		}
		loopLen := a.LoopEnd + 1 - a.LoopStart
		return a.LoopStart + (idx-a.LoopStart)%loopLen
	case LoopFramePingPong:
		loopLen := a.LoopEnd - a.LoopStart
		if loopLen <= 0 {
			return a.LoopStart
		}
		pingPongLen := loopLen * 2
		pos := (idx - a.LoopStart) % pingPongLen
		if pos < loopLen {
			return a.LoopStart + pos
		}
		return a.LoopEnd - (pos - loopLen)
	default:
		return idx
	}
}

// foldEnvPos folds a continuous sample position into [loopStart, loopEnd]
// (converted from frame indices to samples via frameStep) for the
// time-based loop types, LoopTimeForward and LoopTimePingPong.
func (d *Decoder) foldEnvPos(pos float64) float64 {
	a := d.audio
	startPos := float64(a.LoopStart) * float64(d.frameStep)
	endPos := float64(a.LoopEnd+1) * float64(d.frameStep)
	if !d.enableLoop || pos <= startPos || endPos <= startPos {
		return pos
	}
	switch a.LoopType {
	case LoopTimeForward:
		loopLen := endPos - startPos
		return startPos + math.Mod(pos-startPos, loopLen)
	case LoopTimePingPong:
		loopLen := endPos - startPos
		pingPongLen := loopLen * 2
		p := math.Mod(pos-startPos, pingPongLen)
		if p < loopLen {
			return startPos + p
		}
		return endPos - (p - loopLen)
	default:
		return pos
	}
}

// frameIndex computes the source frame index for the current env_pos,
// folding it through the loop type.
func (d *Decoder) frameIndex() int {
	pos := d.envPos
	if d.audio.LoopType == LoopTimeForward || d.audio.LoopType == LoopTimePingPong {
		pos = d.foldEnvPos(pos)
	}
	idx := int(pos) / d.frameStep
	return d.foldFrameIndex(idx)
}

func (d *Decoder) vibratoMultiplier(posMs float64) float64 {
	if d.vibratoDepthCents == 0 || d.vibratoFreqHz == 0 {
		return 1.0
	}
	env := 1.0
	if d.vibratoAttackMs > 0 && posMs < d.vibratoAttackMs {
		env = posMs / d.vibratoAttackMs
	}
	depth := math.Pow(2, d.vibratoDepthCents/1200) - 1
	return 1 + math.Sin(d.vibratoPhase)*depth*env
}

func (d *Decoder) attackGain(posMs float64) float64 {
	if posMs < d.attackStartMs {
		return 0
	}
	if posMs >= d.attackEndMs || d.attackEndMs <= d.attackStartMs {
		return 1
	}
	return (posMs - d.attackStartMs) / (d.attackEndMs - d.attackStartMs)
}

// renderBlock synthesizes one blockSize-sample IFFT block, overlap-adds it
// with the retained tail, appends the result to the portamento history and
// returns the half-block-long output. All per-call scratch (rendered,
// out) comes from d.arena; the caller frees the arena once it is done with
// the returned slice.
func (d *Decoder) renderBlock() []float64 {
	a := d.audio
	if len(a.Frames) == 0 {
		d.state = Done
		return rtmem.AllocFloat64(d.arena, d.half)
	}

	idx := d.frameIndex()
	exhausted := idx >= len(a.Frames)
	if exhausted {
		if a.LoopType == LoopNone || !d.enableLoop {
			d.state = AlmostDone
			idx = len(a.Frames) - 1
		} else {
			idx = idx % len(a.Frames)
		}
	}
	frame := &a.Frames[idx]

	if d.FilterCallback != nil {
		d.FilterCallback(idx)
	}

	posMs := d.envPos / d.mixFreq * 1000.0
	d.lastFrameOffsetMs = (d.envPos - d.processBase) / d.mixFreq * 1000.0
	vibMul := d.vibratoMultiplier(posMs)
	pitch := d.currentFreq * vibMul
	d.vibratoPhase += 2 * math.Pi * d.vibratoFreqHz * float64(d.half) / d.mixFreq

	d.synth.Clear()

	nyquist := d.mixFreq / 2
	antiAliasStart := antiAliasStartRatio * d.mixFreq

	cur := d.frameBufs[d.frameCur][:0]

	if d.enableSines {
		for i := range frame.Freqs {
			relFreq := sfmath.IFreq2Freq(frame.Freqs[i])
			mag := sfmath.IDB2Factor(frame.Mags[i])
			freq := relFreq * pitch
			if freq >= nyquist {
				break // sorted ascending; nothing further fits
			}
			if freq > antiAliasStart {
				t := (freq - antiAliasStart) / (nyquist - antiAliasStart)
				mag *= 1 - t
			}

			phase := d.continuationPhase(freq)
			if phase == 0 && i < len(frame.Phases) {
				phase = sfmath.IPhase2Phase(frame.Phases[i])
			}

			for u := 0; u < d.unison; u++ {
				uFreq, uMag, uPhase := d.unisonVoice(freq, mag, phase, u)
				d.synth.AddPartial(uFreq, uMag, uPhase)
			}
			if len(cur) < cap(cur) {
				cur = append(cur, partialState{freq: freq, phase: phase})
			} else {
				log.Warn("decode: partial history capacity exceeded, dropping continuation", "frame", idx)
			}
		}
	}
	d.prevFrame = cur
	d.frameBufs[d.frameCur] = cur
	d.frameCur = 1 - d.frameCur

	if d.enableNoise {
		stretch := 1.0
		if d.refPitch > 0 {
			stretch = pitch / d.refPitch
			if stretch < 1 {
				stretch = 1 / stretch
			}
		}
		d.noiseDec.Process(frame.Noise[:], d.synth.Spectrum(), noise.AddSpectrumBH92, stretch)
	}

	rendered := rtmem.AllocFloat64(d.arena, d.blockSize)
	d.synth.GetSamples(rendered, ifft.Replace)

	out := rtmem.AllocFloat64(d.arena, d.half)
	for i := 0; i < d.half; i++ {
		out[i] = d.tail[i] + rendered[i]
	}
	copy(d.tail, rendered[d.half:])

	gain := d.attackGain(posMs)
	for i := range out {
		out[i] *= gain
	}

	d.appendHistory(out, pitch)

	d.envPos += float64(d.half)
	return out
}

// appendHistory shifts the portamento history window forward by one
// half-block and appends out, recording pitch as the reference frequency
// that half-block was rendered at.
func (d *Decoder) appendHistory(out []float64, pitch float64) {
	n := len(out)
	copy(d.history, d.history[n:])
	for i, v := range out {
		d.history[len(d.history)-n+i] = float32(v)
	}
	d.historyEnd += float64(n)
	d.refPitch = pitch
}

// readPortamento returns one interpolated sample for target frequency
// target, advancing the read cursor by target/refPitch samples instead of
// one. The read position lags the write position by a fixed amount set by
// portamentoHistoryBlocks, so a pitch change is audible within roughly
// that many half-blocks rather than waiting for the next block boundary.
func (d *Decoder) readPortamento(target float64) float64 {
	ref := d.refPitch
	if target <= 0 || ref <= 0 {
		target = ref
	}
	speed := 1.0
	if ref > 0 {
		speed = target / ref
	}
	d.portRead += speed
	local := d.portRead - d.historyEnd + float64(len(d.history)-1)
	return poly.GetSample(d.history, local)
}

func (d *Decoder) unisonVoice(freq, mag, phase float64, u int) (float64, float64, float64) {
	if d.unison <= 1 {
		return freq, mag, phase
	}
	spread := d.detuneCents * (float64(u)/float64(d.unison-1) - 0.5)
	detuned := freq * math.Pow(2, spread/1200)
	scaled := mag / math.Sqrt(float64(d.unison))
	return detuned, scaled, phase
}

// continuationPhase finds the closest previous-frame partial by frequency
// and continues its phase if within fmatchThreshold, else starts at 0.
func (d *Decoder) continuationPhase(freq float64) float64 {
	best := -1
	bestDelta := math.Inf(1)
	for i, p := range d.prevFrame {
		delta := math.Abs(p.freq-freq) / freq
		if delta < bestDelta {
			bestDelta = delta
			best = i
		}
	}
	if best < 0 || bestDelta >= fmatchThreshold {
		return 0
	}
	p := d.prevFrame[best]
	phase := p.phase + p.freq*math.Pi*float64(d.blockSize)/d.mixFreq
	return math.Mod(phase, 2*math.Pi)
}

// Process fills out with nValues samples of rendered audio.
//
// freqIn configures the voice's pitch for this call:
//   - nil or empty: the voice keeps its current pitch.
//   - length 1: a scalar update, applied for the whole call (the original,
//     block-granular behavior: a pitch change takes effect at the next
//     block boundary).
//   - length nValues: a per-sample pitch curve. The synthesis core still
//     renders at block granularity, but Process additionally resamples
//     that output through the polyphase interpolator against the given
//     curve, giving sub-block pitch tracking at the cost of a bounded
//     read/write lag (see readPortamento).
func (d *Decoder) Process(nValues int, freqIn []float64, out []float64) {
	d.processBase = d.envPos

	portamento := len(freqIn) == nValues && nValues > 1
	if !portamento && len(freqIn) >= 1 && freqIn[0] > 0 {
		d.currentFreq = freqIn[0]
	}

	if d.enableOriginalSamples && len(d.audio.OriginalSamples) > 0 {
		d.processOriginalSamples(nValues, freqIn, out)
		return
	}

	filled := 0
	allZero := true
	for filled < nValues {
		block := d.renderBlock()
		n := copy(out[filled:nValues], block)
		for _, v := range block[:n] {
			if v != 0 {
				allZero = false
			}
		}
		filled += n
		d.arena.FreeAll()
	}

	if portamento {
		for i := 0; i < nValues; i++ {
			s := d.readPortamento(freqIn[i])
			if s != 0 {
				allZero = false
			}
			out[i] = s
		}
	} else {
		d.portRead += float64(nValues)
	}

	if d.state == AlmostDone && allZero {
		d.state = Done
	}
}

// processOriginalSamples bypasses sine/noise synthesis and reads
// audio.OriginalSamples directly through the polyphase interpolator,
// advancing at freqIn (or currentFreq)/FundamentalFreq samples per output
// sample and wrapping via foldEnvPos when looping is enabled.
func (d *Decoder) processOriginalSamples(nValues int, freqIn []float64, out []float64) {
	a := d.audio
	samples := a.OriginalSamples

	allZero := true
	for i := 0; i < nValues; i++ {
		target := d.currentFreq
		switch {
		case len(freqIn) == nValues:
			target = freqIn[i]
		case len(freqIn) == 1:
			target = freqIn[0]
		}
		if target <= 0 {
			target = d.currentFreq
		}

		speed := 1.0
		if a.FundamentalFreq > 0 {
			speed = target / a.FundamentalFreq
		}

		pos := d.origPos
		if a.LoopType == LoopTimeForward || a.LoopType == LoopTimePingPong {
			pos = d.foldEnvPos(pos)
		}

		s := poly.GetSample(samples, pos)
		out[i] = s
		if s != 0 {
			allZero = false
		}

		d.origPos += speed
		d.envPos += speed
	}

	d.lastFrameOffsetMs = (d.envPos - d.processBase) / d.mixFreq * 1000.0

	loopless := a.LoopType == LoopNone || !d.enableLoop
	if loopless && d.origPos >= float64(len(samples)) {
		d.state = AlmostDone
	}
	if d.state == AlmostDone && allZero {
		d.state = Done
	}
}

// EnergyPreservingEnvelope exposes formant.PreserveSpectralEnvelope for
// callers that want to repitch a frame's partials before handing them to
// AddPartial directly.
func EnergyPreservingEnvelope(p *formant.Partials, env *formant.Envelope, ratio, maxPartialFreq float64) {
	formant.PreserveSpectralEnvelope(p, env, ratio, maxPartialFreq)
}
