// Command smplay retriggers a SpectMorph voice from a WAV file and streams
// the rendered output to the default audio device.
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/oto/v2"
	"github.com/spf13/pflag"

	spectmorph "github.com/swesterfeld/spectmorph-sub000"
	"github.com/swesterfeld/spectmorph-sub000/encode"
	"github.com/swesterfeld/spectmorph-sub000/util"
)

const blockValues = 256

func main() {
	fundamentalFreq := pflag.Float64P("freq", "f", 440, "Fundamental frequency the source was recorded at, in Hz.")
	playFreq := pflag.Float64P("play-freq", "p", 0, "Frequency to render at; defaults to --freq.")
	unison := pflag.IntP("unison", "u", 1, "Number of detuned unison voices.")
	detune := pflag.Float64P("detune-cents", "d", 10, "Unison detune spread, in cents.")
	vibratoDepth := pflag.Float64("vibrato-depth", 0, "Vibrato depth, in cents.")
	vibratoFreq := pflag.Float64("vibrato-freq", 5, "Vibrato rate, in Hz.")
	durationMs := pflag.IntP("duration", "t", 2000, "Playback duration, in milliseconds.")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: smplay [options] input.wav")
		os.Exit(2)
	}
	if *playFreq == 0 {
		*playFreq = *fundamentalFreq
	}

	logger := log.New(os.Stderr)

	f, err := os.Open(pflag.Arg(0))
	if err != nil {
		logger.Fatal("open input", "err", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		logger.Fatal("not a valid WAV file", "path", pflag.Arg(0))
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		logger.Fatal("decode PCM", "err", err)
	}

	samples := make([]float32, len(buf.Data))
	maxAmp := float32(1 << (buf.SourceBitDepth - 1))
	for i, v := range buf.Data {
		samples[i] = float32(v) / maxAmp
	}

	cfg := encode.DefaultConfig(*fundamentalFreq, float64(decoder.SampleRate))
	cfg.Attack = true
	audio, err := encode.Encode(samples, cfg)
	if err != nil {
		logger.Fatal("encode", "err", err)
	}

	voice := spectmorph.NewLiveDecoder()
	voice.Retrigger(audio, *playFreq, 127, spectmorph.UnisonParams{
		Unison:            *unison,
		DetuneCents:       *detune,
		VibratoDepthCents: *vibratoDepth,
		VibratoFreqHz:     *vibratoFreq,
		NoiseSeed:         -1,
	})

	ctx, ready, err := oto.NewContext(int(audio.MixFreq), 1, 2)
	if err != nil {
		logger.Fatal("create audio context", "err", err)
	}
	<-ready

	r, w := io.Pipe()
	player := ctx.NewPlayer(r)
	player.Play()
	defer player.Close()

	logger.Info("playing", "freq", *playFreq, "unison", *unison, "mix_freq", audio.MixFreq)

	nValues := int(audio.MixFreq * float64(*durationMs) / 1000.0)
	go renderAndStream(voice, nValues, *playFreq, w)

	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
		if voice.Done() {
			break
		}
	}
	time.Sleep(200 * time.Millisecond)
}

// renderAndStream pulls fixed-size blocks from the decoder and writes them
// to w as little-endian 16-bit PCM, closing w once the voice is exhausted or
// the requested sample count is reached.
func renderAndStream(voice *spectmorph.LiveDecoder, nValues int, freq float64, w *io.PipeWriter) {
	defer w.Close()

	block := make([]float64, blockValues)
	pcm := make([]byte, blockValues*2)

	for remaining := nValues; remaining > 0 && !voice.Done(); remaining -= blockValues {
		n := blockValues
		if remaining < n {
			n = remaining
		}
		voice.Process(n, []float64{freq}, block[:n])

		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint16(pcm[i*2:], uint16(util.Float64ToInt16(block[i])))
		}
		if _, err := w.Write(pcm[:n*2]); err != nil {
			return
		}
	}
}
