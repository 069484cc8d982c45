// Command smenc analyzes a mono WAV file into a SpectMorph Audio model
// and prints the resulting block statistics.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-audio/wav"
	"github.com/spf13/pflag"

	"github.com/swesterfeld/spectmorph-sub000/encode"
)

func main() {
	fundamentalFreq := pflag.Float64P("freq", "f", 440, "Fundamental frequency of the recording, in Hz.")
	frameSizeMs := pflag.Float64P("frame-size", "s", 40, "Analysis frame size, in milliseconds.")
	frameStepMs := pflag.Float64P("frame-step", "t", 4, "Analysis frame step, in milliseconds.")
	zeropad := pflag.IntP("zeropad", "z", 4, "FFT zero-padding factor.")
	optLevel := pflag.IntP("opt-level", "O", 1, "Optimization level (0, 1 or 2).")
	noAttack := pflag.Bool("no-attack", false, "Disable attack envelope optimization.")
	trackSines := pflag.Bool("track-sines", false, "Record track_sines in the encoder config (the encoder output does not depend on it).")
	configPath := pflag.StringP("config", "c", "", "YAML file of encoder parameter overrides, applied after the flags above.")
	verbose := pflag.BoolP("verbose", "v", false, "Print per-frame partial counts.")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: smenc [options] input.wav")
		os.Exit(2)
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
	max := float32(1 << (buf.SourceBitDepth - 1))
	for i, v := range buf.Data {
		samples[i] = float32(v) / max
	}

	cfg := encode.DefaultConfig(*fundamentalFreq, float64(decoder.SampleRate))
	cfg.FrameSizeMs = *frameSizeMs
	cfg.FrameStepMs = *frameStepMs
	cfg.Zeropad = *zeropad
	cfg.Opt = encode.OptLevel(*optLevel)
	cfg.Attack = !*noAttack
	cfg.TrackSines = *trackSines

	if *configPath != "" {
		overrides, err := loadConfigOverrides(*configPath)
		if err != nil {
			logger.Fatal("load config", "path", *configPath, "err", err)
		}
		overrides.apply(&cfg)
		logger.Info("applied config overrides", "path", *configPath)
	}

	logger.Info("encoding", "samples", len(samples), "mix_freq", decoder.SampleRate, "fundamental", *fundamentalFreq)

	audio, err := encode.Encode(samples, cfg)
	if err != nil {
		logger.Fatal("encode", "err", err)
	}

	if err := audio.Validate(); err != nil {
		logger.Fatal("encoded audio failed validation", "err", err)
	}

	totalPartials := 0
	for i, block := range audio.Contents {
		totalPartials += len(block.Freqs)
		if *verbose {
			fmt.Printf("frame %4d: %2d partials\n", i, len(block.Freqs))
		}
	}

	logger.Info("done",
		"frames", len(audio.Contents),
		"total_partials", totalPartials,
		"attack_start_ms", audio.AttackStartMs,
		"attack_end_ms", audio.AttackEndMs,
	)
}
