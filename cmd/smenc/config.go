package main

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/swesterfeld/spectmorph-sub000/encode"
)

// configOverrides is a YAML-loadable subset of encode.Config, letting a
// batch job pin encoder parameters in a file instead of repeating flags on
// every invocation. Fields left unset in the file (nil pointers) leave the
// flag-derived value untouched.
type configOverrides struct {
	FrameSizeMs *float64 `yaml:"frame_size_ms"`
	FrameStepMs *float64 `yaml:"frame_step_ms"`
	Zeropad     *int     `yaml:"zeropad"`
	OptLevel    *int     `yaml:"opt_level"`
	Attack      *bool    `yaml:"attack"`
	TrackSines  *bool    `yaml:"track_sines"`
	AttackSeed  *uint32  `yaml:"attack_seed"`
}

func loadConfigOverrides(path string) (*configOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c configOverrides
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &c, nil
}

func (c *configOverrides) apply(cfg *encode.Config) {
	if c.FrameSizeMs != nil {
		cfg.FrameSizeMs = *c.FrameSizeMs
	}
	if c.FrameStepMs != nil {
		cfg.FrameStepMs = *c.FrameStepMs
	}
	if c.Zeropad != nil {
		cfg.Zeropad = *c.Zeropad
	}
	if c.OptLevel != nil {
		cfg.Opt = encode.OptLevel(*c.OptLevel)
	}
	if c.Attack != nil {
		cfg.Attack = *c.Attack
	}
	if c.TrackSines != nil {
		cfg.TrackSines = *c.TrackSines
	}
	if c.AttackSeed != nil {
		cfg.AttackSeed = *c.AttackSeed
	}
}
