package decode

import "testing"

// TestHotPathAllocsProcess guards the RT no-alloc invariant the package doc
// promises: once a voice is retriggered, repeated Process calls must not
// touch the Go allocator. Five Process calls run before measuring so that
// lazily built state is in place.
func TestHotPathAllocsProcess(t *testing.T) {
	audio := newTestAudio(80)
	d := New()
	d.Retrigger(audio, VoiceParams{Freq: 440, MixFreq: 48000, Unison: 2, DetuneCents: 8, NoiseSeed: 13})

	out := make([]float64, 2048)
	for i := 0; i < 5; i++ {
		d.Process(len(out), nil, out)
	}

	allocs := testing.AllocsPerRun(50, func() {
		d.Process(len(out), nil, out)
	})
	if allocs != 0 {
		t.Fatalf("Process allocs/op = %.2f, want 0", allocs)
	}
}
