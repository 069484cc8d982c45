// Package spectmorph implements a frame-based sines+noise spectral model for
// musical instrument recordings: an offline Encoder that turns a mono signal
// into a sequence of AudioBlocks, and a real-time LiveDecoder that
// resynthesizes them, optionally retuned, stretched, looped, filtered and
// formant-preserving.
//
// # Model
//
// An Audio holds the fundamental frequency, mix (sample) rate, sample count
// and an ordered sequence of AudioBlock frames, each carrying quantized
// sine partials (frequency, magnitude, optional phase) and a 32-band mel
// noise envelope. A WavSet groups several Audio samples recorded at
// different pitches (Tracksels) so a LiveDecoder can pick the one closest
// to the requested pitch; it does not interpolate between Tracksels.
//
// # Encoding and decoding
//
// Use the encode package to analyze a signal into an Audio. Use the decode
// package, or the LiveDecoder wrapper in this package, to retrigger and
// render audio from it. The supporting numerical packages (sfmath, sfft,
// window, poly, noise, ifft, formant, rtmem, rng) implement the fixed-point
// tables, transforms, windows, interpolation and allocation-free memory
// arena the encoder and decoder depend on, and are usable standalone.
//
// The decode path never allocates, blocks or locks once a voice is
// retriggered, so it is safe to call LiveDecoder.Process from an audio
// callback thread.
package spectmorph
