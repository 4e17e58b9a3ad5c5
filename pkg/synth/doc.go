// ABOUTME: Wavetable synthesis package
// ABOUTME: Provides oscillators, harmonic voices, and composite sources
// Package synth generates periodic tones from a precomputed wave table.
//
// The building blocks, leaves first:
//   - WaveTable: an immutable single cycle of a sine wave
//   - Oscillator: a phase accumulator reading a WaveTable with linear interpolation
//   - Voice: ten harmonic oscillators weighted by a spectral tilt
//   - Composite: the sum of several voices (a chord)
//
// All of them implement Sampler, which Render uses to stream a fixed duration of
// audio into a SampleSink such as a WAV file writer.
//
// Example:
//
//	chord := synth.NewChord(synth.DefaultSampleRate, 220, 1.5)
//	n, err := synth.Render(chord, synth.DefaultSampleRate, time.Second, sink)
package synth
