// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts float sample streams between sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation and keeps the last input frame between calls,
// so a stream split into blocks resamples the same as one long buffer.
//
// Example:
//
//	r := resample.New(44100, 48000, 1)
//	out := make([]float32, r.OutputSamplesNeeded(len(in))+1)
//	n := r.Resample(in, out)
package resample
