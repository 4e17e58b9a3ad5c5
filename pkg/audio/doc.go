// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, SampleFormat, and float32 sample conversions
// Package audio provides the types shared by the device, file, and capture layers.
//
// This package defines:
//   - Format: sample rate, channel count, and sample encoding of a stream
//   - SampleFormat: the sample encoding negotiated with a device
//
// It also provides little-endian float32 conversions used at the device boundary.
//
// Example:
//
//	format := audio.Format{
//	    SampleRate:   48000,
//	    Channels:     2,
//	    SampleFormat: audio.SampleFormatF32,
//	}
//	samples := audio.DecodeFloat32LE(scratch, raw)
package audio
