// ABOUTME: Audio type definitions
// ABOUTME: Defines stream formats and float32 byte conversions
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SampleFormat identifies how a single sample is encoded
type SampleFormat int

const (
	SampleFormatUnknown SampleFormat = iota
	SampleFormatU8
	SampleFormatS16
	SampleFormatS24
	SampleFormatS32
	SampleFormatF32
)

// String returns a short human-readable name
func (f SampleFormat) String() string {
	switch f {
	case SampleFormatU8:
		return "U8"
	case SampleFormatS16:
		return "S16"
	case SampleFormatS24:
		return "S24"
	case SampleFormatS32:
		return "S32"
	case SampleFormatF32:
		return "F32"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// BytesPerSample returns the encoded size of one sample, or 0 if unknown
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case SampleFormatU8:
		return 1
	case SampleFormatS16:
		return 2
	case SampleFormatS24:
		return 3
	case SampleFormatS32, SampleFormatF32:
		return 4
	default:
		return 0
	}
}

// Format describes an audio stream
type Format struct {
	SampleRate   int
	Channels     int
	SampleFormat SampleFormat
}

// String formats the stream description for logs
func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%s", f.SampleRate, f.Channels, f.SampleFormat)
}

// DecodeFloat32LE decodes little-endian float32 samples from src into dst,
// growing dst only when it is too small. Trailing partial samples are ignored.
func DecodeFloat32LE(dst []float32, src []byte) []float32 {
	n := len(src) / 4
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return dst
}

// EncodeFloat32LE encodes samples as little-endian float32 into dst, which must
// hold at least 4*len(samples) bytes. It returns the number of bytes written.
func EncodeFloat32LE(dst []byte, samples []float32) int {
	for i, s := range samples {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(s))
	}
	return len(samples) * 4
}

// Clip limits a sample to [-1, 1]
func Clip(s float32) float32 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
