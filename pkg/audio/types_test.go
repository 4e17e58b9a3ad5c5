// ABOUTME: Tests for audio types
// ABOUTME: Tests format names and float32 conversions
package audio

import "testing"

func TestSampleFormatString(t *testing.T) {
	tests := []struct {
		format   SampleFormat
		expected string
		bytes    int
	}{
		{SampleFormatU8, "U8", 1},
		{SampleFormatS16, "S16", 2},
		{SampleFormatS24, "S24", 3},
		{SampleFormatS32, "S32", 4},
		{SampleFormatF32, "F32", 4},
		{SampleFormatUnknown, "Unknown(0)", 0},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if tt.format.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.format.String())
			}
			if tt.format.BytesPerSample() != tt.bytes {
				t.Errorf("expected %d bytes, got %d", tt.bytes, tt.format.BytesPerSample())
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	f := Format{SampleRate: 48000, Channels: 2, SampleFormat: SampleFormatF32}
	if f.String() != "48000Hz/2ch/F32" {
		t.Errorf("unexpected format string %q", f.String())
	}
}

func TestFloat32RoundTrip(t *testing.T) {
	samples := []float32{0, 1, -1, 0.5, -0.25, 1e-7}
	raw := make([]byte, len(samples)*4)

	n := EncodeFloat32LE(raw, samples)
	if n != len(raw) {
		t.Fatalf("expected %d bytes, got %d", len(raw), n)
	}

	decoded := DecodeFloat32LE(nil, raw)
	if len(decoded) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(decoded))
	}
	for i := range samples {
		if decoded[i] != samples[i] {
			t.Errorf("sample %d: expected %f, got %f", i, samples[i], decoded[i])
		}
	}
}

func TestDecodeFloat32LEReusesBuffer(t *testing.T) {
	scratch := make([]float32, 0, 16)
	raw := []byte{0, 0, 0x80, 0x3f, 0, 0, 0x80, 0xbf, 0xff} // 1.0, -1.0, trailing byte

	out := DecodeFloat32LE(scratch, raw)
	if len(out) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(out))
	}
	if &out[0] != &scratch[:1][0] {
		t.Error("expected decode to reuse the scratch buffer")
	}
	if out[0] != 1 || out[1] != -1 {
		t.Errorf("expected [1 -1], got %v", out)
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		input    float32
		expected float32
	}{
		{0, 0},
		{0.5, 0.5},
		{1.5, 1},
		{-2, -1},
		{-1, -1},
	}

	for _, tt := range tests {
		if got := Clip(tt.input); got != tt.expected {
			t.Errorf("Clip(%f): expected %f, got %f", tt.input, tt.expected, got)
		}
	}
}
