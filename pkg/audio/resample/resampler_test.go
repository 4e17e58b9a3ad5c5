// ABOUTME: Tests for audio resampler
// ABOUTME: Tests linear interpolation resampling and block continuity
package resample

import (
	"math"
	"testing"
)

func ramp(frames, channels int) []float32 {
	out := make([]float32, frames*channels)
	for i := range out {
		out[i] = float32(i) / 100
	}
	return out
}

func TestNew(t *testing.T) {
	r := New(44100, 48000, 2)

	if r.InputRate() != 44100 {
		t.Errorf("expected inputRate 44100, got %d", r.InputRate())
	}
	if r.OutputRate() != 48000 {
		t.Errorf("expected outputRate 48000, got %d", r.OutputRate())
	}
	if r.Channels() != 2 {
		t.Errorf("expected channels 2, got %d", r.Channels())
	}
}

func TestResampleRates(t *testing.T) {
	tests := []struct {
		name    string
		inRate  int
		outRate int
	}{
		{"upsampling", 44100, 48000},
		{"downsampling", 48000, 44100},
		{"same rate", 48000, 48000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.inRate, tt.outRate, 2)
			input := ramp(100, 2)

			expected := r.OutputSamplesNeeded(len(input))
			output := make([]float32, expected+10)
			n := r.Resample(input, output)

			if n == 0 {
				t.Fatal("resampler produced no output")
			}
			if n%2 != 0 {
				t.Errorf("expected whole frames, got %d samples", n)
			}
			if n < expected-10 || n > expected+10 {
				t.Errorf("expected ~%d samples, got %d", expected, n)
			}
		})
	}
}

func TestResampleSameRateCopies(t *testing.T) {
	r := New(48000, 48000, 1)
	input := ramp(50, 1)
	output := make([]float32, 60)

	n := r.Resample(input, output)
	if n != 49 {
		t.Fatalf("expected 49 samples, got %d", n)
	}
	for i := 0; i < n; i++ {
		if output[i] != input[i] {
			t.Errorf("sample %d: expected %f, got %f", i, input[i], output[i])
		}
	}
}

func TestResampleStereoChannelsStaySeparate(t *testing.T) {
	r := New(44100, 48000, 2)

	input := make([]float32, 200)
	for i := 0; i < 100; i++ {
		input[i*2] = 0.5
		input[i*2+1] = -0.5
	}

	output := make([]float32, 250)
	n := r.Resample(input, output)

	for i := 0; i < n; i += 2 {
		if math.Abs(float64(output[i]-0.5)) > 1e-6 {
			t.Fatalf("left sample %d: expected 0.5, got %f", i, output[i])
		}
		if math.Abs(float64(output[i+1]+0.5)) > 1e-6 {
			t.Fatalf("right sample %d: expected -0.5, got %f", i, output[i+1])
		}
	}
}

func TestResampleBlocksMatchSingleBuffer(t *testing.T) {
	input := ramp(400, 1)

	whole := New(44100, 48000, 1)
	wantBuf := make([]float32, 600)
	want := wantBuf[:whole.Resample(input, wantBuf)]

	split := New(44100, 48000, 1)
	var got []float32
	for start := 0; start < len(input); start += 100 {
		buf := make([]float32, 150)
		n := split.Resample(input[start:start+100], buf)
		got = append(got, buf[:n]...)
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-3 {
			t.Fatalf("sample %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestResampleEmptyInput(t *testing.T) {
	r := New(44100, 48000, 1)
	if n := r.Resample(nil, make([]float32, 10)); n != 0 {
		t.Errorf("expected 0 samples, got %d", n)
	}
}

func TestReset(t *testing.T) {
	r := New(44100, 48000, 1)
	input := ramp(100, 1)
	first := make([]float32, 150)
	n1 := r.Resample(input, first)

	r.Reset()
	second := make([]float32, 150)
	n2 := r.Resample(input, second)

	if n1 != n2 {
		t.Fatalf("expected %d samples after reset, got %d", n1, n2)
	}
	for i := 0; i < n1; i++ {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after reset", i)
		}
	}
}

func TestSamplesNeeded(t *testing.T) {
	r := New(24000, 48000, 2)

	if got := r.OutputSamplesNeeded(200); got != 400 {
		t.Errorf("OutputSamplesNeeded(200) = %d, want 400", got)
	}
	if got := r.InputSamplesNeeded(400); got != 200 {
		t.Errorf("InputSamplesNeeded(400) = %d, want 200", got)
	}
}
