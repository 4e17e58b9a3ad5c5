// ABOUTME: Tests for the Sampler render contract
// ABOUTME: Tests sample counts, sink streaming, and error propagation
package synth

import (
	"errors"
	"testing"
	"time"
)

type constSampler float64

func (c constSampler) Next() float64 { return float64(c) }

func TestSampleCount(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate int
		duration   time.Duration
		expected   int
	}{
		{"one second", 44100, time.Second, 44100},
		{"half second", 44100, 500 * time.Millisecond, 22050},
		{"rounds down", 44100, 10 * time.Microsecond, 0},
		{"fraction rounds down", 1000, 2500 * time.Microsecond, 2},
		{"zero duration", 44100, 0, 0},
		{"negative duration", 44100, -time.Second, 0},
		{"zero rate", 0, time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SampleCount(tt.sampleRate, tt.duration); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestRenderStreamsToSink(t *testing.T) {
	var got []float32
	sink := SinkFunc(func(s float32) error {
		got = append(got, s)
		return nil
	})

	n, err := Render(constSampler(0.25), 1000, 100*time.Millisecond, sink)
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if n != 100 || len(got) != 100 {
		t.Fatalf("expected 100 samples, got n=%d len=%d", n, len(got))
	}
	for i, s := range got {
		if s != 0.25 {
			t.Errorf("sample %d: expected 0.25, got %f", i, s)
		}
	}
}

func TestRenderMatchesSampler(t *testing.T) {
	ref := NewChord(DefaultSampleRate, 220, 1.5)
	chord := NewChord(DefaultSampleRate, 220, 1.5)

	i := 0
	sink := SinkFunc(func(s float32) error {
		if expected := float32(ref.Next()); s != expected {
			t.Fatalf("sample %d: expected %f, got %f", i, expected, s)
		}
		i++
		return nil
	})

	n, err := Render(chord, DefaultSampleRate, 50*time.Millisecond, sink)
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if n != 2205 {
		t.Errorf("expected 2205 samples, got %d", n)
	}
}

func TestRenderStopsOnSinkError(t *testing.T) {
	errFull := errors.New("disk full")
	calls := 0
	sink := SinkFunc(func(s float32) error {
		calls++
		if calls == 10 {
			return errFull
		}
		return nil
	})

	n, err := Render(constSampler(0), 1000, time.Second, sink)
	if !errors.Is(err, errFull) {
		t.Fatalf("expected disk full error, got %v", err)
	}
	if n != 9 {
		t.Errorf("expected 9 samples written, got %d", n)
	}
}

func TestFill(t *testing.T) {
	osc := NewOscillator(44100)
	osc.SetFrequency(440)
	ref := NewOscillator(44100)
	ref.SetFrequency(440)

	buf := make([]float64, 256)
	Fill(osc, buf, 10000)

	for i, v := range buf {
		if expected := ref.Next() * 10000; v != expected {
			t.Fatalf("sample %d: expected %f, got %f", i, expected, v)
		}
	}
}
