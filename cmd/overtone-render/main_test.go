// ABOUTME: Tests for the batch renderer
// ABOUTME: Verifies default rendering writes the unscaled signal
package main

import (
	"testing"

	"github.com/practicalovertone/overtone-go/pkg/synth"
	flag "github.com/spf13/pflag"
)

func TestDefaultGainIsUnity(t *testing.T) {
	if def := gainFlagDefault(t); def != "1" {
		t.Fatalf("expected default gain 1, got %s", def)
	}

	got := newSampler()
	expected := synth.NewChord(*sampleRate, *root, *interval)
	expected.SetTilt(*tilt)

	for i := 0; i < 1000; i++ {
		g, e := got.Next(), expected.Next()
		if g != e {
			t.Fatalf("sample %d: expected %f, got %f", i, e, g)
		}
	}
}

func TestScaledSampler(t *testing.T) {
	osc := synth.NewOscillator(8000)
	osc.SetFrequency(1000)
	ref := synth.NewOscillator(8000)
	ref.SetFrequency(1000)

	s := scaled{Sampler: osc, gain: 0.5}
	for i := 0; i < 16; i++ {
		if g, e := s.Next(), ref.Next()*0.5; g != e {
			t.Fatalf("sample %d: expected %f, got %f", i, e, g)
		}
	}
}

func gainFlagDefault(t *testing.T) string {
	t.Helper()
	f := flag.Lookup("gain")
	if f == nil {
		t.Fatal("gain flag not registered")
	}
	return f.DefValue
}
