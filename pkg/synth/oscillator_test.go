// ABOUTME: Tests for the wavetable oscillator
// ABOUTME: Tests phase increment, wrap-around, interpolation, and periodicity
package synth

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestSineTable(t *testing.T) {
	table := NewSineTable()

	if table.Len() != TableSize {
		t.Fatalf("expected table length %d, got %d", TableSize, table.Len())
	}

	for i := 0; i < table.Len(); i++ {
		v := table.At(i)
		if v < -1.0 || v > 1.0 {
			t.Errorf("table[%d] = %f out of range", i, v)
		}
	}

	if table.At(0) != 0 {
		t.Errorf("expected table[0] = 0, got %f", table.At(0))
	}
	if !approxEqual(table.At(TableSize/4), 1.0, 1e-12) {
		t.Errorf("expected table[%d] = 1, got %f", TableSize/4, table.At(TableSize/4))
	}

	if NewSineTable() != table {
		t.Error("expected the sine table to be shared")
	}
}

func TestPhaseIncrement(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate int
		frequency  float64
	}{
		{"A4 at 44.1k", 44100, 440},
		{"low at 48k", 48000, 100},
		{"high at 44.1k", 44100, 10000},
		{"zero", 44100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			osc := NewOscillator(tt.sampleRate)
			osc.SetFrequency(tt.frequency)

			expected := tt.frequency * TableSize / float64(tt.sampleRate)
			if osc.Increment() != expected {
				t.Errorf("expected increment %f, got %f", expected, osc.Increment())
			}
		})
	}
}

func TestPhaseWrapsIntoTable(t *testing.T) {
	osc := NewOscillator(44100)
	osc.SetFrequency(9000)

	for i := 0; i < 10000; i++ {
		osc.Next()
		p := osc.Phase()
		if p < 0 || p >= TableSize {
			t.Fatalf("sample %d: phase %f outside [0, %d)", i, p, TableSize)
		}
	}
}

func TestSetPhaseWraps(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, 0},
		{10.5, 10.5},
		{64, 0},
		{70, 6},
		{-1, 63},
	}

	for _, tt := range tests {
		osc := NewOscillator(44100)
		osc.SetPhase(tt.input)
		if osc.Phase() != tt.expected {
			t.Errorf("SetPhase(%f): expected %f, got %f", tt.input, tt.expected, osc.Phase())
		}
	}
}

func TestZeroIncrementIsStatic(t *testing.T) {
	osc := NewOscillator(44100)
	osc.SetPhase(5.25)

	first := osc.Next()
	for i := 0; i < 100; i++ {
		if v := osc.Next(); v != first {
			t.Fatalf("call %d: expected %f, got %f", i, first, v)
		}
	}
}

func TestIntegerPhaseReturnsTableValue(t *testing.T) {
	table := NewSineTable()
	osc := NewOscillator(44100)

	for i := 0; i < TableSize; i++ {
		osc.SetPhase(float64(i))
		if v := osc.Next(); v != table.At(i) {
			t.Errorf("phase %d: expected %f, got %f", i, table.At(i), v)
		}
	}
}

func TestLinearInterpolation(t *testing.T) {
	table := NewSineTable()
	osc := NewOscillator(44100)

	osc.SetPhase(2.25)
	expected := table.At(2)*0.75 + table.At(3)*0.25
	if v := osc.Value(); !approxEqual(v, expected, 1e-15) {
		t.Errorf("expected %f, got %f", expected, v)
	}

	// Last index interpolates towards index 0
	osc.SetPhase(63.5)
	expected = table.At(63)*0.5 + table.At(0)*0.5
	if v := osc.Value(); !approxEqual(v, expected, 1e-15) {
		t.Errorf("expected %f, got %f", expected, v)
	}
}

func TestPeriodicity(t *testing.T) {
	tests := []struct {
		sampleRate int
		frequency  float64
	}{
		{44100, 441},
		{48000, 480},
		{44100, 100},
	}

	for _, tt := range tests {
		osc := NewOscillator(tt.sampleRate)
		osc.SetFrequency(tt.frequency)
		osc.SetPhase(3)

		period := int(float64(tt.sampleRate) / tt.frequency)
		for i := 0; i < period; i++ {
			osc.Next()
		}

		if !approxEqual(osc.Phase(), 3, 1e-9) {
			t.Errorf("%gHz at %d: expected phase to return to 3, got %f",
				tt.frequency, tt.sampleRate, osc.Phase())
		}
	}
}

func TestA4EndToEnd(t *testing.T) {
	osc := NewOscillator(44100)
	osc.SetFrequency(440)

	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = osc.Next()
		if samples[i] < -1.0 || samples[i] > 1.0 {
			t.Errorf("sample %d = %f out of range", i, samples[i])
		}
	}

	// One cycle lasts 44100/440 = 100.227 samples, so sample 100 sits just
	// before the start of the second cycle.
	period := 44100.0 / 440.0
	if !approxEqual(period, 100.227, 1e-3) {
		t.Fatalf("unexpected period %f", period)
	}

	next := osc.Next()
	if !approxEqual(next, samples[0], 0.02) {
		t.Errorf("expected sample 100 (%f) close to sample 0 (%f)", next, samples[0])
	}
	if next >= samples[0] {
		t.Errorf("expected sample 100 (%f) to lag sample 0 (%f) on the rising edge", next, samples[0])
	}

	// The first half cycle is non-negative, the second non-positive
	for i := 1; i < 50; i++ {
		if samples[i] < 0 {
			t.Errorf("sample %d expected positive, got %f", i, samples[i])
		}
	}
	for i := 51; i < 100; i++ {
		if samples[i] > 0 {
			t.Errorf("sample %d expected negative, got %f", i, samples[i])
		}
	}
}
