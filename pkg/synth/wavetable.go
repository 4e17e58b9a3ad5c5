// ABOUTME: Precomputed single-cycle wave table
// ABOUTME: Shared read-only sine table used by every oscillator
package synth

import "math"

const (
	// TableSize is the number of samples in one wave table cycle
	TableSize = 64

	// DefaultSampleRate is the reference synthesis rate (samples per second)
	DefaultSampleRate = 44100
)

// WaveTable holds one full cycle of a reference waveform
type WaveTable [TableSize]float64

var sineTable = buildSineTable()

func buildSineTable() *WaveTable {
	var t WaveTable
	for i := range t {
		t[i] = math.Sin(2 * math.Pi * float64(i) / TableSize)
	}
	return &t
}

// NewSineTable returns the shared sine table. Callers must not modify it.
func NewSineTable() *WaveTable {
	return sineTable
}

// At returns the table value at index i
func (t *WaveTable) At(i int) float64 {
	return t[i]
}

// Len returns the number of samples in the table
func (t *WaveTable) Len() int {
	return TableSize
}
