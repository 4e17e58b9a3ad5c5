// ABOUTME: Wavetable oscillator with a fractional phase accumulator
// ABOUTME: Produces one linearly interpolated sample per call
package synth

import "math"

// Oscillator reads a WaveTable at a fractional phase that advances once per sample
type Oscillator struct {
	sampleRate int
	table      *WaveTable

	// phase is the fractional table index, always in [0, TableSize)
	phase float64

	// increment is how far phase moves per sample
	increment float64
}

// NewOscillator creates a silent oscillator (increment 0) at the given sample rate
func NewOscillator(sampleRate int) *Oscillator {
	o := &Oscillator{}
	o.init(sampleRate)
	return o
}

func (o *Oscillator) init(sampleRate int) {
	o.sampleRate = sampleRate
	o.table = NewSineTable()
	o.phase = 0
	o.increment = 0
}

// SampleRate returns the sample rate the oscillator was created with
func (o *Oscillator) SampleRate() int {
	return o.sampleRate
}

// SetFrequency retunes the oscillator. No range check is applied.
func (o *Oscillator) SetFrequency(hz float64) {
	o.increment = hz * TableSize / float64(o.sampleRate)
}

// SetPhase sets the absolute table phase, wrapped into [0, TableSize)
func (o *Oscillator) SetPhase(phase float64) {
	o.phase = wrapPhase(phase)
}

// Phase returns the current table phase
func (o *Oscillator) Phase() float64 {
	return o.phase
}

// Increment returns the per-sample phase increment
func (o *Oscillator) Increment() float64 {
	return o.increment
}

// Value returns the interpolated table value at the current phase without advancing
func (o *Oscillator) Value() float64 {
	i := int(o.phase)
	j := (i + 1) % TableSize
	w := o.phase - float64(i)
	return o.table[i]*(1-w) + o.table[j]*w
}

// Next returns the current sample and advances the phase
func (o *Oscillator) Next() float64 {
	sample := o.Value()
	o.phase = wrapPhase(o.phase + o.increment)
	return sample
}

// wrapPhase renormalizes p into [0, TableSize)
func wrapPhase(p float64) float64 {
	p = math.Mod(p, TableSize)
	if p < 0 {
		p += TableSize
	}
	// math.Mod of a tiny negative value can round up to TableSize
	if p >= TableSize {
		p = 0
	}
	return p
}
