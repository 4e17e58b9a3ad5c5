// ABOUTME: Harmonic voice built from a bank of oscillators
// ABOUTME: Applies a geometric spectral tilt across the harmonics
package synth

import "math"

const (
	// NumHarmonics is the number of oscillators in a voice
	NumHarmonics = 10

	// DefaultTiltDB is the roll-off applied to a new voice
	DefaultTiltDB = -3.0
)

// Voice sums a fundamental and its harmonics, each harmonic attenuated by the tilt
type Voice struct {
	harmonics [NumHarmonics]Oscillator
	frequency float64

	// tiltDB is usually in the [-16, -0.1] range
	tiltDB float64

	// tiltRatio is the amplitude ratio between successive harmonics
	tiltRatio float64
}

// NewVoice creates a voice with the default tilt. It stays silent until SetFrequency.
func NewVoice(sampleRate int) *Voice {
	v := &Voice{}
	for i := range v.harmonics {
		v.harmonics[i].init(sampleRate)
	}
	v.SetTilt(DefaultTiltDB)
	return v
}

// SetFrequency sets the fundamental and retunes every harmonic to hz*(i+1)
func (v *Voice) SetFrequency(hz float64) {
	v.frequency = hz
	for i := range v.harmonics {
		v.harmonics[i].SetFrequency(hz * float64(i+1))
	}
}

// SetTilt sets the roll-off in decibels per harmonic. Frequencies are untouched.
func (v *Voice) SetTilt(db float64) {
	v.tiltDB = db
	v.tiltRatio = DBToAmplitude(db)
}

// SetPhase sets every harmonic to the same absolute table phase
func (v *Voice) SetPhase(phase float64) {
	for i := range v.harmonics {
		v.harmonics[i].SetPhase(phase)
	}
}

// Frequency returns the fundamental frequency
func (v *Voice) Frequency() float64 {
	return v.frequency
}

// Tilt returns the tilt in decibels
func (v *Voice) Tilt() float64 {
	return v.tiltDB
}

// TiltRatio returns 10^(tilt/20)
func (v *Voice) TiltRatio() float64 {
	return v.tiltRatio
}

// Harmonic returns the oscillator for harmonic i (0 is the fundamental)
func (v *Voice) Harmonic(i int) *Oscillator {
	return &v.harmonics[i]
}

// Weight returns the amplitude applied to harmonic i
func (v *Voice) Weight(i int) float64 {
	return math.Pow(v.tiltRatio, float64(i))
}

// Next returns the tilted sum of all harmonics and advances each of them
func (v *Voice) Next() float64 {
	sum := 0.0
	weight := 1.0
	for i := range v.harmonics {
		sum += v.harmonics[i].Next() * weight
		weight *= v.tiltRatio
	}
	return sum
}

// DBToAmplitude converts decibels to a linear amplitude ratio
func DBToAmplitude(db float64) float64 {
	return math.Pow(10, db/20)
}
