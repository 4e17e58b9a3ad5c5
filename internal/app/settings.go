// ABOUTME: User-facing settings pushed into a Session each update cycle
// ABOUTME: Defaults and range limits for the control surface
package app

import "github.com/practicalovertone/overtone-go/pkg/synth"

const (
	// MinFrequency and MaxFrequency bound the tone frequency in Hz
	MinFrequency = 100
	MaxFrequency = 10000

	// MinTiltDB and MaxTiltDB bound the harmonic tilt
	MinTiltDB = -24
	MaxTiltDB = 6
)

// Settings is the full control state; the UI sends a complete value each time
type Settings struct {
	Frequency float64 `json:"frequency"`
	TiltDB    float64 `json:"tilt_db"`

	// Record runs the capture pipeline
	Record bool `json:"record"`

	// Draw regenerates the preview waveform
	Draw bool `json:"draw"`

	// ResetPhase rewinds the synthesis path to phase 0
	ResetPhase bool `json:"reset_phase"`
}

// DefaultSettings returns the startup settings
func DefaultSettings() Settings {
	return Settings{
		Frequency: MinFrequency,
		TiltDB:    synth.DefaultTiltDB,
		Draw:      true,
	}
}

// Clamped returns s with Frequency and TiltDB limited to their ranges
func (s Settings) Clamped() Settings {
	s.Frequency = clamp(s.Frequency, MinFrequency, MaxFrequency)
	s.TiltDB = clamp(s.TiltDB, MinTiltDB, MaxTiltDB)
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
