// ABOUTME: Composite source summing a fixed ensemble of voices
// ABOUTME: Provides the default two-voice chord
package synth

const (
	// DefaultRoot is the chord root used by the renderer
	DefaultRoot = 220.0

	// DefaultInterval is the ratio of the upper chord voice to the root (a fifth)
	DefaultInterval = 1.5
)

// Composite sums its voices in construction order. No normalization is applied.
//
// The ensemble is fixed for the lifetime of a Composite. To change membership,
// build a new Composite from the voices you want to keep.
type Composite struct {
	voices []*Voice
}

// NewComposite creates a composite over the given voices
func NewComposite(voices ...*Voice) *Composite {
	v := make([]*Voice, len(voices))
	copy(v, voices)
	return &Composite{voices: v}
}

// NewChord creates a two-voice composite tuned to root and root*interval
func NewChord(sampleRate int, root, interval float64) *Composite {
	low := NewVoice(sampleRate)
	high := NewVoice(sampleRate)
	low.SetFrequency(root)
	high.SetFrequency(root * interval)
	return NewComposite(low, high)
}

// Len returns the number of voices
func (c *Composite) Len() int {
	return len(c.voices)
}

// Voice returns voice i so its tilt or phase can be adjusted
func (c *Composite) Voice(i int) *Voice {
	return c.voices[i]
}

// SetTilt applies the same tilt to every voice
func (c *Composite) SetTilt(db float64) {
	for _, v := range c.voices {
		v.SetTilt(db)
	}
}

// Next returns the sum of every voice's next sample
func (c *Composite) Next() float64 {
	sum := 0.0
	for _, v := range c.voices {
		sum += v.Next()
	}
	return sum
}
