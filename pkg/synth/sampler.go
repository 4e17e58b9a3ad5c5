// ABOUTME: Sampler contract shared by oscillators, voices, and composites
// ABOUTME: Renders a fixed duration of samples into an external sink
package synth

import (
	"fmt"
	"time"
)

// Sampler produces one sample per call
type Sampler interface {
	Next() float64
}

// SampleSink consumes rendered samples one at a time
type SampleSink interface {
	WriteSample(sample float32) error
}

// SinkFunc adapts a function to a SampleSink
type SinkFunc func(sample float32) error

// WriteSample calls f(sample)
func (f SinkFunc) WriteSample(sample float32) error {
	return f(sample)
}

var (
	_ Sampler = (*Oscillator)(nil)
	_ Sampler = (*Voice)(nil)
	_ Sampler = (*Composite)(nil)
)

// SampleCount returns how many samples cover d at sampleRate, rounded down
func SampleCount(sampleRate int, d time.Duration) int {
	if sampleRate <= 0 || d <= 0 {
		return 0
	}
	return int(float64(sampleRate) * d.Seconds())
}

// Render pulls SampleCount(sampleRate, d) samples from s and hands each to sink.
// It returns the number of samples written before any sink error.
func Render(s Sampler, sampleRate int, d time.Duration, sink SampleSink) (int, error) {
	total := SampleCount(sampleRate, d)
	for i := 0; i < total; i++ {
		if err := sink.WriteSample(float32(s.Next())); err != nil {
			return i, fmt.Errorf("failed to write sample %d: %w", i, err)
		}
	}
	return total, nil
}

// Fill overwrites dst with consecutive samples from s multiplied by gain
func Fill(s Sampler, dst []float64, gain float64) {
	for i := range dst {
		dst[i] = s.Next() * gain
	}
}
