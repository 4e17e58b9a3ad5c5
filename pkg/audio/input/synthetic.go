// ABOUTME: Synthetic audio input for tests and device-less runs
// ABOUTME: Delivers caller-supplied or generated blocks through the Input interface
package input

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/practicalovertone/overtone-go/pkg/audio"
)

// Generator produces one sample per call (satisfied by synth samplers)
type Generator interface {
	Next() float64
}

// Synthetic is an Input with no hardware behind it
type Synthetic struct {
	name   string
	format audio.Format
	frames int

	mu      sync.Mutex
	running bool
	onData  DataFunc
	onError ErrorFunc
}

// NewSynthetic creates a synthetic input with the given format and block size
func NewSynthetic(format audio.Format, blockFrames int) *Synthetic {
	if format.SampleFormat == audio.SampleFormatUnknown {
		format.SampleFormat = audio.SampleFormatF32
	}
	return &Synthetic{
		name:   "synthetic",
		format: format,
		frames: blockFrames,
	}
}

// Name returns the device name
func (s *Synthetic) Name() string { return s.name }

// Format returns the configured format
func (s *Synthetic) Format() audio.Format { return s.format }

// BufferFrames returns the block size used by Stream
func (s *Synthetic) BufferFrames() int { return s.frames }

// Start installs the callbacks
func (s *Synthetic) Start(onData DataFunc, onError ErrorFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onData = onData
	s.onError = onError
	s.running = true
	return nil
}

// Stop removes the callbacks. Blocks delivered afterwards are dropped.
func (s *Synthetic) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	s.onData = nil
	s.onError = nil
	return nil
}

// Close stops the input
func (s *Synthetic) Close() error {
	return s.Stop()
}

// Running reports whether callbacks are installed
func (s *Synthetic) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Deliver hands one interleaved block to the data callback, as the device thread
// would. It returns false if the input is stopped.
func (s *Synthetic) Deliver(block []float32) bool {
	s.mu.Lock()
	onData := s.onData
	s.mu.Unlock()

	if onData == nil {
		return false
	}
	onData(block, s.format.Channels)
	return true
}

// Fail reports a runtime device error through the error callback
func (s *Synthetic) Fail(err error) bool {
	s.mu.Lock()
	onError := s.onError
	s.mu.Unlock()

	if onError == nil {
		return false
	}
	onError(err)
	return true
}

// Stream delivers blocks generated from gen at real-time pace until ctx is done.
// Every channel of a frame carries the same sample.
func (s *Synthetic) Stream(ctx context.Context, gen Generator) error {
	if s.frames <= 0 || s.format.SampleRate <= 0 || s.format.Channels <= 0 {
		return fmt.Errorf("invalid synthetic stream format %s with %d frames", s.format, s.frames)
	}

	interval := time.Duration(s.frames) * time.Second / time.Duration(s.format.SampleRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	block := make([]float32, s.frames*s.format.Channels)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for i := 0; i < s.frames; i++ {
				v := float32(gen.Next())
				for ch := 0; ch < s.format.Channels; ch++ {
					block[i*s.format.Channels+ch] = v
				}
			}
			s.Deliver(block)
		}
	}
}
