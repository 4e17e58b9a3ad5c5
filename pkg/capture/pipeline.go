// ABOUTME: Capture pipeline from an input device into a ring buffer
// ABOUTME: Implements the Stopped/Running state machine and the device callback
package capture

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/practicalovertone/overtone-go/pkg/audio"
	"github.com/practicalovertone/overtone-go/pkg/audio/input"
)

// ErrUnsupportedChannels is returned for devices with other than one or two channels
var ErrUnsupportedChannels = errors.New("unsupported channel count (only mono and stereo are supported)")

// State is the pipeline run state
type State int

const (
	Stopped State = iota
	Running
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	default:
		return "stopped"
	}
}

// Stats counts callback activity
type Stats struct {
	Blocks  uint64
	Samples uint64
	Errors  uint64
}

// Pipeline connects an input device to a Buffer
type Pipeline struct {
	in      input.Input
	format  audio.Format
	buffer  *Buffer
	onError func(error)

	mu    sync.Mutex // guards state transitions only
	state State

	// Owned by the device thread
	mono []float32

	blocks  atomic.Uint64
	samples atomic.Uint64
	errors  atomic.Uint64
}

// NewPipeline validates the input's format and creates a stopped pipeline with a
// buffer sized for the device sample rate. onError receives runtime device
// errors; nil logs them.
func NewPipeline(in input.Input, onError func(error)) (*Pipeline, error) {
	format := in.Format()

	if format.SampleFormat != audio.SampleFormatF32 {
		return nil, fmt.Errorf("%w: got %s", input.ErrUnsupportedFormat, format.SampleFormat)
	}
	if format.Channels != 1 && format.Channels != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedChannels, format.Channels)
	}
	if format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", format.SampleRate)
	}

	if onError == nil {
		onError = func(err error) {
			log.Printf("Error during audio read: %v", err)
		}
	}

	p := &Pipeline{
		in:      in,
		format:  format,
		buffer:  NewBuffer(format.SampleRate),
		onError: onError,
	}

	if frames := in.BufferFrames(); frames > 0 {
		p.mono = make([]float32, 0, frames)
	}

	return p, nil
}

// Start begins capturing. Calling Start while running is a no-op.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Running {
		return nil
	}

	if err := p.in.Start(p.process, p.reportError); err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}

	p.state = Running
	log.Printf("Capture started: %s (%s)", p.in.Name(), p.format)
	return nil
}

// Stop ends capturing. Calling Stop while stopped is a no-op.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Stopped {
		return nil
	}

	// The device stream is gone either way; a failed stop still leaves us stopped.
	p.state = Stopped
	if err := p.in.Stop(); err != nil {
		return fmt.Errorf("failed to stop capture: %w", err)
	}

	log.Printf("Capture stopped: %s", p.in.Name())
	return nil
}

// SetRunning starts or stops the pipeline to match running
func (p *Pipeline) SetRunning(running bool) error {
	if running {
		return p.Start()
	}
	return p.Stop()
}

// State returns the current run state
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Running reports whether the pipeline is capturing
func (p *Pipeline) Running() bool {
	return p.State() == Running
}

// Buffer returns the shared capture buffer
func (p *Pipeline) Buffer() *Buffer {
	return p.buffer
}

// Format returns the input format
func (p *Pipeline) Format() audio.Format {
	return p.format
}

// DeviceName returns the input device name
func (p *Pipeline) DeviceName() string {
	return p.in.Name()
}

// Stats returns callback counters
func (p *Pipeline) Stats() Stats {
	return Stats{
		Blocks:  p.blocks.Load(),
		Samples: p.samples.Load(),
		Errors:  p.errors.Load(),
	}
}

// Close stops the pipeline and releases the input device
func (p *Pipeline) Close() error {
	if err := p.Stop(); err != nil {
		log.Printf("Warning: %v", err)
	}
	return p.in.Close()
}

// process runs on the device thread for every captured block
func (p *Pipeline) process(samples []float32, channels int) {
	p.mono = Downmix(p.mono, samples, channels)
	p.buffer.Append(p.mono)

	p.blocks.Add(1)
	p.samples.Add(uint64(len(p.mono)))
}

// reportError forwards runtime device errors; capture keeps running
func (p *Pipeline) reportError(err error) {
	p.errors.Add(1)
	p.onError(err)
}
