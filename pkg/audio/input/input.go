// ABOUTME: Audio input interface definition
// ABOUTME: Common interface and errors for capture backends
package input

import (
	"errors"
	"fmt"

	"github.com/practicalovertone/overtone-go/pkg/audio"
)

// DefaultDeviceName selects the platform default input device
const DefaultDeviceName = "default"

var (
	// ErrNoInputDevices is returned when the platform reports no capture devices
	ErrNoInputDevices = errors.New("no audio input devices found")

	// ErrDeviceNotFound is returned when no device matches the requested name
	ErrDeviceNotFound = errors.New("audio input device not found")

	// ErrUnsupportedFormat is returned when the device does not negotiate 32-bit float
	ErrUnsupportedFormat = errors.New("unsupported sample format (only F32 is supported)")

	// ErrDeviceStopped is reported when the device stops without being asked to
	ErrDeviceStopped = errors.New("audio input device stopped unexpectedly")
)

// DataFunc receives a block of interleaved samples from the device thread.
// The slice is only valid for the duration of the call.
type DataFunc func(samples []float32, channels int)

// ErrorFunc receives runtime device errors. Capture continues afterwards.
type ErrorFunc func(err error)

// Input represents an opened audio capture device
type Input interface {
	// Name returns the device name
	Name() string

	// Format returns the negotiated stream format
	Format() audio.Format

	// BufferFrames returns the device period size in frames, or 0 if unknown
	BufferFrames() int

	// Start installs the callbacks and starts streaming
	Start(onData DataFunc, onError ErrorFunc) error

	// Stop stops streaming and removes the callbacks
	Stop() error

	// Close releases device resources
	Close() error
}

// Describe formats the device information line logged at startup
func Describe(in Input) string {
	f := in.Format()
	return fmt.Sprintf("Audio input | Device %s | Format %s | Channels %d | Sample Rate %d | Buffer Size %d",
		in.Name(), f.SampleFormat, f.Channels, f.SampleRate, in.BufferFrames())
}
