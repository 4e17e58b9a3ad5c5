//go:build portaudio

// ABOUTME: PortAudio input implementation
// ABOUTME: Cross-platform float32 audio capture using PortAudio
package input

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	"github.com/practicalovertone/overtone-go/pkg/audio"
)

// PortAudio input implementation
type PortAudio struct {
	stream *portaudio.Stream
	name   string
	format audio.Format
	frames int

	active atomic.Pointer[callbacks]

	mu      sync.Mutex
	started bool
}

// NewPortAudio opens the named input device (or the default one) as a float32 stream
func NewPortAudio(deviceName string) (Input, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	device, err := findPortAudioDevice(deviceName)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	channels := device.MaxInputChannels
	if channels > 2 {
		channels = 2
	}

	params := portaudio.LowLatencyParameters(device, nil)
	params.Input.Channels = channels

	p := &PortAudio{
		name:   device.Name,
		frames: params.FramesPerBuffer,
		format: audio.Format{
			SampleRate:   int(params.SampleRate),
			Channels:     channels,
			SampleFormat: audio.SampleFormatF32,
		},
	}

	stream, err := portaudio.OpenStream(params, p.process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}

	p.stream = stream
	return p, nil
}

func findPortAudioDevice(name string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate input devices: %w", err)
	}

	var inputs []*portaudio.DeviceInfo
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			inputs = append(inputs, d)
		}
	}
	if len(inputs) == 0 {
		return nil, ErrNoInputDevices
	}

	if name == "" {
		name = DefaultDeviceName
	}
	for _, d := range inputs {
		if d.Name == name {
			return d, nil
		}
	}
	if name == DefaultDeviceName {
		if d, err := portaudio.DefaultInputDevice(); err == nil {
			return d, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, name)
}

// Name returns the device name
func (p *PortAudio) Name() string { return p.name }

// Format returns the stream format
func (p *PortAudio) Format() audio.Format { return p.format }

// BufferFrames returns the frames per buffer
func (p *PortAudio) BufferFrames() int { return p.frames }

// Start installs the callbacks and starts the stream
func (p *PortAudio) Start(onData DataFunc, onError ErrorFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}
	p.active.Store(&callbacks{onData: onData, onError: onError})
	if err := p.stream.Start(); err != nil {
		p.active.Store(nil)
		return fmt.Errorf("failed to start stream: %w", err)
	}
	p.started = true
	return nil
}

// Stop stops the stream and removes the callbacks
func (p *PortAudio) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return nil
	}
	p.started = false
	err := p.stream.Stop()
	p.active.Store(nil)
	return err
}

// Close releases resources
func (p *PortAudio) Close() error {
	if err := p.Stop(); err != nil {
		return err
	}
	if err := p.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}

// process is the PortAudio callback
func (p *PortAudio) process(in []float32) {
	if cb := p.active.Load(); cb != nil && cb.onData != nil {
		cb.onData(in, p.format.Channels)
	}
}
