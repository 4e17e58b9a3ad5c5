//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Cross-platform float32 playback using PortAudio
package output

import (
	"context"
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"
)

// PortAudio output implementation
type PortAudio struct {
	volumeControl

	ctx        context.Context
	cancel     context.CancelFunc
	stream     *portaudio.Stream
	ringBuffer *RingBuffer
	scaled     []float32
}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() Output {
	ctx, cancel := context.WithCancel(context.Background())
	return &PortAudio{
		volumeControl: newVolumeControl(),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Open initializes PortAudio
func (p *PortAudio) Open(sampleRate, channels int) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	p.ringBuffer = NewRingBuffer(sampleRate * channels * ringMillis / 1000)
	ring := p.ringBuffer

	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), 0, func(out []float32) {
		ring.Read(out)
	})
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("failed to start stream: %w", err)
	}

	p.stream = stream
	log.Printf("Audio output initialized: %dHz, %d channels (portaudio/F32)", sampleRate, channels)
	return nil
}

// Write queues samples for the stream callback
func (p *PortAudio) Write(samples []float32) error {
	if p.stream == nil {
		return fmt.Errorf("output not opened")
	}

	p.scaled = applyVolume(p.scaled, samples, p.multiplier())
	if err := p.ringBuffer.WriteAll(p.ctx, p.scaled); err != nil {
		return fmt.Errorf("output closed: %w", err)
	}
	return nil
}

// Close releases resources
func (p *PortAudio) Close() error {
	p.cancel()
	if p.stream != nil {
		if err := p.stream.Stop(); err != nil {
			return err
		}
		if err := p.stream.Close(); err != nil {
			return err
		}
		p.stream = nil
	}
	return portaudio.Terminate()
}
