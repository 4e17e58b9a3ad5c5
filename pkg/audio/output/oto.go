// ABOUTME: Oto-based audio output implementation
// ABOUTME: Streams float32 samples to the default device through an io.Pipe
package output

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/practicalovertone/overtone-go/pkg/audio"
)

// Oto output implementation using oto library
type Oto struct {
	volumeControl

	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	sampleRate int
	channels   int
	ready      bool

	scaled []float32
	bytes  []byte
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	return &Oto{volumeControl: newVolumeControl()}
}

// Open initializes the output device. Reopening after Close resumes the
// existing context, which keeps its first format.
func (o *Oto) Open(sampleRate, channels int) error {
	if o.ready && o.sampleRate == sampleRate && o.channels == channels {
		log.Printf("Audio output already initialized with same format, reusing context")
		return nil
	}

	// oto allows one context per process
	if o.otoCtx != nil && (o.sampleRate != sampleRate || o.channels != channels) {
		return fmt.Errorf("oto context already open at %dHz %dch, cannot switch to %dHz %dch",
			o.sampleRate, o.channels, sampleRate, channels)
	}

	if o.otoCtx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatFloat32LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return fmt.Errorf("failed to create oto context: %w", err)
		}
		<-readyChan

		o.otoCtx = ctx
		o.sampleRate = sampleRate
		o.channels = channels
	} else if err := o.otoCtx.Resume(); err != nil {
		return fmt.Errorf("failed to resume oto context: %w", err)
	}

	o.pipeReader, o.pipeWriter = io.Pipe()

	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.Play()

	o.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels (oto/F32)", sampleRate, channels)

	return nil
}

// Write outputs audio samples (blocks until written)
func (o *Oto) Write(samples []float32) error {
	if !o.ready {
		return fmt.Errorf("output not initialized")
	}

	o.scaled = applyVolume(o.scaled, samples, o.multiplier())

	if need := len(o.scaled) * 4; cap(o.bytes) < need {
		o.bytes = make([]byte, need)
	}
	n := audio.EncodeFloat32LE(o.bytes[:cap(o.bytes)], o.scaled)

	if _, err := o.pipeWriter.Write(o.bytes[:n]); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}

	return nil
}

// Drain waits until the player has consumed everything written
func (o *Oto) Drain(ctx context.Context) error {
	for o.player != nil && o.player.BufferedSize() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ringPollInterval):
		}
	}
	return nil
}

// Close releases output resources
func (o *Oto) Close() error {
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			log.Printf("Warning: oto suspend error: %v", err)
		}
	}
	o.ready = false
	return nil
}
