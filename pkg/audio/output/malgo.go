// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Plays float32 samples through miniaudio from a callback-drained ring
package output

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/practicalovertone/overtone-go/pkg/audio"
)

// ringMillis is the playback queue length
const ringMillis = 500

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	volumeControl

	ctx        context.Context
	cancel     context.CancelFunc
	malgoCtx   *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate int
	channels   int
	ready      bool

	ringBuffer *RingBuffer
	scaled     []float32
	mu         sync.Mutex
}

// NewMalgo creates a new Malgo output
func NewMalgo() *Malgo {
	ctx, cancel := context.WithCancel(context.Background())

	return &Malgo{
		volumeControl: newVolumeControl(),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Open initializes the playback device
func (m *Malgo) Open(sampleRate, channels int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil && m.sampleRate == sampleRate && m.channels == channels {
		log.Printf("Audio output already initialized with same format, reusing device")
		return nil
	}

	if m.device != nil {
		log.Printf("Format change detected (%dHz/%dch -> %dHz/%dch), reinitializing device",
			m.sampleRate, m.channels, sampleRate, channels)
		m.closeDevice()
	}

	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return fmt.Errorf("failed to initialize malgo context: %w", err)
		}
		m.malgoCtx = ctx
	}

	ring := NewRingBuffer(sampleRate * channels * ringMillis / 1000)

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(channels)
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: playbackCallback(ring, channels),
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start device: %w", err)
	}

	m.device = device
	m.ringBuffer = ring
	m.sampleRate = sampleRate
	m.channels = channels
	m.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels (malgo/F32)", sampleRate, channels)

	return nil
}

// Write queues audio samples for playback, waiting while the queue is full
func (m *Malgo) Write(samples []float32) error {
	m.mu.Lock()
	if !m.ready {
		m.mu.Unlock()
		return fmt.Errorf("output not initialized")
	}
	ring := m.ringBuffer
	m.scaled = applyVolume(m.scaled, samples, m.multiplier())
	scaled := m.scaled
	m.mu.Unlock()

	if err := ring.WriteAll(m.ctx, scaled); err != nil {
		return fmt.Errorf("output closed: %w", err)
	}
	return nil
}

// Drain waits until queued samples have been played
func (m *Malgo) Drain(ctx context.Context) error {
	m.mu.Lock()
	ring := m.ringBuffer
	m.mu.Unlock()

	if ring == nil {
		return nil
	}
	return ring.Drain(ctx)
}

// playbackCallback returns the device data callback draining ring into
// interleaved float32 frames of the given channel count
func playbackCallback(ring *RingBuffer, channels int) malgo.DataProc {
	var scratch []float32
	return func(pOutput, _ []byte, frameCount uint32) {
		total := int(frameCount) * channels
		if cap(scratch) < total {
			scratch = make([]float32, total)
		}
		samples := scratch[:total]

		ring.Read(samples)
		audio.EncodeFloat32LE(pOutput, samples)
	}
}

// Close releases output resources
func (m *Malgo) Close() error {
	m.cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeDevice()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}

	return nil
}

// closeDevice stops and uninitializes the device (must hold m.mu)
func (m *Malgo) closeDevice() {
	if m.device == nil {
		return
	}
	if err := m.device.Stop(); err != nil {
		log.Printf("Warning: device stop error: %v", err)
	}
	m.device.Uninit()
	m.device = nil
	m.ready = false
}
