// ABOUTME: Audio output interface definition
// ABOUTME: Common interface and volume handling for playback backends
package output

import (
	"sync"

	"github.com/practicalovertone/overtone-go/pkg/audio"
)

// Output represents an audio output device
type Output interface {
	// Open initializes the output device
	Open(sampleRate, channels int) error

	// Write outputs interleaved float32 samples (blocks until queued)
	Write(samples []float32) error

	// Close releases output resources
	Close() error
}

// volumeControl holds software volume and mute state shared by backends
type volumeControl struct {
	mu     sync.RWMutex
	volume int
	muted  bool
}

func newVolumeControl() volumeControl {
	return volumeControl{volume: 100}
}

// SetVolume sets the volume (0-100)
func (v *volumeControl) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	v.mu.Lock()
	v.volume = volume
	v.mu.Unlock()
}

// SetMuted sets mute state
func (v *volumeControl) SetMuted(muted bool) {
	v.mu.Lock()
	v.muted = muted
	v.mu.Unlock()
}

// GetVolume returns current volume
func (v *volumeControl) GetVolume() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.volume
}

// IsMuted returns mute state
func (v *volumeControl) IsMuted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.muted
}

func (v *volumeControl) multiplier() float32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return getVolumeMultiplier(v.volume, v.muted)
}

// applyVolume scales samples into dst and clips them to [-1, 1]
func applyVolume(dst, samples []float32, multiplier float32) []float32 {
	if cap(dst) < len(samples) {
		dst = make([]float32, len(samples))
	}
	dst = dst[:len(samples)]
	for i, s := range samples {
		dst[i] = audio.Clip(s * multiplier)
	}
	return dst
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float32 {
	if muted {
		return 0
	}
	return float32(volume) / 100
}
