// ABOUTME: Malgo-based audio input implementation
// ABOUTME: Uses miniaudio via malgo to capture float32 samples from the default device
package input

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"github.com/practicalovertone/overtone-go/pkg/audio"
)

// MalgoConfig configures device selection
type MalgoConfig struct {
	// DeviceName selects the capture device (default: "default")
	DeviceName string

	// PeriodFrames requests a device period size; 0 lets miniaudio choose
	PeriodFrames int
}

// callbacks bundles the functions installed by Start
type callbacks struct {
	onData  DataFunc
	onError ErrorFunc
}

// Malgo input implementation using malgo/miniaudio library
type Malgo struct {
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	name     string
	format   audio.Format
	period   int

	// Read on the device thread without locking
	active   atomic.Pointer[callbacks]
	stopping atomic.Bool
	scratch  []float32

	mu      sync.Mutex
	started bool
}

// NewMalgo discovers the requested capture device and negotiates a float32 stream.
// All failures here are fatal for capture.
func NewMalgo(config MalgoConfig) (*Malgo, error) {
	if config.DeviceName == "" {
		config.DeviceName = DefaultDeviceName
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Printf("malgo: %s", strings.TrimSpace(message))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	m := &Malgo{malgoCtx: ctx}
	if err := m.open(config); err != nil {
		m.freeContext()
		return nil, err
	}

	return m, nil
}

// open selects the device and initializes (but does not start) the stream
func (m *Malgo) open(config MalgoConfig) error {
	infos, err := m.malgoCtx.Devices(malgo.Capture)
	if err != nil {
		return fmt.Errorf("failed to enumerate input devices: %w", err)
	}
	if len(infos) == 0 {
		return ErrNoInputDevices
	}

	idx, ok := selectDevice(deviceEntries(infos), config.DeviceName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrDeviceNotFound, config.DeviceName)
	}
	info := infos[idx]

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.DeviceID = info.ID.Pointer()
	deviceConfig.Alsa.NoMMap = 1
	if config.PeriodFrames > 0 {
		deviceConfig.PeriodSizeInFrames = uint32(config.PeriodFrames)
	}

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: m.dataCallback,
		Stop: m.stopCallback,
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	if device.CaptureFormat() != malgo.FormatF32 {
		format := device.CaptureFormat()
		device.Uninit()
		return fmt.Errorf("%w: device negotiated %s", ErrUnsupportedFormat, formatName(format))
	}

	m.device = device
	m.name = info.Name()
	m.period = int(deviceConfig.PeriodSizeInFrames)
	m.format = audio.Format{
		SampleRate:   int(device.SampleRate()),
		Channels:     int(device.CaptureChannels()),
		SampleFormat: audio.SampleFormatF32,
	}

	return nil
}

// deviceEntry is the part of a device listing used for selection
type deviceEntry struct {
	name      string
	isDefault bool
}

func deviceEntries(infos []malgo.DeviceInfo) []deviceEntry {
	entries := make([]deviceEntry, len(infos))
	for i := range infos {
		entries[i] = deviceEntry{name: infos[i].Name(), isDefault: infos[i].IsDefault != 0}
	}
	return entries
}

// selectDevice returns the index of the device called name. "default" also
// matches the platform default device when no device carries that name.
func selectDevice(devices []deviceEntry, name string) (int, bool) {
	for i, d := range devices {
		if d.name == name {
			return i, true
		}
	}
	if strings.EqualFold(name, DefaultDeviceName) {
		for i, d := range devices {
			if d.isDefault {
				return i, true
			}
		}
	}
	return -1, false
}

// Name returns the device name
func (m *Malgo) Name() string { return m.name }

// Format returns the negotiated stream format
func (m *Malgo) Format() audio.Format { return m.format }

// BufferFrames returns the requested period size (0 when miniaudio chose it)
func (m *Malgo) BufferFrames() int { return m.period }

// Start installs the callbacks and starts the device
func (m *Malgo) Start(onData DataFunc, onError ErrorFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return fmt.Errorf("input device closed")
	}
	if m.started {
		return nil
	}

	m.active.Store(&callbacks{onData: onData, onError: onError})
	m.stopping.Store(false)

	if err := m.device.Start(); err != nil {
		m.active.Store(nil)
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	m.started = true
	return nil
}

// Stop stops the device and removes the callbacks
func (m *Malgo) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stopLocked()
}

// stopLocked stops the device (must hold m.mu)
func (m *Malgo) stopLocked() error {
	if !m.started {
		return nil
	}

	m.stopping.Store(true)
	err := m.device.Stop()
	m.active.Store(nil)
	m.started = false

	if err != nil {
		return fmt.Errorf("failed to stop capture device: %w", err)
	}
	return nil
}

// Close stops and releases the device and context
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.stopLocked(); err != nil {
		log.Printf("Warning: %v", err)
	}

	if m.device != nil {
		m.device.Uninit()
		m.device = nil
	}

	m.freeContext()
	return nil
}

func (m *Malgo) freeContext() {
	if m.malgoCtx == nil {
		return
	}
	if err := m.malgoCtx.Uninit(); err != nil {
		log.Printf("Warning: malgo context uninit error: %v", err)
	}
	m.malgoCtx.Free()
	m.malgoCtx = nil
}

// dataCallback is called by malgo on the device thread with captured frames
func (m *Malgo) dataCallback(pOutput, pInput []byte, frameCount uint32) {
	cb := m.active.Load()
	if cb == nil || cb.onData == nil {
		return
	}

	m.scratch = audio.DecodeFloat32LE(m.scratch, pInput)
	cb.onData(m.scratch, m.format.Channels)
}

// stopCallback is called by malgo whenever the device stops
func (m *Malgo) stopCallback() {
	if m.stopping.Load() {
		return
	}
	if cb := m.active.Load(); cb != nil && cb.onError != nil {
		cb.onError(ErrDeviceStopped)
	}
}

// formatName returns human-readable format name
func formatName(format malgo.FormatType) string {
	switch format {
	case malgo.FormatU8:
		return "U8"
	case malgo.FormatS16:
		return "S16"
	case malgo.FormatS24:
		return "S24"
	case malgo.FormatS32:
		return "S32"
	case malgo.FormatF32:
		return "F32"
	default:
		return fmt.Sprintf("Unknown(%d)", format)
	}
}
