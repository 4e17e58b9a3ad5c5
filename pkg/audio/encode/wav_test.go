// ABOUTME: Unit tests for the WAV encoder
// ABOUTME: Tests header fields and float sample round-trips through a temp file
package encode

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/practicalovertone/overtone-go/pkg/synth"
)

func TestWAVImplementsEncoder(t *testing.T) {
	var _ Encoder = (*WAV)(nil)
	var _ synth.SampleSink = (*WAV)(nil)
}

func TestNewWAVValidation(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "bad.wav"))
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	tests := []struct {
		name       string
		sampleRate int
		channels   int
	}{
		{"zero rate", 0, 1},
		{"zero channels", 44100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewWAV(f, tt.sampleRate, tt.channels); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWAVWritesFloatSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	w, err := NewWAV(f, 44100, 1)
	if err != nil {
		t.Fatalf("NewWAV() failed: %v", err)
	}

	// Enough samples to cross a chunk boundary
	samples := make([]float32, wavChunkSamples+10)
	for i := range samples {
		samples[i] = float32(math.Sin(float64(i) / 10))
	}
	samples[0] = 1.5 // out of range values are stored as-is
	samples[1] = -0.25

	for _, s := range samples {
		if err := w.WriteSample(s); err != nil {
			t.Fatalf("WriteSample() failed: %v", err)
		}
	}
	if w.Written() != len(samples) {
		t.Errorf("expected %d written, got %d", len(samples), w.Written())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE header")
	}

	fmtChunk, ok := findChunk(data, "fmt ")
	if !ok {
		t.Fatal("missing fmt chunk")
	}
	if format := binary.LittleEndian.Uint16(fmtChunk[0:]); format != wavFormatFloat {
		t.Errorf("expected IEEE float format, got %d", format)
	}
	if channels := binary.LittleEndian.Uint16(fmtChunk[2:]); channels != 1 {
		t.Errorf("expected 1 channel, got %d", channels)
	}
	if rate := binary.LittleEndian.Uint32(fmtChunk[4:]); rate != 44100 {
		t.Errorf("expected 44100 Hz, got %d", rate)
	}
	if bits := binary.LittleEndian.Uint16(fmtChunk[14:]); bits != 32 {
		t.Errorf("expected 32 bits, got %d", bits)
	}

	pcm, ok := findChunk(data, "data")
	if !ok {
		t.Fatal("missing data chunk")
	}
	if len(pcm) != len(samples)*4 {
		t.Fatalf("expected %d data bytes, got %d", len(samples)*4, len(pcm))
	}
	for i, expected := range samples {
		got := math.Float32frombits(binary.LittleEndian.Uint32(pcm[i*4:]))
		if got != expected {
			t.Fatalf("sample %d: expected %f, got %f", i, expected, got)
		}
	}
}

func TestWAVRenderOneSecond(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chord.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	w, err := NewWAV(f, synth.DefaultSampleRate, 1)
	if err != nil {
		t.Fatalf("NewWAV() failed: %v", err)
	}

	chord := synth.NewChord(synth.DefaultSampleRate, synth.DefaultRoot, synth.DefaultInterval)
	n, err := synth.Render(chord, synth.DefaultSampleRate, time.Second, w)
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if n != synth.DefaultSampleRate {
		t.Errorf("expected %d samples, got %d", synth.DefaultSampleRate, n)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() < int64(n*4) {
		t.Errorf("expected at least %d bytes, got %d", n*4, info.Size())
	}
}

func TestWAVWriteAfterClose(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "closed.wav"))
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	w, err := NewWAV(f, 8000, 1)
	if err != nil {
		t.Fatalf("NewWAV() failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() returned %v", err)
	}
	if err := w.WriteSample(0); err == nil {
		t.Error("expected error writing after Close")
	}
}

// findChunk returns the body of the first RIFF sub-chunk with the given id
func findChunk(data []byte, id string) ([]byte, bool) {
	pos := 12
	for pos+8 <= len(data) {
		size := int(binary.LittleEndian.Uint32(data[pos+4:]))
		body := pos + 8
		if string(data[pos:pos+4]) == id {
			end := body + size
			if end > len(data) {
				end = len(data)
			}
			return data[body:end], true
		}
		pos = body + size + size%2
	}
	return nil, false
}
