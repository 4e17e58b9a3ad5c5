// ABOUTME: Session ties the synthesis path and the capture pipeline together
// ABOUTME: Applies Settings, renders the preview waveform and exposes snapshots
package app

import (
	"fmt"
	"log"
	"sync"

	"github.com/practicalovertone/overtone-go/pkg/analysis"
	"github.com/practicalovertone/overtone-go/pkg/capture"
	"github.com/practicalovertone/overtone-go/pkg/synth"
)

const (
	// PreviewSamples is the length of the preview waveform
	PreviewSamples = 100_000

	// PreviewGain scales preview samples for display
	PreviewGain = 10_000

	// PointStride is the decimation used for capture points
	PointStride = 4

	// AnalysisWindow is how many of the newest captured samples Report analyzes
	AnalysisWindow = 8192
)

// Session owns the tone generators and drives a capture pipeline
type Session struct {
	mu       sync.Mutex
	settings Settings

	sampleRate int
	oscillator *synth.Oscillator
	voice      *synth.Voice
	pipeline   *capture.Pipeline

	preview      []float64
	voicePreview []float64

	snapshot []float32
}

// NewSession creates a session generating at sampleRate. pipeline may be nil
// for a synthesis-only session.
func NewSession(sampleRate int, pipeline *capture.Pipeline) *Session {
	if sampleRate <= 0 {
		sampleRate = synth.DefaultSampleRate
	}
	return &Session{
		sampleRate:   sampleRate,
		oscillator:   synth.NewOscillator(sampleRate),
		voice:        synth.NewVoice(sampleRate),
		pipeline:     pipeline,
		preview:      make([]float64, PreviewSamples),
		voicePreview: make([]float64, PreviewSamples),
	}
}

// Apply pushes settings into the synthesis path, then the pipeline. A pipeline
// error is returned after the synthesis settings have taken effect.
func (s *Session) Apply(settings Settings) error {
	settings = settings.Clamped()

	s.mu.Lock()
	defer s.mu.Unlock()

	if settings.Frequency != s.settings.Frequency {
		log.Printf("Frequency: %.0f Hz", settings.Frequency)
	}
	if settings.TiltDB != s.settings.TiltDB {
		log.Printf("Tilt: %.1f dB", settings.TiltDB)
	}

	if settings.ResetPhase || settings.Draw {
		s.oscillator.SetPhase(0)
		s.voice.SetPhase(0)
	}

	s.oscillator.SetFrequency(settings.Frequency)
	s.voice.SetFrequency(settings.Frequency)
	s.voice.SetTilt(settings.TiltDB)

	if settings.Draw {
		synth.Fill(s.oscillator, s.preview, PreviewGain)
		synth.Fill(s.voice, s.voicePreview, PreviewGain)
	}

	s.settings = settings

	if s.pipeline != nil {
		if err := s.pipeline.SetRunning(settings.Record); err != nil {
			return fmt.Errorf("failed to apply record=%v: %w", settings.Record, err)
		}
	}
	return nil
}

// Settings returns the last applied settings
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SampleRate returns the synthesis sample rate
func (s *Session) SampleRate() int {
	return s.sampleRate
}

// Preview returns a copy of the single-tone preview waveform
func (s *Session) Preview() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.preview...)
}

// VoicePreview returns a copy of the harmonic voice preview waveform
func (s *Session) VoicePreview() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.voicePreview...)
}

// Pipeline returns the capture pipeline, or nil
func (s *Session) Pipeline() *capture.Pipeline {
	return s.pipeline
}

// Points returns decimated capture points, or nil without a pipeline
func (s *Session) Points() []capture.Point {
	if s.pipeline == nil {
		return nil
	}
	return s.pipeline.Buffer().Points(PointStride)
}

// Report analyzes the newest captured samples
func (s *Session) Report() analysis.Report {
	if s.pipeline == nil {
		return analysis.Report{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = s.pipeline.Buffer().Snapshot(s.snapshot)
	window := s.snapshot
	if len(window) > AnalysisWindow {
		window = window[len(window)-AnalysisWindow:]
	}
	return analysis.Analyze(window, s.pipeline.Format().SampleRate)
}

// Close stops capture and releases the input device
func (s *Session) Close() error {
	if s.pipeline == nil {
		return nil
	}
	return s.pipeline.Close()
}
