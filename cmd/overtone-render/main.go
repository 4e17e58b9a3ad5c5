// ABOUTME: Batch renderer for tones, voices and chords
// ABOUTME: Writes a float WAV file and optionally previews it on an output device
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/practicalovertone/overtone-go/pkg/audio/encode"
	"github.com/practicalovertone/overtone-go/pkg/audio/output"
	"github.com/practicalovertone/overtone-go/pkg/synth"
	flag "github.com/spf13/pflag"
)

var (
	outPath    = flag.StringP("out", "o", "overtone.wav", "Output WAV file (empty to skip writing)")
	seconds    = flag.Float64("seconds", 1, "Duration in seconds")
	sampleRate = flag.Int("sample-rate", synth.DefaultSampleRate, "Sample rate in Hz")
	mode       = flag.String("mode", "chord", "What to render: tone, voice or chord")
	root       = flag.Float64("frequency", synth.DefaultRoot, "Fundamental (or chord root) in Hz")
	interval   = flag.Float64("interval", synth.DefaultInterval, "Chord interval ratio")
	tilt       = flag.Float64("tilt", synth.DefaultTiltDB, "Harmonic tilt in dB")
	gain       = flag.Float64("gain", 1, "Output gain (1 writes the raw signal)")
	play       = flag.Bool("play", false, "Play the result after rendering")
	backend    = flag.String("output", "oto", "Playback backend: oto, malgo or portaudio")
	deviceRate = flag.Int("device-rate", 0, "Playback sample rate (0 = same as -sample-rate)")
)

// scaled applies a fixed gain to a sampler
type scaled struct {
	synth.Sampler
	gain float64
}

func (s scaled) Next() float64 {
	return s.Sampler.Next() * s.gain
}

func main() {
	flag.Parse()

	duration := time.Duration(*seconds * float64(time.Second))

	if *outPath != "" {
		n, err := renderFile(*outPath, newSampler(), duration)
		if err != nil {
			log.Fatalf("Render failed: %v", err)
		}
		log.Printf("Wrote %d samples (%s at %dHz) to %s", n, duration, *sampleRate, *outPath)
	}

	if *play {
		if err := playPreview(newSampler(), duration); err != nil {
			log.Fatalf("Playback failed: %v", err)
		}
	}
}

// newSampler builds a fresh sampler so file and preview both start at phase 0
func newSampler() synth.Sampler {
	var s synth.Sampler

	switch *mode {
	case "tone":
		osc := synth.NewOscillator(*sampleRate)
		osc.SetFrequency(*root)
		s = osc
	case "voice":
		v := synth.NewVoice(*sampleRate)
		v.SetFrequency(*root)
		v.SetTilt(*tilt)
		s = v
	case "chord":
		c := synth.NewChord(*sampleRate, *root, *interval)
		c.SetTilt(*tilt)
		s = c
	default:
		log.Fatalf("Unknown mode %q (want tone, voice or chord)", *mode)
	}

	if *gain == 1 {
		return s
	}
	return scaled{Sampler: s, gain: *gain}
}

func renderFile(path string, s synth.Sampler, d time.Duration) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w, err := encode.NewWAV(f, *sampleRate, 1)
	if err != nil {
		return 0, err
	}

	n, err := synth.Render(s, *sampleRate, d, w)
	if err != nil {
		return n, err
	}
	if err := w.Close(); err != nil {
		return n, err
	}
	return n, f.Close()
}

func playPreview(s synth.Sampler, d time.Duration) error {
	var out output.Output
	switch *backend {
	case "oto":
		out = output.NewOto()
	case "malgo":
		out = output.NewMalgo()
	case "portaudio":
		out = output.NewPortAudio()
	default:
		return fmt.Errorf("unknown output backend %q", *backend)
	}
	defer out.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("Playing %s for %s", *mode, d)
	_, err := output.Play(ctx, s, output.PlayConfig{
		SampleRate: *sampleRate,
		DeviceRate: *deviceRate,
		Duration:   d,
	}, out)
	return err
}
