// ABOUTME: Plays a synth.Sampler through an Output for a fixed duration
// ABOUTME: Renders in blocks and resamples when the device rate differs
package output

import (
	"context"
	"fmt"
	"time"

	"github.com/practicalovertone/overtone-go/pkg/audio/resample"
	"github.com/practicalovertone/overtone-go/pkg/synth"
)

// DefaultBlockFrames is the render block size used by Play
const DefaultBlockFrames = 1024

// PlayConfig describes a preview playback
type PlayConfig struct {
	// SampleRate is the rate the sampler was built for
	SampleRate int

	// DeviceRate is the rate the output is opened at (defaults to SampleRate)
	DeviceRate int

	Duration time.Duration

	// BlockFrames is the render block size (defaults to DefaultBlockFrames)
	BlockFrames int

	// Gain scales samples before output (defaults to 1)
	Gain float64
}

// drainer is implemented by outputs that can wait for queued audio to finish
type drainer interface {
	Drain(ctx context.Context) error
}

// Play opens out as mono and streams SampleCount(SampleRate, Duration)
// samples from s into it. It returns the number of samples rendered from s.
// The caller owns out and closes it.
func Play(ctx context.Context, s synth.Sampler, config PlayConfig, out Output) (int, error) {
	if config.SampleRate <= 0 {
		return 0, fmt.Errorf("invalid sample rate: %d", config.SampleRate)
	}
	if config.DeviceRate == 0 {
		config.DeviceRate = config.SampleRate
	}
	if config.BlockFrames <= 0 {
		config.BlockFrames = DefaultBlockFrames
	}
	if config.Gain == 0 {
		config.Gain = 1
	}

	if err := out.Open(config.DeviceRate, 1); err != nil {
		return 0, fmt.Errorf("failed to open output: %w", err)
	}

	var resampler *resample.Resampler
	var resampled []float32
	if config.DeviceRate != config.SampleRate {
		resampler = resample.New(config.SampleRate, config.DeviceRate, 1)
		resampled = make([]float32, resampler.OutputSamplesNeeded(config.BlockFrames+2)+2)
	}

	total := synth.SampleCount(config.SampleRate, config.Duration)
	block := make([]float32, config.BlockFrames)
	rendered := 0

	for rendered < total {
		if err := ctx.Err(); err != nil {
			return rendered, err
		}

		n := min(config.BlockFrames, total-rendered)
		for i := 0; i < n; i++ {
			block[i] = float32(s.Next() * config.Gain)
		}
		rendered += n

		samples := block[:n]
		if resampler != nil {
			samples = resampled[:resampler.Resample(samples, resampled)]
		}

		if len(samples) == 0 {
			continue
		}
		if err := out.Write(samples); err != nil {
			return rendered, fmt.Errorf("failed to write output: %w", err)
		}
	}

	if d, ok := out.(drainer); ok {
		if err := d.Drain(ctx); err != nil {
			return rendered, err
		}
	}

	return rendered, nil
}
