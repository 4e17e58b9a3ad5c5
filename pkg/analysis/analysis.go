// ABOUTME: Level and spectrum analysis of sample blocks
// ABOUTME: Uses a Hann-windowed real FFT to find the dominant frequency
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Report summarizes one block of samples
type Report struct {
	RMS        float64 `json:"rms"`
	Peak       float64 `json:"peak"`
	PeakHz     float64 `json:"peak_hz"`
	PeakVolume float64 `json:"peak_magnitude"`
}

// RMS returns the root mean square level of samples
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Peak returns the largest absolute sample value
func Peak(samples []float32) float64 {
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(float64(s)); a > peak {
			peak = a
		}
	}
	return peak
}

// PeakFrequency returns the centre frequency and magnitude of the strongest
// non-DC FFT bin. Blocks shorter than two samples return zeros.
func PeakFrequency(samples []float32, sampleRate int) (hz, magnitude float64) {
	n := len(samples)
	if n < 2 || sampleRate <= 0 {
		return 0, 0
	}

	x := make([]float64, n)
	for i, s := range samples {
		x[i] = float64(s)
	}
	window.Apply(x, window.Hann)

	spectrum := fft.FFTReal(x)

	best := 0
	for k := 1; k <= n/2; k++ {
		if m := cmplx.Abs(spectrum[k]); m > magnitude {
			magnitude = m
			best = k
		}
	}

	return float64(best) * float64(sampleRate) / float64(n), magnitude
}

// Analyze computes every metric for one block
func Analyze(samples []float32, sampleRate int) Report {
	hz, mag := PeakFrequency(samples, sampleRate)
	return Report{
		RMS:        RMS(samples),
		Peak:       Peak(samples),
		PeakHz:     hz,
		PeakVolume: mag,
	}
}
