// ABOUTME: Linear resampler for float32 interleaved audio
// ABOUTME: Carries fractional position and the previous frame across blocks
package resample

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64

	// position is the read position in frames relative to the current block.
	// -1 refers to lastFrame from the previous block.
	position  float64
	lastFrame []float32
	hasLast   bool
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	if channels < 1 {
		channels = 1
	}
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
		lastFrame:  make([]float32, channels),
	}
}

// InputRate returns the source sample rate
func (r *Resampler) InputRate() int { return r.inputRate }

// OutputRate returns the destination sample rate
func (r *Resampler) OutputRate() int { return r.outputRate }

// Channels returns the interleaved channel count
func (r *Resampler) Channels() int { return r.channels }

// Resample converts interleaved input at inputRate into output at outputRate.
// Returns the number of samples written to output. Output generation stops
// early when output is full; the remaining input position is not retained.
func (r *Resampler) Resample(input []float32, output []float32) int {
	inputFrames := len(input) / r.channels
	if inputFrames == 0 {
		return 0
	}

	outputFrames := len(output) / r.channels
	outIdx := 0

	for outIdx < outputFrames {
		idx := int(r.position)
		if r.position < 0 {
			idx = -1
		}

		if idx+1 >= inputFrames {
			break
		}
		if idx < 0 && !r.hasLast {
			r.position = 0
			continue
		}

		frac := float32(r.position - float64(idx))

		for ch := 0; ch < r.channels; ch++ {
			var a float32
			if idx < 0 {
				a = r.lastFrame[ch]
			} else {
				a = input[idx*r.channels+ch]
			}
			b := input[(idx+1)*r.channels+ch]
			output[outIdx*r.channels+ch] = a + (b-a)*frac
		}

		outIdx++
		r.position += r.ratio
	}

	r.position -= float64(inputFrames)
	if r.position < -1 {
		r.position = -1
	}
	copy(r.lastFrame, input[(inputFrames-1)*r.channels:inputFrames*r.channels])
	r.hasLast = true

	return outIdx * r.channels
}

// Reset clears the carried position and frame
func (r *Resampler) Reset() {
	r.position = 0
	r.hasLast = false
	for i := range r.lastFrame {
		r.lastFrame[i] = 0
	}
}

// OutputSamplesNeeded estimates how many output samples inputSamples will produce
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(float64(inputFrames) / r.ratio)
	return outputFrames * r.channels
}

// InputSamplesNeeded estimates how many input samples produce outputSamples
func (r *Resampler) InputSamplesNeeded(outputSamples int) int {
	outputFrames := outputSamples / r.channels
	inputFrames := int(float64(outputFrames) * r.ratio)
	return inputFrames * r.channels
}
