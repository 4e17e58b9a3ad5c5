// ABOUTME: Channel downmix for captured blocks
// ABOUTME: Converts mono or stereo interleaved samples to mono
package capture

// Downmix converts an interleaved block to mono, reusing dst's storage.
//
// Mono is copied verbatim. Stereo frames (L, R) become L + R/2, the weighting
// the capture path has always used; it is not the (L+R)/2 average.
// Other channel counts yield an empty block.
func Downmix(dst, src []float32, channels int) []float32 {
	switch channels {
	case 1:
		return append(dst[:0], src...)
	case 2:
		frames := len(src) / 2
		if cap(dst) < frames {
			dst = make([]float32, frames)
		}
		dst = dst[:frames]
		for i := range dst {
			dst[i] = src[2*i] + src[2*i+1]/2
		}
		return dst
	default:
		return dst[:0]
	}
}
