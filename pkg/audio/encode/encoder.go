// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for sample-at-a-time file encoders
package encode

// Encoder consumes float32 samples one at a time and finalizes a file on Close
type Encoder interface {
	// WriteSample appends one sample
	WriteSample(sample float32) error

	// Close flushes pending samples and finalizes headers
	Close() error
}
