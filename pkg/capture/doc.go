// ABOUTME: Live audio capture package
// ABOUTME: Provides the shared ring buffer and the device-to-buffer pipeline
// Package capture records live audio input into a fixed-size ring buffer that
// visualization and analysis code can snapshot at any time.
//
// A Pipeline owns an input.Input and is the single writer of its Buffer. The
// device callback downmixes each block to mono and appends it; readers copy a
// snapshot under the same short-lived lock.
//
// Example:
//
//	p, err := capture.NewPipeline(in, func(err error) { log.Printf("capture: %v", err) })
//	err = p.Start()
//	points := p.Buffer().Points(4)
//	err = p.Stop()
package capture
