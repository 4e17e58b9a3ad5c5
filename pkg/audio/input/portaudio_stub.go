//go:build !portaudio

// ABOUTME: PortAudio input stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package input

import (
	"fmt"
)

// NewPortAudio reports that PortAudio support was not compiled in
func NewPortAudio(deviceName string) (Input, error) {
	return nil, fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}
