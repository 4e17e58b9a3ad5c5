// ABOUTME: Audio input package for capturing from devices
// ABOUTME: Provides Input interface with malgo, PortAudio, and synthetic implementations
// Package input provides audio capture device interfaces.
//
// Malgo (miniaudio) is the default backend. PortAudio is available when built with
// -tags portaudio. Synthetic feeds caller-supplied blocks and is used for tests and
// device-less demos.
//
// Every implementation delivers interleaved float32 samples; device discovery and
// format negotiation happen in the constructor so that unusable hardware fails at
// startup rather than mid-session.
//
// Example:
//
//	in, err := input.NewMalgo(input.MalgoConfig{DeviceName: "default"})
//	err = in.Start(onData, onError)
//	defer in.Close()
package input
