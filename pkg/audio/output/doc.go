// ABOUTME: Audio output package for previewing synthesized audio
// ABOUTME: Provides the Output interface, device backends and Play
// Package output plays float32 audio through a device.
//
// Backends: oto (default), malgo, and PortAudio (build with -tags portaudio).
//
// Example:
//
//	out := output.NewOto()
//	defer out.Close()
//	n, err := output.Play(ctx, chord, output.PlayConfig{
//		SampleRate: 44100,
//		Duration:   time.Second,
//	}, out)
package output
