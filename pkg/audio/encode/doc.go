// ABOUTME: Audio file encoding package
// ABOUTME: Provides the WAV sink used to save rendered audio
// Package encode writes rendered samples to files.
//
// Supports: 32-bit float mono/multichannel WAV
//
// Example:
//
//	f, err := os.Create("chord.wav")
//	w, err := encode.NewWAV(f, 44100, 1)
//	n, err := synth.Render(chord, 44100, time.Second, w)
//	err = w.Close()
package encode
