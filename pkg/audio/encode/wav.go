// ABOUTME: 32-bit float WAV encoder
// ABOUTME: Streams samples to a WAV file in fixed-size chunks using go-audio
package encode

import (
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// wavFormatFloat is WAVE_FORMAT_IEEE_FLOAT
	wavFormatFloat = 3

	// wavChunkSamples is how many samples are buffered per encoder write
	wavChunkSamples = 4096
)

// WAV writes IEEE float samples to a WAV container
type WAV struct {
	encoder  *wav.Encoder
	buf      *goaudio.IntBuffer
	channels int
	written  int
	closed   bool
}

// NewWAV creates a 32-bit float WAV encoder. The header is finalized on Close.
func NewWAV(w io.WriteSeeker, sampleRate, channels int) (*WAV, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}

	chunk := wavChunkSamples - wavChunkSamples%channels

	return &WAV{
		encoder: wav.NewEncoder(w, sampleRate, 32, channels, wavFormatFloat),
		buf: &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: channels,
				SampleRate:  sampleRate,
			},
			Data:           make([]int, 0, chunk),
			SourceBitDepth: 32,
		},
		channels: channels,
	}, nil
}

// WriteSample buffers one sample, flushing when the chunk is full
func (e *WAV) WriteSample(sample float32) error {
	if e.closed {
		return fmt.Errorf("wav encoder closed")
	}

	// The encoder writes int32 values verbatim at 32 bits, so the float's bit
	// pattern passes through unchanged.
	e.buf.Data = append(e.buf.Data, int(int32(math.Float32bits(sample))))
	e.written++

	if len(e.buf.Data) == cap(e.buf.Data) {
		return e.flush()
	}
	return nil
}

// Written returns the number of samples accepted so far
func (e *WAV) Written() int {
	return e.written
}

func (e *WAV) flush() error {
	if len(e.buf.Data) == 0 {
		return nil
	}
	if err := e.encoder.Write(e.buf); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	e.buf.Data = e.buf.Data[:0]
	return nil
}

// Close flushes buffered samples and finalizes the WAV header.
// A trailing partial frame is dropped.
func (e *WAV) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	if rem := len(e.buf.Data) % e.channels; rem != 0 {
		e.buf.Data = e.buf.Data[:len(e.buf.Data)-rem]
	}
	if err := e.flush(); err != nil {
		return err
	}
	if err := e.encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav: %w", err)
	}
	return nil
}
