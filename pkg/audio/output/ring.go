// ABOUTME: Bounded FIFO of float32 samples between Write and a device callback
// ABOUTME: Underruns are zero-filled so the callback never blocks
package output

import (
	"context"
	"sync"
	"time"
)

// ringPollInterval is how long a blocked writer waits for the callback to drain
const ringPollInterval = 5 * time.Millisecond

// RingBuffer provides thread-safe circular buffer for audio samples
type RingBuffer struct {
	buffer   []float32
	readPos  int
	writePos int
	size     int
	count    int
	mu       sync.Mutex
}

// NewRingBuffer creates a ring buffer with given capacity (in samples)
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer{
		buffer: make([]float32, capacity),
		size:   capacity,
	}
}

// Write adds as many samples as fit and returns how many were taken
func (rb *RingBuffer) Write(samples []float32) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	written := 0
	for written < len(samples) && rb.count < rb.size {
		rb.buffer[rb.writePos] = samples[written]
		rb.writePos = (rb.writePos + 1) % rb.size
		rb.count++
		written++
	}
	return written
}

// Read fills samples from the buffer, zero-filling on underrun
func (rb *RingBuffer) Read(samples []float32) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	read := 0
	for read < len(samples) && rb.count > 0 {
		samples[read] = rb.buffer[rb.readPos]
		rb.readPos = (rb.readPos + 1) % rb.size
		rb.count--
		read++
	}

	for i := read; i < len(samples); i++ {
		samples[i] = 0
	}

	return read
}

// Available returns the number of samples available to read
func (rb *RingBuffer) Available() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Free returns the number of free slots in the buffer
func (rb *RingBuffer) Free() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.size - rb.count
}

// WriteAll queues every sample, waiting for the reader to make room.
// Returns ctx.Err() if ctx ends first.
func (rb *RingBuffer) WriteAll(ctx context.Context, samples []float32) error {
	for len(samples) > 0 {
		n := rb.Write(samples)
		samples = samples[n:]
		if len(samples) == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ringPollInterval):
		}
	}
	return nil
}

// Drain waits until the reader has consumed everything queued
func (rb *RingBuffer) Drain(ctx context.Context) error {
	for rb.Available() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ringPollInterval):
		}
	}
	return nil
}
