// ABOUTME: Thread-shared ring buffer of captured samples
// ABOUTME: Overwrites the oldest samples once full, never blocks or grows
package capture

import (
	"sync"
)

// CapacitySeconds is how much history the buffer holds, before rounding up
const CapacitySeconds = 5

// CapacityFor returns the buffer capacity for a device sample rate:
// the next power of two at or above CapacitySeconds*sampleRate.
func CapacityFor(sampleRate int) int {
	n := CapacitySeconds * sampleRate
	if n < 1 {
		n = 1
	}
	capacity := 1
	for capacity < n {
		capacity <<= 1
	}
	return capacity
}

// Point is one sample of a decimated snapshot
type Point struct {
	Index int     `json:"i"`
	Value float32 `json:"v"`
}

// Buffer is a fixed-capacity ring of mono samples, pre-filled with silence.
// One producer appends; any number of readers take snapshots.
type Buffer struct {
	mu      sync.Mutex
	samples []float32
	head    int // index of the oldest sample, also the next write position
	written uint64
}

// NewBuffer creates a zero-filled buffer sized for sampleRate
func NewBuffer(sampleRate int) *Buffer {
	return NewBufferWithCapacity(CapacityFor(sampleRate))
}

// NewBufferWithCapacity creates a zero-filled buffer holding exactly capacity samples
func NewBufferWithCapacity(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{samples: make([]float32, capacity)}
}

// Capacity returns the fixed number of samples held
func (b *Buffer) Capacity() int {
	return len(b.samples)
}

// Append writes samples, overwriting the oldest entries when full
func (b *Buffer) Append(samples []float32) {
	size := len(b.samples)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.written += uint64(len(samples))

	// Only the newest size samples can survive
	if len(samples) >= size {
		copy(b.samples, samples[len(samples)-size:])
		b.head = 0
		return
	}

	n := copy(b.samples[b.head:], samples)
	if n < len(samples) {
		copy(b.samples, samples[n:])
	}
	b.head = (b.head + len(samples)) % size
}

// Written returns the total number of samples appended since creation
func (b *Buffer) Written() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.written
}

// Snapshot copies the buffer contents, oldest first, into dst (grown if needed)
func (b *Buffer) Snapshot(dst []float32) []float32 {
	size := len(b.samples)
	if cap(dst) < size {
		dst = make([]float32, size)
	}
	dst = dst[:size]

	b.mu.Lock()
	n := copy(dst, b.samples[b.head:])
	copy(dst[n:], b.samples[:b.head])
	b.mu.Unlock()

	return dst
}

// Points returns every stride-th sample of a snapshot paired with its index
func (b *Buffer) Points(stride int) []Point {
	if stride < 1 {
		stride = 1
	}
	snap := b.Snapshot(nil)

	points := make([]Point, 0, (len(snap)+stride-1)/stride)
	for i := 0; i < len(snap); i += stride {
		points = append(points, Point{Index: i, Value: snap[i]})
	}
	return points
}
