package linkedbuffer

import (
	"sync"
	"sync/atomic"
)

// LinkedBuffer is an unbounded buffer backed by a linked list of
// fixed-capacity segments. Any number of goroutines may write concurrently
// while a single consumer reads. Writes never block on readers; a full
// segment is chained to a new, larger one instead.
type LinkedBuffer[T any] struct {
	readSegment  *segment[T]
	writeSegment *segment[T]

	maxSegmentCapacity int
	writeCount         atomic.Uint64
	readCount          atomic.Uint64
	mutex              sync.Mutex
}

func New[T any](initialCapacity, maxSegmentCapacity int) *LinkedBuffer[T] {
	if initialCapacity <= 0 {
		initialCapacity = 1
	}
	if maxSegmentCapacity < initialCapacity {
		maxSegmentCapacity = initialCapacity
	}

	initial := newSegment[T](initialCapacity)

	return &LinkedBuffer[T]{
		readSegment:        initial,
		writeSegment:       initial,
		maxSegmentCapacity: maxSegmentCapacity,
	}
}

// Write appends values to the buffer.
func (b *LinkedBuffer[T]) Write(values ...T) {
	b.mutex.Lock()

	for _, value := range values {
		if !b.writeSegment.write(value) {
			// Segment is full, chain a larger one
			capacity := b.writeSegment.cap() * 2
			if capacity > b.maxSegmentCapacity {
				capacity = b.maxSegmentCapacity
			}
			next := newSegment[T](capacity)
			b.writeSegment.next = next
			b.writeSegment = next
			b.writeSegment.write(value)
		}
	}

	b.mutex.Unlock()

	b.writeCount.Add(uint64(len(values)))
}

// Read moves up to cap(into) values into the given slice and returns the
// number of values read. It returns 0 when the buffer is empty.
func (b *LinkedBuffer[T]) Read(into []T) int {
	b.mutex.Lock()

	n := 0
	for n < cap(into) {
		value, ok := b.readSegment.read()
		if !ok {
			if b.readSegment.next == nil {
				break
			}
			// Segment exhausted, advance to the next one
			b.readSegment = b.readSegment.next
			continue
		}
		into[n] = value
		n++
	}

	b.mutex.Unlock()

	b.readCount.Add(uint64(n))
	return n
}

// WriteCount returns the total number of values written to the buffer.
func (b *LinkedBuffer[T]) WriteCount() uint64 {
	return b.writeCount.Load()
}

// ReadCount returns the total number of values read from the buffer.
func (b *LinkedBuffer[T]) ReadCount() uint64 {
	return b.readCount.Load()
}

// Len returns the number of values currently in the buffer.
func (b *LinkedBuffer[T]) Len() uint64 {
	writeCount := b.writeCount.Load()
	readCount := b.readCount.Load()

	if writeCount < readCount {
		// Read count was sampled after a concurrent write
		return 0
	}

	return writeCount - readCount
}
