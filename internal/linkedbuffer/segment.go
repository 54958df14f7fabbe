package linkedbuffer

// segment is a fixed-capacity chunk of a LinkedBuffer. It is not safe for
// concurrent use; LinkedBuffer serializes access with its mutex.
type segment[T any] struct {
	data      []T
	readIndex int
	next      *segment[T]
}

func newSegment[T any](capacity int) *segment[T] {
	return &segment[T]{
		data: make([]T, 0, capacity),
	}
}

func (s *segment[T]) cap() int {
	return cap(s.data)
}

// write appends a value and reports whether there was room for it.
func (s *segment[T]) write(value T) bool {
	if len(s.data) == cap(s.data) {
		return false
	}
	s.data = append(s.data, value)
	return true
}

// read returns the next unread value, if any.
func (s *segment[T]) read() (T, bool) {
	var zero T
	if s.readIndex >= len(s.data) {
		return zero, false
	}
	value := s.data[s.readIndex]
	// Drop the reference so consumed values can be collected
	s.data[s.readIndex] = zero
	s.readIndex++
	return value, true
}
