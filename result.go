package ferry

// Result carries the outcome of a completed asynchronous call: a value, or
// the error that prevented one. A Result is immutable once constructed and
// may be shared freely across goroutines.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok returns a successful Result carrying the given value.
func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

// Fail returns a failed Result carrying the given error.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// OK reports whether the call completed without an error.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Failed reports whether the call completed with an error.
func (r Result[T]) Failed() bool {
	return r.Err != nil
}

// Unwrap returns the value and error as an ordinary Go pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}
