// Package future implements a one-shot value future on top of
// context.WithCancelCause. The resolution travels as the cancel cause, so a
// future inherits cancellation from its parent context for free.
package future

import (
	"context"
)

// Resolver completes a Value future. It must be called at most once;
// subsequent calls are no-ops because the underlying context is already
// canceled.
type Resolver[V any] func(value V, err error)

// Value represents a value that will be available in the future. It is
// always associated with a context; when the parent context is canceled
// before resolution, the future is canceled as well.
type Value[V any] struct {
	ctx context.Context
}

func New[V any](ctx context.Context) (*Value[V], Resolver[V]) {
	childCtx, cancel := context.WithCancelCause(ctx)

	f := &Value[V]{
		ctx: childCtx,
	}

	return f, func(value V, err error) {
		cancel(&resolution[V]{
			value: value,
			err:   err,
		})
	}
}

// Done returns a channel that is closed when the future resolves or its
// parent context is canceled.
func (f *Value[V]) Done() <-chan struct{} {
	return f.ctx.Done()
}

// Wait blocks until the future resolves and returns the value and any error
// that occurred. If the parent context was canceled first, it returns the
// cancellation cause.
func (f *Value[V]) Wait() (V, error) {
	<-f.ctx.Done()

	cause := context.Cause(f.ctx)
	if r, ok := cause.(*resolution[V]); ok {
		return r.value, r.err
	}

	var zero V
	return zero, cause
}

// resolution wraps the resolved value so it can be told apart from an
// external cancellation of the parent context.
type resolution[V any] struct {
	value V
	err   error
}

func (r *resolution[V]) Error() string {
	if r.err != nil {
		return r.err.Error()
	}
	return "future resolved"
}
