package ferry

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/glasskite/ferry/internal/future"
)

// CallState describes where a Call is in its lifecycle.
type CallState int32

const (
	// CallPending means the call has been created but its work has not
	// started yet.
	CallPending CallState = iota

	// CallRunning means the call's work is executing on a worker goroutine.
	CallRunning

	// CallCompleted means the call produced a result that was (or will be)
	// delivered to its callback's loop phase.
	CallCompleted

	// CallSuperseded means a newer call was started on the same slot before
	// this call's result could be delivered. Its work may still run to
	// completion, but the result is discarded.
	CallSuperseded
)

func (s CallState) String() string {
	switch s {
	case CallPending:
		return "pending"
	case CallRunning:
		return "running"
	case CallCompleted:
		return "completed"
	case CallSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Call is the handle to one in-flight or completed asynchronous operation.
// It resolves exactly once, either with the classified result of its work or
// with ErrSuperseded if a newer call replaced it.
type Call[T any] struct {
	id       uuid.UUID
	sequence uint64
	state    atomic.Int32
	future   *future.Value[T]
	resolve  future.Resolver[T]
}

func newCall[T any](ctx context.Context, sequence uint64) *Call[T] {
	f, resolve := future.New[T](ctx)

	return &Call[T]{
		id:       uuid.New(),
		sequence: sequence,
		future:   f,
		resolve:  resolve,
	}
}

// ID returns the call's opaque identity token, attached to diagnostics so a
// completion can be correlated with the call that produced it.
func (c *Call[T]) ID() uuid.UUID {
	return c.id
}

// Sequence returns the slot generation this call was started under.
func (c *Call[T]) Sequence() uint64 {
	return c.sequence
}

// State returns the call's current state.
func (c *Call[T]) State() CallState {
	return CallState(c.state.Load())
}

// Superseded reports whether a newer call replaced this one.
func (c *Call[T]) Superseded() bool {
	return c.State() == CallSuperseded
}

// Done returns a channel that is closed once the call has completed or been
// superseded.
func (c *Call[T]) Done() <-chan struct{} {
	return c.future.Done()
}

// Wait blocks until the call resolves. It returns the call's result, or
// ErrSuperseded if a newer call on the same slot replaced it.
func (c *Call[T]) Wait() (T, error) {
	return c.future.Wait()
}

func (c *Call[T]) markRunning() {
	c.state.CompareAndSwap(int32(CallPending), int32(CallRunning))
}

// complete resolves the call with the given result. It reports false when
// the call was superseded first, in which case the result is dropped.
func (c *Call[T]) complete(value T, err error) bool {
	if c.state.CompareAndSwap(int32(CallRunning), int32(CallCompleted)) ||
		c.state.CompareAndSwap(int32(CallPending), int32(CallCompleted)) {
		c.resolve(value, err)
		return true
	}
	return false
}

// supersede marks the call stale. Work that already started keeps running,
// but its eventual completion is ignored.
func (c *Call[T]) supersede() {
	for {
		state := c.state.Load()
		if state == int32(CallCompleted) || state == int32(CallSuperseded) {
			return
		}
		if c.state.CompareAndSwap(state, int32(CallSuperseded)) {
			var zero T
			c.resolve(zero, ErrSuperseded)
			return
		}
	}
}
