package ferry

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpected wraps a panic recovered from a work or classification
	// function. Errors returned normally from those functions are classified
	// domain failures and are delivered as-is; a panic indicates a
	// programming defect and is additionally reported to the Diagnostics
	// sink.
	ErrUnexpected = errors.New("unexpected failure")

	// ErrSuperseded is returned by Call.Wait when a newer call was started
	// on the same slot before this call's result could be delivered.
	ErrSuperseded = errors.New("call superseded by a newer call on the same slot")

	// ErrLoopClosed is returned when posting a task to a loop that has been
	// closed.
	ErrLoopClosed = errors.New("loop has been closed")

	// ErrPoolStopped is thrown when attempting to submit a task to a pool
	// that has been stopped.
	ErrPoolStopped = errors.New("worker pool has been stopped and is no longer accepting tasks")
)

// panicError converts a recovered panic value into an error wrapping
// ErrUnexpected.
func panicError(recovered any) error {
	return fmt.Errorf("%w: %v", ErrUnexpected, recovered)
}
