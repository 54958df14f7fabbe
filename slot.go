package ferry

import (
	"context"
	"runtime/debug"
	"sync/atomic"

	"github.com/google/uuid"
)

// Runner is the worker execution context a slot schedules work on. Pool
// implements it, and so does any third-party pool wrapped in a Go method.
type Runner interface {
	// Go schedules the task for execution on a worker goroutine. The task
	// must not assume it runs on the loop.
	Go(task func())
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(task func())

func (f RunnerFunc) Go(task func()) {
	f(task)
}

// Slot is a coordination point guaranteeing single-flight semantics for one
// logical piece of asynchronously loaded state (for example, the currently
// selected row's detail image). A collaborator owns one Slot per such piece.
//
// At most one call per slot is current at any time. Starting a new call
// supersedes the previous one: whichever order their completions arrive in,
// only the latest call's result reaches its callback's loop phase. The
// winner is decided by start order, not completion order, so an
// out-of-order late completion can never clobber a newer result.
//
// Start and Clear must be called on the loop, which is where UI-originated
// events fire; the slot relies on that for its bookkeeping. The generation
// counter itself is atomic because worker goroutines read it to skip
// classification of results that are already stale.
type Slot struct {
	loop        *Loop
	runner      Runner
	diagnostics Diagnostics
	generation  atomic.Uint64

	// current is only touched by Start and Clear, both loop-affine
	current staleable
}

type staleable interface {
	supersede()
}

// SlotOption customizes a Slot.
type SlotOption func(*Slot)

// WithDiagnostics sets the sink that receives unexpected-fault reports for
// calls started on this slot.
func WithDiagnostics(diagnostics Diagnostics) SlotOption {
	return func(s *Slot) {
		s.diagnostics = diagnostics
	}
}

// NewSlot creates a slot that runs work on the given runner and delivers
// results on the given loop.
func NewSlot(loop *Loop, runner Runner, options ...SlotOption) *Slot {
	slot := &Slot{
		loop:        loop,
		runner:      runner,
		diagnostics: defaultDiagnostics,
	}

	for _, option := range options {
		option(slot)
	}

	return slot
}

// Generation returns the slot's current generation. It increases by one on
// every Start and Clear; a call whose recorded generation no longer matches
// is stale.
func (s *Slot) Generation() uint64 {
	return s.generation.Load()
}

// Clear supersedes any in-flight call without starting a new one, resetting
// the slot to an empty state. If the pending call's completion still
// arrives, it is discarded.
func (s *Slot) Clear() {
	s.generation.Add(1)

	if s.current != nil {
		s.current.supersede()
		s.current = nil
	}
}

// Start issues a coordinated asynchronous call on the slot. It never
// blocks: work is scheduled on the slot's runner and a handle to the new
// call is returned immediately. Any call previously started on the slot is
// superseded.
//
// work runs on a worker goroutine and produces the raw result. On success
// the callback's OnWorker phase runs, also off the loop, to transform the
// raw result into a display value; the callback's OnLoop phase then runs on
// the loop with the outcome — unless a newer Start or Clear was issued on
// the slot in the meantime, in which case the outcome is discarded and
// OnLoop is never invoked for this call.
//
// An error returned by work or OnWorker is a classified domain failure and
// reaches OnLoop as Fail with the cause intact. A panic in either is
// wrapped in ErrUnexpected and reported to the Diagnostics sink.
//
// Cancellation is cooperative: superseded work keeps running, only its
// effect on visible state is suppressed. Work bodies must therefore be
// safely ignorable, e.g. read-only queries.
func Start[R, D any](slot *Slot, work func() (R, error), callback Callback[R, D]) *Call[D] {
	generation := slot.generation.Add(1)
	call := newCall[D](context.Background(), generation)

	if slot.current != nil {
		slot.current.supersede()
	}
	slot.current = call

	slot.runner.Go(func() {
		call.markRunning()

		raw, err := protect(call.ID(), slot.diagnostics, work)

		var res Result[D]
		if err != nil {
			res = Fail[D](err)
		} else {
			if slot.Generation() != generation {
				// Already superseded, don't bother classifying
				call.supersede()
				return
			}
			display, classifyErr := protect(call.ID(), slot.diagnostics, func() (D, error) {
				return callback.OnWorker(raw)
			})
			if classifyErr != nil {
				res = Fail[D](classifyErr)
			} else {
				res = Ok(display)
			}
		}

		if !call.complete(res.Value, res.Err) {
			// Superseded while running, drop the result
			return
		}

		slot.loop.Post(func(turn *Turn) {
			// Authoritative staleness check, serialized on the loop
			if slot.Generation() != generation {
				return
			}
			callback.OnLoop(turn, res)
		})
	})

	return call
}

// StartValue is the Start variant for calls that cannot fail in a
// domain-specific way; see ValueCallback. work returns a plain value, so
// the only failure that can reach the call is a panic, which is wrapped in
// ErrUnexpected and reported to the Diagnostics sink like any other.
func StartValue[R, D any](slot *Slot, work func() R, callback ValueCallback[R, D]) *Call[D] {
	infallible := func() (R, error) {
		return work(), nil
	}
	return Start[R, D](slot, infallible, valueAdapter[R, D]{callback: callback})
}

// protect invokes fn, converting a panic into an error wrapping
// ErrUnexpected and reporting it to the diagnostics sink. Classification
// must never let an uncaught fault escape the worker goroutine.
func protect[T any](call uuid.UUID, diagnostics Diagnostics, fn func() (T, error)) (value T, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			diagnostics.ReportPanic(call, recovered, debug.Stack())
			err = panicError(recovered)
		}
	}()
	return fn()
}
