package ferry

// Callback is the two-phase continuation every collaborator supplies when
// starting a call.
//
// OnWorker runs on a worker goroutine, off the loop. It transforms the raw
// result of the call's work into a display-ready value. Returning an error
// classifies a domain failure (for example "requested data unavailable");
// the error reaches OnLoop as a failed Result with its cause intact. A panic
// in OnWorker is an unexpected fault: it is reported to the Diagnostics sink
// and reaches OnLoop as a failure wrapping ErrUnexpected.
//
// OnLoop runs on the loop goroutine and applies the result to visible state.
// It must not block, and it must tolerate the owning view having been torn
// down in the meantime by checking its own liveness flag first. A panic in
// OnLoop is not caught here: a defect in loop-side code is the
// collaborator's bug and must not be masked.
type Callback[R, D any] interface {
	OnWorker(raw R) (D, error)
	OnLoop(turn *Turn, res Result[D])
}

// ValueCallback is the Callback variant for calls that cannot fail in a
// domain-specific way: the worker phase only transforms, and the loop phase
// receives the plain value without a Result wrapper. A panic in the work
// body or in Transform is still reported to the Diagnostics sink, and the
// loop phase is simply not invoked for it.
type ValueCallback[R, D any] interface {
	Transform(raw R) D
	Apply(turn *Turn, value D)
}

// NewCallback builds a Callback from two funcs, for collaborators that don't
// want to declare a named type.
func NewCallback[R, D any](onWorker func(R) (D, error), onLoop func(*Turn, Result[D])) Callback[R, D] {
	return &funcCallback[R, D]{
		onWorker: onWorker,
		onLoop:   onLoop,
	}
}

// NewValueCallback builds a ValueCallback from two funcs.
func NewValueCallback[R, D any](transform func(R) D, apply func(*Turn, D)) ValueCallback[R, D] {
	return &funcValueCallback[R, D]{
		transform: transform,
		apply:     apply,
	}
}

type funcCallback[R, D any] struct {
	onWorker func(R) (D, error)
	onLoop   func(*Turn, Result[D])
}

func (c *funcCallback[R, D]) OnWorker(raw R) (D, error) {
	return c.onWorker(raw)
}

func (c *funcCallback[R, D]) OnLoop(turn *Turn, res Result[D]) {
	c.onLoop(turn, res)
}

type funcValueCallback[R, D any] struct {
	transform func(R) D
	apply     func(*Turn, D)
}

func (c *funcValueCallback[R, D]) Transform(raw R) D {
	return c.transform(raw)
}

func (c *funcValueCallback[R, D]) Apply(turn *Turn, value D) {
	c.apply(turn, value)
}

// valueAdapter lets StartValue ride the same path as Start.
type valueAdapter[R, D any] struct {
	callback ValueCallback[R, D]
}

func (a valueAdapter[R, D]) OnWorker(raw R) (D, error) {
	return a.callback.Transform(raw), nil
}

func (a valueAdapter[R, D]) OnLoop(turn *Turn, res Result[D]) {
	if res.Failed() {
		// Only an unexpected fault can end up here; it was already
		// reported to the Diagnostics sink.
		return
	}
	a.callback.Apply(turn, res.Value)
}
