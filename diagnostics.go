package ferry

import (
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Diagnostics receives reports of unexpected faults: panics recovered from
// work or classification functions. Reports indicate programming defects,
// not expected failure modes, so they are surfaced out of band in addition
// to reaching the callback's loop phase as a failed Result.
//
// Implementations must be safe for concurrent use; reports arrive from
// worker goroutines.
type Diagnostics interface {
	ReportPanic(call uuid.UUID, recovered any, stack []byte)
}

// DiagnosticsFunc adapts a plain function to the Diagnostics interface.
type DiagnosticsFunc func(call uuid.UUID, recovered any, stack []byte)

func (f DiagnosticsFunc) ReportPanic(call uuid.UUID, recovered any, stack []byte) {
	f(call, recovered, stack)
}

// NewLogDiagnostics returns a Diagnostics sink that writes reports through
// the given zerolog logger.
func NewLogDiagnostics(logger zerolog.Logger) Diagnostics {
	return &logDiagnostics{logger: logger}
}

type logDiagnostics struct {
	logger zerolog.Logger
}

func (d *logDiagnostics) ReportPanic(call uuid.UUID, recovered any, stack []byte) {
	event := d.logger.Error()
	if call != uuid.Nil {
		event = event.Str("call", call.String())
	}
	event.
		Interface("panic", recovered).
		Bytes("stack", stack).
		Msg("asynchronous work panicked")
}

// defaultDiagnostics is used by slots and pools that were not given a sink.
var defaultDiagnostics Diagnostics = NewLogDiagnostics(
	zerolog.New(os.Stderr).With().Timestamp().Str("component", "ferry").Logger(),
)
