// Package ferry coordinates asynchronous calls issued by interactive views
// against a remote analysis process, and ferries their results back to a
// single interaction loop.
//
// Every view in the surrounding tool follows the same pattern: a user action
// starts a remote call on a worker goroutine; when the call completes, its
// result must be applied to visible state, but only if no newer call for the
// same logical slot has been started in the meantime. ferry is that pattern's
// substrate:
//
//   - a Slot enforces at-most-one-live-call semantics: starting a call
//     supersedes any previous call on the same slot, and a superseded
//     completion is silently discarded no matter when it arrives;
//   - a Loop is the single execution context on which all visible-state
//     mutation happens; work posted to it from any goroutine runs there,
//     in submission order per producer, without blocking the submitter;
//   - a Callback splits every continuation into a worker-side phase that
//     transforms a raw result into a display-ready value (classifying
//     domain failures along the way) and a loop-side phase that applies
//     the value or failure to visible state.
//
// Errors returned by work or classification are classified domain failures
// and reach the loop-side phase as a failed Result. Panics are unexpected
// faults: they are wrapped in ErrUnexpected, reported to a Diagnostics sink
// and delivered through the same Result path, so the loop is never
// interrupted by a raised fault from asynchronous work.
package ferry
