package ferry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallLifecycle(t *testing.T) {
	call := newCall[string](context.Background(), 3)

	assert.Equal(t, CallPending, call.State())
	assert.Equal(t, uint64(3), call.Sequence())
	assert.NotEqual(t, uuid.Nil, call.ID())

	call.markRunning()
	assert.Equal(t, CallRunning, call.State())

	delivered := call.complete("done", nil)
	assert.True(t, delivered)
	assert.Equal(t, CallCompleted, call.State())

	value, err := call.Wait()
	require.NoError(t, err)
	assert.Equal(t, "done", value)
}

func TestCallCompleteWithError(t *testing.T) {
	call := newCall[string](context.Background(), 1)
	call.markRunning()

	cause := errors.New("device lost")
	call.complete("", cause)

	_, err := call.Wait()
	assert.Equal(t, cause, err)
}

func TestCallSupersededBeforeCompletion(t *testing.T) {
	call := newCall[string](context.Background(), 1)
	call.markRunning()

	call.supersede()
	assert.True(t, call.Superseded())

	// The late completion is dropped
	delivered := call.complete("late", nil)
	assert.False(t, delivered)
	assert.Equal(t, CallSuperseded, call.State())

	_, err := call.Wait()
	assert.ErrorIs(t, err, ErrSuperseded)
}

func TestCallSupersedeAfterCompletionIsNoop(t *testing.T) {
	call := newCall[string](context.Background(), 1)
	call.markRunning()
	call.complete("kept", nil)

	call.supersede()
	assert.Equal(t, CallCompleted, call.State())

	value, err := call.Wait()
	require.NoError(t, err)
	assert.Equal(t, "kept", value)
}

func TestCallDoneSignalsCompletion(t *testing.T) {
	call := newCall[int](context.Background(), 1)

	select {
	case <-call.Done():
		t.Fatal("call signalled done before completing")
	default:
	}

	call.complete(1, nil)

	select {
	case <-call.Done():
	default:
		t.Fatal("call did not signal done after completing")
	}
}

func TestCallStateString(t *testing.T) {
	assert.Equal(t, "pending", CallPending.String())
	assert.Equal(t, "running", CallRunning.String())
	assert.Equal(t, "completed", CallCompleted.String())
	assert.Equal(t, "superseded", CallSuperseded.String())
}
