package ferry_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glasskite/ferry"
)

// A view starts a call for the selected row's detail image; the raw bytes
// are decoded off the loop and the display value is applied on it.
func Example() {
	loop := ferry.NewLoop()
	pool := ferry.NewPool(4, 100)
	slot := ferry.NewSlot(loop, pool)

	applied := make(chan struct{})

	ferry.Start(slot, func() (string, error) {
		// Remote fetch, runs on a worker goroutine
		return "texture-42", nil
	}, ferry.NewCallback(
		func(raw string) (string, error) {
			// Decode off the loop
			return strings.ToUpper(raw), nil
		},
		func(turn *ferry.Turn, res ferry.Result[string]) {
			// Apply to visible state, on the loop
			if res.Failed() {
				fmt.Println("view shows error:", res.Err)
			} else {
				fmt.Println("view shows:", res.Value)
			}
			close(applied)
		},
	))

	<-applied
	pool.StopAndWait()
	loop.CloseAndWait()

	// Output:
	// view shows: TEXTURE-42
}

// A classified failure reaches the loop phase as a failed Result with the
// cause intact; the view renders it as an inline message.
func Example_classifiedFailure() {
	loop := ferry.NewLoop()
	pool := ferry.NewPool(4, 100)
	slot := ferry.NewSlot(loop, pool)

	applied := make(chan struct{})

	ferry.Start(slot, func() (string, error) {
		return "", errors.New("requested data currently unavailable")
	}, ferry.NewCallback(
		func(raw string) (string, error) { return raw, nil },
		func(turn *ferry.Turn, res ferry.Result[string]) {
			fmt.Println("status:", res.Err)
			close(applied)
		},
	))

	<-applied
	pool.StopAndWait()
	loop.CloseAndWait()

	// Output:
	// status: requested data currently unavailable
}
