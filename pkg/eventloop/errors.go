package eventloop

import "errors"

var (
	// ErrLoopRunning is returned by Run when another goroutine is already running the loop.
	ErrLoopRunning = errors.New("eventloop: loop is already running")

	// ErrTaskPanicked wraps a value recovered from a panicking task.
	ErrTaskPanicked = errors.New("eventloop: task panicked")
)
