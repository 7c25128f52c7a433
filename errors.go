package formx

import "errors"

var (
	// ErrInvalidConfig indicates a Config value that cannot be applied.
	ErrInvalidConfig = errors.New("formx: invalid configuration")

	// ErrAlreadyRunning is returned by Run while the kit's loop is running.
	ErrAlreadyRunning = errors.New("formx: kit is already running")
)
