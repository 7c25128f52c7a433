package form

import "errors"

var (
	// ErrUnknownControl is returned when a named child does not exist in a group.
	ErrUnknownControl = errors.New("form: unknown control")

	// ErrDuplicateControl is returned when a group already has a child with the given name.
	ErrDuplicateControl = errors.New("form: duplicate control name")
)
