package submit

import "errors"

// ErrNoTrigger is returned when a root coordinator is created without a trigger.
var ErrNoTrigger = errors.New("submit: root coordinator requires a trigger")
