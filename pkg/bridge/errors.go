package bridge

import "errors"

// ErrNoAccessor is returned by Binding.Setup when no value accessor is bound.
var ErrNoAccessor = errors.New("bridge: no value accessor bound")
