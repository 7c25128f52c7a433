package errmsg

import (
	"errors"
	"fmt"
)

var (
	// ErrResolverExists is returned when registering a key that already has a resolver.
	ErrResolverExists = errors.New("errmsg: resolver already registered")

	// ErrResolverNotFound is matched by *MissingResolverError.
	ErrResolverNotFound = errors.New("errmsg: no resolver registered")

	// ErrInvalidResolver is returned for a nil resolver or one with an empty key.
	ErrInvalidResolver = errors.New("errmsg: invalid resolver")

	// ErrResolverFailed wraps a value recovered from a panicking resolver.
	ErrResolverFailed = errors.New("errmsg: resolver failed")

	// ErrPipelineDestroyed is returned by pipeline setters after Destroy.
	ErrPipelineDestroyed = errors.New("errmsg: pipeline destroyed")

	// ErrInvalidBundle is returned when a message bundle cannot be parsed.
	ErrInvalidBundle = errors.New("errmsg: invalid message bundle")

	// ErrNoBundles is returned when matching a language against an empty bundle list.
	ErrNoBundles = errors.New("errmsg: no message bundles")
)

// MissingResolverError reports an error key with no resolver, neither local nor registered.
type MissingResolverError struct {
	Key string
}

func (e *MissingResolverError) Error() string {
	return fmt.Sprintf("errmsg: no resolver registered for error key %q", e.Key)
}

// Is reports ErrResolverNotFound as a match.
func (e *MissingResolverError) Is(target error) bool {
	return target == ErrResolverNotFound
}
