package form

import (
	"reflect"
	"strings"
)

// Well-known error keys produced by the stock validators.
const (
	KeyRequired  = "required"
	KeyMinLength = "minlength"
	KeyMaxLength = "maxlength"
	KeyEmail     = "email"
	KeyInvalid   = "invalid"
)

// Error is a single validation failure: an error key and its payload.
// The payload shape depends on the key.
type Error struct {
	Key     string
	Payload any
}

// Errors is an ordered error-key map. Nil means "no errors".
type Errors []Error

// NewErrors returns an Errors holding a single key.
func NewErrors(key string, payload any) Errors {
	return Errors{{Key: key, Payload: payload}}
}

// IsEmpty reports whether there are no errors.
func (e Errors) IsEmpty() bool {
	return len(e) == 0
}

// First returns the first error in insertion order.
func (e Errors) First() (Error, bool) {
	if len(e) == 0 {
		return Error{}, false
	}
	return e[0], true
}

// Get returns the payload for key.
func (e Errors) Get(key string) (any, bool) {
	for _, err := range e {
		if err.Key == key {
			return err.Payload, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (e Errors) Has(key string) bool {
	_, ok := e.Get(key)
	return ok
}

// Keys returns the error keys in order.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for _, err := range e {
		keys = append(keys, err.Key)
	}
	return keys
}

// With returns a copy of e with key set to payload. An existing key keeps its
// position; a new key is appended.
func (e Errors) With(key string, payload any) Errors {
	out := make(Errors, len(e), len(e)+1)
	copy(out, e)
	for i := range out {
		if out[i].Key == key {
			out[i].Payload = payload
			return out
		}
	}
	return append(out, Error{Key: key, Payload: payload})
}

// Equal reports whether both maps hold the same keys, in the same order, with deeply equal payloads.
func (e Errors) Equal(other Errors) bool {
	if len(e) != len(other) {
		return false
	}
	for i := range e {
		if e[i].Key != other[i].Key || !reflect.DeepEqual(e[i].Payload, other[i].Payload) {
			return false
		}
	}
	return true
}

func (e Errors) String() string {
	return strings.Join(e.Keys(), ",")
}

// Merge combines error maps. Keys keep the position of their first
// occurrence; a later payload for the same key replaces an earlier one.
// Returns nil when nothing remains.
func Merge(list ...Errors) Errors {
	var out Errors
	for _, errs := range list {
		for _, err := range errs {
			out = out.With(err.Key, err.Payload)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// LengthError is the payload of the minlength and maxlength keys.
type LengthError struct {
	RequiredLength int
	ActualLength   int
}

// Params exposes the payload to message templates.
func (e LengthError) Params() map[string]any {
	return map[string]any{
		"requiredLength": e.RequiredLength,
		"actualLength":   e.ActualLength,
	}
}
