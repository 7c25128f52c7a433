package errmsg

import (
	"reflect"

	"github.com/dmitrymomot/formx/pkg/stream"
)

// Resolver turns the payload of one error key into a message.
type Resolver interface {
	// ErrorKey returns the error key this resolver handles.
	ErrorKey() string
	// Message returns the message for payload. Only its first value is used.
	Message(payload any, label string) stream.Source[string]
}

type funcResolver struct {
	key string
	fn  func(payload any, label string) stream.Source[string]
}

func (r *funcResolver) ErrorKey() string { return r.key }

func (r *funcResolver) Message(payload any, label string) stream.Source[string] {
	return r.fn(payload, label)
}

// ResolverFunc creates a synchronous resolver for key.
func ResolverFunc(key string, fn func(payload any, label string) string) Resolver {
	return &funcResolver{key: key, fn: func(payload any, label string) stream.Source[string] {
		return stream.Of(fn(payload, label))
	}}
}

// AsyncResolverFunc creates a resolver whose message arrives on a stream.
func AsyncResolverFunc(key string, fn func(payload any, label string) stream.Source[string]) Resolver {
	return &funcResolver{key: key, fn: fn}
}

// Static creates a resolver that always answers msg.
func Static(key, msg string) Resolver {
	return ResolverFunc(key, func(any, string) string { return msg })
}

// sameResolver compares resolvers by identity. Values of non-comparable
// types never compare equal.
func sameResolver(a, b Resolver) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil {
		return true
	}
	if !ta.Comparable() {
		return false
	}
	return a == b
}

func sameResolvers(a, b []Resolver) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameResolver(a[i], b[i]) {
			return false
		}
	}
	return true
}
