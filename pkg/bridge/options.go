package bridge

import (
	"log/slog"

	"github.com/dmitrymomot/formx/pkg/form"
	"github.com/dmitrymomot/formx/pkg/stream"
)

// Option configures a Bridge.
type Option func(*Bridge)

// WithWritePolicy selects how host-written values reach the inner control.
func WithWritePolicy(p WritePolicy) Option {
	return func(b *Bridge) { b.policy = p }
}

// WithOutputMapper transforms inner values before they reach the host change callback.
func WithOutputMapper(fn func(v any) any) Option {
	return func(b *Bridge) {
		if fn != nil {
			b.mapOutput = fn
		}
	}
}

// WithValueChanges overrides the source of values forwarded to the host.
// The default is the inner control's value change stream.
func WithValueChanges(fn func(inner form.Control) stream.Source[any]) Option {
	return func(b *Bridge) {
		if fn != nil {
			b.valueChanges = fn
		}
	}
}

// WithLogger sets the bridge logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}
