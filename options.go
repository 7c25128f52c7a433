package formx

import (
	"log/slog"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/formx/pkg/errmsg"
	"github.com/dmitrymomot/formx/pkg/eventloop"
)

type kitConfig struct {
	logger       *slog.Logger
	loop         *eventloop.Loop
	registry     *errmsg.Registry
	language     language.Tag
	defaultLabel string
	skipDefaults bool
	bundles      []errmsg.Bundle
	startHooks   []func(*slog.Logger)
	stopHooks    []func(*slog.Logger)
}

func defaultKitConfig() *kitConfig {
	return &kitConfig{
		language:     language.English,
		defaultLabel: errmsg.DefaultLabel,
	}
}

// Option configures a Kit.
type Option func(*kitConfig)

// WithLogger sets the logger handed to every component. Nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *kitConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLoop uses an existing event loop instead of creating one.
func WithLoop(l *eventloop.Loop) Option {
	if l == nil {
		panic("WithLoop: nil loop")
	}
	return func(c *kitConfig) { c.loop = l }
}

// WithRegistry uses an existing registry as is. Default resolvers and
// bundles are still registered into it unless WithoutDefaults is given.
func WithRegistry(r *errmsg.Registry) Option {
	if r == nil {
		panic("WithRegistry: nil registry")
	}
	return func(c *kitConfig) { c.registry = r }
}

// WithLanguage selects the language of default and bundled message templates.
func WithLanguage(tag language.Tag) Option {
	return func(c *kitConfig) { c.language = tag }
}

// WithDefaultLabel sets the label used for controls without one.
func WithDefaultLabel(label string) Option {
	return func(c *kitConfig) {
		if label != "" {
			c.defaultLabel = label
		}
	}
}

// WithoutDefaults skips registering the default resolvers.
func WithoutDefaults() Option {
	return func(c *kitConfig) { c.skipDefaults = true }
}

// WithBundles registers the templates of the bundle best matching the kit
// language, replacing resolvers already registered for the same keys.
func WithBundles(bundles ...errmsg.Bundle) Option {
	return func(c *kitConfig) { c.bundles = append(c.bundles, bundles...) }
}

// WithStartHook registers a callback run when Run starts.
func WithStartHook(h func(*slog.Logger)) Option {
	if h == nil {
		panic("WithStartHook: nil hook")
	}
	return func(c *kitConfig) { c.startHooks = append(c.startHooks, h) }
}

// WithStopHook registers a callback run after Run stopped the loop.
func WithStopHook(h func(*slog.Logger)) Option {
	if h == nil {
		panic("WithStopHook: nil hook")
	}
	return func(c *kitConfig) { c.stopHooks = append(c.stopHooks, h) }
}
