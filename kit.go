package formx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/formx/pkg/bridge"
	"github.com/dmitrymomot/formx/pkg/errmsg"
	"github.com/dmitrymomot/formx/pkg/eventloop"
	"github.com/dmitrymomot/formx/pkg/form"
	"github.com/dmitrymomot/formx/pkg/logger"
	"github.com/dmitrymomot/formx/pkg/submit"
)

// Kit holds the process-wide pieces components are wired to: the event
// loop, the resolver registry and the logger.
type Kit struct {
	loop       *eventloop.Loop
	registry   *errmsg.Registry
	logger     *slog.Logger
	language   language.Tag
	startHooks []func(*slog.Logger)
	stopHooks  []func(*slog.Logger)
	running    atomic.Bool
}

// New creates a kit. Unless WithoutDefaults is given, the default resolvers
// for the kit language are registered for every key not registered yet.
func New(opts ...Option) (*Kit, error) {
	cfg := defaultKitConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Discard()
	}
	if cfg.loop == nil {
		cfg.loop = eventloop.New(eventloop.WithLogger(cfg.logger))
	}
	if cfg.registry == nil {
		cfg.registry = errmsg.NewRegistry(
			errmsg.WithDefaultLabel(cfg.defaultLabel),
			errmsg.WithRegistryLogger(cfg.logger),
		)
	}

	if !cfg.skipDefaults {
		for _, res := range errmsg.DefaultResolversFor(cfg.language) {
			if _, ok := cfg.registry.Resolve(res.ErrorKey()); ok {
				continue
			}
			if err := cfg.registry.Register(res); err != nil {
				return nil, err
			}
		}
	}
	if len(cfg.bundles) > 0 {
		b, err := errmsg.MatchBundle(cfg.bundles, cfg.language)
		if err != nil {
			return nil, err
		}
		if err := cfg.registry.RegisterMany(b.Resolvers(), errmsg.Overwrite()); err != nil {
			return nil, err
		}
	}

	cfg.logger.Debug("kit created",
		logger.Component("formx"),
		slog.String("language", cfg.language.String()),
		logger.Count("resolvers", cfg.registry.Len()),
	)

	return &Kit{
		loop:       cfg.loop,
		registry:   cfg.registry,
		logger:     cfg.logger,
		language:   cfg.language,
		startHooks: cfg.startHooks,
		stopHooks:  cfg.stopHooks,
	}, nil
}

// NewFromConfig creates a kit from cfg. Options are applied after the ones
// derived from cfg and take precedence.
func NewFromConfig(cfg Config, opts ...Option) (*Kit, error) {
	configOpts := make([]Option, 0, 6)

	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	configOpts = append(configOpts, WithLogger(log))

	if cfg.Language != "" {
		tag, err := language.Parse(cfg.Language)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("%w: language %q", ErrInvalidConfig, cfg.Language), err)
		}
		configOpts = append(configOpts, WithLanguage(tag))
	}
	if cfg.DefaultLabel != "" {
		configOpts = append(configOpts, WithDefaultLabel(cfg.DefaultLabel))
	}
	if cfg.SkipDefaults {
		configOpts = append(configOpts, WithoutDefaults())
	}
	if cfg.MessagesFile != "" {
		bundles, err := errmsg.LoadBundles(cfg.MessagesFile)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		configOpts = append(configOpts, WithBundles(bundles...))
	}

	return New(append(configOpts, opts...)...)
}

// NewFromEnv loads Config from the environment and creates a kit from it.
func NewFromEnv(opts ...Option) (*Kit, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, opts...)
}

func newLogger(cfg Config) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithOutput(os.Stderr),
	}
	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		opts = append(opts, logger.WithLevel(level))
	}
	if cfg.LogFormat != "" {
		format := logger.Format(strings.ToLower(cfg.LogFormat))
		if format != logger.FormatJSON && format != logger.FormatText {
			return nil, fmt.Errorf("%w: log format %q", ErrInvalidConfig, cfg.LogFormat)
		}
		opts = append(opts, logger.WithFormat(format))
	}
	return logger.New(opts...), nil
}

// Loop returns the event loop.
func (k *Kit) Loop() *eventloop.Loop { return k.loop }

// Registry returns the resolver registry.
func (k *Kit) Registry() *errmsg.Registry { return k.registry }

// Logger returns the kit logger.
func (k *Kit) Logger() *slog.Logger { return k.logger }

// Language returns the language message templates were picked for.
func (k *Kit) Language() language.Tag { return k.language }

// NewPipeline creates a message pipeline on the kit registry.
func (k *Kit) NewPipeline(opts ...errmsg.PipelineOption) *errmsg.Pipeline {
	return errmsg.NewPipeline(k.registry, append([]errmsg.PipelineOption{errmsg.WithLogger(k.logger)}, opts...)...)
}

// NewBridge creates a bridge on the kit loop.
func (k *Kit) NewBridge(binding *bridge.Binding, provider bridge.ControlProvider, opts ...bridge.Option) *bridge.Bridge {
	return bridge.New(k.loop, binding, provider, append([]bridge.Option{bridge.WithLogger(k.logger)}, opts...)...)
}

// NewCoordinator creates a submit coordinator.
func (k *Kit) NewCoordinator(trigger submit.Trigger, opts ...submit.Option) (*submit.Coordinator, error) {
	return submit.NewCoordinator(trigger, append([]submit.Option{submit.WithLogger(k.logger)}, opts...)...)
}

// NewLeaf creates a submit leaf for c.
func (k *Kit) NewLeaf(c form.Control, opts ...submit.LeafOption) *submit.Leaf {
	return submit.NewLeaf(c, opts...)
}

// AsyncCheck creates an async validator running check off the kit loop.
func (k *Kit) AsyncCheck(errKey string, check func(ctx context.Context, value any) (form.Errors, error)) form.AsyncValidatorFunc {
	return form.AsyncCheck(k.loop, errKey, check)
}

// Run drives the event loop until ctx is cancelled or the process receives
// SIGINT or SIGTERM. Stopping that way is not an error.
func (k *Kit) Run(ctx context.Context) error {
	if k.running.Swap(true) {
		return ErrAlreadyRunning
	}
	defer k.running.Store(false)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, h := range k.startHooks {
		h(k.logger)
	}
	err := k.loop.Run(ctx)
	for _, h := range k.stopHooks {
		h(k.logger)
	}

	switch {
	case errors.Is(err, eventloop.ErrLoopRunning):
		return errors.Join(ErrAlreadyRunning, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil
	}
	return err
}
