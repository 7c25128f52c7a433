package errmsg

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/dmitrymomot/formx/pkg/form"
	"github.com/dmitrymomot/formx/pkg/logger"
	"github.com/dmitrymomot/formx/pkg/stream"
)

// errorSource selects where a pipeline reads errors from. A control takes
// precedence over explicitly set errors.
type errorSource struct {
	control form.Control
	errors  form.Errors
}

func (s errorSource) same(o errorSource) bool {
	return s.control == o.control && s.errors.Equal(o.errors)
}

func (s errorSource) stream() stream.Source[form.Errors] {
	if s.control != nil {
		return form.ErrorsOf(s.control)
	}
	return stream.Of(s.errors)
}

// input is one (errors, label, resolvers) triple.
type input struct {
	errors    form.Errors
	label     string
	resolvers []Resolver
}

func (in input) same(o input) bool {
	return in.label == o.label && in.errors.Equal(o.errors) && sameResolvers(in.resolvers, o.resolvers)
}

// Pipeline keeps the message of one control up to date. It combines the
// errors, the label and the local resolvers, recomputes on any change and
// replays the latest message. A pending asynchronous message is dropped
// when the inputs change. Pipelines are not safe for concurrent use.
type Pipeline struct {
	registry *Registry
	logger   *slog.Logger
	onError  func(error)

	source    *stream.Behavior[errorSource]
	label     *stream.Behavior[string]
	resolvers *stream.Behavior[[]Resolver]
	messages  *stream.Replay[string]

	ctx       context.Context
	cancel    context.CancelFunc
	sub       stream.Subscription
	destroyed atomic.Bool

	err     error
	calling bool
	callErr error
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithErrorHandler sets the handler for resolution failures caused by
// control status changes. Failures caused by a setter are returned by it
// instead. The default handler logs the failure.
func WithErrorHandler(fn func(error)) PipelineOption {
	return func(p *Pipeline) {
		if fn != nil {
			p.onError = fn
		}
	}
}

// WithContext ties the pipeline to ctx: cancelling ctx destroys it.
func WithContext(ctx context.Context) PipelineOption {
	return func(p *Pipeline) {
		if ctx != nil {
			p.ctx, p.cancel = context.WithCancel(ctx)
		}
	}
}

// WithLabel sets the initial label.
func WithLabel(label string) PipelineOption {
	return func(p *Pipeline) { p.label = stream.NewBehavior(label) }
}

// WithResolvers sets the initial local resolvers.
func WithResolvers(list ...Resolver) PipelineOption {
	return func(p *Pipeline) { p.resolvers = stream.NewBehavior(list) }
}

// NewPipeline creates a pipeline resolving messages against reg.
// It starts with no errors and emits "" right away.
func NewPipeline(reg *Registry, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		registry:  reg,
		logger:    logger.Discard(),
		source:    stream.NewBehavior(errorSource{}),
		label:     stream.NewBehavior(""),
		resolvers: stream.NewBehavior[[]Resolver](nil),
		messages:  stream.NewReplay[string](),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.ctx == nil {
		p.ctx, p.cancel = context.WithCancel(context.Background())
	}
	if p.onError == nil {
		p.onError = func(err error) {
			p.logger.Error("message resolution failed", logger.Component("errmsg"), logger.Error(err))
		}
	}

	errs := stream.SwitchMap(stream.Distinct[errorSource](p.source, errorSource.same), errorSource.stream)
	inputs := stream.Map(stream.CombineLatest(
		stream.Map(errs, toAny[form.Errors]),
		stream.Map[string](p.label, toAny[string]),
		stream.Map[[]Resolver](p.resolvers, toAny[[]Resolver]),
	), func(v []any) input {
		in := input{label: v[1].(string)}
		in.errors, _ = v[0].(form.Errors)
		in.resolvers, _ = v[2].([]Resolver)
		return in
	})
	messages := stream.SwitchMap(stream.Distinct(inputs, input.same), p.resolve)

	p.sub = stream.TakeUntil(p.ctx, messages).Subscribe(p.messages.Next)
	context.AfterFunc(p.ctx, p.Destroy)
	return p
}

// SetErrors sets the errors to resolve when no control is set.
// It returns the resolution failure this change caused, if any.
func (p *Pipeline) SetErrors(errs form.Errors) error {
	return p.apply(func() {
		s := p.source.Value()
		s.errors = errs
		p.source.Next(s)
	})
}

// SetControl makes the pipeline follow c's errors. A nil control falls back
// to the errors set with SetErrors.
func (p *Pipeline) SetControl(c form.Control) error {
	return p.apply(func() {
		s := p.source.Value()
		s.control = c
		p.source.Next(s)
	})
}

// SetLabel sets the label used in messages.
func (p *Pipeline) SetLabel(label string) error {
	return p.apply(func() { p.label.Next(label) })
}

// SetResolvers sets the local resolvers. They take precedence over the registry.
func (p *Pipeline) SetResolvers(list ...Resolver) error {
	return p.apply(func() { p.resolvers.Next(list) })
}

// Message returns the latest message.
func (p *Pipeline) Message() string {
	msg, _ := p.messages.Last()
	return msg
}

// Messages streams messages, replaying the latest one to new subscribers.
func (p *Pipeline) Messages() stream.Source[string] {
	return stream.TakeUntil(p.ctx, stream.Source[string](p.messages))
}

// Err returns the failure of the latest resolution, or nil.
func (p *Pipeline) Err() error {
	return p.err
}

// Destroyed reports whether Destroy has run.
func (p *Pipeline) Destroyed() bool {
	return p.destroyed.Load()
}

// Destroy stops the pipeline. No message is emitted afterwards.
func (p *Pipeline) Destroy() {
	if p.destroyed.Swap(true) {
		return
	}
	p.cancel()
	if p.sub != nil {
		p.sub.Unsubscribe()
	}
	p.messages.Close()
}

func (p *Pipeline) apply(fn func()) error {
	if p.destroyed.Load() {
		return ErrPipelineDestroyed
	}
	p.calling, p.callErr = true, nil
	fn()
	err := p.callErr
	p.calling, p.callErr = false, nil
	return err
}

func (p *Pipeline) resolve(in input) stream.Source[string] {
	msg, err := p.registry.Message(in.errors, Options{Label: in.label, Resolvers: in.resolvers})
	p.err = err
	if err == nil {
		return msg
	}
	if p.calling {
		p.callErr = err
	} else {
		p.onError(err)
	}
	return stream.Of("")
}

func toAny[T any](v T) any { return v }
