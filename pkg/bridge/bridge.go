package bridge

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/dmitrymomot/formx/pkg/eventloop"
	"github.com/dmitrymomot/formx/pkg/form"
	"github.com/dmitrymomot/formx/pkg/logger"
	"github.com/dmitrymomot/formx/pkg/stream"
)

// statusDetached seeds the async validator of a detached bridge. It is
// neither PENDING nor INVALID, so the validator settles with no errors.
const statusDetached form.Status = "ACTIVE"

// ControlProvider exposes the inner control of an embeddable input.
type ControlProvider interface {
	Control() form.Control
}

// WritePolicy decides how values written by the host reach the inner control.
type WritePolicy int

const (
	// WritePatch merges the value into the inner control, keeping touched and dirty flags.
	WritePatch WritePolicy = iota
	// WriteReset resets the inner control to the value, clearing touched and dirty flags.
	WriteReset
)

// Bridge is a ValueAccessor around an inner control that reflects the inner
// control's validity onto the outer control of its binding.
type Bridge struct {
	loop     *eventloop.Loop
	binding  *Binding
	provider ControlProvider

	policy       WritePolicy
	mapOutput    func(any) any
	valueChanges func(inner form.Control) stream.Source[any]
	logger       *slog.Logger

	outer          form.Control
	errors         stream.Source[form.Errors]
	externalErrors stream.Source[form.Errors]
	onTouched      func()

	destroyed atomic.Bool
	detached  *stream.Replay[form.Status]
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a bridge for the control returned by provider and binds it as
// the binding's value accessor.
func New(loop *eventloop.Loop, binding *Binding, provider ControlProvider, opts ...Option) *Bridge {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bridge{
		loop:      loop,
		binding:   binding,
		provider:  provider,
		policy:    WritePatch,
		mapOutput: func(v any) any { return v },
		valueChanges: func(inner form.Control) stream.Source[any] {
			return inner.ValueChanges()
		},
		logger:   logger.Discard(),
		detached: stream.NewReplay[form.Status](),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(b)
	}
	binding.SetAccessor(b)
	return b
}

// InnerControl returns the wrapped control.
func (b *Bridge) InnerControl() form.Control {
	return b.provider.Control()
}

// OuterControl returns the host control captured on Attach, or nil before that.
func (b *Bridge) OuterControl() form.Control {
	return b.outer
}

// Destroyed reports whether Detach has run.
func (b *Bridge) Destroyed() bool {
	return b.destroyed.Load()
}

// WriteValue applies a host-assigned value to the inner control using the bridge's write policy.
func (b *Bridge) WriteValue(v any) {
	if b.policy == WriteReset {
		b.InnerControl().Reset(v)
		return
	}
	b.InnerControl().PatchValue(v)
}

// RegisterOnChange forwards mapped inner value changes to fn until the bridge is detached.
func (b *Bridge) RegisterOnChange(fn func(v any)) {
	changes := stream.Map(b.valueChanges(b.InnerControl()), b.mapOutput)
	stream.TakeUntil(b.ctx, changes).Subscribe(fn)
}

// RegisterOnTouched stores fn to be invoked by MarkAsTouched.
func (b *Bridge) RegisterOnTouched(fn func()) {
	b.onTouched = fn
}

// Attach captures the outer control and prepares the error streams. The
// synthetic validators are attached one loop turn later: a host may still
// overwrite validators during the turn that wires the field, which would
// silently drop validators set right away.
func (b *Bridge) Attach() {
	inner := b.InnerControl()
	b.outer = b.binding.Control()
	b.errors = b.errorsOf(inner)
	b.externalErrors = b.errorsOf(b.outer)

	b.logger.Debug("bridge attached",
		logger.Component("bridge"),
		logger.ControlID(inner.ID()),
		slog.String("outer_control_id", b.outer.ID().String()),
	)

	b.loop.Defer(b.attachValidators)
}

// Detach marks the bridge destroyed and then stops all of its subscriptions.
// The flag is set first so a validator run racing the teardown sees a
// destroyed bridge instead of a half torn down one. A pending async
// validation of the outer control settles with no errors.
func (b *Bridge) Detach() {
	if b.destroyed.Swap(true) {
		return
	}
	b.cancel()
	b.detached.Next(statusDetached)
	b.logger.Debug("bridge detached", logger.Component("bridge"), logger.ControlID(b.InnerControl().ID()))
}

// Errors returns the inner control's error stream, shared between subscribers.
// It is nil before Attach.
func (b *Bridge) Errors() stream.Source[form.Errors] {
	return b.errors
}

// ExternalErrors returns the outer control's error stream, shared between subscribers.
// It is nil before Attach.
func (b *Bridge) ExternalErrors() stream.Source[form.Errors] {
	return b.externalErrors
}

// MarkAsTouched marks both controls touched and notifies the host.
func (b *Bridge) MarkAsTouched() {
	b.InnerControl().MarkAsTouched()
	if b.outer != nil {
		b.outer.MarkAsTouched()
	}
	if b.onTouched != nil {
		b.onTouched()
	}
}

// MarkAsDirty marks both controls dirty.
func (b *Bridge) MarkAsDirty() {
	b.InnerControl().MarkAsDirty()
	if b.outer != nil {
		b.outer.MarkAsDirty()
	}
}

// Validator returns the synthetic validator installed on the outer control.
func (b *Bridge) Validator() form.ValidatorFunc {
	return func(form.Control) form.Errors {
		if b.destroyed.Load() {
			return nil
		}
		inner := b.InnerControl()
		if inner.Invalid() {
			return innerErrors(inner)
		}
		return nil
	}
}

// AsyncValidator returns the synthetic async validator installed on the outer
// control. It settles with the inner control's first non-PENDING status, or
// with no errors once the bridge is detached.
func (b *Bridge) AsyncValidator() form.AsyncValidatorFunc {
	return func(form.Control) stream.Source[form.Errors] {
		inner := b.InnerControl()
		seed := statusDetached
		if !b.destroyed.Load() {
			seed = inner.Status()
		}
		statuses := stream.Merge(
			stream.StartWith(stream.TakeUntil(b.ctx, inner.StatusChanges()), seed),
			stream.Source[form.Status](b.detached),
		)
		settled := stream.First(statuses, form.Status.Settled)
		return stream.Map(settled, func(s form.Status) form.Errors {
			if s == form.StatusInvalid && !b.destroyed.Load() {
				return innerErrors(inner)
			}
			return nil
		})
	}
}

func (b *Bridge) attachValidators() {
	if b.destroyed.Load() {
		return
	}
	form.AddValidators(b.outer, b.Validator())
	form.AddAsyncValidators(b.outer, b.AsyncValidator())
	b.outer.UpdateValueAndValidity(form.Silent())

	b.logger.Debug("bridge validators attached",
		logger.Component("bridge"),
		logger.ControlID(b.outer.ID()),
		logger.Status(b.outer.Status().String()),
	)
}

// errorsOf emits c's errors on subscribe and after every settled status.
// PENDING is skipped so renderers keep the last message during async validation.
func (b *Bridge) errorsOf(c form.Control) stream.Source[form.Errors] {
	settled := stream.StartWith(stream.Filter(c.StatusChanges(), form.Status.Settled), form.Status(""))
	errs := stream.Distinct(stream.Map(settled, func(form.Status) form.Errors {
		return c.Errors()
	}), form.Errors.Equal)
	return stream.Share(stream.TakeUntil(b.ctx, errs))
}

func innerErrors(inner form.Control) form.Errors {
	if errs := inner.Errors(); len(errs) > 0 {
		return errs
	}
	return form.NewErrors(form.KeyInvalid, true)
}
