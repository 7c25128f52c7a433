package form

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/formx/pkg/stream"
)

// Control is a value-holding, validatable node of a form tree.
type Control interface {
	ID() uuid.UUID

	Value() any
	SetValue(v any, opts ...UpdateOption)
	PatchValue(v any, opts ...UpdateOption)
	Reset(v any, opts ...UpdateOption)

	Status() Status
	Valid() bool
	Invalid() bool
	Pending() bool
	Errors() Errors
	SetErrors(errs Errors, opts ...UpdateOption)

	Touched() bool
	Dirty() bool
	MarkAsTouched(opts ...UpdateOption)
	MarkAsDirty(opts ...UpdateOption)

	Validator() ValidatorFunc
	SetValidators(vs ...ValidatorFunc)
	AsyncValidator() AsyncValidatorFunc
	SetAsyncValidators(vs ...AsyncValidatorFunc)
	UpdateValueAndValidity(opts ...UpdateOption)

	StatusChanges() stream.Source[Status]
	ValueChanges() stream.Source[any]

	Parent() *Group
}

// UpdateOption tunes how a change propagates.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	onlySelf bool
	silent   bool
}

// OnlySelf keeps the change from propagating to the parent.
func OnlySelf() UpdateOption {
	return func(o *updateOptions) { o.onlySelf = true }
}

// Silent suppresses status and value change events.
func Silent() UpdateOption {
	return func(o *updateOptions) { o.silent = true }
}

func resolveUpdate(opts []UpdateOption) updateOptions {
	var o updateOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func propagate(o updateOptions) []UpdateOption {
	if o.silent {
		return []UpdateOption{Silent()}
	}
	return nil
}

// ControlOption configures a control at construction.
type ControlOption func(*base)

// WithValidators installs the composed validators.
func WithValidators(vs ...ValidatorFunc) ControlOption {
	return func(b *base) { b.validator = ComposeValidators(vs...) }
}

// WithAsyncValidators installs the composed async validators.
func WithAsyncValidators(vs ...AsyncValidatorFunc) ControlOption {
	return func(b *base) { b.asyncValidator = ComposeAsyncValidators(vs...) }
}

// WithID overrides the generated control identifier.
func WithID(id uuid.UUID) ControlOption {
	return func(b *base) { b.id = id }
}

// node is implemented by the concrete control types so the shared base can
// reach type specific behaviour.
type node interface {
	Control
	childrenStatus() (invalid, pending bool)
	syncValue()
}

type base struct {
	self   node
	id     uuid.UUID
	parent *Group

	status     Status
	errors     Errors
	touched    bool
	dirty      bool
	ownPending bool

	validator      ValidatorFunc
	asyncValidator AsyncValidatorFunc
	asyncSub       stream.Subscription
	asyncGen       uint64

	statusChanges *stream.Subject[Status]
	valueChanges  *stream.Subject[any]
}

func (b *base) setup(self node, opts []ControlOption) {
	b.self = self
	b.id = uuid.New()
	b.status = StatusValid
	b.statusChanges = stream.NewSubject[Status]()
	b.valueChanges = stream.NewSubject[any]()
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
}

func (b *base) ID() uuid.UUID      { return b.id }
func (b *base) Status() Status     { return b.status }
func (b *base) Valid() bool        { return b.status == StatusValid }
func (b *base) Invalid() bool      { return b.status == StatusInvalid }
func (b *base) Pending() bool      { return b.status == StatusPending }
func (b *base) Errors() Errors     { return b.errors }
func (b *base) Touched() bool      { return b.touched }
func (b *base) Dirty() bool        { return b.dirty }
func (b *base) Parent() *Group     { return b.parent }
func (b *base) setParent(g *Group) { b.parent = g }

func (b *base) StatusChanges() stream.Source[Status] { return b.statusChanges }
func (b *base) ValueChanges() stream.Source[any]     { return b.valueChanges }

func (b *base) Validator() ValidatorFunc           { return b.validator }
func (b *base) AsyncValidator() AsyncValidatorFunc { return b.asyncValidator }

// SetValidators replaces the validator slot with the composition of vs.
// It does not re-run validation.
func (b *base) SetValidators(vs ...ValidatorFunc) {
	b.validator = ComposeValidators(vs...)
}

// SetAsyncValidators replaces the async validator slot with the composition of vs.
func (b *base) SetAsyncValidators(vs ...AsyncValidatorFunc) {
	b.asyncValidator = ComposeAsyncValidators(vs...)
}

// MarkAsTouched marks the control and, unless OnlySelf is given, its ancestors as touched.
func (b *base) MarkAsTouched(opts ...UpdateOption) {
	b.touched = true
	if o := resolveUpdate(opts); b.parent != nil && !o.onlySelf {
		b.parent.MarkAsTouched(opts...)
	}
}

// MarkAsDirty marks the control and, unless OnlySelf is given, its ancestors as dirty.
func (b *base) MarkAsDirty(opts ...UpdateOption) {
	b.dirty = true
	if o := resolveUpdate(opts); b.parent != nil && !o.onlySelf {
		b.parent.MarkAsDirty(opts...)
	}
}

// UpdateValueAndValidity recomputes value, errors and status, runs the async
// validator when the synchronous result is valid, emits change events and
// bubbles up to the parent.
func (b *base) UpdateValueAndValidity(opts ...UpdateOption) {
	o := resolveUpdate(opts)

	b.self.syncValue()
	b.cancelAsync()

	b.errors = nil
	if b.validator != nil {
		b.errors = b.validator(b.self)
	}
	b.status = b.calculateStatus()

	if b.status == StatusValid && b.asyncValidator != nil {
		b.runAsyncValidator()
	}

	if !o.silent {
		b.valueChanges.Next(b.self.Value())
		b.statusChanges.Next(b.status)
	}

	if b.parent != nil && !o.onlySelf {
		b.parent.UpdateValueAndValidity(propagate(o)...)
	}
}

// SetErrors overrides the current errors and recomputes status up the tree.
func (b *base) SetErrors(errs Errors, opts ...UpdateOption) {
	o := resolveUpdate(opts)
	if len(errs) == 0 {
		errs = nil
	}
	b.errors = errs
	b.updateStatus(o.silent)
}

func (b *base) updateStatus(silent bool) {
	b.status = b.calculateStatus()
	if !silent {
		b.statusChanges.Next(b.status)
	}
	if b.parent != nil {
		b.parent.updateStatus(silent)
	}
}

func (b *base) calculateStatus() Status {
	if len(b.errors) > 0 {
		return StatusInvalid
	}
	invalid, pending := b.self.childrenStatus()
	if b.ownPending || pending {
		return StatusPending
	}
	if invalid {
		return StatusInvalid
	}
	return StatusValid
}

// runAsyncValidator applies the first result of the async validator. A
// result emitted during subscription is applied in place and reported with
// the caller's own status event. Otherwise the control stays PENDING and the
// settled status is always emitted, even for silent updates, because waiters
// on PENDING depend on it.
func (b *base) runAsyncValidator() {
	src := b.asyncValidator(b.self)
	if src == nil {
		return
	}

	b.asyncGen++
	gen := b.asyncGen

	var (
		subscribing = true
		settled     bool
		immediate   Errors
	)
	sub := stream.First(src, nil).Subscribe(func(errs Errors) {
		if gen != b.asyncGen {
			return
		}
		if subscribing {
			settled, immediate = true, errs
			return
		}
		b.ownPending = false
		b.asyncSub = nil
		b.SetErrors(errs)
	})
	subscribing = false

	if settled {
		if len(immediate) > 0 {
			b.errors = immediate
		}
		b.status = b.calculateStatus()
		return
	}
	b.ownPending = true
	b.status = StatusPending
	b.asyncSub = sub
}

func (b *base) cancelAsync() {
	b.asyncGen++
	b.ownPending = false
	if b.asyncSub != nil {
		b.asyncSub.Unsubscribe()
		b.asyncSub = nil
	}
}
