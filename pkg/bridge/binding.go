package bridge

import (
	"github.com/dmitrymomot/formx/pkg/form"
)

// ValueAccessor is what a host form field binds to.
type ValueAccessor interface {
	// WriteValue pushes a value assigned by the host into the accessor.
	WriteValue(v any)
	// RegisterOnChange registers the host callback for view-originated changes.
	RegisterOnChange(fn func(v any))
	// RegisterOnTouched registers the host callback for touch events.
	RegisterOnTouched(fn func())
}

// Binding is the host side of a form field: one outer control and the accessor bound to it.
type Binding struct {
	control  form.Control
	accessor ValueAccessor
}

// NewBinding creates a binding for the outer control.
func NewBinding(outer form.Control) *Binding {
	return &Binding{control: outer}
}

// Control returns the outer control.
func (b *Binding) Control() form.Control {
	return b.control
}

// Accessor returns the bound value accessor, if any.
func (b *Binding) Accessor() ValueAccessor {
	return b.accessor
}

// SetAccessor binds a value accessor, replacing any previous one.
func (b *Binding) SetAccessor(a ValueAccessor) {
	b.accessor = a
}

// Setup connects the accessor to the outer control: writes the current outer
// value into the accessor, forwards view changes into the outer control and
// marks it dirty, and marks it touched on touch events.
func (b *Binding) Setup() error {
	if b.accessor == nil {
		return ErrNoAccessor
	}
	b.accessor.WriteValue(b.control.Value())
	b.accessor.RegisterOnChange(func(v any) {
		b.control.MarkAsDirty()
		b.control.SetValue(v)
	})
	b.accessor.RegisterOnTouched(func() {
		b.control.MarkAsTouched()
	})
	return nil
}

// Write assigns v to the outer control and pushes it to the accessor, as a
// host does for programmatic model changes.
func (b *Binding) Write(v any) {
	b.control.SetValue(v)
	if b.accessor != nil {
		b.accessor.WriteValue(v)
	}
}
