package form

import (
	"fmt"
	"maps"
)

// Named pairs a child control with its name inside a group.
type Named struct {
	Name    string
	Control Control
}

// Child is shorthand for building a Named entry.
func Child(name string, c Control) Named {
	return Named{Name: name, Control: c}
}

type parentSetter interface {
	setParent(g *Group)
}

// Group is a composite control. Its value is a map of child names to child values.
// The group is INVALID when it has own errors or any child is INVALID, and
// PENDING while any child or its own async validator is pending.
type Group struct {
	base
	names    []string
	controls map[string]Control
	value    map[string]any
}

// NewGroup creates a group from ordered children. Duplicate names keep the last control.
func NewGroup(children []Named, opts ...ControlOption) *Group {
	g := &Group{controls: make(map[string]Control, len(children))}
	g.setup(g, opts)
	for _, c := range children {
		g.attach(c.Name, c.Control)
	}
	g.UpdateValueAndValidity(OnlySelf(), Silent())
	return g
}

// Get returns a child by name.
func (g *Group) Get(name string) (Control, bool) {
	c, ok := g.controls[name]
	return c, ok
}

// Names returns child names in insertion order.
func (g *Group) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// AddControl registers a new child and revalidates the group.
func (g *Group) AddControl(name string, c Control, opts ...UpdateOption) error {
	if _, exists := g.controls[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateControl, name)
	}
	g.attach(name, c)
	g.UpdateValueAndValidity(opts...)
	return nil
}

// RemoveControl drops a child and revalidates the group.
func (g *Group) RemoveControl(name string, opts ...UpdateOption) error {
	c, ok := g.controls[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownControl, name)
	}
	if ps, ok := c.(parentSetter); ok {
		ps.setParent(nil)
	}
	delete(g.controls, name)
	for i, n := range g.names {
		if n == name {
			g.names = append(g.names[:i:i], g.names[i+1:]...)
			break
		}
	}
	g.UpdateValueAndValidity(opts...)
	return nil
}

// Value returns a copy of the aggregated child values.
func (g *Group) Value() any {
	return maps.Clone(g.value)
}

// SetValue assigns every child from a map[string]any. Children absent from the map receive nil.
func (g *Group) SetValue(v any, opts ...UpdateOption) {
	values, _ := v.(map[string]any)
	o := resolveUpdate(opts)
	for _, name := range g.names {
		g.controls[name].SetValue(values[name], childOptions(o)...)
	}
	g.UpdateValueAndValidity(opts...)
}

// PatchValue assigns only the children present in a map[string]any.
func (g *Group) PatchValue(v any, opts ...UpdateOption) {
	values, ok := v.(map[string]any)
	if !ok {
		return
	}
	o := resolveUpdate(opts)
	for _, name := range g.names {
		if val, present := values[name]; present {
			g.controls[name].PatchValue(val, childOptions(o)...)
		}
	}
	g.UpdateValueAndValidity(opts...)
}

// Reset resets every child from an optional map[string]any and clears touched and dirty flags.
func (g *Group) Reset(v any, opts ...UpdateOption) {
	values, _ := v.(map[string]any)
	o := resolveUpdate(opts)
	for _, name := range g.names {
		g.controls[name].Reset(values[name], childOptions(o)...)
	}
	g.touched = false
	g.dirty = false
	g.UpdateValueAndValidity(opts...)
}

func (g *Group) attach(name string, c Control) {
	if c == nil {
		return
	}
	if ps, ok := c.(parentSetter); ok {
		ps.setParent(g)
	}
	if _, exists := g.controls[name]; !exists {
		g.names = append(g.names, name)
	}
	g.controls[name] = c
}

func (g *Group) childrenStatus() (invalid, pending bool) {
	for _, name := range g.names {
		switch g.controls[name].Status() {
		case StatusInvalid:
			invalid = true
		case StatusPending:
			pending = true
		}
	}
	return invalid, pending
}

func (g *Group) syncValue() {
	value := make(map[string]any, len(g.names))
	for _, name := range g.names {
		value[name] = g.controls[name].Value()
	}
	g.value = value
}

func childOptions(o updateOptions) []UpdateOption {
	opts := []UpdateOption{OnlySelf()}
	if o.silent {
		opts = append(opts, Silent())
	}
	return opts
}
