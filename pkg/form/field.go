package form

// Field is a leaf control holding a single value.
type Field struct {
	base
	value any
}

// NewField creates a field with an initial value and runs its validators once, silently.
func NewField(value any, opts ...ControlOption) *Field {
	f := &Field{value: value}
	f.setup(f, opts)
	f.UpdateValueAndValidity(OnlySelf(), Silent())
	return f
}

func (f *Field) Value() any {
	return f.value
}

// SetValue replaces the value and revalidates.
func (f *Field) SetValue(v any, opts ...UpdateOption) {
	f.value = v
	f.UpdateValueAndValidity(opts...)
}

// PatchValue is identical to SetValue for a field.
func (f *Field) PatchValue(v any, opts ...UpdateOption) {
	f.SetValue(v, opts...)
}

// Reset replaces the value and clears the touched and dirty flags.
func (f *Field) Reset(v any, opts ...UpdateOption) {
	f.value = v
	f.touched = false
	f.dirty = false
	f.UpdateValueAndValidity(opts...)
}

func (f *Field) childrenStatus() (bool, bool) { return false, false }
func (f *Field) syncValue()                   {}
