package form

import "github.com/dmitrymomot/formx/pkg/stream"

// Form is the top-level container a user submits. It owns the root group and
// emits one submit request per user action.
type Form struct {
	group     *Group
	submitted bool
	submits   *stream.Subject[struct{}]
}

// NewForm wraps g in a submit container.
func NewForm(g *Group) *Form {
	return &Form{group: g, submits: stream.NewSubject[struct{}]()}
}

func (f *Form) Group() *Group {
	return f.group
}

// Submitted reports whether the form was submitted since the last reset.
func (f *Form) Submitted() bool {
	return f.submitted
}

// RequestSubmit marks the form submitted and emits a submit request.
// Hosts call it for a user action; code may call it to submit programmatically.
func (f *Form) RequestSubmit() {
	f.submitted = true
	f.submits.Next(struct{}{})
}

// SubmitRequests emits once per RequestSubmit call.
func (f *Form) SubmitRequests() stream.Source[struct{}] {
	return f.submits
}

// ResetForm clears the submitted flag and resets the root group.
func (f *Form) ResetForm(v any) {
	f.submitted = false
	f.group.Reset(v)
}
