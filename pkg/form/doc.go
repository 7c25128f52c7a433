// Package form implements the reactive control model the rest of formx is
// built on: value-holding controls with a validity status, an ordered map of
// error keys, touched/dirty flags and status/value change streams.
//
// # Controls
//
//   - Field – a leaf control holding a single value
//   - Group – a composite control holding named child controls
//   - Form  – the top-level submit container wrapping a Group
//
// Every control carries exactly one validator slot and one async validator
// slot. SetValidators composes several validators into that single slot, and
// AddValidators composes new validators with whatever is already installed.
// Composition is one-way: there is no way to take a single validator back out
// of a composed slot.
//
// # Status
//
// After each value change a control runs its validator, then, if still valid,
// its async validator. While an async validator has not produced its first
// result the status is PENDING; the result settles it to VALID or INVALID.
// Parents recompute their status from their own errors and their children.
//
// # Errors
//
// Errors is an ordered error-key map. Order is insertion order, which makes
// "the first error" well defined. A nil Errors means the control has no errors.
//
//	name := form.NewField("", form.WithValidators(form.Required(), form.MinLength(5)))
//	name.SetValue("Al")
//	first, _ := name.Errors().First() // {Key: "minlength", Payload: form.LengthError{...}}
//
// Controls are not safe for concurrent use; drive them from the event loop.
package form
