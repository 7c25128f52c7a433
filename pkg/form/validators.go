package form

import (
	"github.com/dmitrymomot/formx/pkg/stream"
)

// ValidatorFunc inspects a control and returns its errors, or nil when valid.
type ValidatorFunc func(c Control) Errors

// AsyncValidatorFunc returns a source whose first value is the control's errors.
// A nil source means "nothing to check".
type AsyncValidatorFunc func(c Control) stream.Source[Errors]

// ComposeValidators folds validators into one function that runs all of them
// and merges their errors in order. Nil validators are skipped; nil is
// returned when nothing is left.
func ComposeValidators(vs ...ValidatorFunc) ValidatorFunc {
	list := make([]ValidatorFunc, 0, len(vs))
	for _, v := range vs {
		if v != nil {
			list = append(list, v)
		}
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	}
	return func(c Control) Errors {
		results := make([]Errors, 0, len(list))
		for _, v := range list {
			results = append(results, v(c))
		}
		return Merge(results...)
	}
}

// ComposeAsyncValidators folds async validators into one. The composed source
// waits for the first value of every validator and emits their merged errors once.
func ComposeAsyncValidators(vs ...AsyncValidatorFunc) AsyncValidatorFunc {
	list := make([]AsyncValidatorFunc, 0, len(vs))
	for _, v := range vs {
		if v != nil {
			list = append(list, v)
		}
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	}
	return func(c Control) stream.Source[Errors] {
		srcs := make([]stream.Source[Errors], 0, len(list))
		for _, v := range list {
			if src := v(c); src != nil {
				srcs = append(srcs, stream.First(src, nil))
			}
		}
		all := stream.First(stream.CombineLatest(srcs...), nil)
		return stream.Map(all, func(results []Errors) Errors {
			return Merge(results...)
		})
	}
}

// AddValidators composes vs with the validator already installed on c.
// A nil control is ignored. Validation is not re-run.
func AddValidators(c Control, vs ...ValidatorFunc) {
	if c == nil {
		return
	}
	c.SetValidators(append([]ValidatorFunc{c.Validator()}, vs...)...)
}

// AddAsyncValidators composes vs with the async validator already installed on c.
// A nil control is ignored. Validation is not re-run.
func AddAsyncValidators(c Control, vs ...AsyncValidatorFunc) {
	if c == nil {
		return
	}
	c.SetAsyncValidators(append([]AsyncValidatorFunc{c.AsyncValidator()}, vs...)...)
}

// ErrorsOf returns a stream of c's errors: the current errors on subscribe,
// then the errors read after every status change.
func ErrorsOf(c Control) stream.Source[Errors] {
	return stream.Map(stream.StartWith(c.StatusChanges(), Status("")), func(Status) Errors {
		return c.Errors()
	})
}
