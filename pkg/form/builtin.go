package form

import (
	"context"
	"net/mail"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/dmitrymomot/formx/pkg/eventloop"
	"github.com/dmitrymomot/formx/pkg/stream"
)

// Required fails with the "required" key for nil, empty strings and empty collections.
func Required() ValidatorFunc {
	return func(c Control) Errors {
		if isEmpty(c.Value()) {
			return NewErrors(KeyRequired, true)
		}
		return nil
	}
}

// MinLength fails with the "minlength" key when a non-empty value is shorter than n.
// Empty values pass so the check composes with Required.
func MinLength(n int) ValidatorFunc {
	return func(c Control) Errors {
		l, ok := length(c.Value())
		if !ok || l == 0 || l >= n {
			return nil
		}
		return NewErrors(KeyMinLength, LengthError{RequiredLength: n, ActualLength: l})
	}
}

// MaxLength fails with the "maxlength" key when the value is longer than n.
func MaxLength(n int) ValidatorFunc {
	return func(c Control) Errors {
		l, ok := length(c.Value())
		if !ok || l <= n {
			return nil
		}
		return NewErrors(KeyMaxLength, LengthError{RequiredLength: n, ActualLength: l})
	}
}

// Email fails with the "email" key when a non-empty string is not a bare email address.
func Email() ValidatorFunc {
	return func(c Control) Errors {
		s, ok := c.Value().(string)
		if !ok || s == "" {
			return nil
		}
		if !validEmail(s) {
			return NewErrors(KeyEmail, true)
		}
		return nil
	}
}

// AsyncCheck adapts a blocking check into an async validator. check runs on
// its own goroutine with the control's value; its result is applied on loop.
// A check error is reported under errKey with the error as payload.
func AsyncCheck(loop *eventloop.Loop, errKey string, check func(ctx context.Context, value any) (Errors, error)) AsyncValidatorFunc {
	return func(c Control) stream.Source[Errors] {
		value := c.Value()
		res := eventloop.Go(loop, context.Background(), func(ctx context.Context) (Errors, error) {
			return check(ctx, value)
		})
		return stream.Map(res, func(r eventloop.Result[Errors]) Errors {
			if r.Err != nil {
				return NewErrors(errKey, r.Err)
			}
			return r.Value
		})
	}
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	local, domain, found := strings.Cut(s, "@")
	if !found || local == "" {
		return false
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	l, ok := length(v)
	return ok && l == 0
}

func length(v any) (int, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case string:
		return utf8.RuneCountInString(val), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}
