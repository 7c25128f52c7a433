package form_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formx/pkg/eventloop"
	"github.com/dmitrymomot/formx/pkg/form"
	"github.com/dmitrymomot/formx/pkg/stream"
)

func statuses(c form.Control) *[]form.Status {
	var got []form.Status
	c.StatusChanges().Subscribe(func(s form.Status) { got = append(got, s) })
	return &got
}

// deferredResult returns an async validator whose result is delivered on the next loop turn.
func deferredResult(loop *eventloop.Loop, errs form.Errors) form.AsyncValidatorFunc {
	return func(form.Control) stream.Source[form.Errors] {
		out := stream.NewReplay[form.Errors]()
		loop.Post(func() { out.Next(errs) })
		return out
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	t.Run("first follows insertion order", func(t *testing.T) {
		t.Parallel()

		errs := form.NewErrors("minlength", 1).With("email", true).With("required", true)
		first, ok := errs.First()
		require.True(t, ok)
		assert.Equal(t, "minlength", first.Key)
		assert.Equal(t, []string{"minlength", "email", "required"}, errs.Keys())
	})

	t.Run("with replaces payload in place", func(t *testing.T) {
		t.Parallel()

		errs := form.NewErrors("a", 1).With("b", 2).With("a", 3)
		assert.Equal(t, []string{"a", "b"}, errs.Keys())
		v, _ := errs.Get("a")
		assert.Equal(t, 3, v)
	})

	t.Run("merge keeps first position and last payload", func(t *testing.T) {
		t.Parallel()

		merged := form.Merge(form.NewErrors("x", 1), nil, form.NewErrors("y", 2).With("x", 9))
		assert.Equal(t, []string{"x", "y"}, merged.Keys())
		v, _ := merged.Get("x")
		assert.Equal(t, 9, v)
		assert.Nil(t, form.Merge(nil, form.Errors{}))
	})

	t.Run("equal compares payloads deeply", func(t *testing.T) {
		t.Parallel()

		a := form.NewErrors("minlength", form.LengthError{RequiredLength: 5, ActualLength: 2})
		b := form.NewErrors("minlength", form.LengthError{RequiredLength: 5, ActualLength: 2})
		c := form.NewErrors("minlength", form.LengthError{RequiredLength: 5, ActualLength: 3})
		assert.True(t, a.Equal(b))
		assert.False(t, a.Equal(c))
		assert.True(t, form.Errors(nil).Equal(form.Errors{}))
	})
}

func TestField(t *testing.T) {
	t.Parallel()

	t.Run("runs validators on construction and change", func(t *testing.T) {
		t.Parallel()

		f := form.NewField("", form.WithValidators(form.Required(), form.MinLength(5)))
		assert.Equal(t, form.StatusInvalid, f.Status())
		assert.True(t, f.Errors().Has(form.KeyRequired))

		f.SetValue("Al")
		first, _ := f.Errors().First()
		assert.Equal(t, form.KeyMinLength, first.Key)
		assert.Equal(t, form.LengthError{RequiredLength: 5, ActualLength: 2}, first.Payload)

		f.SetValue("Alice")
		assert.True(t, f.Valid())
		assert.Nil(t, f.Errors())
	})

	t.Run("emits value then status", func(t *testing.T) {
		t.Parallel()

		f := form.NewField("a")
		var events []string
		f.ValueChanges().Subscribe(func(v any) { events = append(events, "value:"+v.(string)) })
		f.StatusChanges().Subscribe(func(s form.Status) { events = append(events, "status:"+s.String()) })

		f.SetValue("b")
		assert.Equal(t, []string{"value:b", "status:VALID"}, events)

		f.SetValue("c", form.Silent())
		assert.Len(t, events, 2)
	})

	t.Run("async validator keeps field pending until it settles", func(t *testing.T) {
		t.Parallel()

		loop := eventloop.New()
		f := form.NewField("taken", form.WithAsyncValidators(deferredResult(loop, form.NewErrors("unique", true))))
		got := statuses(f)

		assert.Equal(t, form.StatusPending, f.Status())
		loop.Drain()

		assert.Equal(t, form.StatusInvalid, f.Status())
		assert.Equal(t, []form.Status{form.StatusInvalid}, *got)
	})

	t.Run("async validator is skipped when sync validation fails", func(t *testing.T) {
		t.Parallel()

		called := false
		f := form.NewField("", form.WithValidators(form.Required()), form.WithAsyncValidators(func(form.Control) stream.Source[form.Errors] {
			called = true
			return stream.Of[form.Errors](nil)
		}))

		assert.False(t, called)
		assert.True(t, f.Invalid())
	})

	t.Run("immediate async result emits a single status", func(t *testing.T) {
		t.Parallel()

		f := form.NewField("a", form.WithAsyncValidators(func(c form.Control) stream.Source[form.Errors] {
			if c.Value() == "taken" {
				return stream.Of(form.NewErrors("unique", true))
			}
			return stream.Of[form.Errors](nil)
		}))
		parent := form.NewGroup([]form.Named{form.Child("name", f)})
		got := statuses(f)
		groupGot := statuses(parent)

		f.SetValue("taken")
		assert.Equal(t, []form.Status{form.StatusInvalid}, *got)
		assert.Equal(t, []form.Status{form.StatusInvalid}, *groupGot)
		assert.True(t, f.Errors().Has("unique"))

		f.SetValue("free", form.Silent())
		assert.Len(t, *got, 1)
		assert.True(t, f.Valid())
		assert.True(t, parent.Valid())
	})

	t.Run("stale async result is ignored after value change", func(t *testing.T) {
		t.Parallel()

		loop := eventloop.New()
		results := map[string]form.Errors{"first": form.NewErrors("unique", true), "second": nil}
		f := form.NewField("first", form.WithAsyncValidators(func(c form.Control) stream.Source[form.Errors] {
			return deferredResult(loop, results[c.Value().(string)])(c)
		}))
		f.SetValue("second")
		loop.Drain()

		assert.True(t, f.Valid())
	})

	t.Run("reset clears touched and dirty", func(t *testing.T) {
		t.Parallel()

		f := form.NewField("x")
		f.MarkAsTouched()
		f.MarkAsDirty()
		f.Reset("y")

		assert.False(t, f.Touched())
		assert.False(t, f.Dirty())
		assert.Equal(t, "y", f.Value())
	})
}

func TestGroup(t *testing.T) {
	t.Parallel()

	t.Run("aggregates value and status", func(t *testing.T) {
		t.Parallel()

		street := form.NewField("Main", form.WithValidators(form.Required()))
		city := form.NewField("", form.WithValidators(form.Required()))
		g := form.NewGroup([]form.Named{form.Child("street", street), form.Child("city", city)})

		assert.Equal(t, form.StatusInvalid, g.Status())
		assert.Nil(t, g.Errors(), "group has no own errors")

		city.SetValue("Berlin")
		assert.True(t, g.Valid())
		assert.Equal(t, map[string]any{"street": "Main", "city": "Berlin"}, g.Value())
	})

	t.Run("pending child makes group pending", func(t *testing.T) {
		t.Parallel()

		loop := eventloop.New()
		name := form.NewField("x")
		g := form.NewGroup([]form.Named{form.Child("name", name)})
		name.SetAsyncValidators(deferredResult(loop, nil))
		name.UpdateValueAndValidity()

		assert.Equal(t, form.StatusPending, g.Status())
		loop.Drain()
		assert.Equal(t, form.StatusValid, g.Status())
	})

	t.Run("patch only touches given children", func(t *testing.T) {
		t.Parallel()

		a := form.NewField("a")
		b := form.NewField("b")
		g := form.NewGroup([]form.Named{form.Child("a", a), form.Child("b", b)})
		g.MarkAsTouched()

		g.PatchValue(map[string]any{"a": "A"})
		assert.Equal(t, map[string]any{"a": "A", "b": "b"}, g.Value())
		assert.True(t, g.Touched())

		g.Reset(map[string]any{"b": "B"})
		assert.Equal(t, map[string]any{"a": nil, "b": "B"}, g.Value())
		assert.False(t, g.Touched())
	})

	t.Run("touched and dirty bubble to parent", func(t *testing.T) {
		t.Parallel()

		a := form.NewField("a")
		g := form.NewGroup([]form.Named{form.Child("a", a)})
		a.MarkAsTouched()
		a.MarkAsDirty(form.OnlySelf())

		assert.True(t, g.Touched())
		assert.False(t, g.Dirty())
	})

	t.Run("add and remove controls", func(t *testing.T) {
		t.Parallel()

		g := form.NewGroup(nil)
		bad := form.NewField("", form.WithValidators(form.Required()))

		require.NoError(t, g.AddControl("bad", bad))
		assert.True(t, g.Invalid())
		assert.ErrorIs(t, g.AddControl("bad", bad), form.ErrDuplicateControl)

		require.NoError(t, g.RemoveControl("bad"))
		assert.True(t, g.Valid())
		assert.Nil(t, bad.Parent())
		assert.ErrorIs(t, g.RemoveControl("bad"), form.ErrUnknownControl)
	})
}

func TestAddValidators(t *testing.T) {
	t.Parallel()

	t.Run("composes with existing validator", func(t *testing.T) {
		t.Parallel()

		f := form.NewField("", form.WithValidators(form.Required()))
		form.AddValidators(f, func(form.Control) form.Errors { return form.NewErrors("custom", true) })
		f.UpdateValueAndValidity()

		assert.Equal(t, []string{form.KeyRequired, "custom"}, f.Errors().Keys())
	})

	t.Run("nil control is a no-op", func(t *testing.T) {
		t.Parallel()

		assert.NotPanics(t, func() {
			form.AddValidators(nil, form.Required())
			form.AddAsyncValidators(nil, nil)
		})
	})

	t.Run("composed async validators wait for all", func(t *testing.T) {
		t.Parallel()

		loop := eventloop.New()
		f := form.NewField("x")
		form.AddAsyncValidators(f,
			func(form.Control) stream.Source[form.Errors] { return stream.Of(form.NewErrors("a", true)) },
			deferredResult(loop, form.NewErrors("b", true)),
		)
		f.UpdateValueAndValidity()
		assert.True(t, f.Pending())

		loop.Drain()
		assert.Equal(t, []string{"a", "b"}, f.Errors().Keys())
	})
}

func TestErrorsOf(t *testing.T) {
	t.Parallel()

	f := form.NewField("", form.WithValidators(form.Required()))
	var got []form.Errors
	form.ErrorsOf(f).Subscribe(func(e form.Errors) { got = append(got, e) })

	f.SetValue("ok")
	require.Len(t, got, 2)
	assert.True(t, got[0].Has(form.KeyRequired))
	assert.Nil(t, got[1])
}

func TestBuiltinValidators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		v     form.ValidatorFunc
		value any
		key   string
	}{
		{"required nil", form.Required(), nil, form.KeyRequired},
		{"required empty slice", form.Required(), []int{}, form.KeyRequired},
		{"required ok", form.Required(), "x", ""},
		{"minlength skips empty", form.MinLength(3), "", ""},
		{"minlength counts runes", form.MinLength(3), "äöü", ""},
		{"minlength short", form.MinLength(3), "ab", form.KeyMinLength},
		{"maxlength long", form.MaxLength(2), "abc", form.KeyMaxLength},
		{"email ok", form.Email(), "john@example.com", ""},
		{"email display name", form.Email(), "John <john@example.com>", form.KeyEmail},
		{"email no tld", form.Email(), "john@localhost", form.KeyEmail},
		{"email empty", form.Email(), "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := tt.v(form.NewField(tt.value))
			if tt.key == "" {
				assert.Nil(t, errs)
				return
			}
			assert.True(t, errs.Has(tt.key))
		})
	}
}

func TestAsyncCheck(t *testing.T) {
	t.Parallel()

	loop := eventloop.New()
	check := form.AsyncCheck(loop, "lookup", func(_ context.Context, value any) (form.Errors, error) {
		if value == "down" {
			return nil, errors.New("service unavailable")
		}
		if value == "taken" {
			return form.NewErrors("unique", true), nil
		}
		return nil, nil
	})

	f := form.NewField("taken", form.WithAsyncValidators(check))
	require.True(t, f.Pending())
	require.Eventually(t, func() bool { return loop.Pending() > 0 }, time.Second, time.Millisecond)
	loop.Drain()
	assert.True(t, f.Errors().Has("unique"))

	f.SetValue("down")
	require.Eventually(t, func() bool { return loop.Pending() > 0 }, time.Second, time.Millisecond)
	loop.Drain()
	assert.True(t, f.Errors().Has("lookup"))
}

func TestForm(t *testing.T) {
	t.Parallel()

	f := form.NewForm(form.NewGroup(nil))
	count := 0
	f.SubmitRequests().Subscribe(func(struct{}) { count++ })

	f.RequestSubmit()
	f.RequestSubmit()
	assert.Equal(t, 2, count)
	assert.True(t, f.Submitted())

	f.ResetForm(nil)
	assert.False(t, f.Submitted())
}
