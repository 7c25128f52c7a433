package bridge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formx/pkg/bridge"
	"github.com/dmitrymomot/formx/pkg/eventloop"
	"github.com/dmitrymomot/formx/pkg/form"
	"github.com/dmitrymomot/formx/pkg/stream"
)

// addressInput is an embeddable input wrapping a street/city group.
type addressInput struct {
	*bridge.Bridge
	street *form.Field
	city   *form.Field
	group  *form.Group
}

func (a *addressInput) Control() form.Control { return a.group }

type fixture struct {
	loop    *eventloop.Loop
	outer   *form.Field
	binding *bridge.Binding
	input   *addressInput
}

func newFixture(t *testing.T, opts ...bridge.Option) *fixture {
	t.Helper()

	loop := eventloop.New()
	street := form.NewField("", form.WithValidators(form.Required()))
	city := form.NewField("", form.WithValidators(form.Required()))
	input := &addressInput{
		street: street,
		city:   city,
		group:  form.NewGroup([]form.Named{form.Child("street", street), form.Child("city", city)}),
	}
	outer := form.NewField(nil)
	binding := bridge.NewBinding(outer)
	input.Bridge = bridge.New(loop, binding, input, opts...)
	require.NoError(t, binding.Setup())
	input.Attach()

	return &fixture{loop: loop, outer: outer, binding: binding, input: input}
}

// deferredValid settles to valid on the next loop turn.
func deferredValid(loop *eventloop.Loop) form.AsyncValidatorFunc {
	return func(form.Control) stream.Source[form.Errors] {
		out := stream.NewReplay[form.Errors]()
		loop.Post(func() { out.Next(nil) })
		return out
	}
}

func TestBridge_Attach(t *testing.T) {
	t.Parallel()

	t.Run("validators are attached one turn after attach", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		assert.True(t, f.outer.Valid(), "outer is untouched during the attaching turn")
		assert.Nil(t, f.outer.Validator())

		f.loop.Turn()

		assert.True(t, f.outer.Invalid())
		assert.Equal(t, form.NewErrors(form.KeyInvalid, true), f.outer.Errors())
		assert.Same(t, f.outer, f.input.OuterControl())
	})

	t.Run("outer follows inner validity", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loop.Drain()

		f.input.street.SetValue("Main St")
		f.input.city.SetValue("Berlin")

		assert.True(t, f.outer.Valid())
		assert.Equal(t, map[string]any{"street": "Main St", "city": "Berlin"}, f.outer.Value())
		assert.True(t, f.outer.Dirty())

		f.input.city.SetValue("")
		assert.True(t, f.outer.Invalid())
	})

	t.Run("inner own errors are projected as is", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loop.Drain()
		f.input.group.SetValidators(func(form.Control) form.Errors { return form.NewErrors("address", "unknown") })
		f.input.group.UpdateValueAndValidity()

		assert.Equal(t, form.NewErrors("address", "unknown"), f.outer.Errors())
	})

	t.Run("composes with validators already on the outer control", func(t *testing.T) {
		t.Parallel()

		loop := eventloop.New()
		inner := form.NewField("ok")
		outer := form.NewField(nil, form.WithValidators(form.Required()))
		b := bridge.New(loop, bridge.NewBinding(outer), providerOf(inner))
		b.Attach()
		loop.Drain()

		inner.SetValidators(form.MinLength(5))
		inner.UpdateValueAndValidity()
		outer.SetValue(nil)

		assert.Equal(t, []string{form.KeyRequired, form.KeyMinLength}, outer.Errors().Keys())
	})

	t.Run("several bridges share one outer control", func(t *testing.T) {
		t.Parallel()

		loop := eventloop.New()
		first := form.NewField("x")
		second := form.NewField("", form.WithValidators(form.Required()))
		outer := form.NewField(nil)

		a := bridge.New(loop, bridge.NewBinding(outer), providerOf(first))
		b := bridge.New(loop, bridge.NewBinding(outer), providerOf(second))
		a.Attach()
		b.Attach()
		loop.Drain()

		assert.True(t, outer.Errors().Has(form.KeyRequired))

		b.Detach()
		outer.UpdateValueAndValidity()
		assert.True(t, outer.Valid())
	})
}

func TestBridge_AsyncValidator(t *testing.T) {
	t.Parallel()

	t.Run("outer stays pending until inner settles", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loop.Drain()
		f.input.street.SetValue("Main St")
		f.input.city.SetAsyncValidators(deferredValid(f.loop))
		f.input.city.SetValue("Berlin")

		assert.True(t, f.input.group.Pending())
		assert.True(t, f.outer.Pending())

		f.loop.Drain()
		assert.True(t, f.outer.Valid())
	})

	t.Run("invalid inner settlement yields inner errors", func(t *testing.T) {
		t.Parallel()

		loop := eventloop.New()
		inner := form.NewField("x")
		b := bridge.New(loop, bridge.NewBinding(form.NewField(nil)), providerOf(inner))

		inner.SetAsyncValidators(func(form.Control) stream.Source[form.Errors] {
			out := stream.NewReplay[form.Errors]()
			loop.Post(func() { out.Next(form.NewErrors("taken", true)) })
			return out
		})
		inner.UpdateValueAndValidity()

		var got []form.Errors
		b.AsyncValidator()(inner).Subscribe(func(e form.Errors) { got = append(got, e) })
		assert.Empty(t, got)

		loop.Drain()
		assert.Equal(t, []form.Errors{form.NewErrors("taken", true)}, got)
	})
}

func TestBridge_Detach(t *testing.T) {
	t.Parallel()

	t.Run("validator reports no error after detach", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loop.Drain()
		require.True(t, f.outer.Invalid())

		f.input.Detach()
		assert.True(t, f.input.Destroyed())
		assert.Nil(t, f.input.Validator()(f.outer))

		f.outer.UpdateValueAndValidity()
		assert.True(t, f.outer.Valid(), "outer is valid although inner is still invalid")
		assert.True(t, f.input.group.Invalid())
	})

	t.Run("async validator is seeded with a neutral status after detach", func(t *testing.T) {
		t.Parallel()

		loop := eventloop.New()
		inner := form.NewField("x", form.WithAsyncValidators(func(form.Control) stream.Source[form.Errors] {
			return stream.Never[form.Errors]()
		}))
		require.True(t, inner.Pending())
		b := bridge.New(loop, bridge.NewBinding(form.NewField(nil)), providerOf(inner))

		emitted := false
		b.AsyncValidator()(inner).Subscribe(func(form.Errors) { emitted = true })
		assert.False(t, emitted, "pending inner control keeps a live bridge waiting")

		b.Detach()
		var got form.Errors
		b.AsyncValidator()(inner).Subscribe(func(e form.Errors) { emitted, got = true, e })
		assert.True(t, emitted)
		assert.Nil(t, got)
	})

	t.Run("pending outer validation settles valid on detach", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loop.Drain()
		f.input.street.SetValue("Main St")
		lookup := stream.NewReplay[form.Errors]()
		f.input.city.SetAsyncValidators(func(form.Control) stream.Source[form.Errors] { return lookup })
		f.input.city.SetValue("Berlin")
		require.True(t, f.outer.Pending())

		f.input.Detach()
		assert.True(t, f.outer.Valid())

		lookup.Next(form.NewErrors("taken", true))
		assert.True(t, f.input.group.Invalid())
		assert.True(t, f.outer.Valid(), "inner settlement after detach must not reach the outer control")
		assert.Nil(t, f.outer.Errors())
	})

	t.Run("detach before the deferred turn skips validator attachment", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.input.Detach()
		f.loop.Drain()

		assert.Nil(t, f.outer.Validator())
		assert.True(t, f.outer.Valid())
	})

	t.Run("change callbacks stop after detach", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loop.Drain()
		f.input.Detach()
		f.input.street.SetValue("Main St")

		assert.Nil(t, f.outer.Value())
	})
}

func TestBridge_WriteValue(t *testing.T) {
	t.Parallel()

	t.Run("patch keeps inner metadata", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.input.street.MarkAsTouched()
		f.binding.Write(map[string]any{"street": "Main St"})

		assert.Equal(t, "Main St", f.input.street.Value())
		assert.True(t, f.input.street.Touched())
	})

	t.Run("reset clears inner metadata", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, bridge.WithWritePolicy(bridge.WriteReset))
		f.input.street.MarkAsTouched()
		f.input.street.MarkAsDirty()
		f.binding.Write(map[string]any{"street": "Main St", "city": "Berlin"})

		assert.Equal(t, "Berlin", f.input.city.Value())
		assert.False(t, f.input.street.Touched())
		assert.False(t, f.input.street.Dirty())
	})
}

func TestBridge_RegisterOnChange(t *testing.T) {
	t.Parallel()

	t.Run("applies output mapper", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, bridge.WithOutputMapper(func(v any) any {
			m := v.(map[string]any)
			return m["street"].(string) + ", " + m["city"].(string)
		}))
		f.input.street.SetValue("Main St")
		f.input.city.SetValue("Berlin")

		assert.Equal(t, "Main St, Berlin", f.outer.Value())
	})

	t.Run("custom value source", func(t *testing.T) {
		t.Parallel()

		src := stream.NewSubject[any]()
		f := newFixture(t, bridge.WithValueChanges(func(form.Control) stream.Source[any] { return src }))
		f.input.street.SetValue("ignored")
		src.Next("custom")

		assert.Equal(t, "custom", f.outer.Value())
	})
}

func TestBridge_Marks(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.loop.Drain()

	touched := 0
	f.input.RegisterOnTouched(func() { touched++ })
	f.input.MarkAsTouched()
	f.input.MarkAsDirty()

	assert.True(t, f.input.group.Touched())
	assert.True(t, f.outer.Touched())
	assert.True(t, f.input.group.Dirty())
	assert.True(t, f.outer.Dirty())
	assert.Equal(t, 1, touched)
}

func TestBridge_ErrorStreams(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.loop.Drain()

	var inner, outer []form.Errors
	f.input.Errors().Subscribe(func(e form.Errors) { inner = append(inner, e) })
	f.input.ExternalErrors().Subscribe(func(e form.Errors) { outer = append(outer, e) })

	f.input.street.SetValue("Main St")
	f.input.city.SetValue("Berlin")

	require.NotEmpty(t, inner)
	require.NotEmpty(t, outer)
	assert.Nil(t, inner[len(inner)-1])
	assert.Nil(t, outer[len(outer)-1])

	f.input.Detach()
	n := len(outer)
	f.outer.SetErrors(form.NewErrors("server", "rejected"))
	assert.Len(t, outer, n, "error streams stop with the bridge")
}

func TestBridge_ErrorStreamsSkipPending(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.loop.Drain()

	var outer []form.Errors
	f.input.ExternalErrors().Subscribe(func(e form.Errors) { outer = append(outer, e) })
	require.Equal(t, []form.Errors{form.NewErrors(form.KeyInvalid, true)}, outer)

	f.input.street.SetValue("Main St")
	f.input.city.SetAsyncValidators(deferredValid(f.loop))
	f.input.city.SetValue("Berlin")
	require.True(t, f.outer.Pending())
	assert.Len(t, outer, 1, "pending status keeps the last errors")

	f.loop.Drain()
	require.True(t, f.outer.Valid())
	assert.Equal(t, []form.Errors{form.NewErrors(form.KeyInvalid, true), nil}, outer)
}

func TestBinding_Setup(t *testing.T) {
	t.Parallel()

	b := bridge.NewBinding(form.NewField(nil))
	assert.ErrorIs(t, b.Setup(), bridge.ErrNoAccessor)
}

type staticProvider struct{ c form.Control }

func (p staticProvider) Control() form.Control { return p.c }

func providerOf(c form.Control) bridge.ControlProvider { return staticProvider{c: c} }
