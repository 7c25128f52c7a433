// Package bridge lets an encapsulated input, built from its own inner
// control, plug into a host form field as a custom value accessor while
// projecting the inner control's validity onto the host's outer control.
//
// # Binding
//
// A Binding is the host side of a form field: it owns the outer control and
// the ValueAccessor bound to it. Setup wires the accessor the way a host
// form framework would: the outer value is written into the accessor, view
// changes update the outer value and mark it dirty, touch events mark it touched.
//
// # Bridge
//
// A Bridge is a ValueAccessor around an inner control. On Attach it captures
// the outer control from the binding and, one loop turn later, composes two
// synthetic validators into the outer control's validator slots:
//
//   - a synchronous validator returning the inner control's errors (or
//     {"invalid": true}) while the inner control is INVALID
//   - an async validator waiting for the inner control's first settled status
//
// Validator slots are composed one way, so Detach cannot remove them.
// Instead Detach flips a destroyed flag first and then cancels every
// subscription; from that point both validators report no errors.
//
// # Embedding
//
// Concrete inputs embed *Bridge and expose their inner control through the
// ControlProvider interface:
//
//	type AddressInput struct {
//	    *bridge.Bridge
//	    group *form.Group
//	}
//
//	func (a *AddressInput) Control() form.Control { return a.group }
//
//	input := &AddressInput{group: newAddressGroup()}
//	input.Bridge = bridge.New(loop, binding, input, bridge.WithWritePolicy(bridge.WriteReset))
//	binding.Setup()
//	input.Attach()
package bridge
