// Package submit aggregates the validity of many controls into one result
// per form submission, waiting for pending async validators to settle.
//
// A Leaf wraps one control. Its Valid stream runs the leaf's on-submit
// callback (by default: mark the control touched and dirty), then emits once,
// with the control's first settled status after that point mapped to a bool.
//
// A Coordinator owns leaves. Coordinators form a tree: only the root listens
// to its Trigger and aggregates, nested coordinators hand their leaves to the
// root and share its result stream. On every submit request the root takes
// the live membership, waits for every leaf to settle and emits true iff no
// leaf settled invalid. A new request supersedes one still waiting.
//
//	f := form.NewForm(group)
//	root, _ := submit.NewCoordinator(f)
//	root.SetLeaves(submit.NewLeaf(name), submit.NewLeaf(email))
//	root.OnSubmit(func(valid bool) { ... })
//
//	f.RequestSubmit()
package submit
