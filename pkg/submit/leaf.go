package submit

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formx/pkg/form"
	"github.com/dmitrymomot/formx/pkg/stream"
)

// Leaf is a submit participant wrapping one control.
type Leaf struct {
	id       uuid.UUID
	control  form.Control
	onSubmit func(form.Control)

	destroyed atomic.Bool
	withdrawn *stream.Replay[bool]
	ctx       context.Context
	cancel    context.CancelFunc
}

// LeafOption configures a Leaf.
type LeafOption func(*Leaf)

// WithOnSubmit replaces the callback run on every submit before waiting for
// the control to settle.
func WithOnSubmit(fn func(c form.Control)) LeafOption {
	return func(l *Leaf) {
		if fn != nil {
			l.onSubmit = fn
		}
	}
}

// MarkInteracted marks c touched and dirty, so invalid state becomes visible.
// It is the default on-submit callback.
func MarkInteracted(c form.Control) {
	c.MarkAsTouched()
	c.MarkAsDirty()
}

// NewLeaf creates a leaf for c.
func NewLeaf(c form.Control, opts ...LeafOption) *Leaf {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Leaf{
		id:        uuid.New(),
		control:   c,
		onSubmit:  MarkInteracted,
		withdrawn: stream.NewReplay[bool](),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ID returns the leaf identifier.
func (l *Leaf) ID() uuid.UUID { return l.id }

// Control returns the wrapped control.
func (l *Leaf) Control() form.Control { return l.control }

// Valid returns a cold stream. Every subscription runs the on-submit
// callback and then emits once: true if the control's first settled status
// from that point on is VALID, false otherwise. A control that is already
// settled emits right away. A destroyed leaf is withdrawn: it skips the
// callback and emits true, also when Destroy runs while the wait is pending.
func (l *Leaf) Valid() stream.Source[bool] {
	check := stream.TakeUntil(l.ctx, stream.Defer(func() stream.Source[bool] {
		l.onSubmit(l.control)
		statuses := stream.StartWith(l.control.StatusChanges(), l.control.Status())
		settled := stream.First(statuses, form.Status.Settled)
		return stream.Map(settled, func(s form.Status) bool { return s == form.StatusValid })
	}))
	return stream.First(stream.Merge(check, stream.Source[bool](l.withdrawn)), nil)
}

// Destroyed reports whether Destroy has run.
func (l *Leaf) Destroyed() bool {
	return l.destroyed.Load()
}

// Destroy stops the leaf. Coordinators skip destroyed leaves.
func (l *Leaf) Destroy() {
	if l.destroyed.Swap(true) {
		return
	}
	l.cancel()
	l.withdrawn.Next(true)
}
