package stream

import (
	"sync"
	"sync/atomic"
)

type observer[T any] struct {
	fn     func(T)
	active atomic.Bool
}

// Subject is a hot multicast source. Every value passed to Next is delivered,
// in order, to the observers subscribed at the time of the call.
// All methods are safe for concurrent use; delivery happens outside the lock
// so observers may subscribe, unsubscribe or call Next re-entrantly.
type Subject[T any] struct {
	observers []*observer[T]
	closed    bool
	mu        sync.RWMutex
}

// NewSubject creates an empty subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// Subscribe registers fn. Subscribing to a closed subject returns an inert subscription.
func (s *Subject[T]) Subscribe(fn func(T)) Subscription {
	o := &observer[T]{fn: fn}
	o.active.Store(true)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Empty
	}
	s.observers = append(s.observers, o)
	s.mu.Unlock()

	return NewSubscription(func() {
		o.active.Store(false)
		s.remove(o)
	})
}

// Next delivers v to all active observers.
func (s *Subject[T]) Next(v T) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return
	}
	snapshot := make([]*observer[T], len(s.observers))
	copy(snapshot, s.observers)
	s.mu.RUnlock()

	for _, o := range snapshot {
		// An observer removed by an earlier observer in this same delivery must not see v.
		if o.active.Load() {
			o.fn(v)
		}
	}
}

// Len returns the number of active observers.
func (s *Subject[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// Close drops all observers. After Close, Next has no effect. Close is idempotent.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for _, o := range s.observers {
		o.active.Store(false)
	}
	s.observers = nil
}

func (s *Subject[T]) remove(o *observer[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cur := range s.observers {
		if cur == o {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

// Behavior is a Subject holding a current value that is replayed to every new subscriber.
type Behavior[T any] struct {
	subject *Subject[T]
	value   T
	mu      sync.RWMutex
}

// NewBehavior creates a Behavior seeded with initial.
func NewBehavior[T any](initial T) *Behavior[T] {
	return &Behavior[T]{subject: NewSubject[T](), value: initial}
}

// Value returns the current value.
func (b *Behavior[T]) Value() T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

// Next stores v as the current value and delivers it to subscribers.
func (b *Behavior[T]) Next(v T) {
	b.mu.Lock()
	b.value = v
	b.mu.Unlock()
	b.subject.Next(v)
}

// Subscribe delivers the current value synchronously, then every subsequent one.
func (b *Behavior[T]) Subscribe(fn func(T)) Subscription {
	sub := b.subject.Subscribe(fn)
	fn(b.Value())
	return sub
}

// Close stops all delivery.
func (b *Behavior[T]) Close() {
	b.subject.Close()
}

// Replay is a Subject that remembers the last emitted value and delivers it
// to late subscribers. Before the first Next it behaves like a plain Subject.
type Replay[T any] struct {
	subject *Subject[T]
	value   T
	has     bool
	mu      sync.RWMutex
}

// NewReplay creates an empty Replay.
func NewReplay[T any]() *Replay[T] {
	return &Replay[T]{subject: NewSubject[T]()}
}

// Last returns the last emitted value and whether there was one.
func (r *Replay[T]) Last() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value, r.has
}

// Next stores and delivers v.
func (r *Replay[T]) Next(v T) {
	r.mu.Lock()
	r.value, r.has = v, true
	r.mu.Unlock()
	r.subject.Next(v)
}

// Subscribe replays the last value, if any, then delivers subsequent ones.
func (r *Replay[T]) Subscribe(fn func(T)) Subscription {
	sub := r.subject.Subscribe(fn)
	if v, ok := r.Last(); ok {
		fn(v)
	}
	return sub
}

// Close stops all delivery.
func (r *Replay[T]) Close() {
	r.subject.Close()
}
