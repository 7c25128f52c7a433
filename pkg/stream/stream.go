package stream

import "sync"

// Source is a subscribable stream of values.
type Source[T any] interface {
	// Subscribe registers fn to receive values. A source may deliver values
	// synchronously before Subscribe returns.
	Subscribe(fn func(T)) Subscription
}

// Subscription stops delivery to a single observer.
// Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[T any] func(fn func(T)) Subscription

func (f SourceFunc[T]) Subscribe(fn func(T)) Subscription {
	return f(fn)
}

// SubscriptionFunc adapts a function to the Subscription interface.
// It is not idempotent on its own, use NewSubscription for that.
type SubscriptionFunc func()

func (f SubscriptionFunc) Unsubscribe() {
	if f != nil {
		f()
	}
}

// NewSubscription returns an idempotent Subscription running fn once.
func NewSubscription(fn func()) Subscription {
	var once sync.Once
	return SubscriptionFunc(func() {
		once.Do(func() {
			if fn != nil {
				fn()
			}
		})
	})
}

// Empty is a subscription that does nothing.
var Empty Subscription = SubscriptionFunc(nil)

// Of returns a source that emits v synchronously to every subscriber.
func Of[T any](v T) Source[T] {
	return SourceFunc[T](func(fn func(T)) Subscription {
		fn(v)
		return Empty
	})
}

// Never returns a source that never emits.
func Never[T any]() Source[T] {
	return SourceFunc[T](func(func(T)) Subscription {
		return Empty
	})
}

// Defer calls factory on every subscription and subscribes to the returned source.
// Use it when the source must capture state at subscription time.
func Defer[T any](factory func() Source[T]) Source[T] {
	return SourceFunc[T](func(fn func(T)) Subscription {
		return factory().Subscribe(fn)
	})
}

// Composite groups subscriptions so they can be released together.
type Composite struct {
	mu   sync.Mutex
	subs []Subscription
	done bool
}

// Add registers sub. If the composite is already released, sub is released immediately.
func (c *Composite) Add(sub Subscription) {
	if sub == nil {
		return
	}
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
}

// Unsubscribe releases every registered subscription.
func (c *Composite) Unsubscribe() {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
