package stream

import (
	"context"
	"sync"
)

// Map transforms every value of src with f.
func Map[T, U any](src Source[T], f func(T) U) Source[U] {
	return SourceFunc[U](func(fn func(U)) Subscription {
		return src.Subscribe(func(v T) { fn(f(v)) })
	})
}

// Filter forwards only the values for which pred returns true.
func Filter[T any](src Source[T], pred func(T) bool) Source[T] {
	return SourceFunc[T](func(fn func(T)) Subscription {
		return src.Subscribe(func(v T) {
			if pred(v) {
				fn(v)
			}
		})
	})
}

// StartWith emits v to each new subscriber before subscribing to src.
func StartWith[T any](src Source[T], v T) Source[T] {
	return SourceFunc[T](func(fn func(T)) Subscription {
		fn(v)
		return src.Subscribe(fn)
	})
}

// Merge forwards the values of every source in arrival order. Sources are
// subscribed in the given order.
func Merge[T any](srcs ...Source[T]) Source[T] {
	return SourceFunc[T](func(fn func(T)) Subscription {
		subs := &Composite{}
		for _, src := range srcs {
			subs.Add(src.Subscribe(fn))
		}
		return subs
	})
}

// First forwards the first value matching pred and then releases src.
// A nil pred matches any value. Later values are ignored for that subscription.
func First[T any](src Source[T], pred func(T) bool) Source[T] {
	return SourceFunc[T](func(fn func(T)) Subscription {
		var (
			mu   sync.Mutex
			done bool
			sub  Subscription
		)
		s := src.Subscribe(func(v T) {
			if pred != nil && !pred(v) {
				return
			}
			mu.Lock()
			if done {
				mu.Unlock()
				return
			}
			done = true
			upstream := sub
			mu.Unlock()

			fn(v)
			if upstream != nil {
				upstream.Unsubscribe()
			}
		})

		mu.Lock()
		sub = s
		emitted := done
		mu.Unlock()
		// The value arrived synchronously during Subscribe, before sub was assigned.
		if emitted {
			s.Unsubscribe()
		}
		return s
	})
}

// TakeUntil forwards values of src until ctx is cancelled.
// Forwarding stops synchronously with cancellation; the upstream
// subscription itself is released in the background.
func TakeUntil[T any](ctx context.Context, src Source[T]) Source[T] {
	return SourceFunc[T](func(fn func(T)) Subscription {
		if ctx.Err() != nil {
			return Empty
		}
		sub := src.Subscribe(func(v T) {
			if ctx.Err() == nil {
				fn(v)
			}
		})
		stop := context.AfterFunc(ctx, sub.Unsubscribe)
		return NewSubscription(func() {
			stop()
			sub.Unsubscribe()
		})
	})
}

// Distinct drops values equal to the previously forwarded one.
func Distinct[T any](src Source[T], equal func(a, b T) bool) Source[T] {
	return SourceFunc[T](func(fn func(T)) Subscription {
		var (
			last T
			has  bool
		)
		return src.Subscribe(func(v T) {
			if has && equal(last, v) {
				return
			}
			last, has = v, true
			fn(v)
		})
	})
}

// SwitchMap maps every value of src to an inner source and forwards values
// of the most recent inner source only. The previous inner source is released
// before the next one is subscribed.
func SwitchMap[T, U any](src Source[T], f func(T) Source[U]) Source[U] {
	return SourceFunc[U](func(fn func(U)) Subscription {
		var (
			mu     sync.Mutex
			inner  Subscription
			gen    uint64
			closed bool
		)
		outer := src.Subscribe(func(v T) {
			mu.Lock()
			if closed {
				mu.Unlock()
				return
			}
			gen++
			current := gen
			prev := inner
			inner = nil
			mu.Unlock()

			if prev != nil {
				prev.Unsubscribe()
			}

			next := f(v).Subscribe(func(u U) {
				mu.Lock()
				stale := closed || current != gen
				mu.Unlock()
				if !stale {
					fn(u)
				}
			})

			mu.Lock()
			if closed || current != gen {
				mu.Unlock()
				next.Unsubscribe()
				return
			}
			inner = next
			mu.Unlock()
		})

		return NewSubscription(func() {
			mu.Lock()
			closed = true
			cur := inner
			inner = nil
			mu.Unlock()

			if cur != nil {
				cur.Unsubscribe()
			}
			outer.Unsubscribe()
		})
	})
}

// CombineLatest emits a snapshot of the latest value of every source once
// each of them has emitted at least once, and again on every later emission.
// With no sources it emits an empty slice immediately.
func CombineLatest[T any](srcs ...Source[T]) Source[[]T] {
	return SourceFunc[[]T](func(fn func([]T)) Subscription {
		if len(srcs) == 0 {
			fn([]T{})
			return Empty
		}

		var (
			mu      sync.Mutex
			values  = make([]T, len(srcs))
			seen    = make([]bool, len(srcs))
			pending = len(srcs)
		)
		subs := &Composite{}
		for i, src := range srcs {
			subs.Add(src.Subscribe(func(v T) {
				mu.Lock()
				values[i] = v
				if !seen[i] {
					seen[i] = true
					pending--
				}
				if pending > 0 {
					mu.Unlock()
					return
				}
				snapshot := make([]T, len(values))
				copy(snapshot, values)
				mu.Unlock()

				fn(snapshot)
			}))
		}
		return subs
	})
}

// Share multicasts src: the first subscriber connects to src, later ones
// attach to the same upstream subscription, and the upstream is released
// when the last subscriber leaves. Values emitted before a subscriber joins
// are not replayed.
func Share[T any](src Source[T]) Source[T] {
	return &shared[T]{src: src, subject: NewSubject[T]()}
}

type shared[T any] struct {
	src     Source[T]
	subject *Subject[T]
	conn    Subscription
	refs    int
	mu      sync.Mutex
}

func (s *shared[T]) Subscribe(fn func(T)) Subscription {
	sub := s.subject.Subscribe(fn)

	s.mu.Lock()
	s.refs++
	connect := s.refs == 1
	s.mu.Unlock()

	if connect {
		conn := s.src.Subscribe(s.subject.Next)
		s.mu.Lock()
		if s.refs == 0 {
			s.mu.Unlock()
			conn.Unsubscribe()
		} else {
			s.conn = conn
			s.mu.Unlock()
		}
	}

	return NewSubscription(func() {
		sub.Unsubscribe()

		s.mu.Lock()
		s.refs--
		var conn Subscription
		if s.refs == 0 {
			conn = s.conn
			s.conn = nil
		}
		s.mu.Unlock()

		if conn != nil {
			conn.Unsubscribe()
		}
	})
}
