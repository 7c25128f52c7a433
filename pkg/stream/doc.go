// Package stream provides small, synchronous, multicast event streams used to
// wire form controls, validators and message pipelines together.
//
// Unlike a channel based broadcaster, a stream delivers every value to every
// active observer in the order it was produced and never drops a value. Values
// are delivered on the goroutine that produced them, which in this module is
// always the event loop goroutine (see pkg/eventloop).
//
// # Core types
//
//   - Source       – anything that can be subscribed to
//   - Subscription – handle that stops delivery to one observer
//   - Subject      – hot multicast source fed with Next
//   - Behavior     – Subject that replays its current value on subscribe
//   - Replay       – Subject that replays the last emitted value, if any
//
// # Operators
//
// Operators are plain functions taking and returning a Source: Map, Filter,
// StartWith, First, TakeUntil, Distinct, SwitchMap, CombineLatest and Share.
//
// # Cancellation
//
// TakeUntil binds a source to a context. Once the context is cancelled, no
// further value is forwarded, even if the upstream keeps emitting; the
// upstream subscription is released asynchronously via context.AfterFunc.
//
// # Usage
//
//	statuses := stream.NewSubject[string]()
//	settled := stream.First(statuses, func(s string) bool { return s != "PENDING" })
//	sub := settled.Subscribe(func(s string) { fmt.Println("settled:", s) })
//	defer sub.Unsubscribe()
//
//	statuses.Next("PENDING")
//	statuses.Next("VALID") // prints "settled: VALID"
package stream
