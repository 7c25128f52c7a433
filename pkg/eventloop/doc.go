// Package eventloop provides the single logical event queue all controls,
// bridges, pipelines and submit coordinators run on.
//
// Work is expressed as tasks. Post is safe to call from any goroutine;
// tasks are executed one at a time, in FIFO order, by whoever drives the
// loop: Run for long-lived processes, Turn and Drain for tests and
// synchronous callers.
//
// A turn executes the tasks that were queued when the turn started. Tasks
// queued while a turn is running belong to the next turn, which makes Defer
// a "run after the current synchronous work completes" primitive.
//
// Go runs blocking work (network lookups, database checks) on its own
// goroutine and delivers the result back on the loop as a stream value, so
// async validators never touch controls off the loop goroutine.
//
//	loop := eventloop.New(eventloop.WithLogger(log))
//	go loop.Run(ctx)
//
//	loop.Post(func() { field.SetValue("john") })
package eventloop
