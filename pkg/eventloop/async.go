package eventloop

import (
	"context"

	"github.com/dmitrymomot/formx/pkg/stream"
)

// Result carries the outcome of work executed with Go.
type Result[T any] struct {
	Value T
	Err   error
}

// Go starts fn on a new goroutine and returns a source that emits its result
// exactly once, on the loop. Late subscribers receive the stored result.
// If ctx is already cancelled, fn is not called and the result carries ctx.Err().
func Go[T any](l *Loop, ctx context.Context, fn func(context.Context) (T, error)) stream.Source[Result[T]] {
	out := stream.NewReplay[Result[T]]()

	go func() {
		var res Result[T]
		// Early exit prevents running work for an already abandoned request.
		select {
		case <-ctx.Done():
			res.Err = ctx.Err()
		default:
			res.Value, res.Err = fn(ctx)
		}
		l.Post(func() { out.Next(res) })
	}()

	return out
}
