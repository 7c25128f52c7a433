package eventloop

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/formx/pkg/logger"
)

// Loop is a FIFO task queue executed one task at a time.
type Loop struct {
	queue   []func()
	wake    chan struct{}
	running atomic.Bool
	mu      sync.Mutex
	logger  *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used to report panicking tasks.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

// New creates an idle loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post enqueues task. Safe for concurrent use. Nil tasks are ignored.
func (l *Loop) Post(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Defer schedules task to run after the current turn completes.
//
// It exists for host integrations where work done during synchronous
// initialisation is overwritten by the host later in the same turn;
// integrations without that ordering problem can call the task directly.
func (l *Loop) Defer(task func()) {
	l.Post(task)
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Turn runs the tasks queued before the call and returns how many ran.
// Tasks posted while the turn runs are left for the next turn.
func (l *Loop) Turn() int {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, task := range batch {
		l.exec(task)
	}
	return len(batch)
}

// Drain runs turns until the queue is empty and returns the total number of tasks run.
func (l *Loop) Drain() int {
	total := 0
	for {
		n := l.Turn()
		if n == 0 {
			return total
		}
		total += n
	}
}

// Run executes tasks as they are posted until ctx is cancelled.
// Only one goroutine may run a loop at a time.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	l.logger.DebugContext(ctx, "event loop started", logger.Component("eventloop"))
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			l.logger.DebugContext(ctx, "event loop stopped",
				logger.Component("eventloop"),
				logger.Count("pending", l.Pending()),
			)
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked",
				logger.Component("eventloop"),
				logger.Error(fmt.Errorf("%w: %v", ErrTaskPanicked, r)),
			)
		}
	}()
	task()
}
