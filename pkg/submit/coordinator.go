package submit

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formx/pkg/logger"
	"github.com/dmitrymomot/formx/pkg/stream"
)

// Trigger delivers submit requests to a root coordinator.
// *form.Form implements it.
type Trigger interface {
	// SubmitRequests emits once per user-level submit.
	SubmitRequests() stream.Source[struct{}]
	// RequestSubmit synthesizes a submit request.
	RequestSubmit()
}

// Coordinator collects leaves and, at the root of a coordinator tree,
// aggregates their validity on every submit request.
type Coordinator struct {
	id      uuid.UUID
	trigger Trigger
	parent  *Coordinator
	logger  *slog.Logger

	mu  sync.Mutex
	own []*Leaf

	// root only
	contributors []*Coordinator
	members      map[*Coordinator][]*Leaf
	results      *stream.Subject[bool]
	sub          stream.Subscription

	destroyed bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithParent nests the coordinator under parent. A nested coordinator
// forwards its leaves to the root and never listens to its own trigger.
func WithParent(parent *Coordinator) Option {
	return func(c *Coordinator) { c.parent = parent }
}

// WithLogger sets the coordinator logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCoordinator creates a coordinator. A root coordinator subscribes to
// trigger right away; a nested one ignores it and may pass nil.
func NewCoordinator(trigger Trigger, opts ...Option) (*Coordinator, error) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		id:      uuid.New(),
		trigger: trigger,
		logger:  logger.Discard(),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.parent != nil {
		return c, nil
	}
	if trigger == nil {
		cancel()
		return nil, ErrNoTrigger
	}

	c.members = make(map[*Coordinator][]*Leaf)
	c.results = stream.NewSubject[bool]()
	aggregated := stream.SwitchMap(trigger.SubmitRequests(), func(struct{}) stream.Source[bool] {
		return c.aggregate()
	})
	c.sub = stream.TakeUntil(c.ctx, aggregated).Subscribe(c.results.Next)
	return c, nil
}

// ID returns the coordinator identifier.
func (c *Coordinator) ID() uuid.UUID { return c.id }

// Parent returns the parent coordinator, or nil for a root.
func (c *Coordinator) Parent() *Coordinator { return c.parent }

// Root returns the root of the coordinator's tree.
func (c *Coordinator) Root() *Coordinator {
	root := c
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// IsRoot reports whether the coordinator aggregates on its own.
func (c *Coordinator) IsRoot() bool { return c.parent == nil }

// SetLeaves replaces the leaves owned by this coordinator.
func (c *Coordinator) SetLeaves(leaves ...*Leaf) {
	c.mu.Lock()
	c.own = slices.Clone(leaves)
	own := slices.Clone(c.own)
	c.mu.Unlock()
	c.Root().contribute(c, own)
}

// AddLeaf adds l to the leaves owned by this coordinator.
func (c *Coordinator) AddLeaf(l *Leaf) {
	c.mu.Lock()
	if !slices.Contains(c.own, l) {
		c.own = append(c.own, l)
	}
	own := slices.Clone(c.own)
	c.mu.Unlock()
	c.Root().contribute(c, own)
}

// RemoveLeaf removes l from the leaves owned by this coordinator.
func (c *Coordinator) RemoveLeaf(l *Leaf) {
	c.mu.Lock()
	c.own = slices.DeleteFunc(c.own, func(x *Leaf) bool { return x == l })
	own := slices.Clone(c.own)
	c.mu.Unlock()
	c.Root().contribute(c, own)
}

// Leaves returns the leaves owned directly by this coordinator.
func (c *Coordinator) Leaves() []*Leaf {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.own)
}

// Members returns the live leaves the root aggregates over: every leaf
// contributed by the tree, without duplicates and destroyed leaves.
func (c *Coordinator) Members() []*Leaf {
	return c.Root().snapshot()
}

// Submit synthesizes a submit request on the root trigger.
func (c *Coordinator) Submit() {
	c.Root().trigger.RequestSubmit()
}

// Submitted emits the aggregated validity once per submit request.
// Nested coordinators expose the root's stream.
func (c *Coordinator) Submitted() stream.Source[bool] {
	root := c.Root()
	return stream.TakeUntil(root.ctx, stream.Source[bool](root.results))
}

// OnSubmit subscribes fn to Submitted.
func (c *Coordinator) OnSubmit(fn func(valid bool)) stream.Subscription {
	return c.Submitted().Subscribe(fn)
}

// Destroy stops the coordinator. A nested coordinator withdraws its leaves
// from the root; a root stops listening to its trigger.
func (c *Coordinator) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.own = nil
	c.mu.Unlock()

	if c.parent != nil {
		c.Root().contribute(c, nil)
	}
	c.cancel()
	if c.sub != nil {
		c.sub.Unsubscribe()
	}
}

// contribute replaces the leaves contributed by from. Only called on a root.
func (c *Coordinator) contribute(from *Coordinator, leaves []*Leaf) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	if len(leaves) == 0 {
		delete(c.members, from)
		c.contributors = slices.DeleteFunc(c.contributors, func(x *Coordinator) bool { return x == from })
		return
	}
	if _, ok := c.members[from]; !ok {
		c.contributors = append(c.contributors, from)
	}
	c.members[from] = leaves
}

func (c *Coordinator) snapshot() []*Leaf {
	c.mu.Lock()
	defer c.mu.Unlock()
	var leaves []*Leaf
	for _, from := range c.contributors {
		for _, l := range c.members[from] {
			if l.Destroyed() || slices.Contains(leaves, l) {
				continue
			}
			leaves = append(leaves, l)
		}
	}
	return leaves
}

func (c *Coordinator) aggregate() stream.Source[bool] {
	leaves := c.snapshot()
	c.logger.Debug("submit requested",
		logger.Component("submit"),
		logger.CoordinatorID(c.id),
		logger.Count("leaves", len(leaves)),
	)

	valids := make([]stream.Source[bool], len(leaves))
	for i, l := range leaves {
		valids[i] = stream.Map(l.Valid(), func(valid bool) bool {
			c.logger.Debug("leaf settled", logger.Component("submit"), logger.LeafID(l.ID()), logger.Valid(valid))
			return valid
		})
	}
	return stream.Map(stream.CombineLatest(valids...), func(results []bool) bool {
		valid := !slices.Contains(results, false)
		c.logger.Debug("submit settled",
			logger.Component("submit"),
			logger.CoordinatorID(c.id),
			logger.Valid(valid),
		)
		return valid
	})
}
