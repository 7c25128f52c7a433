package errmsg

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/formx/pkg/form"
	"github.com/dmitrymomot/formx/pkg/logger"
	"github.com/dmitrymomot/formx/pkg/stream"
)

// DefaultLabel is used when a message is resolved without a label.
const DefaultLabel = "This field"

// Registry maps error keys to resolvers, at most one resolver per key.
type Registry struct {
	mu           sync.RWMutex
	resolvers    map[string]Resolver
	defaultLabel string
	logger       *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithDefaultLabel sets the label used when Options.Label is empty.
func WithDefaultLabel(label string) RegistryOption {
	return func(r *Registry) {
		if label != "" {
			r.defaultLabel = label
		}
	}
}

// WithRegistryLogger sets the registry logger.
func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		resolvers:    make(map[string]Resolver),
		defaultLabel: DefaultLabel,
		logger:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type registerOptions struct {
	overwrite bool
}

// RegisterOption configures a single registration.
type RegisterOption func(*registerOptions)

// Overwrite replaces an already registered resolver instead of failing.
func Overwrite() RegisterOption {
	return func(o *registerOptions) { o.overwrite = true }
}

// Register installs res for its error key. It fails with ErrResolverExists
// when the key is taken, unless Overwrite is passed.
func (r *Registry) Register(res Resolver, opts ...RegisterOption) error {
	if res == nil || res.ErrorKey() == "" {
		return ErrInvalidResolver
	}
	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}

	key := res.ErrorKey()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.resolvers[key]; exists && !o.overwrite {
		return fmt.Errorf("%w: key %q, pass Overwrite to replace it", ErrResolverExists, key)
	}
	r.resolvers[key] = res

	r.logger.Debug("resolver registered", logger.Component("errmsg"), logger.ErrorKey(key))
	return nil
}

// RegisterMany registers every resolver with the same options. A failing
// resolver does not stop the remaining ones; all failures are joined.
func (r *Registry) RegisterMany(list []Resolver, opts ...RegisterOption) error {
	var errs []error
	for _, res := range list {
		if err := r.Register(res, opts...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MustRegister registers resolvers and panics on the first failure.
func (r *Registry) MustRegister(list ...Resolver) {
	for _, res := range list {
		if err := r.Register(res); err != nil {
			panic(err)
		}
	}
}

// Remove removes the resolver registered for res's key.
func (r *Registry) Remove(res Resolver) {
	if res == nil {
		return
	}
	r.RemoveByKey(res.ErrorKey())
}

// RemoveMany removes the resolvers registered for every key in list.
func (r *Registry) RemoveMany(list []Resolver) {
	for _, res := range list {
		r.Remove(res)
	}
}

// RemoveByKey removes the resolver registered for key, if any.
func (r *Registry) RemoveByKey(key string) {
	r.mu.Lock()
	delete(r.resolvers, key)
	r.mu.Unlock()
}

// RemoveByKeys removes the resolvers registered for keys.
func (r *Registry) RemoveByKeys(keys []string) {
	for _, key := range keys {
		r.RemoveByKey(key)
	}
}

// Resolve returns the resolver registered for key.
func (r *Registry) Resolve(key string) (Resolver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resolvers[key]
	return res, ok
}

// Keys returns the registered error keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.resolvers))
	for key := range r.resolvers {
		keys = append(keys, key)
	}
	r.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// Len returns the number of registered resolvers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.resolvers)
}

// Options carries the per-control context of a message resolution.
type Options struct {
	// Label names the control in messages. Empty means the registry's default label.
	Label string
	// Resolvers take precedence over registered ones. For duplicate keys the last one wins.
	Resolvers []Resolver
}

// Message resolves the first error of errs to a message stream emitting
// exactly one value. Empty errors resolve to "". It fails with a
// *MissingResolverError when no resolver handles the first key and with
// ErrResolverFailed when the resolver panics.
func (r *Registry) Message(errs form.Errors, opts Options) (stream.Source[string], error) {
	first, ok := errs.First()
	if !ok {
		return stream.Of(""), nil
	}

	label := opts.Label
	if label == "" {
		label = r.defaultLabel
	}

	res := localResolver(opts.Resolvers, first.Key)
	if res == nil {
		res, _ = r.Resolve(first.Key)
	}
	if res == nil {
		return nil, &MissingResolverError{Key: first.Key}
	}

	src, err := invoke(res, first.Payload, label)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return stream.Of(""), nil
	}
	return stream.First(src, nil), nil
}

func localResolver(list []Resolver, key string) Resolver {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i] != nil && list[i].ErrorKey() == key {
			return list[i]
		}
	}
	return nil
}

func invoke(res Resolver, payload any, label string) (src stream.Source[string], err error) {
	defer func() {
		if rec := recover(); rec != nil {
			src = nil
			err = fmt.Errorf("%w: key %q: %v", ErrResolverFailed, res.ErrorKey(), rec)
		}
	}()
	return res.Message(payload, label), nil
}
