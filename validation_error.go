package formx

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/dmitrymomot/formx/pkg/errmsg"
	"github.com/dmitrymomot/formx/pkg/form"
)

// ValidationError maps control paths to their messages.
type ValidationError url.Values

// Error summarizes the first message of every path, sorted by path.
func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	paths := make([]string, 0, len(e))
	for path := range e {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		msgs := e[path]
		switch {
		case len(msgs) == 0:
		case path == "":
			parts = append(parts, msgs[0])
		default:
			parts = append(parts, fmt.Sprintf("%s: %s", path, msgs[0]))
		}
	}
	return fmt.Sprintf("validation error: %s", strings.Join(parts, ", "))
}

// NewValidationError creates an empty ValidationError.
func NewValidationError() ValidationError {
	return make(ValidationError)
}

// Add adds a message for path.
func (e ValidationError) Add(path, message string) {
	url.Values(e).Add(path, message)
}

// Get returns the first message for path.
func (e ValidationError) Get(path string) string {
	return url.Values(e).Get(path)
}

// Has reports whether path has a message.
func (e ValidationError) Has(path string) bool {
	return len(e[path]) > 0
}

// IsEmpty reports whether there are no messages.
func (e ValidationError) IsEmpty() bool {
	return len(e) == 0
}

// Collect resolves the current message of every control in g that has
// errors. Paths join child names with dots ("address.city"); errors set on g
// itself are collected under the empty path. Labels are looked up by path and
// fall back to the registry default label. Messages of asynchronous resolvers
// that have not answered yet are left out.
func (k *Kit) Collect(g *form.Group, labels map[string]string) (ValidationError, error) {
	ve := NewValidationError()
	if err := k.resolveInto(ve, "", g, labels[""]); err != nil {
		return nil, err
	}
	if err := k.collect(ve, "", g, labels); err != nil {
		return nil, err
	}
	return ve, nil
}

func (k *Kit) collect(ve ValidationError, prefix string, g *form.Group, labels map[string]string) error {
	for _, name := range g.Names() {
		c, _ := g.Get(name)
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if err := k.resolveInto(ve, path, c, labels[path]); err != nil {
			return err
		}
		if sub, ok := c.(*form.Group); ok {
			if err := k.collect(ve, path, sub, labels); err != nil {
				return err
			}
		}
	}
	return nil
}

func (k *Kit) resolveInto(ve ValidationError, path string, c form.Control, label string) error {
	if c.Errors().IsEmpty() {
		return nil
	}
	src, err := k.registry.Message(c.Errors(), errmsg.Options{Label: label})
	if err != nil {
		return err
	}
	src.Subscribe(func(msg string) {
		if msg != "" {
			ve.Add(path, msg)
		}
	}).Unsubscribe()
	return nil
}
