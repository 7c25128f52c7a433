// Command formx-demo walks a nested signup form through the bridge, the
// message pipeline and the submit coordinator. Configure it with FORMX_*
// environment variables or a .env file.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dmitrymomot/formx"
	"github.com/dmitrymomot/formx/pkg/bridge"
	"github.com/dmitrymomot/formx/pkg/errmsg"
	"github.com/dmitrymomot/formx/pkg/form"
	"github.com/dmitrymomot/formx/pkg/logger"
	"github.com/dmitrymomot/formx/pkg/submit"
)

const keyTaken = "taken"

// addressInput is a reusable input backed by its own street/city group.
type addressInput struct {
	*bridge.Bridge
	street *form.Field
	city   *form.Field
	group  *form.Group
}

func (a *addressInput) Control() form.Control { return a.group }

type signup struct {
	kit      *formx.Kit
	form     *form.Form
	name     *form.Field
	email    *form.Field
	address  *addressInput
	root     *submit.Coordinator
	nested   *submit.Coordinator
	messages *errmsg.Pipeline
	attempts int
	done     context.CancelFunc
}

func main() {
	kit, err := formx.NewFromEnv(
		formx.WithStartHook(func(l *slog.Logger) { l.Info("demo started") }),
		formx.WithStopHook(func(l *slog.Logger) { l.Info("demo stopped") }),
	)
	if err != nil {
		slog.Error("failed to create kit", logger.Error(err))
		os.Exit(1)
	}
	err = kit.Registry().RegisterMany([]errmsg.Resolver{
		errmsg.Template(keyTaken, "%{label} %{value} is already registered"),
		errmsg.Template(form.KeyInvalid, "%{label} is incomplete"),
	})
	if err != nil {
		kit.Logger().Error("failed to register resolver", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := &signup{kit: kit, done: cancel}
	kit.Loop().Post(func() {
		if err := s.build(); err != nil {
			kit.Logger().Error("failed to build form", logger.Error(err))
			cancel()
			return
		}
		// Validators of the address bridge are attached one turn after Attach.
		kit.Loop().Post(s.root.Submit)
	})

	if err := kit.Run(ctx); err != nil {
		kit.Logger().Error("event loop failed", logger.Error(err))
		os.Exit(1)
	}
	s.close()
}

func (s *signup) build() error {
	s.name = form.NewField("", form.WithValidators(form.Required(), form.MinLength(2)))
	s.email = form.NewField("", form.WithValidators(form.Required(), form.Email()))
	form.AddAsyncValidators(s.email, s.kit.AsyncCheck(keyTaken, emailTaken))

	street := form.NewField("", form.WithValidators(form.Required()))
	city := form.NewField("", form.WithValidators(form.Required()))
	s.address = &addressInput{
		street: street,
		city:   city,
		group:  form.NewGroup([]form.Named{form.Child("street", street), form.Child("city", city)}),
	}
	outerAddress := form.NewField(nil)
	binding := bridge.NewBinding(outerAddress)
	s.address.Bridge = s.kit.NewBridge(binding, s.address)
	if err := binding.Setup(); err != nil {
		return err
	}
	s.address.Attach()

	s.form = form.NewForm(form.NewGroup([]form.Named{
		form.Child("name", s.name),
		form.Child("email", s.email),
		form.Child("address", outerAddress),
	}))

	var err error
	if s.root, err = s.kit.NewCoordinator(s.form); err != nil {
		return err
	}
	if s.nested, err = s.kit.NewCoordinator(nil, submit.WithParent(s.root)); err != nil {
		return err
	}
	s.root.SetLeaves(s.kit.NewLeaf(s.name), s.kit.NewLeaf(s.email), s.kit.NewLeaf(outerAddress))
	s.nested.SetLeaves(s.kit.NewLeaf(street), s.kit.NewLeaf(city))
	s.root.OnSubmit(s.submitted)

	s.messages = s.kit.NewPipeline(errmsg.WithLabel("Email"))
	s.messages.Messages().Subscribe(func(msg string) {
		if msg != "" {
			s.kit.Logger().Info("email message", slog.String("message", msg))
		}
	})
	return s.messages.SetControl(s.email)
}

func (s *signup) submitted(valid bool) {
	s.attempts++
	log := s.kit.Logger().With(slog.Int("attempt", s.attempts))
	log.Info("form submitted", logger.Valid(valid), logger.Count("leaves", len(s.root.Members())))

	if valid {
		log.Info("signup accepted", slog.Any("value", s.form.Group().Value()))
		s.done()
		return
	}

	ve, err := s.kit.Collect(s.form.Group(), map[string]string{"name": "Name", "email": "Email", "address": "Address"})
	if err != nil {
		log.Error("failed to collect messages", logger.Error(err))
	} else if !ve.IsEmpty() {
		log.Warn("form is invalid", slog.String("errors", ve.Error()))
	}

	attempt := s.attempts
	s.kit.Loop().Post(func() { s.retry(attempt) })
}

// retry fixes part of the form and submits again.
func (s *signup) retry(attempt int) {
	switch attempt {
	case 1:
		s.name.SetValue("Jane")
		s.email.SetValue("admin@example.com")
		s.address.street.SetValue("Main St 1")
	case 2:
		s.email.SetValue("jane@example.com")
		s.address.city.SetValue("Berlin")
	default:
		s.done()
		return
	}
	s.root.Submit()
}

func (s *signup) close() {
	if s.messages != nil {
		s.messages.Destroy()
	}
	if s.nested != nil {
		s.nested.Destroy()
	}
	if s.root != nil {
		s.root.Destroy()
	}
}

// emailTaken simulates a remote uniqueness lookup.
func emailTaken(ctx context.Context, value any) (form.Errors, error) {
	email, _ := value.(string)
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if strings.HasPrefix(email, "admin@") {
		return form.NewErrors(keyTaken, map[string]any{"value": email}), nil
	}
	return nil, nil
}
