// Package formx wires the form validation building blocks together: nested
// inputs that project their validity onto a host form, reactive error
// messages resolved from a shared registry, and submit handling that waits
// for pending async validators before reporting a result.
//
// # Kit
//
// A Kit bundles the pieces every integration needs once per process: the
// event loop all reactive work runs on, the message resolver registry and a
// logger. It is built from environment configuration:
//
//	kit, err := formx.NewFromEnv()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// or explicitly with options:
//
//	kit, err := formx.New(
//		formx.WithLanguage(language.German),
//		formx.WithLogger(logger.New(logger.WithLevel(slog.LevelDebug))),
//	)
//
// and hands out components already wired to its loop, registry and logger:
//
//	pipeline := kit.NewPipeline(errmsg.WithLabel("Name"))
//	pipeline.SetControl(nameField)
//
//	root, _ := kit.NewCoordinator(f)
//	root.SetLeaves(kit.NewLeaf(nameField), kit.NewLeaf(emailField))
//
// Run drives the event loop until the context is cancelled or the process
// receives SIGINT or SIGTERM. Tests drive it step by step through Loop().Turn
// and Loop().Drain instead.
//
// Collect gathers the current message of every control with errors in a group
// into a ValidationError keyed by dotted path, e.g. for an API response.
//
// # Configuration
//
// Config is read from FORMX_* environment variables (see Config). A YAML
// messages file overrides the default message templates for the configured
// language:
//
//	en:
//	  required: "Please fill in %{label}"
//
// # Packages
//
//   - pkg/form      controls, statuses, ordered error maps, validators
//   - pkg/bridge    nested inputs as host value accessors
//   - pkg/errmsg    resolvers, registry, message bundles and pipelines
//   - pkg/submit    leaf and coordinator tree for submit handling
//   - pkg/stream    synchronous in-order streams the packages are built on
//   - pkg/eventloop the single event queue
package formx
