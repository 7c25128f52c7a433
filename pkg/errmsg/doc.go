// Package errmsg turns a control's error-key map into a single display message.
//
// # Resolvers
//
// A Resolver is keyed by one error key and turns that key's payload plus a
// human label into a message. Resolvers may answer synchronously
// (ResolverFunc, Template) or later (AsyncResolverFunc); either way only the
// first message of a resolver is used.
//
// # Registry
//
// A Registry maps error keys to resolvers, at most one per key. Registering a
// second resolver for a key fails with ErrResolverExists unless the Overwrite
// option is passed. The registry is shared by every pipeline it is injected
// into, and registrations take effect for all subsequent resolutions.
//
//	reg := errmsg.NewRegistry()
//	reg.MustRegister(errmsg.DefaultResolvers()...)
//
//	msg, err := reg.Message(form.NewErrors(form.KeyRequired, true), errmsg.Options{Label: "Name"})
//	// msg emits "Name is required!"
//
// Only the first error key of a map is resolved: a control shows at most one
// message at a time. Resolvers passed in Options take precedence over the
// registered ones. A key with no resolver anywhere fails with a
// *MissingResolverError.
//
// # Bundles
//
// Message templates can be loaded from YAML bundles keyed by language:
//
//	en:
//	  required: "%{label} is required!"
//	  minlength: "%{label} has to be min %{requiredLength} characters long"
//
// %{label} is replaced with the control label, %{Label} with the title-cased
// label and any other placeholder with the matching payload parameter. The
// package embeds a default English and German bundle.
//
// # Pipeline
//
// A Pipeline recomputes a control's message whenever its errors, its label or
// its local resolvers change, and replays the latest message to subscribers.
// Destroy stops it permanently.
package errmsg
