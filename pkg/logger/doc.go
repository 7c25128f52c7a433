// Package logger provides a small factory around log/slog with functional
// options and attribute helpers shared by the formx packages.
//
// New builds a *slog.Logger writing text or JSON. Options select the format,
// level, output, static attributes and context values injected into every
// record. WithEnvironment applies the development/staging/production presets.
//
// Attribute helpers (Component, ControlID, LeafID, ErrorKey, Status, Count,
// Valid, Error) keep attribute naming consistent across packages. Error
// returns an empty attribute for a nil error, so it can be passed without a
// nil check.
//
//	log := logger.New(logger.WithEnvironment("development", "checkout"))
//	log.Debug("validators attached", logger.Component("bridge"), logger.ControlID(id))
//
// Components accept a logger through their own WithLogger options and fall
// back to Discard when none is given.
package logger
