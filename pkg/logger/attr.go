package logger

import (
	"log/slog"

	"github.com/google/uuid"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// ControlID records a form control identifier under the key "control_id".
func ControlID(id uuid.UUID) slog.Attr {
	return slog.String("control_id", id.String())
}

// LeafID records a submit leaf identifier under the key "leaf_id".
func LeafID(id uuid.UUID) slog.Attr {
	return slog.String("leaf_id", id.String())
}

// CoordinatorID records a submit coordinator identifier under the key "coordinator_id".
func CoordinatorID(id uuid.UUID) slog.Attr {
	return slog.String("coordinator_id", id.String())
}

// ErrorKey records a validation error key under the key "error_key".
func ErrorKey(key string) slog.Attr {
	return slog.String("error_key", key)
}

// Status records a control status under the key "status".
func Status(status string) slog.Attr {
	return slog.String("status", status)
}

// Count records an integer counter under the given key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Valid records a submit outcome under the key "valid".
func Valid(v bool) slog.Attr {
	return slog.Bool("valid", v)
}
