package engine

import (
	"errors"
	"fmt"
)

// ConfigurationError means the run cannot start at all: after filtering,
// no usable vehicle remains. It aborts before any assignment is attempted.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "engine configuration: " + e.Reason
}

// ValidationError marks a single malformed passenger or vehicle record.
// Outside strict mode the record is skipped and the run continues.
type ValidationError struct {
	Kind   string // "passenger" or "vehicle"
	ID     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.ID, e.Reason)
}

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
