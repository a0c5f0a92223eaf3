// pkg/ops/errors.go
package ops

import (
	"fmt"
	"strings"
)

// ConfigurationError reports missing or invalid operator parameters. It is
// raised at graph-construction or fit time, never deferred to transform.
type ConfigurationError struct {
	Op     string
	Column string
	Reason string
}

func (e *ConfigurationError) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration error")
	if e.Op != "" {
		sb.WriteString(fmt.Sprintf(" in %s", e.Op))
	}
	if e.Column != "" {
		sb.WriteString(fmt.Sprintf(" (column %q)", e.Column))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	return sb.String()
}

// FitError reports empty or invalid data encountered while collecting
// statistics.
type FitError struct {
	Op     string
	Column string
	Reason string
}

func (e *FitError) Error() string {
	var sb strings.Builder
	sb.WriteString("fit error")
	if e.Op != "" {
		sb.WriteString(fmt.Sprintf(" in %s", e.Op))
	}
	if e.Column != "" {
		sb.WriteString(fmt.Sprintf(" (column %q)", e.Column))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	return sb.String()
}

// TransformError wraps a per-chunk transform failure with the originating
// operator and column so callers can surface where output corruption was
// prevented.
type TransformError struct {
	Op     string
	Column string
	Err    error
}

func (e *TransformError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("transform error in %s (column %q): %v", e.Op, e.Column, e.Err)
	}
	return fmt.Sprintf("transform error in %s: %v", e.Op, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}
