package agentspec

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the two validation error kinds.
var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidValue = errors.New("invalid value")
)

// MissingFieldError reports a required key that is absent from the document.
type MissingFieldError struct {
	Path string // Dotted path, e.g. "intelligence.model"
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Path)
}

// Is lets errors.Is(err, ErrMissingField) match.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// InvalidValueError reports a key that is present but violates a type or
// range constraint.
type InvalidValueError struct {
	Path   string // Dotted path; empty for the document root
	Reason string // e.g. "must be a string"
	Line   int    // 1-based source line, 0 when unknown
}

func (e *InvalidValueError) Error() string {
	where := e.Path
	if where == "" {
		where = "spec document"
	}
	if e.Line > 0 {
		return fmt.Sprintf("invalid value for %s: %s (line %d)", where, e.Reason, e.Line)
	}
	return fmt.Sprintf("invalid value for %s: %s", where, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidValue) match.
func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

func missing(path string) error {
	return &MissingFieldError{Path: path}
}

func invalid(path string, line int, format string, args ...any) error {
	return &InvalidValueError{Path: path, Reason: fmt.Sprintf(format, args...), Line: line}
}
