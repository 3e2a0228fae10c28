package cascade

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for validation failures.
const (
	ErrCodeRequired    = "required"
	ErrCodeInvalidType = "invalid_type"
)

// Sentinel errors.
var (
	// ErrPathModeKeys is returned by Keys when path mode is requested.
	ErrPathModeKeys = errors.New("cascade: path mode is not supported for keys")

	// ErrDuplicateCode is returned when registering a provider code twice.
	ErrDuplicateCode = errors.New("cascade: provider code already registered")

	// ErrEmptyCode is returned when registering a provider without a code.
	ErrEmptyCode = errors.New("cascade: provider code is empty")

	// ErrNilProvider is returned when a strategy or registry receives a nil provider.
	ErrNilProvider = errors.New("cascade: provider is nil")
)

// ValidationError aggregates field-level validation failures.
type ValidationError struct {
	FieldErrors []FieldError
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "config validation failed: no errors"
	}

	var b strings.Builder
	if len(e.FieldErrors) == 1 {
		b.WriteString("config validation failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "config validation failed: %d errors\n", len(e.FieldErrors))
	}

	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", fe.FieldPath, fe.Code, fe.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// Field returns the first error recorded for fieldPath.
func (e *ValidationError) Field(fieldPath string) (FieldError, bool) {
	for _, fe := range e.FieldErrors {
		if fe.FieldPath == fieldPath {
			return fe, true
		}
	}
	return FieldError{}, false
}

// FieldError represents a single field validation failure.
type FieldError struct {
	FieldPath string // Dot notation (e.g., "Database.Host")
	Code      string // Error code (e.g., "required", "min")
	Message   string // Human-readable description
}

// BackendError reports a failure of the backend behind a provider
// (unreachable store, malformed document). It is never downgraded to absence
// by strategies or the configurator.
type BackendError struct {
	Provider string // Provider code
	Key      string // Key being resolved, empty for load-time failures
	Err      error
}

func (e *BackendError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s provider: key %q: %v", e.Provider, e.Key, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// BindingError reports a parameter or provider code that could not be satisfied.
type BindingError struct {
	Target string // What was being bound (callable name, "registry", ...)
	Name   string // Parameter name or provider code
	Reason string
	Err    error // Underlying cause, if any
}

func (e *BindingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bind %s: %s: %s: %v", e.Target, e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("bind %s: %s: %s", e.Target, e.Name, e.Reason)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}
