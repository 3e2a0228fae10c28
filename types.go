package cascade

import (
	"context"
)

// Getter answers single-key lookups. Providers and strategies are both Getters.
// A key that does not exist yields an unset Optional, never an error.
type Getter interface {
	Get(ctx context.Context, key string, opts ...LookupOption) (Optional[any], error)
}

// Provider is a configuration backend (file document, environment, secret store, ...).
type Provider interface {
	Getter

	// Code identifies the provider kind. Stable and unique among registered providers.
	Code() string

	// Keys returns the known top-level keys, sorted. Path mode is not supported
	// and must fail with ErrPathModeKeys.
	Keys(ctx context.Context, opts ...LookupOption) ([]string, error)
}

// Args carries loosely typed construction or call arguments.
type Args map[string]any

// Optional distinguishes "not set" from "zero value".
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// None returns an unset Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the wrapped value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// OrDefault returns the wrapped value or the provided default.
func (o Optional[T]) OrDefault(defaultVal T) T {
	if o.Set {
		return o.Value
	}
	return defaultVal
}

// Validator performs custom validation after tag-based validation.
// Use for cross-field, semantic, or external validation.
type Validator[T any] interface {
	// Validate checks configuration. Return *ValidationError for field-level errors.
	Validate(ctx context.Context, cfg *T) error
}

// ValidatorFunc is a function adapter for Validator interface.
type ValidatorFunc[T any] func(ctx context.Context, cfg *T) error

func (f ValidatorFunc[T]) Validate(ctx context.Context, cfg *T) error {
	return f(ctx, cfg)
}
