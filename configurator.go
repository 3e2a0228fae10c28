package cascade

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
)

// Configurator is the single lookup entry point for application code.
// It substitutes the caller's default when a value is absent or falsy.
// Use Lookup to see the strict provider result instead.
type Configurator struct {
	strategy Strategy
	logger   *slog.Logger
}

// ConfiguratorOption configures a Configurator.
type ConfiguratorOption func(*Configurator)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) ConfiguratorOption {
	return func(c *Configurator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConfigurator binds src: a Strategy is used as is, a Provider is wrapped in a
// SingleStrategy, and nil (including a nil pointer) leaves the configurator unconfigured.
func NewConfigurator(src Getter, opts ...ConfiguratorOption) *Configurator {
	c := &Configurator{logger: slog.Default()}
	for _, apply := range opts {
		apply(c)
	}
	if isNil(src) {
		return c
	}

	switch s := src.(type) {
	case Strategy:
		c.strategy = s
	case Provider:
		c.strategy = NewSingleStrategy(s)
	default:
		c.strategy = getterStrategy{s}
	}

	return c
}

// Strategy returns the bound strategy, or nil when unconfigured.
func (c *Configurator) Strategy() Strategy {
	return c.strategy
}

// Get returns the resolved value, or def when it is absent or falsy.
// Backend errors are returned, never replaced by def.
func (c *Configurator) Get(ctx context.Context, key string, def any, opts ...LookupOption) (any, error) {
	if c.strategy == nil {
		c.logger.Info("no config provider", slog.String("key", key))
		return def, nil
	}

	v, err := c.strategy.Get(ctx, key, opts...)
	if err != nil {
		return nil, err
	}
	if !v.Set || isFalsy(v.Value) {
		return def, nil
	}
	return v.Value, nil
}

// Lookup returns the strict result: absent and present-but-falsy stay distinguishable.
func (c *Configurator) Lookup(ctx context.Context, key string, opts ...LookupOption) (Optional[any], error) {
	if c.strategy == nil {
		c.logger.Info("no config provider", slog.String("key", key))
		return None[any](), nil
	}
	return c.strategy.Get(ctx, key, opts...)
}

// GetAs is Configurator.Get with the effective value coerced into T.
// Strings are converted to numbers, booleans and durations where they parse.
func GetAs[T any](ctx context.Context, c *Configurator, key string, def T, opts ...LookupOption) (T, error) {
	v, err := c.Get(ctx, key, nil, opts...)
	if err != nil {
		return def, err
	}
	if v == nil {
		return def, nil
	}

	var out T
	if err := decodeValue(v, &out); err != nil {
		return def, fmt.Errorf("convert %q to %T: %w", key, out, err)
	}
	return out, nil
}

// isFalsy reports whether v is nil or the zero/empty value of its type.
func isFalsy(v any) bool {
	if v == nil {
		return true
	}
	return isZeroValue(reflect.ValueOf(v))
}

// getterStrategy adapts a plain Getter that is neither a Strategy nor a Provider.
type getterStrategy struct {
	Getter
}

func (getterStrategy) Providers() []Provider {
	return nil
}

// isNil reports whether v is nil or an interface holding a nil pointer, map, slice or func.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
