package cascade

import (
	"context"
	"fmt"
)

// Param declares one named parameter for Fill.
type Param struct {
	Name       string
	Default    any
	HasDefault bool
}

// Required declares a parameter that must resolve.
func Required(name string) Param {
	return Param{Name: name}
}

// Default declares a parameter that falls back to def when absent.
func Default(name string, def any) Param {
	return Param{Name: name, Default: def, HasDefault: true}
}

// Fill resolves every declared parameter through g and invokes call with the results.
// An absent parameter without a default fails with a *BindingError before call runs.
// Present falsy values are passed through unchanged.
func Fill[T any](ctx context.Context, g Getter, params []Param, call func(Args) (T, error), opts ...LookupOption) (T, error) {
	var zero T

	args := make(Args, len(params))
	for _, p := range params {
		v, err := g.Get(ctx, p.Name, opts...)
		if err != nil {
			return zero, fmt.Errorf("fill %q: %w", p.Name, err)
		}
		switch {
		case v.Set:
			args[p.Name] = v.Value
		case p.HasDefault:
			args[p.Name] = p.Default
		default:
			return zero, &BindingError{Target: "fill", Name: p.Name, Reason: "required parameter not found"}
		}
	}

	return call(args)
}

// Scan decodes a with weak typing into target, typically a pointer to a struct.
// Names match fields ignoring case and underscores. Use it inside a Fill callback.
func (a Args) Scan(target any) error {
	return decodeValue(map[string]any(a), target)
}
