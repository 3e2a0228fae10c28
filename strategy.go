package cascade

import (
	"context"
	"fmt"
)

// Strategy composes one or more providers behind a single lookup.
type Strategy interface {
	Getter

	// Providers returns the providers in priority order.
	Providers() []Provider
}

// SingleStrategy delegates every lookup to one provider.
type SingleStrategy struct {
	provider Provider
}

// NewSingleStrategy wraps p. It panics if p is nil.
func NewSingleStrategy(p Provider) *SingleStrategy {
	if isNil(p) {
		panic(ErrNilProvider)
	}
	return &SingleStrategy{provider: p}
}

// Get delegates to the wrapped provider.
func (s *SingleStrategy) Get(ctx context.Context, key string, opts ...LookupOption) (Optional[any], error) {
	return s.provider.Get(ctx, key, opts...)
}

// Providers returns a one-element slice.
func (s *SingleStrategy) Providers() []Provider {
	return []Provider{s.provider}
}

// OrderedStrategy tries providers in order and returns the first present value.
// Earlier providers take priority. Only absence continues the search: a present
// empty string, zero or false stops it.
type OrderedStrategy struct {
	providers []Provider
}

// NewOrderedStrategy creates a strategy over providers, highest priority first.
// It panics if no provider is given or any provider is nil.
func NewOrderedStrategy(providers ...Provider) *OrderedStrategy {
	if len(providers) == 0 {
		panic("cascade: ordered strategy needs at least one provider")
	}
	for _, p := range providers {
		if isNil(p) {
			panic(ErrNilProvider)
		}
	}
	ps := make([]Provider, len(providers))
	copy(ps, providers)
	return &OrderedStrategy{providers: ps}
}

// Get returns the first present value.
func (s *OrderedStrategy) Get(ctx context.Context, key string, opts ...LookupOption) (Optional[any], error) {
	v, _, err := s.Resolve(ctx, key, opts...)
	return v, err
}

// Resolve is Get that also reports which provider answered (nil when absent).
// A provider error stops the search and is returned wrapped with the provider code.
func (s *OrderedStrategy) Resolve(ctx context.Context, key string, opts ...LookupOption) (Optional[any], Provider, error) {
	for _, p := range s.providers {
		v, err := p.Get(ctx, key, opts...)
		if err != nil {
			return None[any](), p, fmt.Errorf("strategy lookup %q via %s: %w", key, p.Code(), err)
		}
		if v.Set {
			return v, p, nil
		}
	}
	return None[any](), nil, nil
}

// Providers returns a copy of the provider sequence.
func (s *OrderedStrategy) Providers() []Provider {
	ps := make([]Provider, len(s.providers))
	copy(ps, s.providers)
	return ps
}
