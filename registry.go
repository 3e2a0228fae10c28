package cascade

import (
	"fmt"
	"sync"
)

// Factory constructs a provider from loosely typed arguments.
type Factory func(args Args) (Provider, error)

type registration struct {
	code    string
	factory Factory
}

// Registry maps provider codes to factories. Membership is explicit:
// providers are only known once Register is called. Codes are unique;
// registering a code twice fails with ErrDuplicateCode.
type Registry struct {
	mu      sync.RWMutex
	entries []registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a factory under code.
func (r *Registry) Register(code string, factory Factory) error {
	if code == "" {
		return ErrEmptyCode
	}
	if factory == nil {
		return fmt.Errorf("register %q: %w", code, ErrNilProvider)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.code == code {
			return fmt.Errorf("register %q: %w", code, ErrDuplicateCode)
		}
	}
	r.entries = append(r.entries, registration{code: code, factory: factory})
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(code string, factory Factory) *Registry {
	if err := r.Register(code, factory); err != nil {
		panic(err)
	}
	return r
}

// GetByCode returns the factory registered under code.
func (r *Registry) GetByCode(code string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.code == code {
			return e.factory, true
		}
	}
	return nil, false
}

// New constructs the provider registered under code.
// An unknown code or a failing factory yields a *BindingError.
func (r *Registry) New(code string, args Args) (Provider, error) {
	factory, ok := r.GetByCode(code)
	if !ok {
		return nil, &BindingError{Target: "registry", Name: code, Reason: "no provider registered with this code"}
	}

	p, err := factory(args)
	if err != nil {
		return nil, &BindingError{Target: "registry", Name: code, Reason: "provider factory failed", Err: err}
	}
	if isNil(p) {
		return nil, &BindingError{Target: "registry", Name: code, Reason: "provider factory failed", Err: ErrNilProvider}
	}
	return p, nil
}

// Codes returns the registered codes in registration order.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, len(r.entries))
	for i, e := range r.entries {
		codes[i] = e.code
	}
	return codes
}
