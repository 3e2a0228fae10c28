package cascade

// DefaultSeparator separates path segments when neither the call nor the provider sets one.
const DefaultSeparator = "."

// PathMode is the per-call path addressing override.
type PathMode int

const (
	// PathModeDefault defers to the provider's configured default.
	PathModeDefault PathMode = iota
	// PathModeOn resolves the key as a separator-delimited path.
	PathModeOn
	// PathModeOff resolves the key as a flat top-level key.
	PathModeOff
)

// Resolve returns the effective state: the explicit override if any, else def.
func (m PathMode) Resolve(def bool) bool {
	switch m {
	case PathModeOn:
		return true
	case PathModeOff:
		return false
	default:
		return def
	}
}

func (m PathMode) String() string {
	switch m {
	case PathModeOn:
		return "on"
	case PathModeOff:
		return "off"
	default:
		return "default"
	}
}

// LookupOptions holds per-call lookup parameters.
type LookupOptions struct {
	PathMode  PathMode
	Separator string         // Empty means the provider's default separator
	Extra     map[string]any // Backend-specific extras
}

// LookupOption configures a single Get or Keys call.
type LookupOption func(*LookupOptions)

// WithPathMode forces path (true) or flat key (false) addressing for one call.
func WithPathMode(enabled bool) LookupOption {
	return func(o *LookupOptions) {
		if enabled {
			o.PathMode = PathModeOn
		} else {
			o.PathMode = PathModeOff
		}
	}
}

// WithSeparator overrides the path separator for one call.
func WithSeparator(sep string) LookupOption {
	return func(o *LookupOptions) {
		o.Separator = sep
	}
}

// WithExtra passes a backend-specific argument (e.g. "secret_path" for the vault provider).
func WithExtra(key string, value any) LookupOption {
	return func(o *LookupOptions) {
		if o.Extra == nil {
			o.Extra = make(map[string]any)
		}
		o.Extra[key] = value
	}
}

// ApplyLookupOptions folds opts into a LookupOptions value.
func ApplyLookupOptions(opts ...LookupOption) LookupOptions {
	var o LookupOptions
	for _, apply := range opts {
		if apply != nil {
			apply(&o)
		}
	}
	return o
}

// SeparatorOr returns the call separator, or def when the call did not set one.
func (o LookupOptions) SeparatorOr(def string) string {
	if o.Separator != "" {
		return o.Separator
	}
	if def != "" {
		return def
	}
	return DefaultSeparator
}

// ExtraString returns a string extra, if present.
func (o LookupOptions) ExtraString(key string) (string, bool) {
	v, ok := o.Extra[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
