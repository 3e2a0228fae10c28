package providerenv

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Azhovan/cascade"
	"github.com/Azhovan/cascade/internal/normalize"
)

// Code identifies the environment provider.
const Code = "system"

// Options configures environment variable provider behavior.
type Options struct {
	// Prefix is prepended to every looked-up name and stripped from Keys.
	// Empty = all vars.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls name matching (default: false).
	// When false, keys are uppercased and names match case-insensitively
	// (APP_HOST matches app_host, App_Host, etc.).
	// When true, names must match exactly.
	CaseSensitive bool

	// PathMode is the default addressing state for lookups that do not set one.
	PathMode bool

	// Separator is the default path separator. Default: ".".
	Separator string
}

// Provider resolves keys against the process environment at lookup time.
type Provider struct {
	opts Options
}

// New creates an environment variable provider.
func New(opts Options) *Provider {
	if opts.Separator == "" {
		opts.Separator = cascade.DefaultSeparator
	}
	return &Provider{opts: opts}
}

// Factory is the registry factory for the environment provider.
// Args are decoded into Options (e.g. "prefix", "case_sensitive", "path_mode").
func Factory(args cascade.Args) (cascade.Provider, error) {
	var opts Options
	if err := cascade.DecodeArgs(args, &opts); err != nil {
		return nil, fmt.Errorf("decode %s provider args: %w", Code, err)
	}
	return New(opts), nil
}

// Code returns "system".
func (p *Provider) Code() string {
	return Code
}

// Get looks up the variable named by key.
// Flat: db_host → PREFIX_DB_HOST. Path: db.host → PREFIX_DB__HOST.
func (p *Provider) Get(_ context.Context, key string, opts ...cascade.LookupOption) (cascade.Optional[any], error) {
	o := cascade.ApplyLookupOptions(opts...)
	name := p.envName(key, o)
	if name == "" {
		return cascade.None[any](), nil
	}

	if v, ok := os.LookupEnv(name); ok {
		return cascade.Some[any](v), nil
	}
	if p.opts.CaseSensitive {
		return cascade.None[any](), nil
	}

	for _, env := range os.Environ() {
		k, v, ok := strings.Cut(env, "=")
		if ok && strings.EqualFold(k, name) {
			return cascade.Some[any](v), nil
		}
	}
	return cascade.None[any](), nil
}

// Keys returns the sorted, normalized names of matching variables with the prefix stripped.
// Normalization: FOO__BAR → foo.bar, FOO_BAR → foo_bar.
func (p *Provider) Keys(_ context.Context, opts ...cascade.LookupOption) ([]string, error) {
	if cascade.ApplyLookupOptions(opts...).PathMode == cascade.PathModeOn {
		return nil, cascade.ErrPathModeKeys
	}

	seen := make(map[string]struct{})
	for _, env := range os.Environ() {
		key, _, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		if p.opts.Prefix != "" {
			var hasPrefix bool
			if p.opts.CaseSensitive {
				hasPrefix = strings.HasPrefix(key, p.opts.Prefix)
			} else {
				hasPrefix = strings.HasPrefix(strings.ToUpper(key), strings.ToUpper(p.opts.Prefix))
			}

			if !hasPrefix {
				continue
			}
			key = key[len(p.opts.Prefix):]
		}

		if key == "" {
			continue
		}
		seen[normalize.ToLowerDotPath(key)] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (p *Provider) envName(key string, o cascade.LookupOptions) string {
	if key == "" {
		return ""
	}

	var sep string
	if o.PathMode.Resolve(p.opts.PathMode) {
		sep = o.SeparatorOr(p.opts.Separator)
	}

	switch {
	case !p.opts.CaseSensitive:
		key = normalize.ToEnvName(key, sep)
	case sep != "":
		key = strings.ReplaceAll(key, sep, "__")
	}
	return p.opts.Prefix + key
}
