package providerviper

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azhovan/cascade"
	"github.com/spf13/viper"
)

// Code identifies the viper provider.
const Code = "viper"

// Options configures lookup behavior.
type Options struct {
	// Separator is the default path separator. Default: ".".
	Separator string

	// PathMode is the default addressing state for lookups that do not set one.
	PathMode bool
}

// Provider serves lookups from a viper instance. Every lookup sees the
// instance's current merged settings (defaults, files, env, overrides).
// Keys are case-insensitive, as in viper.
type Provider struct {
	v    *viper.Viper
	opts Options
}

// New wraps v. A nil v uses the global viper instance.
func New(v *viper.Viper, opts Options) *Provider {
	if v == nil {
		v = viper.GetViper()
	}
	if opts.Separator == "" {
		opts.Separator = cascade.DefaultSeparator
	}
	return &Provider{v: v, opts: opts}
}

// FactoryOptions are the registry arguments accepted by Factory.
type FactoryOptions struct {
	ConfigFile   string
	ConfigType   string
	EnvPrefix    string
	AutomaticEnv bool
	Separator    string
	PathMode     bool
}

// Factory is the registry factory for the viper provider. It builds a fresh
// viper instance from Args (e.g. "config_file", "env_prefix", "automatic_env").
func Factory(args cascade.Args) (cascade.Provider, error) {
	var opts FactoryOptions
	if err := cascade.DecodeArgs(args, &opts); err != nil {
		return nil, fmt.Errorf("decode %s provider args: %w", Code, err)
	}

	v := viper.New()
	if opts.ConfigType != "" {
		v.SetConfigType(opts.ConfigType)
	}
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, &cascade.BackendError{Provider: Code, Err: fmt.Errorf("read config file %s: %w", opts.ConfigFile, err)}
		}
	}
	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
	}
	if opts.AutomaticEnv {
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	return New(v, Options{Separator: opts.Separator, PathMode: opts.PathMode}), nil
}

// Code returns "viper".
func (p *Provider) Code() string {
	return Code
}

// Viper returns the wrapped instance.
func (p *Provider) Viper() *viper.Viper {
	return p.v
}

// Get resolves key against v.AllSettings().
func (p *Provider) Get(ctx context.Context, key string, opts ...cascade.LookupOption) (cascade.Optional[any], error) {
	return p.document().Get(ctx, strings.ToLower(key), opts...)
}

// Keys returns the sorted top-level settings keys.
func (p *Provider) Keys(ctx context.Context, opts ...cascade.LookupOption) ([]string, error) {
	return p.document().Keys(ctx, opts...)
}

func (p *Provider) document() *cascade.Document {
	return cascade.NewDocument(p.v.AllSettings(), cascade.DocumentOptions{
		Separator: p.opts.Separator,
		PathMode:  p.opts.PathMode,
	})
}
