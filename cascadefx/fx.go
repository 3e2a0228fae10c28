// Package cascadefx provides cascade as a go.uber.org/fx module.
package cascadefx

import (
	"context"
	"errors"
	"log/slog"
	"reflect"

	"github.com/Azhovan/cascade"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// ErrNoProviders is returned when Strategy is given no providers.
var ErrNoProviders = errors.New("cascadefx: at least one provider is required")

// Module provides a *cascade.Configurator built from the cascade.Strategy and
// *slog.Logger in the container. Both are optional; without a strategy the
// configurator is unconfigured and returns defaults.
var Module = fx.Module("cascade",
	fx.Provide(NewConfigurator),
)

// Params are the dependencies of NewConfigurator.
type Params struct {
	fx.In

	Strategy cascade.Strategy `optional:"true"`
	Logger   *slog.Logger     `optional:"true"`
}

// NewConfigurator builds the configurator from p.
func NewConfigurator(p Params) *cascade.Configurator {
	var src cascade.Getter
	if p.Strategy != nil {
		src = p.Strategy
	}
	return cascade.NewConfigurator(src, cascade.WithLogger(p.Logger))
}

// Strategy supplies an ordered strategy over providers, highest priority first.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Strategy(providers ...cascade.Provider) fx.Option {
	if len(providers) == 0 {
		return fx.Error(ErrNoProviders)
	}
	for _, p := range providers {
		if p == nil || (reflect.ValueOf(p).Kind() == reflect.Ptr && reflect.ValueOf(p).IsNil()) {
			return fx.Error(cascade.ErrNilProvider)
		}
	}

	return fx.Supply(
		fx.Annotate(cascade.NewOrderedStrategy(providers...), fx.As(new(cascade.Strategy))),
	)
}

// LoaderOption customizes the loader used by Settings.
type LoaderOption[T any] func(*cascade.Loader[T])

// WithLocalMode sets the local mode of the settings load.
func WithLocalMode[T any](local cascade.LocalMode) LoaderOption[T] {
	return func(l *cascade.Loader[T]) {
		l.WithLocalMode(local)
	}
}

// WithRegistry sets the registry used to build a local provider from its code.
func WithRegistry[T any](r *cascade.Registry) LoaderOption[T] {
	return func(l *cascade.Loader[T]) {
		l.WithRegistry(r)
	}
}

// WithValidator adds a custom validator to the settings load.
func WithValidator[T any](v cascade.Validator[T]) LoaderOption[T] {
	return func(l *cascade.Loader[T]) {
		l.WithValidator(v)
	}
}

type settingsParams struct {
	fx.In

	Configurator *cascade.Configurator
	Logger       *slog.Logger `optional:"true"`
}

// Settings provides a *T loaded from the configurator's strategy when the
// container is built. It requires Module. A failed load fails the application start.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Settings[T any](opts ...LoaderOption[T]) fx.Option {
	return fx.Provide(func(p settingsParams) (*T, error) {
		var src cascade.Getter
		if s := p.Configurator.Strategy(); s != nil {
			src = s
		}

		loader := cascade.NewLoader[T](src).WithLogger(p.Logger)
		for _, apply := range opts {
			apply(loader)
		}
		return loader.Load(context.Background())
	})
}

// EventLogger routes fx lifecycle events to logger. Use with fx.WithLogger.
func EventLogger(logger *slog.Logger) fxevent.Logger {
	return &fxevent.SlogLogger{Logger: logger}
}
