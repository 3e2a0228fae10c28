// Package providers assembles the registry of built-in providers.
package providers

import (
	"github.com/Azhovan/cascade"
	"github.com/Azhovan/cascade/providerenv"
	"github.com/Azhovan/cascade/providerfile"
	"github.com/Azhovan/cascade/providerpg"
	"github.com/Azhovan/cascade/providervault"
	"github.com/Azhovan/cascade/providerviper"
)

// Registry returns a new registry holding every built-in provider:
// toml, yaml, json, system, vault_kv, viper and postgres.
// Callers may register additional providers on the returned registry.
func Registry() *cascade.Registry {
	return cascade.NewRegistry().
		MustRegister(providerfile.CodeTOML, providerfile.Factory(providerfile.CodeTOML)).
		MustRegister(providerfile.CodeYAML, providerfile.Factory(providerfile.CodeYAML)).
		MustRegister(providerfile.CodeJSON, providerfile.Factory(providerfile.CodeJSON)).
		MustRegister(providerenv.Code, providerenv.Factory).
		MustRegister(providervault.Code, providervault.Factory).
		MustRegister(providerviper.Code, providerviper.Factory).
		MustRegister(providerpg.Code, providerpg.Factory)
}
