// Package cascade provides one backend-agnostic way to read configuration values.
//
// Backends are Providers (TOML/YAML/JSON documents, environment, Vault KV, viper,
// a PostgreSQL settings table). Providers are composed by a Strategy and read
// through a Configurator, or materialized into settings structs by a Loader.
//
// Quick Start:
//
//	file, err := providerfile.NewTOML(providerfile.Options{Path: "config.toml"})
//	env := providerenv.New(providerenv.Options{Prefix: "APP_"})
//
//	conf := cascade.NewConfigurator(cascade.NewOrderedStrategy(env, file))
//	host, err := conf.Get(ctx, "host", "localhost")
//	port, err := conf.Get(ctx, "server.port", 8080, cascade.WithPathMode(true))
//
//	type Settings struct {
//	    Host     string
//	    Database struct {
//	        URL  string `conf:"name:url,secret" validate:"url"`
//	        Pool int    `conf:"default:10"`
//	    }
//	}
//	cfg, err := cascade.NewLoader[Settings](conf.Strategy()).Load(ctx)
//
// Absence vs falsy: providers and strategies report absence with an unset
// Optional, so "" and 0 are real values there. Configurator.Get replaces both
// absent and falsy values with the caller's default.
//
// Tag directives (conf): name:key, default:val, optional, required:false, secret, "-".
// Constraint tags (validate) follow go-playground/validator.
package cascade
