// Package providerenv serves configuration from environment variables.
//
// Lookup names: db_host → DB_HOST; in path mode db.host → DB__HOST.
// Keys normalization: FOO__BAR → foo.bar, FOO_BAR → foo_bar.
//
// Example:
//
//	p := providerenv.New(providerenv.Options{Prefix: "APP_"})
//	cfg := cascade.NewConfigurator(p)
package providerenv
