// Package providervault serves configuration from a HashiCorp Vault KV version 2 secret.
//
// The secret at Options.SecretPath is read lazily on the first lookup. A secret
// that does not exist behaves as an empty document.
//
// Example:
//
//	p, err := providervault.New(providervault.Options{SecretPath: "myapp/settings"})
//	v, err := p.Get(ctx, "db.password", cascade.WithPathMode(true))
package providervault
