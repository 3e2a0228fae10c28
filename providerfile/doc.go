// Package providerfile serves configuration from YAML, JSON, or TOML documents.
//
// Format is auto-detected from extension (.yaml, .json, .toml) unless set.
// A document can also be given inline with Options.Data.
//
// Example:
//
//	p, err := providerfile.NewTOML(providerfile.Options{Path: "config.toml", Required: true})
//	v, err := p.Get(ctx, "servers.0.host", cascade.WithPathMode(true))
package providerfile
