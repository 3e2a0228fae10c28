package cascade

import (
	"strings"
)

// tagConfig holds parsed directives from a struct field's `conf` tag.
type tagConfig struct {
	name       string // Custom lookup key (name:custom_key)
	defValue   string // Default value (default:value)
	hasDefault bool   // Whether a default directive was present
	optional   bool   // Field may stay unresolved (optional or optional:true)
	secret     bool   // Field is secret (secret or secret:true)
	skip       bool   // Field is not part of the schema (tag "-")
}

// parseTag parses a `conf` struct tag into a structured tagConfig.
// Tag format: "directive1:value1,directive2:value2,..."
// Boolean directives can omit `:true` (e.g., "optional" == "optional:true").
// A comma always ends a directive, so default values cannot contain commas.
func parseTag(tag string) tagConfig {
	cfg := tagConfig{}

	if tag == "" {
		return cfg
	}
	if tag == "-" {
		cfg.skip = true
		return cfg
	}

	for _, directive := range strings.Split(tag, ",") {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		// Split by colon to separate directive name from value
		parts := strings.SplitN(directive, ":", 2)
		name := strings.TrimSpace(parts[0])
		var value string
		if len(parts) > 1 {
			value = parts[1] // Don't trim value - empty strings may be intentional
		}

		switch name {
		case "name":
			cfg.name = value
		case "default":
			cfg.defValue = value
			cfg.hasDefault = true
		case "optional":
			cfg.optional = parseBoolDirective(value)
		case "required":
			cfg.optional = !parseBoolDirective(value)
		case "secret":
			cfg.secret = parseBoolDirective(value)
		}
	}

	return cfg
}

// parseBoolDirective treats an empty value or "true" as true and "false" as false.
// Anything else defaults to true.
func parseBoolDirective(value string) bool {
	return value != "false"
}
