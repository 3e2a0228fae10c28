package normalize

import (
	"strings"
	"unicode"
)

// ToLowerDotPath normalizes an environment variable name to a lowercase dot-separated path.
// Double underscores (__) are treated as level separators and converted to dots.
// Single underscores within a level are preserved.
// Examples:
//   - "FOO__BAR" → "foo.bar"
//   - "DB_MAX_CONNECTIONS" → "db_max_connections"
//   - "API__RATE_LIMIT" → "api.rate_limit"
func ToLowerDotPath(key string) string {
	normalized := strings.ReplaceAll(key, "__", ".")
	return strings.ToLower(normalized)
}

// ToEnvName is the inverse of ToLowerDotPath for a given separator:
// each separator becomes "__" and the result is uppercased.
// Examples:
//   - ToEnvName("database.host", ".") → "DATABASE__HOST"
//   - ToEnvName("db_host", ".") → "DB_HOST"
//   - ToEnvName("a/b", "/") → "A__B"
func ToEnvName(key, sep string) string {
	if sep != "" {
		key = strings.ReplaceAll(key, sep, "__")
	}
	return strings.ToUpper(key)
}

// DeriveFieldPath derives a lookup key from a struct field name.
// It lowercases the first letter of the field name.
// Examples:
//   - "Host" → "host"
//   - "Key1" → "key1"
//   - "APIKey" → "aPIKey"
func DeriveFieldPath(fieldName string) string {
	if fieldName == "" {
		return ""
	}

	// Convert first rune to lowercase
	runes := []rune(fieldName)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// ApplyPrefix joins a prefix and a key with sep.
// If prefix is empty, returns the key unchanged.
// Examples:
//   - ApplyPrefix("database", "host", ".") → "database.host"
//   - ApplyPrefix("", "host", ".") → "host"
//   - ApplyPrefix("APP", "PORT", "_") → "APP_PORT"
func ApplyPrefix(prefix, key, sep string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return prefix + sep + key
}
