package cascade

import (
	"reflect"
	"strconv"
	"strings"
)

// ResolvePath walks root one separator-delimited segment at a time.
//
// A segment that is a non-negative integer literal indexes a sequence by position.
// Any other segment (and numeric segments on mappings) is a mapping key.
// A segment that cannot be followed yields (nil, false); ResolvePath never panics.
func ResolvePath(root any, path, sep string) (any, bool) {
	if sep == "" {
		sep = DefaultSeparator
	}

	current := root
	for _, segment := range strings.Split(path, sep) {
		next, ok := step(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// step indexes one container level.
func step(container any, segment string) (any, bool) {
	switch c := container.(type) {
	case map[string]any:
		v, ok := c[segment]
		return v, ok
	case []any:
		i, ok := index(segment, len(c))
		if !ok {
			return nil, false
		}
		return c[i], true
	case map[any]any:
		v, ok := c[segment]
		return v, ok
	case nil:
		return nil, false
	}

	// Typed containers (e.g. []map[string]any from a TOML array of tables).
	rv := reflect.ValueOf(container)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		i, ok := index(segment, rv.Len())
		if !ok {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(segment).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	}
	return nil, false
}

// index parses a non-negative decimal literal within [0, length).
func index(segment string, length int) (int, bool) {
	if segment == "" {
		return 0, false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(segment)
	if err != nil || i >= length {
		return 0, false
	}
	return i, true
}
