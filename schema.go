package cascade

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/Azhovan/cascade/internal/normalize"
)

// Field is one declared settings field.
type Field struct {
	Name       string  // Go field name
	Key        string  // Lookup key
	Index      int     // Struct field index
	Nested     *Schema // Non-nil when the field is itself a schema
	Optional   bool    // May stay unresolved
	Default    string  // Default value, applied when HasDefault and unresolved
	HasDefault bool
	Secret     bool

	wrapped bool // Field type is Optional[X]; the value goes to .Value
}

// Schema is the ordered field table of a settings struct.
type Schema struct {
	Name   string
	Fields []Field

	typ reflect.Type
}

var schemaCache sync.Map // reflect.Type -> *Schema

// SchemaOf compiles the field table of T, which must be a struct type.
//
// Exported fields are declared in source order. A field's key is its `conf`
// name directive, else the field name with a lowercased first letter.
// Struct-typed fields (other than time.Time) are nested schemas.
// Tag "-" excludes a field.
func SchemaOf[T any]() (*Schema, error) {
	return schemaFor(reflect.TypeOf((*T)(nil)).Elem())
}

func schemaFor(t reflect.Type) (*Schema, error) {
	if cached, ok := schemaCache.Load(t); ok {
		return cached.(*Schema), nil
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("settings type %s is not a struct", t)
	}

	s := &Schema{Name: t.Name(), typ: t}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		tags := parseTag(sf.Tag.Get("conf"))
		if tags.skip {
			continue
		}

		f := Field{
			Name:       sf.Name,
			Key:        tags.name,
			Index:      i,
			Optional:   tags.optional,
			Default:    tags.defValue,
			HasDefault: tags.hasDefault,
			Secret:     tags.secret,
		}
		if f.Key == "" {
			f.Key = normalize.DeriveFieldPath(sf.Name)
		}

		ft := sf.Type
		if isOptionalType(ft) {
			f.wrapped = true
			f.Optional = true
			ft = ft.Field(0).Type
		}

		if isNestedType(ft) {
			if f.HasDefault {
				return nil, fmt.Errorf("field %s.%s: default is not supported on nested settings", t.Name(), sf.Name)
			}
			nested, err := schemaFor(ft)
			if err != nil {
				return nil, fmt.Errorf("field %s.%s: %w", t.Name(), sf.Name, err)
			}
			f.Nested = nested
		}

		s.Fields = append(s.Fields, f)
	}

	actual, _ := schemaCache.LoadOrStore(t, s)
	return actual.(*Schema), nil
}

// isNestedType reports whether t is bound as a nested schema rather than a single value.
func isNestedType(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	// time.Time is a struct but is treated as a primitive
	if t.PkgPath() == "time" {
		return false
	}
	return !isOptionalType(t)
}

// isOptionalType reports whether t is an instantiation of Optional.
func isOptionalType(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t.NumField() != 2 {
		return false
	}
	if t.PkgPath() != optionalPkgPath || !strings.HasPrefix(t.Name(), "Optional[") {
		return false
	}
	return t.Field(0).Name == "Value" && t.Field(1).Name == "Set" && t.Field(1).Type.Kind() == reflect.Bool
}

var optionalPkgPath = reflect.TypeOf(Optional[int]{}).PkgPath()
