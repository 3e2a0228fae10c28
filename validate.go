package cascade

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var validators sync.Map // reflect.Type -> *validator.Validate

// validatorFor returns the validator for settings type t. Every Optional
// instantiation reachable from t is registered so tags apply to its Value.
func validatorFor(t reflect.Type) *validator.Validate {
	if cached, ok := validators.Load(t); ok {
		return cached.(*validator.Validate)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	var optionals []any
	for _, ot := range optionalTypes(t, map[reflect.Type]bool{}) {
		optionals = append(optionals, reflect.Zero(ot).Interface())
	}
	if len(optionals) > 0 {
		v.RegisterCustomTypeFunc(optionalValue, optionals...)
	}

	actual, _ := validators.LoadOrStore(t, v)
	return actual.(*validator.Validate)
}

// optionalValue exposes the wrapped value of an Optional to the validator.
func optionalValue(field reflect.Value) any {
	return field.Field(0).Interface()
}

func optionalTypes(t reflect.Type, seen map[reflect.Type]bool) []reflect.Type {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || seen[t] {
		return nil
	}
	seen[t] = true

	if isOptionalType(t) {
		return append([]reflect.Type{t}, optionalTypes(t.Field(0).Type, seen)...)
	}

	var out []reflect.Type
	for i := 0; i < t.NumField(); i++ {
		if sf := t.Field(i); sf.IsExported() {
			out = append(out, optionalTypes(sf.Type, seen)...)
		}
	}
	return out
}

// validateStruct checks `validate` tags (min, max, oneof, url, ...) on a bound
// settings struct and converts failures to FieldErrors.
// Field paths omit the root type name (e.g., "Database.Port").
// Optional fields are checked only when Set.
func validateStruct(cfg any) []FieldError {
	rv := reflect.ValueOf(cfg)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	err := validatorFor(rv.Type()).Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{
			FieldPath: "",
			Code:      ErrCodeInvalidType,
			Message:   err.Error(),
		}}
	}

	unset := unsetOptionals(rv, "", nil)
	fieldErrors := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		path := trimRoot(fe.StructNamespace())
		if underAny(path, unset) {
			continue
		}
		fieldErrors = append(fieldErrors, FieldError{
			FieldPath: path,
			Code:      fe.Tag(),
			Message:   constraintMessage(fe),
		})
	}
	return fieldErrors
}

// unsetOptionals collects the field paths of Optional fields whose Set is false.
func unsetOptionals(v reflect.Value, parent string, out []string) []string {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		path := sf.Name
		if parent != "" {
			path = parent + "." + sf.Name
		}

		fv := v.Field(i)
		if isOptionalType(fv.Type()) {
			if !fv.Field(1).Bool() {
				out = append(out, path)
				continue
			}
			fv = fv.Field(0)
		}
		if isNestedType(fv.Type()) {
			out = unsetOptionals(fv, path, out)
		}
	}
	return out
}

func underAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+".") {
			return true
		}
	}
	return false
}

func trimRoot(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func constraintMessage(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fmt.Sprintf("value %v fails %q constraint", fe.Value(), fe.Tag())
	}
	return fmt.Sprintf("value %v fails %q constraint (%s)", fe.Value(), fe.Tag(), fe.Param())
}

// isZeroValue checks if a reflect.Value is the zero value for its type.
// Empty strings, slices and maps count as zero.
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}
