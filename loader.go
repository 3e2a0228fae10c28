package cascade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/Azhovan/cascade/internal/normalize"
)

// LocalMode redirects every field of a settings load to an alternate provider,
// e.g. a local JSON file standing in for a secret store. Activation is
// all-or-nothing: a load is served entirely by the primary source or entirely
// by the local provider.
type LocalMode struct {
	Enabled bool

	// Provider is the alternate source. When nil, Code and Args are used to
	// build one through the loader's registry.
	Provider Getter
	Code     string
	Args     Args

	// PathPrefix is prepended to every key, joined with Separator, and lookups
	// are made in path mode.
	PathPrefix string
	Separator  string // Default: "."
}

// Loader materializes settings structs from a provider or strategy.
// Every declared field must resolve unless it is optional or has a default;
// failures are reported by Load, never deferred to first access.
type Loader[T any] struct {
	src        Getter
	local      LocalMode
	registry   *Registry
	validators []Validator[T]
	logger     *slog.Logger
}

// NewLoader creates a Loader bound to src (a Provider or Strategy).
func NewLoader[T any](src Getter) *Loader[T] {
	return &Loader[T]{
		src:        src,
		validators: make([]Validator[T], 0),
		logger:     slog.Default(),
	}
}

// WithLocalMode sets the local mode override.
func (l *Loader[T]) WithLocalMode(local LocalMode) *Loader[T] {
	l.local = local
	return l
}

// WithRegistry sets the registry used to build a local provider from its code.
func (l *Loader[T]) WithRegistry(r *Registry) *Loader[T] {
	l.registry = r
	return l
}

// WithValidator adds a custom validator (executed after tag-based validation).
func (l *Loader[T]) WithValidator(v Validator[T]) *Loader[T] {
	l.validators = append(l.validators, v)
	return l
}

// WithLogger sets the logger. Default: slog.Default().
func (l *Loader[T]) WithLogger(logger *slog.Logger) *Loader[T] {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// Load resolves, binds and validates a new T.
// Missing or malformed fields produce a *ValidationError listing every failure.
// Backend failures abort the load and are returned wrapped.
func (l *Loader[T]) Load(ctx context.Context) (*T, error) {
	schema, err := SchemaOf[T]()
	if err != nil {
		return nil, err
	}

	// Step 1: Pick the source once for the whole load
	src, err := l.source()
	if err != nil {
		return nil, err
	}

	// Step 2: Bind declared fields
	cfg := new(T)
	b := &binder{ctx: ctx, logger: l.logger}
	if err := b.bindStruct(reflect.ValueOf(cfg).Elem(), schema, src, ""); err != nil {
		return nil, err
	}

	// Step 3: Tag-based validation, skipping fields that already failed
	allErrors := b.errors
	for _, fe := range validateStruct(cfg) {
		if !hasFieldError(allErrors, fe.FieldPath) {
			allErrors = append(allErrors, fe)
		}
	}

	// Step 4: Run custom validators
	for i, validator := range l.validators {
		err := validator.Validate(ctx, cfg)
		if err != nil {
			var valErr *ValidationError
			if errors.As(err, &valErr) {
				allErrors = append(allErrors, valErr.FieldErrors...)
			} else {
				return nil, fmt.Errorf("validator %d failed: %w", i, err)
			}
		}
	}

	if len(allErrors) > 0 {
		return nil, &ValidationError{FieldErrors: allErrors}
	}

	storeProvenance(cfg, &Provenance{Fields: b.provenance, Local: l.local.Enabled})

	return cfg, nil
}

// source resolves the effective lookup source for one load.
func (l *Loader[T]) source() (fieldSource, error) {
	if !l.local.Enabled {
		if l.src == nil {
			return fieldSource{}, errors.New("cascade: loader has no provider")
		}
		return fieldSource{getter: l.src}, nil
	}

	g := l.local.Provider
	if isNil(g) {
		if l.registry == nil {
			return fieldSource{}, &BindingError{Target: "local mode", Name: l.local.Code, Reason: "no provider and no registry"}
		}
		p, err := l.registry.New(l.local.Code, l.local.Args)
		if err != nil {
			return fieldSource{}, fmt.Errorf("local mode: %w", err)
		}
		g = p
	}

	sep := l.local.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	src := fieldSource{getter: g, prefix: l.local.PathPrefix, separator: sep}
	l.logger.Info("local mode enabled",
		slog.String("provider", describeGetter(g)),
		slog.String("prefix", l.local.PathPrefix))
	return src, nil
}

// fieldSource is a getter plus the key shaping applied to every field.
type fieldSource struct {
	getter    Getter
	prefix    string
	separator string
	origin    string // Provider that supplied an enclosing nested document
}

func (s fieldSource) key(k string) string {
	return normalize.ApplyPrefix(s.prefix, k, s.separator)
}

func (s fieldSource) lookupOptions(nested bool) []LookupOption {
	var opts []LookupOption
	if nested || s.prefix != "" {
		opts = append(opts, WithPathMode(true))
	}
	if s.separator != "" {
		opts = append(opts, WithSeparator(s.separator))
	}
	return opts
}

// resolver is implemented by strategies that can report which provider answered.
type resolver interface {
	Resolve(ctx context.Context, key string, opts ...LookupOption) (Optional[any], Provider, error)
}

func (s fieldSource) get(ctx context.Context, key string, nested bool) (Optional[any], string, error) {
	opts := s.lookupOptions(nested)
	if s.origin != "" {
		v, err := s.getter.Get(ctx, key, opts...)
		return v, s.origin, err
	}
	if r, ok := s.getter.(resolver); ok {
		v, p, err := r.Resolve(ctx, key, opts...)
		if p != nil {
			return v, p.Code(), err
		}
		return v, describeGetter(s.getter), err
	}
	v, err := s.getter.Get(ctx, key, opts...)
	return v, describeGetter(s.getter), err
}

// binder accumulates field errors and provenance across one load.
type binder struct {
	ctx        context.Context
	logger     *slog.Logger
	errors     []FieldError
	provenance []FieldProvenance
}

// bindStruct fills v field by field. It returns an error only for backend failures;
// missing and malformed values are recorded in b.errors.
func (b *binder) bindStruct(v reflect.Value, schema *Schema, src fieldSource, parentFieldPath string) error {
	for _, f := range schema.Fields {
		fieldPath := f.Name
		if parentFieldPath != "" {
			fieldPath = parentFieldPath + "." + f.Name
		}

		field := v.Field(f.Index)
		target := field
		if f.wrapped {
			target = field.Field(0)
		}

		key := src.key(f.Key)
		raw, origin, err := src.get(b.ctx, key, f.Nested != nil)
		if err != nil {
			return fmt.Errorf("resolve field %s (key %q): %w", fieldPath, key, err)
		}

		if !raw.Set {
			b.bindMissing(field, f, fieldPath)
			continue
		}

		var ok bool
		if f.Nested != nil {
			ok, err = b.bindNested(target, f, raw.Value, origin, fieldPath)
			if err != nil {
				return err
			}
		} else {
			ok = b.bindValue(target, raw.Value, fieldPath)
		}
		if !ok {
			continue
		}

		if f.wrapped {
			field.Field(1).SetBool(true)
		}
		b.provenance = append(b.provenance, FieldProvenance{
			FieldPath:  fieldPath,
			KeyPath:    key,
			SourceName: origin,
			Secret:     f.Secret,
		})
	}
	return nil
}

// bindMissing handles an unresolved field. A default bound into an Optional marks it Set.
func (b *binder) bindMissing(field reflect.Value, f Field, fieldPath string) {
	switch {
	case f.HasDefault:
		target := field
		if f.wrapped {
			target = field.Field(0)
		}
		if b.bindValue(target, f.Default, fieldPath) {
			if f.wrapped {
				field.Field(1).SetBool(true)
			}
			b.logger.Debug("default applied", slog.String("field", fieldPath))
			b.provenance = append(b.provenance, FieldProvenance{
				FieldPath:  fieldPath,
				KeyPath:    f.Key,
				SourceName: "default",
				Secret:     f.Secret,
			})
		}
	case f.Optional:
	default:
		b.errors = append(b.errors, FieldError{
			FieldPath: fieldPath,
			Code:      ErrCodeRequired,
			Message:   "field is required but not provided",
		})
	}
}

func (b *binder) bindValue(target reflect.Value, raw any, fieldPath string) bool {
	if err := decodeValue(raw, target.Addr().Interface()); err != nil {
		b.errors = append(b.errors, FieldError{
			FieldPath: fieldPath,
			Code:      ErrCodeInvalidType,
			Message:   fmt.Sprintf("cannot convert %T to %s: %v", raw, target.Type(), err),
		})
		return false
	}
	return true
}

// bindNested binds a mapping-shaped raw value against the nested schema.
func (b *binder) bindNested(target reflect.Value, f Field, raw any, origin, fieldPath string) (bool, error) {
	m, ok := toStringMap(raw)
	if !ok {
		b.errors = append(b.errors, FieldError{
			FieldPath: fieldPath,
			Code:      ErrCodeInvalidType,
			Message:   fmt.Sprintf("expected a mapping for %s, got %T", f.Nested.Name, raw),
		})
		return false, nil
	}

	before := len(b.errors)
	sub := fieldSource{getter: NewDocument(m, DocumentOptions{}), origin: origin}
	if err := b.bindStruct(target, f.Nested, sub, fieldPath); err != nil {
		return false, err
	}
	return len(b.errors) == before, nil
}

// toStringMap normalizes the mapping shapes produced by the supported decoders.
func toStringMap(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			out[ks] = v
		}
		return out, true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// describeGetter names a source for logs and provenance.
func describeGetter(g Getter) string {
	switch s := g.(type) {
	case Provider:
		return s.Code()
	case Strategy:
		codes := make([]string, 0)
		for _, p := range s.Providers() {
			codes = append(codes, p.Code())
		}
		return "strategy(" + strings.Join(codes, ",") + ")"
	default:
		return fmt.Sprintf("%T", g)
	}
}

func hasFieldError(errs []FieldError, fieldPath string) bool {
	for _, fe := range errs {
		if fe.FieldPath == fieldPath {
			return true
		}
	}
	return false
}
