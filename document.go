package cascade

import (
	"context"
	"sort"
)

// DocumentOptions configures a Document.
type DocumentOptions struct {
	// Separator is the default path separator. Default: ".".
	Separator string

	// PathMode is the default addressing state used when a call does not override it.
	PathMode bool
}

// Document serves lookups from an in-memory nested structure.
// It is immutable after construction and safe for concurrent reads.
// Providers backed by a parsed document embed it and add Code.
type Document struct {
	data      map[string]any
	separator string
	pathMode  bool
}

// NewDocument wraps data. A nil map is treated as an empty document.
func NewDocument(data map[string]any, opts DocumentOptions) *Document {
	if data == nil {
		data = make(map[string]any)
	}
	sep := opts.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	return &Document{
		data:      data,
		separator: sep,
		pathMode:  opts.PathMode,
	}
}

// Get resolves key as a flat key or, in path mode, as a path.
func (d *Document) Get(_ context.Context, key string, opts ...LookupOption) (Optional[any], error) {
	o := ApplyLookupOptions(opts...)
	if o.PathMode.Resolve(d.pathMode) {
		return d.ResolvePath(key, o.SeparatorOr(d.separator)), nil
	}
	return d.byKey(key), nil
}

// ResolvePath resolves path against the document root.
func (d *Document) ResolvePath(path, sep string) Optional[any] {
	v, ok := ResolvePath(d.data, path, sep)
	if !ok {
		return None[any]()
	}
	return Some(v)
}

func (d *Document) byKey(key string) Optional[any] {
	v, ok := d.data[key]
	if !ok {
		return None[any]()
	}
	return Some(v)
}

// Keys returns the sorted top-level keys.
func (d *Document) Keys(_ context.Context, opts ...LookupOption) ([]string, error) {
	if ApplyLookupOptions(opts...).PathMode == PathModeOn {
		return nil, ErrPathModeKeys
	}
	keys := make([]string, 0, len(d.data))
	for k := range d.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Separator returns the default path separator.
func (d *Document) Separator() string {
	return d.separator
}

// DefaultPathMode returns the default addressing state.
func (d *Document) DefaultPathMode() bool {
	return d.pathMode
}

// Data returns the document root. Callers must not modify it.
func (d *Document) Data() map[string]any {
	return d.data
}
