package providerpg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Azhovan/cascade"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Code identifies the postgres provider.
const Code = "postgres"

// DefaultTable is the settings table used when Options.Table is empty.
const DefaultTable = "settings"

// Querier is the subset of *pgxpool.Pool and *pgx.Conn the provider needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Options configures the postgres provider.
type Options struct {
	// Table holding (key text, value jsonb) rows. May be schema-qualified. Default: "settings".
	Table string

	// Separator is the default path separator. Default: ".".
	Separator string

	// PathMode is the default addressing state for lookups that do not set one.
	PathMode bool
}

// Provider serves lookups from a key/value settings table.
// In path mode the first segment selects the row and the remaining
// segments are resolved inside the row's JSON value.
type Provider struct {
	q         Querier
	opts      Options
	selectOne string
	selectAll string
}

// New creates a postgres provider over q.
func New(q Querier, opts Options) *Provider {
	if opts.Table == "" {
		opts.Table = DefaultTable
	}
	if opts.Separator == "" {
		opts.Separator = cascade.DefaultSeparator
	}

	table := pgx.Identifier(strings.Split(opts.Table, ".")).Sanitize()
	return &Provider{
		q:         q,
		opts:      opts,
		selectOne: fmt.Sprintf("SELECT value FROM %s WHERE key = $1", table),
		selectAll: fmt.Sprintf("SELECT key FROM %s ORDER BY key", table),
	}
}

// FactoryOptions are the registry arguments accepted by Factory.
// Either Querier or DSN must be set.
type FactoryOptions struct {
	Querier   Querier
	DSN       string
	Table     string
	Separator string
	PathMode  bool
}

// Factory is the registry factory for the postgres provider.
// With "dsn", a connection pool is created; it connects on first use.
func Factory(args cascade.Args) (cascade.Provider, error) {
	var opts FactoryOptions
	if err := cascade.DecodeArgs(args, &opts); err != nil {
		return nil, fmt.Errorf("decode %s provider args: %w", Code, err)
	}

	q := opts.Querier
	if q == nil {
		if opts.DSN == "" {
			return nil, fmt.Errorf("%s provider: querier or dsn is required", Code)
		}
		pool, err := pgxpool.New(context.Background(), opts.DSN)
		if err != nil {
			return nil, &cascade.BackendError{Provider: Code, Err: err}
		}
		q = pool
	}

	return New(q, Options{Table: opts.Table, Separator: opts.Separator, PathMode: opts.PathMode}), nil
}

// Code returns "postgres".
func (p *Provider) Code() string {
	return Code
}

// Get loads the row for key (or the first path segment) and resolves the rest of the path in it.
func (p *Provider) Get(ctx context.Context, key string, opts ...cascade.LookupOption) (cascade.Optional[any], error) {
	o := cascade.ApplyLookupOptions(opts...)

	rowKey, rest := key, ""
	sep := o.SeparatorOr(p.opts.Separator)
	if o.PathMode.Resolve(p.opts.PathMode) {
		rowKey, rest, _ = strings.Cut(key, sep)
	}

	value, found, err := p.row(ctx, rowKey)
	if err != nil {
		return cascade.None[any](), &cascade.BackendError{Provider: Code, Key: key, Err: err}
	}
	if !found {
		return cascade.None[any](), nil
	}
	if rest == "" {
		return cascade.Some(value), nil
	}

	v, ok := cascade.ResolvePath(value, rest, sep)
	if !ok {
		return cascade.None[any](), nil
	}
	return cascade.Some(v), nil
}

// Keys returns the sorted row keys.
func (p *Provider) Keys(ctx context.Context, opts ...cascade.LookupOption) ([]string, error) {
	if cascade.ApplyLookupOptions(opts...).PathMode == cascade.PathModeOn {
		return nil, cascade.ErrPathModeKeys
	}

	rows, err := p.q.Query(ctx, p.selectAll)
	if err != nil {
		return nil, &cascade.BackendError{Provider: Code, Err: err}
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, &cascade.BackendError{Provider: Code, Err: err}
	}
	return keys, nil
}

func (p *Provider) row(ctx context.Context, key string) (any, bool, error) {
	if key == "" {
		return nil, false, nil
	}

	var raw []byte
	if err := p.q.QueryRow(ctx, p.selectOne, key).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if raw == nil {
		return nil, true, nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, fmt.Errorf("decode value of %q: %w", key, err)
	}
	return value, true, nil
}
