package providervault

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Azhovan/cascade"
)

// Code identifies the vault provider.
const Code = "vault_kv"

// ExtraSecretPath is the lookup extra that reads another secret for one call.
const ExtraSecretPath = "secret_path"

// Options configures the vault provider.
type Options struct {
	// Address of the Vault server. Default: $VAULT_ADDR.
	Address string

	// Token used for authentication. Default: $VAULT_TOKEN.
	Token string

	// MountPoint of the KV v2 engine. Default: "secret".
	MountPoint string

	// SecretPath of the secret served by default.
	SecretPath string

	// Separator is the default path separator. Default: ".".
	Separator string

	// PathMode is the default addressing state for lookups that do not set one.
	PathMode bool

	// HTTPClient overrides the HTTP client of the built-in Vault client.
	HTTPClient *http.Client

	// Reader replaces the built-in Vault client.
	Reader SecretReader
}

// Provider serves lookups from a single KV secret.
// The secret is read on first use; a failed read is retried on the next call.
type Provider struct {
	opts   Options
	reader SecretReader

	mu  sync.Mutex
	doc *cascade.Document
}

// New creates a vault provider. Nothing is read until the first lookup.
func New(opts Options) (*Provider, error) {
	if opts.MountPoint == "" {
		opts.MountPoint = "secret"
	}
	if opts.Separator == "" {
		opts.Separator = cascade.DefaultSeparator
	}

	reader := opts.Reader
	if reader == nil {
		client, err := NewClient(opts.Address, opts.Token, opts.MountPoint, opts.HTTPClient)
		if err != nil {
			return nil, &cascade.BackendError{Provider: Code, Err: err}
		}
		reader = client
	}
	return &Provider{opts: opts, reader: reader}, nil
}

// Factory is the registry factory for the vault provider.
// Args are decoded into Options (e.g. "address", "token", "mount_point", "secret_path").
func Factory(args cascade.Args) (cascade.Provider, error) {
	var opts Options
	if err := cascade.DecodeArgs(args, &opts); err != nil {
		return nil, fmt.Errorf("decode %s provider args: %w", Code, err)
	}

	p, err := New(opts)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Code returns "vault_kv".
func (p *Provider) Code() string {
	return Code
}

// Get resolves key within the secret. WithExtra(ExtraSecretPath, path) reads
// another secret for this call only.
func (p *Provider) Get(ctx context.Context, key string, opts ...cascade.LookupOption) (cascade.Optional[any], error) {
	o := cascade.ApplyLookupOptions(opts...)

	var (
		doc *cascade.Document
		err error
	)
	if path, ok := o.ExtraString(ExtraSecretPath); ok && path != p.opts.SecretPath {
		doc, err = p.read(ctx, path)
	} else {
		doc, err = p.document(ctx)
	}
	if err != nil {
		return cascade.None[any](), &cascade.BackendError{Provider: Code, Key: key, Err: err}
	}
	return doc.Get(ctx, key, opts...)
}

// Keys returns the sorted top-level keys of the default secret.
func (p *Provider) Keys(ctx context.Context, opts ...cascade.LookupOption) ([]string, error) {
	if cascade.ApplyLookupOptions(opts...).PathMode == cascade.PathModeOn {
		return nil, cascade.ErrPathModeKeys
	}
	doc, err := p.document(ctx)
	if err != nil {
		return nil, &cascade.BackendError{Provider: Code, Err: err}
	}
	return doc.Keys(ctx)
}

func (p *Provider) document(ctx context.Context) (*cascade.Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.doc != nil {
		return p.doc, nil
	}
	doc, err := p.read(ctx, p.opts.SecretPath)
	if err != nil {
		return nil, err
	}
	p.doc = doc
	return doc, nil
}

func (p *Provider) read(ctx context.Context, path string) (*cascade.Document, error) {
	if path == "" {
		return nil, errors.New("secret path not set")
	}
	data, err := p.reader.ReadSecret(ctx, path)
	if err != nil {
		return nil, err
	}
	return cascade.NewDocument(data, cascade.DocumentOptions{
		Separator: p.opts.Separator,
		PathMode:  p.opts.PathMode,
	}), nil
}
