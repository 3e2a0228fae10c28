package providervault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

// SecretReader reads the key/value data of one secret.
// A secret that does not exist yields a nil map and no error.
type SecretReader interface {
	ReadSecret(ctx context.Context, path string) (map[string]any, error)
}

// Client reads secrets from a Vault KV version 2 engine.
type Client struct {
	kv *vault.KVv2
}

// NewClient creates a KV v2 client for the engine mounted at mount.
// Empty address and token fall back to the VAULT_* environment; a nil hc keeps
// the Vault client's default HTTP client.
func NewClient(address, token, mount string, hc *http.Client) (*Client, error) {
	config := vault.DefaultConfig()
	if config.Error != nil {
		return nil, fmt.Errorf("vault config: %w", config.Error)
	}
	if address != "" {
		config.Address = address
	}
	if hc != nil {
		config.HttpClient = hc
	}

	client, err := vault.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}
	return &Client{kv: client.KVv2(strings.Trim(mount, "/"))}, nil
}

// ReadSecret returns the data of the latest version of the secret at path.
func (c *Client) ReadSecret(ctx context.Context, path string) (map[string]any, error) {
	secret, err := c.kv.Get(ctx, strings.Trim(path, "/"))
	if err != nil {
		if errors.Is(err, vault.ErrSecretNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read secret %s: %w", path, err)
	}
	if secret == nil {
		return nil, nil
	}
	return normalizeNumbers(secret.Data).(map[string]any), nil
}

// normalizeNumbers replaces json.Number values with int64 or float64.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeNumbers(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeNumbers(e)
		}
		return out
	default:
		return v
	}
}
