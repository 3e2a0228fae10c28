package providervault

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Azhovan/cascade"
	vault "github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVaultServer(t *testing.T, secrets map[string]string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if r.Header.Get("X-Vault-Token") != "test-token" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}
		body, ok := secrets[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// kvBody wraps secret data in a KV v2 read response.
func kvBody(data string) string {
	return `{"data":{"data":` + data + `,"metadata":{"created_time":"2024-05-01T10:00:00Z","custom_metadata":null,"deletion_time":"","destroyed":false,"version":1}}}`
}

func TestProvider_Get(t *testing.T) {
	var hits int32
	srv := newVaultServer(t, map[string]string{
		"/v1/secret/data/myapp": kvBody(`{"password":"s3cr3t","db":{"host":"db.local","ports":[5432,5433]}}`),
	}, &hits)

	p, err := New(Options{Address: srv.URL, Token: "test-token", SecretPath: "myapp"})
	require.NoError(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits), "construction should not read the secret")

	ctx := context.Background()
	v, err := p.Get(ctx, "password")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", v.Value)

	v, err = p.Get(ctx, "db.host", cascade.WithPathMode(true))
	require.NoError(t, err)
	assert.Equal(t, "db.local", v.Value)

	v, err = p.Get(ctx, "db.ports.1", cascade.WithPathMode(true))
	require.NoError(t, err)
	assert.Equal(t, int64(5433), v.Value)

	v, err = p.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, v.Set)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "secret should be read once")
}

func TestProvider_SecretPathExtra(t *testing.T) {
	srv := newVaultServer(t, map[string]string{
		"/v1/kv/data/app":   kvBody(`{"name":"default"}`),
		"/v1/kv/data/other": kvBody(`{"name":"other"}`),
	}, nil)

	p, err := New(Options{Address: srv.URL, Token: "test-token", MountPoint: "kv", SecretPath: "app"})
	require.NoError(t, err)
	ctx := context.Background()

	v, err := p.Get(ctx, "name", cascade.WithExtra(ExtraSecretPath, "other"))
	require.NoError(t, err)
	assert.Equal(t, "other", v.Value)

	v, err = p.Get(ctx, "name")
	require.NoError(t, err)
	assert.Equal(t, "default", v.Value)
}

func TestProvider_MissingSecretIsEmpty(t *testing.T) {
	srv := newVaultServer(t, nil, nil)

	p, err := New(Options{Address: srv.URL, Token: "test-token", SecretPath: "absent"})
	require.NoError(t, err)

	v, err := p.Get(context.Background(), "anything")
	require.NoError(t, err)
	assert.False(t, v.Set)

	keys, err := p.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestProvider_BackendFailure(t *testing.T) {
	srv := newVaultServer(t, nil, nil)

	p, err := New(Options{Address: srv.URL, Token: "wrong", SecretPath: "myapp"})
	require.NoError(t, err)

	_, err = p.Get(context.Background(), "password")
	require.Error(t, err)

	var backendErr *cascade.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, Code, backendErr.Provider)
	assert.Equal(t, "password", backendErr.Key)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Contains(t, err.Error(), "403")

	var respErr *vault.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusForbidden, respErr.StatusCode)
}

func TestProvider_SecretPathRequired(t *testing.T) {
	p, err := New(Options{Reader: fakeReader{}})
	require.NoError(t, err)

	_, err = p.Get(context.Background(), "key")
	assert.ErrorContains(t, err, "secret path not set")
}

type fakeReader struct {
	data map[string]map[string]any
	err  error
}

func (f fakeReader) ReadSecret(_ context.Context, path string) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data[path], nil
}

func TestProvider_CustomReader(t *testing.T) {
	p, err := New(Options{
		SecretPath: "app",
		Reader: fakeReader{data: map[string]map[string]any{
			"app": {"b": "2", "a": "1"},
		}},
	})
	require.NoError(t, err)

	ctx := context.Background()
	keys, err := p.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	_, err = p.Keys(ctx, cascade.WithPathMode(true))
	assert.ErrorIs(t, err, cascade.ErrPathModeKeys)
}

func TestProvider_ReadErrorIsRetried(t *testing.T) {
	boom := errors.New("connection refused")
	reader := &flakyReader{err: boom}
	p, err := New(Options{SecretPath: "app", Reader: reader})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = p.Get(ctx, "key")
	assert.ErrorIs(t, err, boom)

	reader.err = nil
	v, err := p.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", v.Value)
}

type flakyReader struct {
	err error
}

func (f *flakyReader) ReadSecret(context.Context, string) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"key": "value"}, nil
}

func TestFactory(t *testing.T) {
	srv := newVaultServer(t, map[string]string{
		"/v1/secret/data/app": kvBody(`{"key":"value"}`),
	}, nil)

	p, err := Factory(cascade.Args{"address": srv.URL, "token": "test-token", "secret_path": "app"})
	require.NoError(t, err)
	assert.Equal(t, "vault_kv", p.Code())

	v, err := p.Get(context.Background(), "key")
	require.NoError(t, err)
	assert.Equal(t, "value", v.Value)
}

func TestNormalizeNumbers(t *testing.T) {
	got := normalizeNumbers(map[string]any{
		"port":  json.Number("5432"),
		"ratio": json.Number("0.5"),
		"list":  []any{json.Number("1"), "x"},
		"db":    map[string]any{"pool": json.Number("10")},
	})

	assert.Equal(t, map[string]any{
		"port":  int64(5432),
		"ratio": 0.5,
		"list":  []any{int64(1), "x"},
		"db":    map[string]any{"pool": int64(10)},
	}, got)
}
