package cascade

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestConfigurator_Get(t *testing.T) {
	ctx := context.Background()
	p := newStub("toml", map[string]any{
		"key":   "val",
		"empty": "",
		"zero":  0,
		"off":   false,
		"list":  []any{},
		"null":  nil,
		"port":  8080,
		"db":    map[string]any{"host": "localhost"},
	})
	c := NewConfigurator(p)

	tests := []struct {
		key  string
		opts []LookupOption
		def  any
		want any
	}{
		{key: "key", def: "fallback", want: "val"},
		{key: "missing", def: "fallback", want: "fallback"},
		{key: "empty", def: "fallback", want: "fallback"},
		{key: "zero", def: 42, want: 42},
		{key: "off", def: true, want: true},
		{key: "list", def: "fallback", want: "fallback"},
		{key: "null", def: "fallback", want: "fallback"},
		{key: "port", def: 1, want: 8080},
		{key: "missing", def: nil, want: nil},
		{key: "db.host", opts: []LookupOption{WithPathMode(true)}, def: "x", want: "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := c.Get(ctx, tt.key, tt.def, tt.opts...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Get(%q, %v) = %v, want %v", tt.key, tt.def, got, tt.want)
			}
		})
	}
}

func TestConfigurator_LookupKeepsFalsyValues(t *testing.T) {
	c := NewConfigurator(newStub("toml", map[string]any{"empty": ""}))

	v, err := c.Lookup(context.Background(), "empty")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Set || v.Value != "" {
		t.Errorf("Lookup(empty) = %+v, want set empty string", v)
	}

	v, _ = c.Lookup(context.Background(), "missing")
	if v.Set {
		t.Error("Lookup(missing) should be unset")
	}
}

func TestConfigurator_Unconfigured(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c := NewConfigurator(nil, WithLogger(logger))

	if c.Strategy() != nil {
		t.Fatal("expected no strategy")
	}

	got, err := c.Get(context.Background(), "key", "default")
	if err != nil || got != "default" {
		t.Errorf("Get = %v, %v; want default", got, err)
	}
	if !strings.Contains(buf.String(), "no config provider") {
		t.Errorf("expected info log, got %q", buf.String())
	}

	v, err := c.Lookup(context.Background(), "key")
	if err != nil || v.Set {
		t.Errorf("Lookup = %+v, %v", v, err)
	}
}

func TestConfigurator_TypedNilIsUnconfigured(t *testing.T) {
	var p *stubProvider
	var s *OrderedStrategy

	for _, src := range []Getter{p, s} {
		c := NewConfigurator(src, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		if c.Strategy() != nil {
			t.Fatalf("NewConfigurator(%T(nil)) should be unconfigured", src)
		}

		got, err := c.Get(context.Background(), "key", "fallback")
		if err != nil || got != "fallback" {
			t.Errorf("Get = %v, %v; want fallback", got, err)
		}
	}
}

func TestConfigurator_BindsStrategiesAndProviders(t *testing.T) {
	p := newStub("toml", map[string]any{"key": "val"})

	if _, ok := NewConfigurator(p).Strategy().(*SingleStrategy); !ok {
		t.Error("a provider should be wrapped in a SingleStrategy")
	}

	ordered := NewOrderedStrategy(p)
	if NewConfigurator(ordered).Strategy() != ordered {
		t.Error("a strategy should be used as is")
	}

	doc := NewDocument(map[string]any{"key": "doc"}, DocumentOptions{})
	got, err := NewConfigurator(doc).Get(context.Background(), "key", nil)
	if err != nil || got != "doc" {
		t.Errorf("plain getter Get = %v, %v", got, err)
	}
}

func TestConfigurator_BackendErrorIsNotDefaulted(t *testing.T) {
	p := newStub("vault_kv", nil)
	p.err = errors.New("sealed")
	c := NewConfigurator(p)

	got, err := c.Get(context.Background(), "key", "default")
	if err == nil {
		t.Fatalf("expected error, got value %v", got)
	}
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Errorf("expected *BackendError, got %T", err)
	}
}

func TestGetAs(t *testing.T) {
	ctx := context.Background()
	c := NewConfigurator(newStub("system", map[string]any{
		"port":    "8080",
		"debug":   "true",
		"timeout": "30s",
		"hosts":   "a,b",
		"bad":     "not-a-number",
	}))

	port, err := GetAs(ctx, c, "port", 1)
	if err != nil || port != 8080 {
		t.Errorf("GetAs[int](port) = %d, %v", port, err)
	}

	debug, err := GetAs(ctx, c, "debug", false)
	if err != nil || !debug {
		t.Errorf("GetAs[bool](debug) = %v, %v", debug, err)
	}

	timeout, err := GetAs(ctx, c, "timeout", time.Second)
	if err != nil || timeout != 30*time.Second {
		t.Errorf("GetAs[Duration](timeout) = %v, %v", timeout, err)
	}

	hosts, err := GetAs[[]string](ctx, c, "hosts", nil)
	if err != nil || len(hosts) != 2 || hosts[1] != "b" {
		t.Errorf("GetAs[[]string](hosts) = %v, %v", hosts, err)
	}

	missing, err := GetAs(ctx, c, "missing", 3)
	if err != nil || missing != 3 {
		t.Errorf("GetAs(missing) = %d, %v", missing, err)
	}

	bad, err := GetAs(ctx, c, "bad", 9)
	if err == nil {
		t.Error("expected conversion error")
	}
	if bad != 9 {
		t.Errorf("GetAs(bad) should return the default, got %d", bad)
	}
}
