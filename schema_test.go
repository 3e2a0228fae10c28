package cascade

import (
	"strings"
	"testing"
	"time"
)

func TestSchemaOf(t *testing.T) {
	type Database struct {
		Host string
		Port int `conf:"default:5432"`
	}
	type Settings struct {
		Key1     string
		Key2     string        `conf:"name:second_key,optional"`
		Timeout  time.Duration `conf:"default:30s"`
		Started  time.Time     `conf:"optional"`
		Token    string        `conf:"secret"`
		Debug    Optional[bool]
		Database Database
		Ignored  string `conf:"-"`
		internal string
	}

	schema, err := SchemaOf[Settings]()
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		name     string
		key      string
		optional bool
		def      string
		secret   bool
		nested   bool
	}{
		{name: "Key1", key: "key1"},
		{name: "Key2", key: "second_key", optional: true},
		{name: "Timeout", key: "timeout", def: "30s"},
		{name: "Started", key: "started", optional: true},
		{name: "Token", key: "token", secret: true},
		{name: "Debug", key: "debug", optional: true},
		{name: "Database", key: "database", nested: true},
	}

	if len(schema.Fields) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(schema.Fields))
	}
	for i, w := range want {
		f := schema.Fields[i]
		if f.Name != w.name || f.Key != w.key || f.Optional != w.optional || f.Default != w.def ||
			f.Secret != w.secret || (f.Nested != nil) != w.nested {
			t.Errorf("field %d = %+v, want %+v", i, f, w)
		}
	}

	if !schema.Fields[5].wrapped {
		t.Error("Optional field should be wrapped")
	}

	db := schema.Fields[6].Nested
	if db.Name != "Database" || len(db.Fields) != 2 || !db.Fields[1].HasDefault {
		t.Errorf("nested schema = %+v", db)
	}
}

func TestSchemaOf_Cached(t *testing.T) {
	type Settings struct{ A string }

	s1, err := SchemaOf[Settings]()
	if err != nil {
		t.Fatal(err)
	}
	s2, _ := SchemaOf[Settings]()
	if s1 != s2 {
		t.Error("schema should be compiled once")
	}
}

func TestSchemaOf_Errors(t *testing.T) {
	if _, err := SchemaOf[int](); err == nil || !strings.Contains(err.Error(), "not a struct") {
		t.Errorf("SchemaOf[int]() error = %v", err)
	}

	type Inner struct{ A string }
	type WithNestedDefault struct {
		Inner Inner `conf:"default:x"`
	}
	if _, err := SchemaOf[WithNestedDefault](); err == nil {
		t.Error("default on nested settings should fail")
	}
}
