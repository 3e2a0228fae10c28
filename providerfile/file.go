package providerfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azhovan/cascade"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Provider codes, one per document format.
const (
	CodeTOML = "toml"
	CodeYAML = "yaml"
	CodeJSON = "json"
)

// Options configures file provider behavior.
type Options struct {
	// Path to the document. Ignored when Data is set.
	Path string

	// Data is an inline document that bypasses the file.
	Data string

	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Separator is the default path separator. Default: ".".
	Separator string

	// Required: if true, a missing file is an error. Default: false (empty document).
	Required bool

	// PathMode is the default addressing state for lookups that do not set one.
	PathMode bool
}

// Provider serves lookups from a parsed TOML, YAML or JSON document.
// The document is read once at construction and never reloaded.
type Provider struct {
	*cascade.Document

	code string
	path string
}

// New reads and parses the document described by opts.
func New(opts Options) (*Provider, error) {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = inferFormat(opts.Path)
	}
	if format == "yml" {
		format = CodeYAML
	}

	switch format {
	case CodeTOML, CodeYAML, CodeJSON:
	case "":
		return nil, fmt.Errorf("cannot infer file format from %q (set Options.Format)", opts.Path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml)", format)
	}

	raw, err := readDocument(opts, format)
	if err != nil {
		return nil, &cascade.BackendError{Provider: format, Err: err}
	}

	var data map[string]any
	if len(raw) > 0 {
		data, err = parse(raw, format, opts.Path)
		if err != nil {
			return nil, &cascade.BackendError{Provider: format, Err: err}
		}
	}

	return &Provider{
		Document: cascade.NewDocument(data, cascade.DocumentOptions{
			Separator: opts.Separator,
			PathMode:  opts.PathMode,
		}),
		code: format,
		path: opts.Path,
	}, nil
}

// NewTOML creates a TOML document provider.
func NewTOML(opts Options) (*Provider, error) {
	opts.Format = CodeTOML
	return New(opts)
}

// NewYAML creates a YAML document provider.
func NewYAML(opts Options) (*Provider, error) {
	opts.Format = CodeYAML
	return New(opts)
}

// NewJSON creates a JSON document provider.
func NewJSON(opts Options) (*Provider, error) {
	opts.Format = CodeJSON
	return New(opts)
}

// Factory returns a registry factory producing providers of the given format.
// Args are decoded into Options (e.g. "path", "data", "required", "path_mode").
func Factory(format string) cascade.Factory {
	return func(args cascade.Args) (cascade.Provider, error) {
		var opts Options
		if err := cascade.DecodeArgs(args, &opts); err != nil {
			return nil, fmt.Errorf("decode %s provider args: %w", format, err)
		}
		opts.Format = format

		p, err := New(opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

// Code returns the document format ("toml", "yaml" or "json").
func (p *Provider) Code() string {
	return p.code
}

// Path returns the file path the document was read from, if any.
func (p *Provider) Path() string {
	return p.path
}

func readDocument(opts Options, format string) ([]byte, error) {
	if opts.Data != "" {
		return []byte(opts.Data), nil
	}
	if opts.Path == "" {
		if opts.Required {
			return nil, errors.New("required config file not set")
		}
		return nil, nil
	}

	data, err := os.ReadFile(filepath.Clean(opts.Path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if opts.Required {
				return nil, fmt.Errorf("required config file not found: %s: %w", opts.Path, err)
			}
			slog.Debug("config file not found, using empty document",
				slog.String("path", opts.Path),
				slog.String("format", format))
			return nil, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", opts.Path, err)
	}
	return data, nil
}

func parse(data []byte, format, path string) (map[string]any, error) {
	var raw map[string]any
	switch format {
	case CodeYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML file %s: %w", path, err)
		}
	case CodeJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON file %s: %w", path, err)
		}
	case CodeTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML file %s: %w", path, err)
		}
	}
	return raw, nil
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return CodeYAML
	case ".json":
		return CodeJSON
	case ".toml":
		return CodeTOML
	default:
		return ""
	}
}
