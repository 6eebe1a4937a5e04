// Package loader reads and writes endpoint configuration files.
//
// A configuration file is a list of endpoint specs. Files ending in .yaml or
// .yml are YAML; everything else is JSON.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/usestring/apitypes/pkg/types"
)

// Format is a configuration file encoding.
type Format string

// Supported configuration encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// LoadError reports a configuration file that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading config %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FormatFor returns the encoding selected by path's extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// ParseFormat resolves an encoding name given on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported config format %q (supported: json, yaml)", s)
}

// Load reads endpoint specs from path.
func Load(path string) ([]types.EndpointSpec, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: abs, Err: errors.New("file does not exist")}
		}
		return nil, &LoadError{Path: abs, Err: err}
	}

	specs, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, &LoadError{Path: abs, Err: err}
	}
	return specs, nil
}

// Decode parses a configuration document.
func Decode(data []byte, format Format) ([]types.EndpointSpec, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("config is empty")
	}

	var specs []types.EndpointSpec
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &specs); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &specs); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	}
	return specs, nil
}

// Encode renders specs in the given encoding.
func Encode(specs []types.EndpointSpec, format Format) ([]byte, error) {
	if specs == nil {
		specs = []types.EndpointSpec{}
	}

	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(specs); err != nil {
			return nil, fmt.Errorf("encoding YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding YAML: %w", err)
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(specs); err != nil {
			return nil, fmt.Errorf("encoding JSON: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Save writes specs to path, choosing the encoding from its extension.
func Save(path string, specs []types.EndpointSpec) error {
	data, err := Encode(specs, FormatFor(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Example returns a starter configuration against the JSONPlaceholder API.
func Example() []types.EndpointSpec {
	return []types.EndpointSpec{
		{
			Name:   "User",
			URL:    "https://jsonplaceholder.typicode.com/users/1",
			Method: types.MethodGet,
		},
		{
			Name:       "Users",
			URL:        "https://jsonplaceholder.typicode.com/users",
			Method:     types.MethodGet,
			SampleOnly: true,
		},
		{
			Name:   "Post",
			URL:    "https://jsonplaceholder.typicode.com/posts/1",
			Method: types.MethodGet,
		},
	}
}

// ExamplePath is the default file name for a starter configuration.
func ExamplePath(format Format) string {
	return "api-config." + string(format)
}
