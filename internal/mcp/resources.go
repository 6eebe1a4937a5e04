package mcp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/apitypes/internal/loader"
	"github.com/usestring/apitypes/internal/mcp/tools"
)

// Resource URI scheme: apitypes://
// Supported URIs:
//   apitypes://file/{name}          generated file in the configured output directory
//   apitypes://example-config/{fmt} starter endpoint config (json or yaml)

const resourceScheme = "apitypes://"

// MIME types for resource contents.
const (
	mimeJSON       = "application/json"
	mimeYAML       = "application/yaml"
	mimeTypeScript = "text/typescript"
)

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: resourceScheme + "file/{name}",
		Name:        "Generated File",
		Description: "A file written by apitypes_generate in the configured output directory, e.g. User.ts, index.ts or User.schema.json. Files written to a custom output_dir are not served.",
		MIMEType:    mimeTypeScript,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceFile)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: resourceScheme + "example-config/{format}",
		Name:        "Example Config",
		Description: "Starter endpoint config in json or yaml, the same document `apitypes init` writes.",
		MIMEType:    mimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"user", "assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceExampleConfig)
}

func (s *Server) handleResourceFile(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	name := params["name"]
	dir, err := filepath.Abs(s.deps.Config.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	mime := mimeTypeScript
	if strings.HasSuffix(name, ".json") {
		mime = mimeJSON
	}
	return textResult(req.Params.URI, mime, string(data)), nil
}

func (s *Server) handleResourceExampleConfig(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	format, err := loader.ParseFormat(params["format"])
	if err != nil {
		return nil, tools.ErrInvalidInput(err.Error())
	}
	data, err := loader.Encode(loader.Example(), format)
	if err != nil {
		return nil, fmt.Errorf("encoding example config: %w", err)
	}

	mime := mimeJSON
	if format == loader.FormatYAML {
		mime = mimeYAML
	}
	return textResult(req.Params.URI, mime, string(data)), nil
}

// parseResourceURI extracts parameters from an apitypes:// URI.
func parseResourceURI(uri string) (map[string]string, error) {
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, tools.ErrInvalidInput("invalid URI scheme: expected " + resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	params := make(map[string]string)

	switch resourceType := parts[0]; resourceType {
	case "file":
		if len(parts) != 2 || parts[1] == "" {
			return nil, tools.ErrInvalidInput("file URI requires a single file name")
		}
		name := parts[1]
		if name == "." || name == ".." || filepath.Base(name) != name {
			return nil, tools.ErrInvalidInput(fmt.Sprintf("invalid file name: %s", name))
		}
		if !strings.HasSuffix(name, ".ts") && !strings.HasSuffix(name, ".json") {
			return nil, tools.ErrInvalidInput("only .ts and .json files are served")
		}
		params["name"] = name

	case "example-config":
		if len(parts) != 2 || parts[1] == "" {
			return nil, tools.ErrInvalidInput("example-config URI requires a format")
		}
		params["format"] = parts[1]

	default:
		return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown resource type: %s", resourceType))
	}

	return params, nil
}

func textResult(uri, mime, text string) *sdkmcp.ReadResourceResult {
	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: mime,
				Text:     text,
			},
		},
	}
}
