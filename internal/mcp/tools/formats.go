package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/apitypes/internal/typegen"
)

// FormatsInput is the input for apitypes_formats.
type FormatsInput struct{}

// FormatInfo describes one output format.
type FormatInfo struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitzero"`
	Default     bool     `json:"default,omitempty"`
	Description string   `json:"description"`
}

// FormatsOutput is the output of apitypes_formats.
type FormatsOutput struct {
	Formats []FormatInfo `json:"formats,omitzero"`
}

var formatDescriptions = map[typegen.Format]string{
	typegen.FormatTypeScript:   "TypeScript interfaces with a Convert class for parsing and serializing",
	typegen.FormatZod:          "Zod schemas with z.infer types for runtime validation",
	typegen.FormatEffectSchema: "Effect Schema definitions with derived types",
}

// ToolFormats lists the supported output formats and their aliases.
func ToolFormats() func(ctx context.Context, req *sdkmcp.CallToolRequest, input FormatsInput) (*sdkmcp.CallToolResult, FormatsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input FormatsInput) (*sdkmcp.CallToolResult, FormatsOutput, error) {
		out := FormatsOutput{Formats: make([]FormatInfo, 0, len(typegen.Formats))}
		for _, f := range typegen.Formats {
			out.Formats = append(out.Formats, FormatInfo{
				Name:        string(f),
				Aliases:     typegen.Aliases(f),
				Default:     f == typegen.DefaultFormat,
				Description: formatDescriptions[f],
			})
		}
		return nil, out, nil
	}
}
