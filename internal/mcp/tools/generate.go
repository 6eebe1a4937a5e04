package tools

import (
	"context"
	"fmt"
	"path/filepath"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/apitypes/internal/output"
	"github.com/usestring/apitypes/internal/pipeline"
	"github.com/usestring/apitypes/pkg/types"
)

// GenerateInput is the input for apitypes_generate.
type GenerateInput struct {
	Endpoints    []EndpointInput `json:"endpoints" jsonschema:"Endpoints to fetch and generate types for"`
	OutputDir    string          `json:"output_dir,omitempty" jsonschema:"Directory for generated files (default: APITYPES_OUTPUT or ./types)"`
	Format       string          `json:"format,omitempty" jsonschema:"typescript (default), typescript-zod or typescript-effect-schema. Aliases such as zod and effect are accepted"`
	Concurrency  int             `json:"concurrency,omitempty" jsonschema:"Parallel fetches, 1-10 (default: 3)"`
	Timeout      int             `json:"timeout,omitempty" jsonschema:"Request timeout in seconds, 1-300 (default: 30)"`
	Retries      *int            `json:"retries,omitempty" jsonschema:"Retries per endpoint after the first attempt (default: 2)"`
	RuntimeCheck *bool           `json:"runtime_check,omitempty" jsonschema:"Add is{Type} guards to plain TypeScript output"`
	JSONSchema   *bool           `json:"json_schema,omitempty" jsonschema:"Also write {Name}.schema.json with the inferred JSON Schema"`
}

// GenerateOutput is the output of apitypes_generate.
type GenerateOutput struct {
	Format     string                     `json:"format"`
	Statistics types.GenerationStatistics `json:"statistics"`
	Hint       string                     `json:"hint,omitempty"`
}

// ToolGenerate runs the full pipeline for inline endpoints and writes the
// generated files. Per-endpoint failures are reported in the statistics, not
// as tool errors.
func ToolGenerate(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GenerateInput) (*sdkmcp.CallToolResult, GenerateOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GenerateInput) (*sdkmcp.CallToolResult, GenerateOutput, error) {
		if len(input.Endpoints) == 0 {
			return nil, GenerateOutput{}, ErrInvalidInput("endpoints must not be empty")
		}

		gen, err := pipeline.New(d.runOptions(input), d.PipelineOptions()...)
		if err != nil {
			return nil, GenerateOutput{}, WrapRunError(err)
		}

		specs := make([]types.EndpointSpec, len(input.Endpoints))
		for i, e := range input.Endpoints {
			specs[i] = e.Spec()
		}

		stats, err := gen.Run(ctx, specs)
		if err != nil {
			return nil, GenerateOutput{}, WrapRunError(err)
		}

		return nil, GenerateOutput{
			Format:     string(gen.Format()),
			Statistics: *stats,
			Hint:       generateHint(stats),
		}, nil
	}
}

// runOptions overlays tool arguments on the configured defaults.
func (d *Deps) runOptions(input GenerateInput) pipeline.Options {
	opts := pipeline.DefaultOptions()
	if d.Config != nil {
		opts = d.Config.PipelineOptions()
	}
	if input.OutputDir != "" {
		opts.OutputDir = input.OutputDir
	}
	if input.Format != "" {
		opts.Format = input.Format
	}
	if input.Concurrency != 0 {
		opts.Concurrency = input.Concurrency
	}
	if input.Timeout != 0 {
		opts.TimeoutSeconds = input.Timeout
	}
	if input.Retries != nil {
		opts.Retries = *input.Retries
	}
	if input.RuntimeCheck != nil {
		opts.RuntimeCheck = *input.RuntimeCheck
	}
	if input.JSONSchema != nil {
		opts.EmitJSONSchema = *input.JSONSchema
	}
	return opts
}

func generateHint(stats *types.GenerationStatistics) string {
	index := filepath.Join(stats.OutputDir, output.IndexFile)
	switch {
	case stats.Successful == 0:
		return "No types were generated. Check statistics.errors; use apitypes_preview to debug a single endpoint."
	case stats.Failed > 0:
		return fmt.Sprintf("Some endpoints failed (see statistics.errors). Generated types are re-exported from %s.", index)
	}
	return fmt.Sprintf("Import the generated types from %s.", index)
}
