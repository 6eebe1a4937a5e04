package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/apitypes/internal/endpoint"
	"github.com/usestring/apitypes/internal/pipeline"
	"github.com/usestring/apitypes/internal/scheduler"
	"github.com/usestring/apitypes/internal/typegen"
	"github.com/usestring/apitypes/pkg/types"
)

// PreviewInput is the input for apitypes_preview.
type PreviewInput struct {
	Endpoint      EndpointInput `json:"endpoint" jsonschema:"Endpoint to fetch"`
	Format        string        `json:"format,omitempty" jsonschema:"typescript (default), typescript-zod or typescript-effect-schema"`
	RuntimeCheck  bool          `json:"runtime_check,omitempty" jsonschema:"Add is{Type} guards to plain TypeScript output"`
	IncludeSample bool          `json:"include_sample,omitempty" jsonschema:"Return the fetched sample JSON after selection and sampling"`
	IncludeSchema bool          `json:"include_schema,omitempty" jsonschema:"Return the inferred JSON Schema"`
	IncludeFields bool          `json:"include_fields,omitempty" jsonschema:"Return per-field statistics (frequency, nullability, detected formats)"`
}

// PreviewOutput is the output of apitypes_preview.
type PreviewOutput struct {
	Name     string `json:"name"`
	Format   string `json:"format"`
	Source   string `json:"source"`
	Attempts int    `json:"attempts"`
	Sample   string `json:"sample,omitempty"`
	Schema   string `json:"schema,omitempty"`

	Fields []typegen.FieldStat `json:"fields,omitzero"`
}

// ToolPreview fetches one endpoint and returns the generated source without
// writing any files.
func ToolPreview(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input PreviewInput) (*sdkmcp.CallToolResult, PreviewOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input PreviewInput) (*sdkmcp.CallToolResult, PreviewOutput, error) {
		spec, err := endpoint.Validate(input.Endpoint.Spec())
		if err != nil {
			return nil, PreviewOutput{}, ErrInvalidInput(err.Error())
		}

		formatName := input.Format
		if formatName == "" && d.Config != nil {
			formatName = d.Config.Format
		}
		format, err := typegen.ParseFormat(formatName)
		if err != nil {
			return nil, PreviewOutput{}, ErrInvalidInput(err.Error())
		}

		opts := pipeline.DefaultOptions()
		if d.Config != nil {
			opts = d.Config.PipelineOptions()
		}

		outcome := scheduler.Run(ctx, d.fetcher(opts.TimeoutSeconds), []types.EndpointSpec{spec}, scheduler.Options{
			Concurrency: 1,
			Retries:     opts.Retries,
			RetryDelay:  opts.RetryDelay,
		})[0]
		if !outcome.OK() {
			return nil, PreviewOutput{}, WrapFetchError(outcome.Err)
		}

		engine := d.engine()
		source, err := engine.Generate(spec.Name, []string{outcome.Payload}, format, typegen.RenderOptions{
			RuntimeCheck: input.RuntimeCheck,
		})
		if err != nil {
			return nil, PreviewOutput{}, &CodedError{Code: ErrCodeGeneration, Message: spec.Name + ": type generation failed", Cause: err}
		}

		out := PreviewOutput{
			Name:     spec.Name,
			Format:   string(format),
			Source:   source,
			Attempts: outcome.Attempts,
		}
		if input.IncludeSample {
			out.Sample = outcome.Payload
		}
		if input.IncludeSchema {
			se, ok := engine.(typegen.SchemaEngine)
			if !ok {
				return nil, PreviewOutput{}, ErrInvalidInput("the configured engine cannot produce JSON Schema")
			}
			doc, err := se.Schema(spec.Name, []string{outcome.Payload})
			if err != nil {
				return nil, PreviewOutput{}, &CodedError{Code: ErrCodeGeneration, Message: fmt.Sprintf("%s: json schema", spec.Name), Cause: err}
			}
			out.Schema = doc
		}
		if input.IncludeFields {
			fields, err := typegen.FieldStats([]string{outcome.Payload})
			if err != nil {
				return nil, PreviewOutput{}, &CodedError{Code: ErrCodeGeneration, Message: spec.Name + ": field statistics", Cause: err}
			}
			out.Fields = fields
		}
		return nil, out, nil
	}
}
