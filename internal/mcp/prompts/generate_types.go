package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/apitypes/internal/typegen"
)

// HandleGenerateTypes implements the type generation workflow.
func HandleGenerateTypes(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var endpoints, format string
		if req != nil && req.Params != nil {
			endpoints = strings.TrimSpace(req.Params.Arguments["endpoints"])
			format = strings.TrimSpace(req.Params.Arguments["format"])
		}
		if format == "" {
			format = cfg.Format
		}
		if f, err := typegen.ParseFormat(format); err == nil {
			format = string(f)
		} else {
			format = string(typegen.DefaultFormat)
		}

		var sb strings.Builder

		sb.WriteString("# Generate TypeScript Types from Live APIs\n\n")
		sb.WriteString("You turn real API responses into TypeScript types. Each endpoint is fetched once, ")
		sb.WriteString("its JSON response is used as the sample, and a {Name}.ts file is written per endpoint.\n\n")

		if endpoints != "" {
			sb.WriteString("## Endpoints Requested\n\n")
			sb.WriteString(endpoints)
			sb.WriteString("\n\n")
		}

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Pick names** - One PascalCase type name per endpoint\n")
		sb.WriteString("   - Names are normalized: `user profile` becomes `UserProfile`, `api-key` becomes `APIKey`\n")
		sb.WriteString("   - Names must start with a letter and must not be TypeScript keywords\n")
		sb.WriteString("   - For list endpoints use the plural (`Users`); the item type is named in the singular\n\n")
		sb.WriteString("2. **Preview** - Call `apitypes_preview` for any endpoint you are unsure about\n")
		sb.WriteString("   - Set `include_sample: true` to see what the API actually returns\n")
		sb.WriteString("   - If the payload is wrapped (e.g. `{\"data\": [...]}`), set `select: \".data\"`\n")
		sb.WriteString("   - For large arrays set `sample_only: true` to infer from the first 3 items\n\n")
		sb.WriteString("3. **Generate** - Call `apitypes_generate` once with every endpoint\n")
		sb.WriteString(fmt.Sprintf("   - Format: `%s`\n", format))
		sb.WriteString(fmt.Sprintf("   - Output directory (default): `%s`\n", cfg.OutputDir))
		sb.WriteString("   - Add `runtime_check: true` for is{Type} guards in plain TypeScript output\n\n")
		sb.WriteString("4. **Report** - Summarize `statistics` and point the user at index.ts and usage-example.ts\n\n")

		sb.WriteString("## If Things Go Wrong\n\n")
		sb.WriteString("- **validation failed**: fix the name or URL; nothing was fetched for that endpoint\n")
		sb.WriteString("- **fetch failed: HTTP 401/403**: add the auth header under `headers`\n")
		sb.WriteString("- **fetch failed: HTTP 404**: check the URL with `apitypes_preview`\n")
		sb.WriteString("- **type generation failed**: the response was not usable JSON; try a `select` expression\n\n")

		sb.WriteString("## Success Criteria\n\n")
		sb.WriteString("Task is complete when `statistics.failed` is 0, OR every remaining failure is explained to the user.\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide for generating TypeScript types from API endpoints",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
