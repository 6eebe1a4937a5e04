package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: apitypes_generate
	AddTool(srv, &sdkmcp.Tool{
		Name:        "apitypes_generate",
		Description: "Fetch sample JSON from each endpoint and write TypeScript types to the output directory: {Name}.ts per endpoint plus index.ts and usage-example.ts. Returns statistics {total, successful, failed, errors, output_dir, files, results}. Endpoints that fail validation, fetching or generation are listed in statistics.errors and do not stop the others. Use apitypes_preview first when unsure what an endpoint returns.",
	}, ToolGenerate(d))

	// Tool 2: apitypes_preview
	AddTool(srv, &sdkmcp.Tool{
		Name:        "apitypes_preview",
		Description: "Fetch one endpoint and return the generated type source without writing files. Set include_sample to see the fetched JSON and include_schema for the inferred JSON Schema. Use this to check names, select expressions and headers before apitypes_generate.",
	}, ToolPreview(d))

	// Tool 3: apitypes_formats
	AddTool(srv, &sdkmcp.Tool{
		Name:        "apitypes_formats",
		Description: "List the supported output formats with their accepted aliases",
	}, ToolFormats())
}
