package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "generate_types",
		Description: "RECOMMENDED: Generate TypeScript types for a set of API endpoints. Walks through previewing each endpoint, fixing names and selections, then writing all types in one run.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "endpoints",
				Description: "Endpoints to cover, e.g. 'GET https://api.example.com/users/1 as User'",
				Required:    false,
			},
			{
				Name:        "format",
				Description: "Output format: typescript, typescript-zod or typescript-effect-schema",
				Required:    false,
			},
		},
	}, HandleGenerateTypes(cfg))
}
