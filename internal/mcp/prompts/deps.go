// Package prompts contains MCP prompt implementations for apitypes.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	OutputDir string
	Format    string
}
