// Package mcpsrv provides an extensible MCP server for apitypes.
//
// This package exposes a high-level API for creating and running an MCP server
// with the builtin apitypes tools, prompts, and resources. Users can extend the
// server with custom tools, prompts, and resources using functional options.
//
// # Basic Usage
//
// Create a server with configuration from the environment:
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Custom tools that need the generation pipeline receive [Deps]:
//
//	mcpsrv.WithDepsTool(
//	    &mcp.Tool{Name: "generate_from_config", Description: "Generate types from a config file"},
//	    func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	        return func(ctx context.Context, req *mcp.CallToolRequest, in MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	            specs, err := d.LoadEndpoints(in.Path)
//	            if err != nil {
//	                return nil, MyOutput{}, err
//	            }
//	            stats, err := d.Generate(ctx, specs, d.RunOptions())
//	            ...
//	        }
//	    },
//	)
//
// # Configuration
//
// Run defaults come from APITYPES_* environment variables (see internal/config).
// Logging can be overridden:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/apitypes-mcp.log"),
//	)
package mcpsrv
