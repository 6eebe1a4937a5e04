package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/usestring/apitypes/internal/config"
	"github.com/usestring/apitypes/internal/loader"
	"github.com/usestring/apitypes/internal/logging"
	"github.com/usestring/apitypes/internal/pipeline"
	"github.com/usestring/apitypes/internal/typegen"
	"github.com/usestring/apitypes/pkg/client"
	"github.com/usestring/apitypes/pkg/mcpsrv"
	"github.com/usestring/apitypes/pkg/types"
)

// Exit codes.
const (
	exitOK      = 0
	exitError   = 1
	exitPartial = 2
)

const usage = `apitypes generates TypeScript types from live API responses.

Usage:
  apitypes <command> [flags]

Commands:
  generate   fetch endpoints and write types
  init       write an example endpoint config
  mcp        serve the generator over MCP (stdio)
  version    print the version

Run "apitypes <command> -h" for command flags.
`

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitError
	}

	cfg := config.Load()

	switch args[0] {
	case "generate", "gen":
		return runGenerate(ctx, cfg, args[1:], stdout, stderr)
	case "init":
		return runInit(args[1:], stdout, stderr)
	case "mcp":
		return runMCP(ctx, cfg, args[1:], stderr)
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "apitypes %s\n", client.Version)
		return exitOK
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return exitOK
	}

	fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
	return exitError
}

// stringFlag registers one value under a short and a long name.
func stringFlag(fs *flag.FlagSet, p *string, short, long, value, help string) {
	fs.StringVar(p, short, value, help)
	fs.StringVar(p, long, value, help+" (shorthand -"+short+")")
}

func intFlag(fs *flag.FlagSet, p *int, short, long string, value int, help string) {
	fs.IntVar(p, short, value, help)
	fs.IntVar(p, long, value, help+" (shorthand -"+short+")")
}

func boolFlag(fs *flag.FlagSet, p *bool, short, long string, value bool, help string) {
	fs.BoolVar(p, short, value, help)
	fs.BoolVar(p, long, value, help+" (shorthand -"+short+")")
}

func runGenerate(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	opts := cfg.PipelineOptions()
	var (
		configPath, name, url string
		quiet, verbose, asJSON bool
	)

	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	stringFlag(fs, &configPath, "c", "config", "", "endpoint config file (.json, .yaml, .yml)")
	stringFlag(fs, &opts.OutputDir, "o", "output", opts.OutputDir, "output directory")
	stringFlag(fs, &opts.Format, "f", "format", opts.Format, "output format: "+strings.Join(formatNames(), ", "))
	intFlag(fs, &opts.Concurrency, "p", "parallel", opts.Concurrency, "concurrent fetches (1-10)")
	intFlag(fs, &opts.TimeoutSeconds, "t", "timeout", opts.TimeoutSeconds, "request timeout in seconds (1-300)")
	boolFlag(fs, &opts.RuntimeCheck, "r", "runtime", opts.RuntimeCheck, "add runtime type guards to TypeScript output")
	boolFlag(fs, &quiet, "q", "quiet", false, "only print warnings and the summary")
	fs.IntVar(&opts.Retries, "retries", opts.Retries, "retries per endpoint after the first attempt")
	fs.DurationVar(&opts.RetryDelay, "retry-delay", opts.RetryDelay, "fixed delay between attempts")
	fs.BoolVar(&opts.EmitJSONSchema, "json-schema", opts.EmitJSONSchema, "also write {Name}.schema.json")
	fs.IntVar(&opts.CacheMaxItems, "cache-size", opts.CacheMaxItems, "response cache entries (0 disables caching)")
	fs.StringVar(&name, "name", "", "type name for a single endpoint (with --url)")
	fs.StringVar(&url, "url", "", "URL for a single endpoint (with --name)")
	fs.BoolVar(&verbose, "verbose", false, "log per-request details")
	fs.BoolVar(&asJSON, "json", false, "print statistics as JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	logCfg := cfg.Logging()
	logCfg.Output = stderr
	switch {
	case verbose:
		logCfg.Level = "debug"
	case quiet:
		logCfg.Level = "warn"
	}
	cleanup, err := logging.Setup(logCfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: setting up logging: %v\n", err)
		return exitError
	}
	defer cleanup()

	specs, err := endpointsFromFlags(configPath, name, url)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	gen, err := pipeline.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	stats, err := gen.Run(ctx, specs)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(stats); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitError
		}
	} else {
		printSummary(stdout, stats)
	}

	if stats.Failed > 0 {
		return exitPartial
	}
	return exitOK
}

// endpointsFromFlags reads specs from a config file, or builds a single spec
// from --name and --url.
func endpointsFromFlags(configPath, name, url string) ([]types.EndpointSpec, error) {
	switch {
	case configPath != "" && (name != "" || url != ""):
		return nil, errors.New("use either --config or --name/--url, not both")
	case configPath != "":
		return loader.Load(configPath)
	case name != "" && url != "":
		return []types.EndpointSpec{{Name: name, URL: url}}, nil
	case name != "" || url != "":
		return nil, errors.New("--name and --url must be given together")
	}
	return nil, errors.New("no endpoints: pass --config or --name and --url (run \"apitypes init\" for an example config)")
}

func printSummary(w io.Writer, stats *types.GenerationStatistics) {
	fmt.Fprintf(w, "Generated %d of %d types in %s (%s)\n",
		stats.Successful, stats.Total, stats.OutputDir, stats.Duration.Round(time.Millisecond))
	for _, e := range stats.Errors {
		fmt.Fprintf(w, "  failed: %s\n", e)
	}
}

func runInit(args []string, stdout, stderr io.Writer) int {
	var formatName, path string
	var force bool

	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	stringFlag(fs, &formatName, "f", "format", "json", "config encoding: json or yaml")
	stringFlag(fs, &path, "o", "output", "", "config path (default: api-config.<format>)")
	fs.BoolVar(&force, "force", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	format, err := loader.ParseFormat(formatName)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	if path == "" {
		path = loader.ExamplePath(format)
	}

	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(stderr, "error: %s already exists (use --force to overwrite)\n", path)
		return exitError
	}

	specs := loader.Example()
	data, err := loader.Encode(specs, format)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	if err := writeConfig(path, data); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	fmt.Fprintf(stdout, "Created %s with %d example endpoints.\n", path, len(specs))
	fmt.Fprintf(stdout, "Next: apitypes generate -c %s\n", path)
	return exitOK
}

// writeConfig saves an encoded config. The extension of path does not have
// to match the encoding chosen with -f.
func writeConfig(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func runMCP(ctx context.Context, cfg *config.Config, args []string, stderr io.Writer) int {
	var logLevel, logFile string

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	fs.StringVar(&logFile, "log-file", "", "log file path override")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	server, err := mcpsrv.NewServer(
		mcpsrv.WithConfig(cfg),
		mcpsrv.WithLogLevel(logLevel),
		mcpsrv.WithLogFile(logFile),
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	defer server.Close()

	slog.Info("starting apitypes MCP server on stdio")
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "error", err)
		return exitError
	}
	slog.Info("server stopped")
	return exitOK
}

func formatNames() []string {
	names := make([]string, len(typegen.Formats))
	for i, f := range typegen.Formats {
		names[i] = string(f)
	}
	return names
}
