// Package pipeline runs endpoint specs through validation, fetching, type
// emission and persistence, and reports statistics for the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/usestring/apitypes/internal/cache"
	"github.com/usestring/apitypes/internal/endpoint"
	"github.com/usestring/apitypes/internal/notify"
	"github.com/usestring/apitypes/internal/output"
	"github.com/usestring/apitypes/internal/scheduler"
	"github.com/usestring/apitypes/internal/typegen"
	"github.com/usestring/apitypes/pkg/client"
	"github.com/usestring/apitypes/pkg/types"
)

// Generator runs the generation pipeline with fixed options.
type Generator struct {
	opts     Options
	format   typegen.Format
	fetcher  scheduler.Fetcher
	http     *http.Client
	engine   typegen.Engine
	notifier notify.Notifier
	writer   *output.Writer
}

// Option configures a Generator.
type Option func(*Generator)

// WithFetcher replaces the HTTP fetcher. The fetcher is used as-is, without
// the response cache.
func WithFetcher(f scheduler.Fetcher) Option {
	return func(g *Generator) {
		g.fetcher = f
	}
}

// WithHTTPClient sets the HTTP client behind the default fetcher. The run's
// timeout and response cache still apply.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Generator) {
		g.http = c
	}
}

// WithEngine replaces the type inference engine.
func WithEngine(e typegen.Engine) Option {
	return func(g *Generator) {
		g.engine = e
	}
}

// WithNotifier sets the event receiver.
func WithNotifier(n notify.Notifier) Option {
	return func(g *Generator) {
		g.notifier = n
	}
}

// New validates opts and creates a Generator. Option errors are returned
// here, before any network or filesystem work.
func New(opts Options, options ...Option) (*Generator, error) {
	format, err := opts.Validate()
	if err != nil {
		return nil, err
	}
	writer, err := output.NewWriter(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		opts:     opts,
		format:   format,
		engine:   typegen.NewEngine(),
		notifier: notify.NewLogger(nil),
		writer:   writer,
	}
	for _, o := range options {
		o(g)
	}

	if g.fetcher == nil {
		var rc *cache.ResponseCache
		if opts.CacheMaxItems > 0 {
			rc, err = cache.NewResponseCache(opts.CacheMaxItems)
			if err != nil {
				return nil, fmt.Errorf("creating response cache: %w", err)
			}
		}
		clientOpts := []client.Option{client.WithDefaultTimeout(time.Duration(opts.TimeoutSeconds) * time.Second)}
		if g.http != nil {
			clientOpts = append(clientOpts, client.WithHTTPClient(g.http))
		}
		g.fetcher = cache.NewFetcher(client.New(clientOpts...), rc)
	}
	return g, nil
}

// Format returns the resolved output format.
func (g *Generator) Format() typegen.Format {
	return g.format
}

// OutputDir returns the absolute output directory.
func (g *Generator) OutputDir() string {
	return g.writer.Dir()
}

// Run processes specs and returns statistics covering every spec. Per-endpoint
// failures are recorded in the statistics; the returned error is reserved for
// run-level failures such as an unwritable output directory.
func (g *Generator) Run(ctx context.Context, specs []types.EndpointSpec) (*types.GenerationStatistics, error) {
	start := time.Now()
	runID := uuid.NewString()

	g.notifier.Info("starting type generation",
		slog.String("run_id", runID),
		slog.Int("endpoints", len(specs)),
		slog.String("format", string(g.format)),
		slog.String("output", g.writer.Dir()),
	)

	if err := g.writer.EnsureDir(); err != nil {
		g.notifier.Error("cannot prepare output directory", slog.String("error", err.Error()))
		return nil, err
	}

	results := make([]types.GenerationResult, 0, len(specs))

	accepted, rejected := endpoint.Normalize(specs)
	for _, r := range rejected {
		name := displayName(r.Spec.Name, r.Index)
		results = append(results, failed(r.Index, name, types.StageValidate, "validation failed: "+r.Err.Error()))
		g.notifier.Error("endpoint rejected",
			slog.String("endpoint", name),
			slog.String("error", r.Err.Error()),
		)
	}

	fetchSpecs := make([]types.EndpointSpec, len(accepted))
	for i, a := range accepted {
		fetchSpecs[i] = a.Spec
	}

	var items []typegen.Item
	if len(fetchSpecs) > 0 {
		g.notifier.Info("fetching samples",
			slog.Int("endpoints", len(fetchSpecs)),
			slog.Int("concurrency", g.opts.Concurrency),
		)
		outcomes := scheduler.Run(ctx, g.fetcher, fetchSpecs, scheduler.Options{
			Concurrency: g.opts.Concurrency,
			Retries:     g.opts.Retries,
			RetryDelay:  g.opts.RetryDelay,
			OnRetry: func(spec types.EndpointSpec, attempt int, err error) {
				g.notifier.Warning("fetch failed, retrying",
					slog.String("endpoint", spec.Name),
					slog.Int("attempt", attempt),
					slog.String("error", fetchCause(err)),
				)
			},
		})

		// Outcomes are positional over fetchSpecs; map back through accepted
		// to the original input index.
		for _, o := range outcomes {
			index := accepted[o.Index].Index
			if !o.OK() {
				cause := fetchCause(o.Err)
				results = append(results, failed(index, o.Spec.Name, types.StageFetch, "fetch failed: "+cause))
				g.notifier.Error("fetch failed",
					slog.String("endpoint", o.Spec.Name),
					slog.Int("attempts", o.Attempts),
					slog.String("error", cause),
				)
				continue
			}
			items = append(items, typegen.Item{Index: index, Name: o.Spec.Name, Sample: o.Payload})
		}
	}

	emitted, emitErr := typegen.Emit(g.engine, items, g.format, typegen.RenderOptions{
		RuntimeCheck: g.opts.RuntimeCheck,
		JSONSchema:   g.opts.EmitJSONSchema,
	})
	if emitErr != nil {
		for _, e := range emitErr.Errors {
			results = append(results, failed(e.Index, e.Name, types.StageEmit, "type generation failed: "+e.Err.Error()))
			g.notifier.Error("type generation failed",
				slog.String("endpoint", e.Name),
				slog.String("error", e.Err.Error()),
			)
		}
	}

	var files, names []string
	for _, em := range emitted {
		path, err := g.writer.WriteArtifact(em.Name, em.Source)
		if err != nil {
			g.notifier.Error("write failed", slog.String("endpoint", em.Name), slog.String("error", err.Error()))
			return nil, err
		}
		files = append(files, path)
		if em.Schema != "" {
			schemaPath, err := g.writer.WriteSchema(em.Name, em.Schema)
			if err != nil {
				g.notifier.Error("write failed", slog.String("endpoint", em.Name), slog.String("error", err.Error()))
				return nil, err
			}
			files = append(files, schemaPath)
		}
		names = append(names, em.Name)
		results = append(results, types.GenerationResult{
			Index:    em.Index,
			Name:     em.Name,
			Success:  true,
			FilePath: path,
			Stage:    types.StageWrite,
		})
		g.notifier.Success("generated types",
			slog.String("endpoint", em.Name),
			slog.String("file", path),
		)
	}

	aux, err := g.writer.WriteAuxiliary(names, g.format)
	if err != nil {
		g.notifier.Error("write failed", slog.String("error", err.Error()))
		return nil, err
	}
	files = append(files, aux...)

	stats, err := Reduce(len(specs), results)
	if err != nil {
		return nil, fmt.Errorf("reducing results: %w", err)
	}
	stats.RunID = runID
	stats.OutputDir = g.writer.Dir()
	stats.Files = files
	stats.Duration = time.Since(start)
	stats.DurationMs = stats.Duration.Milliseconds()

	g.report(stats)
	return stats, nil
}

func (g *Generator) report(stats *types.GenerationStatistics) {
	summary := fmt.Sprintf("generated %d of %d endpoint types", stats.Successful, stats.Total)
	attrs := []slog.Attr{
		slog.String("run_id", stats.RunID),
		slog.Int("successful", stats.Successful),
		slog.Int("failed", stats.Failed),
		slog.String("output", stats.OutputDir),
		slog.Int64("duration_ms", stats.DurationMs),
	}
	switch {
	case stats.Failed == 0:
		g.notifier.Success(summary, attrs...)
	case stats.Successful == 0:
		g.notifier.Error(summary, attrs...)
	default:
		g.notifier.Warning(summary, attrs...)
	}
}

func failed(index int, name string, stage types.Stage, msg string) types.GenerationResult {
	return types.GenerationResult{
		Index: index,
		Name:  name,
		Error: msg,
		Stage: stage,
	}
}

// fetchCause strips the endpoint-name prefix a FetchError adds, since
// results and statistics already carry the name.
func fetchCause(err error) string {
	var fe *client.FetchError
	if errors.As(err, &fe) {
		return fe.Err.Error()
	}
	return err.Error()
}

// displayName is the name reported for a spec that never got a normalized name.
func displayName(raw string, index int) string {
	if name := strings.TrimSpace(raw); name != "" {
		return name
	}
	return fmt.Sprintf("endpoint #%d", index+1)
}
