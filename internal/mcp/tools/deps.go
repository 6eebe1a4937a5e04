// Package tools contains MCP tool implementations for apitypes.
package tools

import (
	"net/http"
	"time"

	"github.com/usestring/apitypes/internal/config"
	"github.com/usestring/apitypes/internal/notify"
	"github.com/usestring/apitypes/internal/pipeline"
	"github.com/usestring/apitypes/internal/scheduler"
	"github.com/usestring/apitypes/internal/typegen"
	"github.com/usestring/apitypes/pkg/client"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config *config.Config

	// Fetcher overrides the HTTP client for every tool call. When nil each
	// call builds its own client, so no responses are shared between calls.
	Fetcher scheduler.Fetcher
	// HTTPClient is the transport for per-call clients when Fetcher is nil.
	// Each call still applies its own timeout.
	HTTPClient *http.Client
	// Engine overrides the type inference engine.
	Engine typegen.Engine
	// Notifier receives pipeline events. Defaults to the slog notifier.
	Notifier notify.Notifier
}

// NewDeps returns dependencies backed by cfg.
func NewDeps(cfg *config.Config) *Deps {
	return &Deps{Config: cfg}
}

func (d *Deps) engine() typegen.Engine {
	if d.Engine != nil {
		return d.Engine
	}
	return typegen.NewEngine()
}

func (d *Deps) fetcher(timeoutSeconds int) scheduler.Fetcher {
	if d.Fetcher != nil {
		return d.Fetcher
	}
	opts := []client.Option{client.WithDefaultTimeout(time.Duration(timeoutSeconds) * time.Second)}
	if d.HTTPClient != nil {
		opts = append(opts, client.WithHTTPClient(d.HTTPClient))
	}
	return client.New(opts...)
}

// PipelineOptions returns the generator options for the configured overrides.
func (d *Deps) PipelineOptions() []pipeline.Option {
	var opts []pipeline.Option
	if d.Fetcher != nil {
		opts = append(opts, pipeline.WithFetcher(d.Fetcher))
	}
	if d.HTTPClient != nil {
		opts = append(opts, pipeline.WithHTTPClient(d.HTTPClient))
	}
	if d.Engine != nil {
		opts = append(opts, pipeline.WithEngine(d.Engine))
	}
	if d.Notifier != nil {
		opts = append(opts, pipeline.WithNotifier(d.Notifier))
	}
	return opts
}
