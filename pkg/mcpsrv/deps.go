package mcpsrv

import (
	"context"

	"github.com/usestring/apitypes/internal/config"
	"github.com/usestring/apitypes/internal/loader"
	"github.com/usestring/apitypes/internal/mcp/tools"
	"github.com/usestring/apitypes/internal/pipeline"
	"github.com/usestring/apitypes/pkg/types"
)

// Deps gives custom tools access to the same pipeline the builtin tools use.
type Deps struct {
	Config *config.Config

	tools *tools.Deps
}

// RunOptions returns the configured run defaults. Callers may adjust the
// copy before passing it to Generate.
func (d *Deps) RunOptions() pipeline.Options {
	return d.Config.PipelineOptions()
}

// Generate runs the generation pipeline for specs with opts.
func (d *Deps) Generate(ctx context.Context, specs []types.EndpointSpec, opts pipeline.Options) (*types.GenerationStatistics, error) {
	gen, err := pipeline.New(opts, d.tools.PipelineOptions()...)
	if err != nil {
		return nil, err
	}
	return gen.Run(ctx, specs)
}

// LoadEndpoints reads endpoint specs from a JSON or YAML config file.
func (d *Deps) LoadEndpoints(path string) ([]types.EndpointSpec, error) {
	return loader.Load(path)
}
