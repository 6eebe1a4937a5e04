package types

import "time"

// Stage identifies where an endpoint's processing terminated.
type Stage string

// Pipeline stages in processing order.
const (
	StageValidate Stage = "validate"
	StageFetch    Stage = "fetch"
	StageEmit     Stage = "emit"
	StageWrite    Stage = "write"
)

// FetchOutcome is the terminal fetch result for one endpoint.
// Exactly one of Payload or Err is meaningful: Err == nil means success.
type FetchOutcome struct {
	Index    int // position of Spec in the scheduler input
	Spec     EndpointSpec
	Payload  string // pretty-printed JSON, already sampled
	Err      error
	Attempts int
}

// OK reports whether the fetch succeeded.
func (o FetchOutcome) OK() bool {
	return o.Err == nil
}

// GenerationResult is the per-endpoint result after the emission stage.
type GenerationResult struct {
	Index    int    `json:"-"`
	Name     string `json:"name"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	FilePath string `json:"file_path,omitempty"`
	Stage    Stage  `json:"stage"`
}

// GenerationStatistics is the run-level summary.
// Total == Successful + Failed and len(Errors) == Failed always hold.
type GenerationStatistics struct {
	RunID      string        `json:"run_id"`
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Errors     []string      `json:"errors,omitzero"`
	OutputDir  string        `json:"output_dir"`
	Files      []string      `json:"files,omitzero"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"duration_ms"`

	// Results holds one entry per input spec, in input order.
	Results []GenerationResult `json:"results,omitzero"`
}
