package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/usestring/apitypes/internal/typegen"
)

// Run option limits.
const (
	MinConcurrency = 1
	MaxConcurrency = 10
	MinTimeout     = 1
	MaxTimeout     = 300
)

// Defaults for a run.
const (
	DefaultOutputDir   = "./types"
	DefaultConcurrency = 3
	DefaultTimeout     = 30
	DefaultRetries     = 2
	DefaultRetryDelay  = time.Second
	DefaultCacheItems  = 256
)

// Options configures a generation run.
type Options struct {
	OutputDir      string
	Concurrency    int
	TimeoutSeconds int
	Retries        int
	RetryDelay     time.Duration
	Format         string // name or alias, resolved by typegen.ParseFormat
	RuntimeCheck   bool
	EmitJSONSchema bool
	// CacheMaxItems bounds the response cache; 0 disables caching but
	// identical in-flight requests are still deduplicated.
	CacheMaxItems int
}

// DefaultOptions returns the default run options.
func DefaultOptions() Options {
	return Options{
		OutputDir:      DefaultOutputDir,
		Concurrency:    DefaultConcurrency,
		TimeoutSeconds: DefaultTimeout,
		Retries:        DefaultRetries,
		RetryDelay:     DefaultRetryDelay,
		Format:         string(typegen.DefaultFormat),
		CacheMaxItems:  DefaultCacheItems,
	}
}

// OptionsError reports an invalid run option. It is fatal for the run.
type OptionsError struct {
	Field   string
	Message string
	Err     error
}

func (e *OptionsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *OptionsError) Unwrap() error {
	return e.Err
}

// Validate checks every option and resolves the output format.
func (o Options) Validate() (typegen.Format, error) {
	format, err := typegen.ParseFormat(o.Format)
	if err != nil {
		return "", &OptionsError{Field: "format", Err: err}
	}
	if strings.TrimSpace(o.OutputDir) == "" {
		return "", &OptionsError{Field: "output directory", Message: "must not be empty"}
	}
	if o.Concurrency < MinConcurrency || o.Concurrency > MaxConcurrency {
		return "", &OptionsError{
			Field:   "concurrency",
			Message: fmt.Sprintf("%d is outside %d-%d", o.Concurrency, MinConcurrency, MaxConcurrency),
		}
	}
	if o.TimeoutSeconds < MinTimeout || o.TimeoutSeconds > MaxTimeout {
		return "", &OptionsError{
			Field:   "timeout",
			Message: fmt.Sprintf("%d seconds is outside %d-%d", o.TimeoutSeconds, MinTimeout, MaxTimeout),
		}
	}
	if o.Retries < 0 {
		return "", &OptionsError{Field: "retries", Message: "must not be negative"}
	}
	if o.RetryDelay < 0 {
		return "", &OptionsError{Field: "retry delay", Message: "must not be negative"}
	}
	if o.CacheMaxItems < 0 {
		return "", &OptionsError{Field: "cache size", Message: "must not be negative"}
	}
	return format, nil
}
