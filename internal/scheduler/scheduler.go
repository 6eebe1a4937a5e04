// Package scheduler fetches a batch of endpoint specs with bounded
// concurrency and per-spec retry.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/usestring/apitypes/pkg/types"
)

// DefaultRetryDelay is the fixed pause between attempts for one spec.
const DefaultRetryDelay = time.Second

// Fetcher performs a single fetch attempt for a spec.
type Fetcher interface {
	Fetch(ctx context.Context, spec types.EndpointSpec) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, spec types.EndpointSpec) (string, error)

// Fetch calls f(ctx, spec).
func (f FetcherFunc) Fetch(ctx context.Context, spec types.EndpointSpec) (string, error) {
	return f(ctx, spec)
}

// Options configures a batch run.
type Options struct {
	// Concurrency is the maximum number of attempts in flight. Values < 1 mean 1.
	Concurrency int
	// Retries is the number of additional attempts after the first failure.
	Retries int
	// RetryDelay is the fixed wait between attempts. Zero means no wait.
	RetryDelay time.Duration
	// OnRetry, if set, is called before waiting out the delay for a failed attempt.
	OnRetry func(spec types.EndpointSpec, attempt int, err error)
}

// Run fetches every spec and returns exactly one outcome per spec, in input
// order. A failing spec never cancels the others. Slots are held only while
// an attempt is in flight, so a spec waiting to retry does not block others.
func Run(ctx context.Context, f Fetcher, specs []types.EndpointSpec, opts Options) []types.FetchOutcome {
	outcomes := make([]types.FetchOutcome, len(specs))
	if len(specs) == 0 {
		return outcomes
	}

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}
	retries := max(opts.Retries, 0)
	sem := semaphore.NewWeighted(int64(limit))

	// Plain Group: workers report through their slot and never return an
	// error, so nothing here cancels siblings.
	var g errgroup.Group
	for i, spec := range specs {
		g.Go(func() error {
			outcomes[i] = fetchWithRetry(ctx, f, sem, i, spec, retries, opts)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func fetchWithRetry(ctx context.Context, f Fetcher, sem *semaphore.Weighted, index int, spec types.EndpointSpec, retries int, opts Options) types.FetchOutcome {
	out := types.FetchOutcome{Index: index, Spec: spec}

	for attempt := 1; attempt <= retries+1; attempt++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			if out.Err == nil {
				out.Err = err
			}
			return out
		}
		start := time.Now()
		payload, err := f.Fetch(ctx, spec)
		sem.Release(1)
		out.Attempts = attempt

		if err == nil {
			out.Payload = payload
			out.Err = nil
			return out
		}
		out.Err = err

		slog.Debug("fetch attempt failed",
			slog.String("endpoint", spec.Name),
			slog.Int("attempt", attempt),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("error", err.Error()),
		)

		if attempt > retries {
			break
		}
		if opts.OnRetry != nil {
			opts.OnRetry(spec, attempt, err)
		}
		if !sleep(ctx, opts.RetryDelay) {
			return out
		}
	}
	return out
}

// sleep waits for d or until ctx is done. It reports whether the full delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
