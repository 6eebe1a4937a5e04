package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/apitypes/pkg/types"
)

func specs(n int) []types.EndpointSpec {
	out := make([]types.EndpointSpec, n)
	for i := range out {
		out[i] = types.EndpointSpec{Name: fmt.Sprintf("E%d", i), URL: fmt.Sprintf("https://x.test/%d", i)}
	}
	return out
}

func TestRun_Empty(t *testing.T) {
	out := Run(context.Background(), FetcherFunc(func(context.Context, types.EndpointSpec) (string, error) {
		t.Fatal("fetch should not be called")
		return "", nil
	}), nil, Options{Concurrency: 3})
	assert.Empty(t, out)
}

func TestRun_CompletenessWithRandomOutcomes(t *testing.T) {
	for _, n := range []int{1, 2, 7, 25} {
		for _, limit := range []int{1, 3, 10} {
			t.Run(fmt.Sprintf("n=%d/limit=%d", n, limit), func(t *testing.T) {
				in := specs(n)
				f := FetcherFunc(func(_ context.Context, spec types.EndpointSpec) (string, error) {
					time.Sleep(time.Duration(rand.IntN(3)) * time.Millisecond)
					if rand.IntN(3) == 0 {
						return "", errors.New("random failure")
					}
					return `{"name":"` + spec.Name + `"}`, nil
				})

				out := Run(context.Background(), f, in, Options{Concurrency: limit, Retries: 1})
				require.Len(t, out, n)
				for i, o := range out {
					assert.Equal(t, i, o.Index)
					assert.Equal(t, in[i].Name, o.Spec.Name)
					if o.OK() {
						assert.Equal(t, `{"name":"`+in[i].Name+`"}`, o.Payload)
					}
				}
			})
		}
	}
}

func TestRun_RetryTermination(t *testing.T) {
	for _, retries := range []int{0, 1, 2, 4} {
		t.Run(fmt.Sprintf("retries=%d", retries), func(t *testing.T) {
			var calls atomic.Int32
			f := FetcherFunc(func(context.Context, types.EndpointSpec) (string, error) {
				calls.Add(1)
				return "", errors.New("always down")
			})

			out := Run(context.Background(), f, specs(1), Options{Concurrency: 1, Retries: retries})
			require.Len(t, out, 1)
			assert.False(t, out[0].OK())
			assert.EqualError(t, out[0].Err, "always down")
			assert.Equal(t, retries+1, out[0].Attempts)
			assert.Equal(t, int32(retries+1), calls.Load())
		})
	}
}

func TestRun_SucceedsOnRetry(t *testing.T) {
	var calls atomic.Int32
	f := FetcherFunc(func(context.Context, types.EndpointSpec) (string, error) {
		if calls.Add(1) < 3 {
			return "", errors.New("flaky")
		}
		return `{}`, nil
	})

	var retried []int
	out := Run(context.Background(), f, specs(1), Options{
		Concurrency: 1,
		Retries:     2,
		RetryDelay:  time.Millisecond,
		OnRetry: func(_ types.EndpointSpec, attempt int, _ error) {
			retried = append(retried, attempt)
		},
	})

	require.True(t, out[0].OK())
	assert.Equal(t, 3, out[0].Attempts)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestRun_RespectsConcurrencyLimit(t *testing.T) {
	const limit = 3
	var inFlight, peak atomic.Int32

	f := FetcherFunc(func(context.Context, types.EndpointSpec) (string, error) {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return `{}`, nil
	})

	out := Run(context.Background(), f, specs(20), Options{Concurrency: limit})
	require.Len(t, out, 20)
	assert.LessOrEqual(t, peak.Load(), int32(limit))
	assert.Positive(t, peak.Load())
}

func TestRun_WaitingRetryDoesNotHoldSlot(t *testing.T) {
	var mu sync.Mutex
	var order []string

	f := FetcherFunc(func(_ context.Context, spec types.EndpointSpec) (string, error) {
		mu.Lock()
		order = append(order, spec.Name)
		mu.Unlock()
		if spec.Name == "E0" {
			return "", errors.New("down")
		}
		return `{}`, nil
	})

	out := Run(context.Background(), f, specs(2), Options{
		Concurrency: 1,
		Retries:     1,
		RetryDelay:  100 * time.Millisecond,
	})

	require.Len(t, out, 2)
	assert.False(t, out[0].OK())
	assert.True(t, out[1].OK())
	// E1 must run while E0 waits out its delay.
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 3)
	assert.Equal(t, "E0", order[2])
}

func TestRun_FailureDoesNotCancelSiblings(t *testing.T) {
	f := FetcherFunc(func(ctx context.Context, spec types.EndpointSpec) (string, error) {
		if spec.Name == "E0" {
			return "", errors.New("boom")
		}
		time.Sleep(10 * time.Millisecond)
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return `{}`, nil
	})

	out := Run(context.Background(), f, specs(5), Options{Concurrency: 5})
	assert.False(t, out[0].OK())
	for _, o := range out[1:] {
		assert.True(t, o.OK(), o.Spec.Name)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := Run(ctx, FetcherFunc(func(context.Context, types.EndpointSpec) (string, error) {
		return `{}`, nil
	}), specs(4), Options{Concurrency: 2})

	require.Len(t, out, 4)
	for _, o := range out {
		assert.False(t, o.OK())
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
}

func TestRun_CancelDuringRetryDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := FetcherFunc(func(context.Context, types.EndpointSpec) (string, error) {
		return "", errors.New("down")
	})

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	out := Run(ctx, f, specs(1), Options{Concurrency: 1, Retries: 3, RetryDelay: 10 * time.Second})
	assert.Less(t, time.Since(start), 5*time.Second)
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].Attempts)
	assert.EqualError(t, out[0].Err, "down")
}
