package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/apitypes/internal/notify"
	"github.com/usestring/apitypes/internal/output"
	"github.com/usestring/apitypes/internal/scheduler"
	"github.com/usestring/apitypes/internal/typegen"
	"github.com/usestring/apitypes/pkg/types"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	opts := DefaultOptions()
	opts.OutputDir = filepath.Join(t.TempDir(), "types")
	opts.RetryDelay = time.Millisecond
	return opts
}

func newAPIServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/1":
			_, _ = io.WriteString(w, `{"id": 1, "name": "Leanne", "email": "leanne@example.test"}`)
		case "/users":
			_, _ = io.WriteString(w, `[{"id": 1}, {"id": 2}, {"id": 3}, {"id": 4}, {"id": 5}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error": "not found"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func assertStatsInvariant(t *testing.T, stats *types.GenerationStatistics) {
	t.Helper()
	assert.Equal(t, stats.Total, stats.Successful+stats.Failed)
	assert.Len(t, stats.Errors, stats.Failed)
	assert.Len(t, stats.Results, stats.Total)
}

func TestRun_ValidAndInvalidName(t *testing.T) {
	var hits atomic.Int32
	srv := newAPIServer(t, &hits)

	opts := testOptions(t)
	opts.Concurrency = 2
	opts.Retries = 0

	rec := &notify.Recorder{}
	g, err := New(opts, WithNotifier(rec))
	require.NoError(t, err)

	stats, err := g.Run(context.Background(), []types.EndpointSpec{
		{Name: "User", URL: srv.URL + "/users/1"},
		{Name: "Bad Name!", URL: srv.URL + "/users/1"},
	})
	require.NoError(t, err)
	assertStatsInvariant(t, stats)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Successful)
	assert.Equal(t, 1, stats.Failed)
	require.Len(t, stats.Errors, 1)
	assert.True(t, strings.HasPrefix(stats.Errors[0], "Bad Name!: validation failed:"), stats.Errors[0])

	assert.Equal(t, types.StageWrite, stats.Results[0].Stage)
	assert.True(t, stats.Results[0].Success)
	assert.Equal(t, types.StageValidate, stats.Results[1].Stage)

	// The invalid spec never reached the network.
	assert.Equal(t, int32(1), hits.Load())

	userTS, err := os.ReadFile(filepath.Join(stats.OutputDir, "User.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(userTS), "export interface User {")
	assert.FileExists(t, filepath.Join(stats.OutputDir, output.IndexFile))
	assert.FileExists(t, filepath.Join(stats.OutputDir, output.UsageExampleFile))

	assert.True(t, filepath.IsAbs(stats.OutputDir))
	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, 1, rec.Count(notify.LevelError))

	events := rec.Events()
	summary := events[len(events)-1]
	assert.Equal(t, notify.LevelWarning, summary.Level)
	assert.Equal(t, "generated 1 of 2 endpoint types", summary.Msg)
}

func TestRun_FetchFailureIsRetriedAndReported(t *testing.T) {
	var hits atomic.Int32
	srv := newAPIServer(t, &hits)

	opts := testOptions(t)
	opts.Retries = 2

	rec := &notify.Recorder{}
	g, err := New(opts, WithNotifier(rec))
	require.NoError(t, err)

	stats, err := g.Run(context.Background(), []types.EndpointSpec{
		{Name: "Ghost", URL: srv.URL + "/missing"},
		{Name: "Users", URL: srv.URL + "/users", SampleOnly: true},
	})
	require.NoError(t, err)
	assertStatsInvariant(t, stats)

	assert.Equal(t, 1, stats.Successful)
	assert.Equal(t, []string{"Ghost: fetch failed: HTTP 404: Not Found"}, stats.Errors)
	assert.Equal(t, types.StageFetch, stats.Results[0].Stage)
	// Three attempts for Ghost, one for Users.
	assert.Equal(t, int32(4), hits.Load())
	// Two retry warnings plus the partial-failure summary.
	assert.Equal(t, 3, rec.Count(notify.LevelWarning))

	usersTS, err := os.ReadFile(filepath.Join(stats.OutputDir, "Users.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(usersTS), "export type Users = User[];")
}

type failingEngine struct {
	typegen.Engine
	fail string
}

func (e failingEngine) Generate(name string, samples []string, format typegen.Format, opts typegen.RenderOptions) (string, error) {
	if name == e.fail {
		return "", errors.New("cannot infer")
	}
	return e.Engine.Generate(name, samples, format, opts)
}

func staticFetcher(payload string) scheduler.Fetcher {
	return scheduler.FetcherFunc(func(context.Context, types.EndpointSpec) (string, error) {
		return payload, nil
	})
}

func TestRun_EmissionFailureDoesNotStopOthers(t *testing.T) {
	g, err := New(testOptions(t),
		WithFetcher(staticFetcher(`{"id": 1}`)),
		WithEngine(failingEngine{Engine: typegen.NewEngine(), fail: "Post"}),
		WithNotifier(notify.Discard{}),
	)
	require.NoError(t, err)

	stats, err := g.Run(context.Background(), []types.EndpointSpec{
		{Name: "User", URL: "https://api.example.test/users/1"},
		{Name: "Post", URL: "https://api.example.test/posts/1"},
		{Name: "Comment", URL: "https://api.example.test/comments/1"},
	})
	require.NoError(t, err)
	assertStatsInvariant(t, stats)

	assert.Equal(t, 2, stats.Successful)
	assert.Equal(t, []string{"Post: type generation failed: cannot infer"}, stats.Errors)
	assert.Equal(t, types.StageEmit, stats.Results[1].Stage)

	index, err := os.ReadFile(filepath.Join(stats.OutputDir, output.IndexFile))
	require.NoError(t, err)
	assert.Contains(t, string(index), "UserConvert")
	assert.Contains(t, string(index), "CommentConvert")
	assert.NotContains(t, string(index), "PostConvert")
}

func TestRun_DuplicateNormalizedNames(t *testing.T) {
	g, err := New(testOptions(t), WithFetcher(staticFetcher(`{}`)), WithNotifier(notify.Discard{}))
	require.NoError(t, err)

	stats, err := g.Run(context.Background(), []types.EndpointSpec{
		{Name: "user profile", URL: "https://api.example.test/a"},
		{Name: "user-profile", URL: "https://api.example.test/b"},
	})
	require.NoError(t, err)
	assertStatsInvariant(t, stats)

	assert.Equal(t, 1, stats.Successful)
	assert.Equal(t, "UserProfile", stats.Results[0].Name)
	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0], "already used by endpoint #1")
}

func TestRun_NoSuccessesWritesNoAuxiliaryFiles(t *testing.T) {
	g, err := New(testOptions(t), WithNotifier(notify.Discard{}))
	require.NoError(t, err)

	stats, err := g.Run(context.Background(), []types.EndpointSpec{{Name: "", URL: "not a url"}})
	require.NoError(t, err)
	assertStatsInvariant(t, stats)

	assert.Equal(t, 0, stats.Successful)
	assert.Equal(t, "endpoint #1", stats.Results[0].Name)
	assert.NoFileExists(t, filepath.Join(stats.OutputDir, output.IndexFile))
}

func TestRun_EmptyInput(t *testing.T) {
	g, err := New(testOptions(t), WithNotifier(notify.Discard{}))
	require.NoError(t, err)

	stats, err := g.Run(context.Background(), nil)
	require.NoError(t, err)
	assertStatsInvariant(t, stats)
	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.Errors)
}

func TestRun_JSONSchemaAndFormat(t *testing.T) {
	opts := testOptions(t)
	opts.Format = "zod"
	opts.EmitJSONSchema = true

	g, err := New(opts, WithFetcher(staticFetcher(`{"id": 1}`)), WithNotifier(notify.Discard{}))
	require.NoError(t, err)
	assert.Equal(t, typegen.FormatZod, g.Format())

	stats, err := g.Run(context.Background(), []types.EndpointSpec{{Name: "User", URL: "https://api.example.test/u"}})
	require.NoError(t, err)

	src, err := os.ReadFile(filepath.Join(stats.OutputDir, "User.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "export const UserSchema = z.object({")
	assert.FileExists(t, filepath.Join(stats.OutputDir, "User.schema.json"))
	assert.Len(t, stats.Files, 4)
}

func TestRun_PersistenceErrorIsFatal(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	var calls atomic.Int32
	opts := testOptions(t)
	opts.OutputDir = filepath.Join(blocker, "types")

	g, err := New(opts,
		WithFetcher(scheduler.FetcherFunc(func(context.Context, types.EndpointSpec) (string, error) {
			calls.Add(1)
			return `{}`, nil
		})),
		WithNotifier(notify.Discard{}),
	)
	require.NoError(t, err)

	_, err = g.Run(context.Background(), []types.EndpointSpec{{Name: "User", URL: "https://api.example.test/u"}})
	var pe *output.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, int32(0), calls.Load())
}

func TestNew_InvalidOptionsFailBeforeFetch(t *testing.T) {
	var calls atomic.Int32
	fetcher := scheduler.FetcherFunc(func(context.Context, types.EndpointSpec) (string, error) {
		calls.Add(1)
		return `{}`, nil
	})

	opts := testOptions(t)
	opts.Format = "unknown-format"

	_, err := New(opts, WithFetcher(fetcher))
	require.Error(t, err)

	var fe *typegen.FormatError
	assert.True(t, errors.As(err, &fe))
	var oe *OptionsError
	assert.True(t, errors.As(err, &oe))
	assert.Equal(t, int32(0), calls.Load())
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		field  string
	}{
		{"defaults", func(*Options) {}, ""},
		{"concurrency low", func(o *Options) { o.Concurrency = 0 }, "concurrency"},
		{"concurrency high", func(o *Options) { o.Concurrency = 11 }, "concurrency"},
		{"concurrency max", func(o *Options) { o.Concurrency = 10 }, ""},
		{"timeout low", func(o *Options) { o.TimeoutSeconds = 0 }, "timeout"},
		{"timeout high", func(o *Options) { o.TimeoutSeconds = 301 }, "timeout"},
		{"timeout max", func(o *Options) { o.TimeoutSeconds = 300 }, ""},
		{"negative retries", func(o *Options) { o.Retries = -1 }, "retries"},
		{"negative delay", func(o *Options) { o.RetryDelay = -time.Second }, "retry delay"},
		{"empty output", func(o *Options) { o.OutputDir = "  " }, "output directory"},
		{"bad format", func(o *Options) { o.Format = "flow" }, "format"},
		{"alias format", func(o *Options) { o.Format = "effect" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			_, err := opts.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var oe *OptionsError
			require.True(t, errors.As(err, &oe))
			assert.Equal(t, tt.field, oe.Field)
		})
	}
}
