package tools

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/apitypes/internal/config"
	"github.com/usestring/apitypes/internal/notify"
	"github.com/usestring/apitypes/internal/output"
	"github.com/usestring/apitypes/internal/scheduler"
	"github.com/usestring/apitypes/internal/typegen"
	"github.com/usestring/apitypes/pkg/client"
	"github.com/usestring/apitypes/pkg/types"
)

const userSample = `{"id": 1, "name": "Leanne", "email": "leanne@example.com"}`

func testDeps(t *testing.T, fetch scheduler.FetcherFunc) *Deps {
	t.Helper()
	cfg := &config.Config{
		OutputDir:      t.TempDir(),
		Format:         string(typegen.DefaultFormat),
		Concurrency:    2,
		TimeoutSeconds: 5,
		Retries:        1,
		RetryDelay:     time.Millisecond,
		CacheMaxItems:  16,
	}
	return &Deps{
		Config:   cfg,
		Fetcher:  fetch,
		Notifier: notify.Discard{},
	}
}

func byURL(samples map[string]string) scheduler.FetcherFunc {
	return func(ctx context.Context, spec types.EndpointSpec) (string, error) {
		if s, ok := samples[spec.URL]; ok {
			return s, nil
		}
		return "", &client.FetchError{Name: spec.Name, Err: &client.HTTPError{StatusCode: 404, Status: "Not Found"}}
	}
}

func TestToolGenerate(t *testing.T) {
	d := testDeps(t, byURL(map[string]string{
		"https://api.example.com/users/1": userSample,
	}))

	_, out, err := ToolGenerate(d)(context.Background(), nil, GenerateInput{
		Endpoints: []EndpointInput{
			{Name: "user", URL: "https://api.example.com/users/1"},
			{Name: "Bad Name!", URL: "https://api.example.com/bad"},
			{Name: "Ghost", URL: "https://api.example.com/ghost"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "typescript", out.Format)
	stats := out.Statistics
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Successful)
	assert.Equal(t, 2, stats.Failed)
	assert.Len(t, stats.Errors, 2)
	assert.Contains(t, out.Hint, "Some endpoints failed")

	_, err = os.Stat(filepath.Join(d.Config.OutputDir, "User.ts"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(d.Config.OutputDir, output.IndexFile))
	assert.NoError(t, err)
}

func TestToolGenerate_Overrides(t *testing.T) {
	d := testDeps(t, byURL(map[string]string{"https://api.example.com/users/1": userSample}))
	dir := filepath.Join(t.TempDir(), "zod")
	jsonSchema := true

	_, out, err := ToolGenerate(d)(context.Background(), nil, GenerateInput{
		Endpoints:  []EndpointInput{{Name: "User", URL: "https://api.example.com/users/1"}},
		OutputDir:  dir,
		Format:     "zod",
		JSONSchema: &jsonSchema,
	})
	require.NoError(t, err)

	assert.Equal(t, "typescript-zod", out.Format)
	assert.Equal(t, 1, out.Statistics.Successful)
	assert.Contains(t, out.Hint, "Import the generated types")

	src, err := os.ReadFile(filepath.Join(dir, "User.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "export const UserSchema = z.object({")
	_, err = os.Stat(filepath.Join(dir, "User.schema.json"))
	assert.NoError(t, err)
}

func TestToolGenerate_RetriesOverride(t *testing.T) {
	var calls atomic.Int32
	d := testDeps(t, func(ctx context.Context, spec types.EndpointSpec) (string, error) {
		calls.Add(1)
		return "", &client.FetchError{Name: spec.Name, Err: errors.New("connection refused")}
	})
	retries := 0

	_, out, err := ToolGenerate(d)(context.Background(), nil, GenerateInput{
		Endpoints: []EndpointInput{{Name: "Down", URL: "https://api.example.com/down"}},
		Retries:   &retries,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 0, out.Statistics.Successful)
	assert.Contains(t, out.Hint, "No types were generated")
}

func TestToolGenerate_InvalidInput(t *testing.T) {
	d := testDeps(t, byURL(nil))

	tests := []struct {
		name  string
		input GenerateInput
	}{
		{"no endpoints", GenerateInput{}},
		{"unknown format", GenerateInput{
			Endpoints: []EndpointInput{{Name: "User", URL: "https://api.example.com/users/1"}},
			Format:    "flow",
		}},
		{"concurrency out of range", GenerateInput{
			Endpoints:   []EndpointInput{{Name: "User", URL: "https://api.example.com/users/1"}},
			Concurrency: 11,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ToolGenerate(d)(context.Background(), nil, tt.input)
			require.Error(t, err)

			var coded *CodedError
			require.True(t, errors.As(err, &coded))
			assert.Equal(t, ErrCodeInvalidInput, coded.Code)
		})
	}
}

type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return http.DefaultTransport.RoundTrip(r)
}

func TestToolGenerate_TimeoutAppliesWithHTTPClient(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	transport := &countingTransport{}
	d := testDeps(t, nil)
	d.Fetcher = nil
	d.HTTPClient = &http.Client{Transport: transport}
	d.Config.TimeoutSeconds = 300

	retries := 0
	start := time.Now()
	_, out, err := ToolGenerate(d)(context.Background(), nil, GenerateInput{
		Endpoints: []EndpointInput{{Name: "slow", URL: srv.URL}},
		Timeout:   1,
		Retries:   &retries,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Statistics.Failed)
	assert.Less(t, time.Since(start), 10*time.Second, "per-call timeout must override the configured one")
	assert.EqualValues(t, 1, transport.calls.Load())
}

func TestToolPreview(t *testing.T) {
	d := testDeps(t, byURL(map[string]string{"https://api.example.com/users/1": userSample}))

	_, out, err := ToolPreview(d)(context.Background(), nil, PreviewInput{
		Endpoint:      EndpointInput{Name: "user profile", URL: "https://api.example.com/users/1"},
		IncludeSample: true,
		IncludeSchema: true,
		IncludeFields: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "UserProfile", out.Name)
	assert.Equal(t, "typescript", out.Format)
	assert.Equal(t, 1, out.Attempts)
	assert.Contains(t, out.Source, "export interface UserProfile {")
	assert.Equal(t, userSample, out.Sample)
	assert.Contains(t, out.Schema, `"title": "UserProfile"`)
	require.Len(t, out.Fields, 3)
	assert.Equal(t, "email", out.Fields[0].Path)
	assert.Equal(t, "email", out.Fields[0].Format)

	entries, err := os.ReadDir(d.Config.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "preview must not write files")
}

func TestToolPreview_Errors(t *testing.T) {
	d := testDeps(t, func(ctx context.Context, spec types.EndpointSpec) (string, error) {
		switch spec.Name {
		case "Missing":
			return "", &client.FetchError{Name: spec.Name, Err: &client.HTTPError{StatusCode: 404, Status: "Not Found"}}
		case "Slow":
			return "", &client.FetchError{Name: spec.Name, Err: context.DeadlineExceeded}
		case "Broken":
			return "", &client.FetchError{Name: spec.Name, Err: &client.HTTPError{StatusCode: 500, Status: "Internal Server Error"}}
		}
		return "not json", nil
	})

	tests := []struct {
		name     string
		endpoint EndpointInput
		format   string
		code     string
	}{
		{"invalid name", EndpointInput{Name: "123bad", URL: "https://api.example.com"}, "", ErrCodeInvalidInput},
		{"invalid url", EndpointInput{Name: "User", URL: "/users/1"}, "", ErrCodeInvalidInput},
		{"invalid format", EndpointInput{Name: "User", URL: "https://api.example.com"}, "flow", ErrCodeInvalidInput},
		{"not found", EndpointInput{Name: "Missing", URL: "https://api.example.com"}, "", ErrCodeNotFound},
		{"timeout", EndpointInput{Name: "Slow", URL: "https://api.example.com"}, "", ErrCodeTimeout},
		{"server error", EndpointInput{Name: "Broken", URL: "https://api.example.com"}, "", ErrCodeFetchError},
		{"bad sample", EndpointInput{Name: "Garbage", URL: "https://api.example.com"}, "", ErrCodeGeneration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ToolPreview(d)(context.Background(), nil, PreviewInput{Endpoint: tt.endpoint, Format: tt.format})
			require.Error(t, err)

			var coded *CodedError
			require.True(t, errors.As(err, &coded), "got %T: %v", err, err)
			assert.Equal(t, tt.code, coded.Code)
		})
	}
}

func TestToolFormats(t *testing.T) {
	_, out, err := ToolFormats()(context.Background(), nil, FormatsInput{})
	require.NoError(t, err)
	require.Len(t, out.Formats, 3)

	assert.Equal(t, "typescript", out.Formats[0].Name)
	assert.True(t, out.Formats[0].Default)
	assert.Equal(t, "typescript-zod", out.Formats[1].Name)
	assert.Contains(t, out.Formats[1].Aliases, "zod")
	assert.False(t, out.Formats[1].Default)
	assert.Equal(t, "typescript-effect-schema", out.Formats[2].Name)
	for _, f := range out.Formats {
		assert.NotEmpty(t, f.Description, f.Name)
	}
}

func TestWrapRunError(t *testing.T) {
	persist := &output.PersistenceError{Op: "write", Path: "/x/User.ts", Err: os.ErrPermission}

	var coded *CodedError
	require.True(t, errors.As(WrapRunError(persist), &coded))
	assert.Equal(t, ErrCodeWriteError, coded.Code)
	assert.ErrorIs(t, coded, os.ErrPermission)

	require.True(t, errors.As(WrapRunError(errors.New("boom")), &coded))
	assert.Equal(t, ErrCodeInternal, coded.Code)

	assert.NoError(t, WrapRunError(nil))
}
