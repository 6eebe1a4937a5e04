package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/usestring/apitypes/internal/query"
	"github.com/usestring/apitypes/pkg/contenttype"
	"github.com/usestring/apitypes/pkg/jsoncompact"
	"github.com/usestring/apitypes/pkg/types"
)

// Version is reported in the default User-Agent header.
const Version = "1.0.0"

// DefaultUserAgent identifies apitypes to the fetched APIs.
const DefaultUserAgent = "apitypes/" + Version

// DefaultTimeout applies when neither the endpoint nor the client sets one.
const DefaultTimeout = 30 * time.Second

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 32 << 20

// Client fetches sample payloads for endpoint specs.
type Client struct {
	httpClient     *http.Client
	userAgent      string
	defaultTimeout time.Duration
	maxBodyBytes   int64
	query          *query.Engine
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithDefaultTimeout sets the timeout used for specs without their own.
func WithDefaultTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.defaultTimeout = d
		}
	}
}

// WithMaxBodyBytes caps the response body size.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// WithQueryEngine shares a jq engine across clients.
func WithQueryEngine(e *query.Engine) Option {
	return func(c *Client) {
		c.query = e
	}
}

// New creates a new fetch client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:     http.DefaultClient,
		userAgent:      DefaultUserAgent,
		defaultTimeout: DefaultTimeout,
		maxBodyBytes:   DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.query == nil {
		c.query = query.NewEngine()
	}
	return c
}

// TimeoutFor returns the effective timeout for spec.
func (c *Client) TimeoutFor(spec types.EndpointSpec) time.Duration {
	if spec.Timeout > 0 {
		return time.Duration(spec.Timeout) * time.Second
	}
	return c.defaultTimeout
}

// Fetch performs one request for spec and returns the canonical JSON sample.
// Status codes >= 400 are failures. Every error is a *FetchError naming the
// endpoint.
func (c *Client) Fetch(ctx context.Context, spec types.EndpointSpec) (string, error) {
	payload, err := c.fetch(ctx, spec)
	if err != nil {
		return "", &FetchError{Name: spec.Name, Err: err}
	}
	return payload, nil
}

func (c *Client) fetch(ctx context.Context, spec types.EndpointSpec) (string, error) {
	start := time.Now()
	method := spec.EffectiveMethod()

	ctx, cancel := context.WithTimeout(ctx, c.TimeoutFor(spec))
	defer cancel()

	req, err := c.newRequest(ctx, method, spec)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("HTTP request failed",
			slog.String("endpoint", spec.Name),
			slog.String("method", method),
			slog.String("url", spec.URL),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		slog.Debug("HTTP request returned error",
			slog.String("endpoint", spec.Name),
			slog.String("method", method),
			slog.String("url", spec.URL),
			slog.Int("status", resp.StatusCode),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return "", &HTTPError{StatusCode: resp.StatusCode, Status: statusText(resp)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if int64(len(body)) > c.maxBodyBytes {
		return "", fmt.Errorf("response body exceeds %d bytes", c.maxBodyBytes)
	}

	payload, err := c.shape(body, resp.Header.Get("Content-Type"), spec)
	if err != nil {
		return "", err
	}

	slog.Debug("HTTP request completed",
		slog.String("endpoint", spec.Name),
		slog.String("method", method),
		slog.String("url", spec.URL),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return payload, nil
}

func (c *Client) newRequest(ctx context.Context, method string, spec types.EndpointSpec) (*http.Request, error) {
	var body io.Reader
	isJSONBody := false
	if spec.Body != nil {
		switch b := spec.Body.(type) {
		case string:
			body = strings.NewReader(b)
		case []byte:
			body = bytes.NewReader(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				return nil, fmt.Errorf("encoding body: %w", err)
			}
			body = bytes.NewReader(data)
			isJSONBody = true
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, spec.URL, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")
	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}
	if isJSONBody && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// shape decodes the body, applies the optional jq selection and array
// sampling, and renders the canonical sample.
func (c *Client) shape(body []byte, contentType string, spec types.EndpointSpec) (string, error) {
	v, err := decode(body, contentType)
	if err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if spec.Select != "" {
		v, err = c.query.Select(v, spec.Select)
		if err != nil {
			return "", err
		}
	}
	if spec.SampleOnly {
		v = jsoncompact.Sample(v, jsoncompact.DefaultSampleSize)
	}
	return jsoncompact.Pretty(v)
}

// decode parses body according to its content type. YAML bodies are
// accepted; markup and binary bodies are rejected.
func decode(body []byte, contentType string) (any, error) {
	category := contenttype.Classify(contentType)
	if !category.Decodable() {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
	if category != contenttype.YAML {
		return jsoncompact.Decode(body)
	}

	var v any
	if err := yaml.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if v == nil {
		return nil, fmt.Errorf("invalid YAML: empty document")
	}
	// Round-trip so numbers and maps match what the JSON decoder yields.
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return jsoncompact.Decode(data)
}

// statusText extracts the reason phrase from resp.Status ("404 Not Found").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
