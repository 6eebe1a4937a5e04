// Package cache provides response caching for endpoint fetches.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/usestring/apitypes/pkg/client"
	"github.com/usestring/apitypes/pkg/types"
)

// ResponseCache provides thread-safe LRU caching of fetched sample payloads.
type ResponseCache struct {
	cache *lru.Cache[string, string]
}

// NewResponseCache creates a new LRU cache with the specified maximum number of items.
func NewResponseCache(maxItems int) (*ResponseCache, error) {
	c, err := lru.New[string, string](maxItems)
	if err != nil {
		return nil, err
	}
	return &ResponseCache{cache: c}, nil
}

// Get retrieves a payload by request key.
// Returns the payload and true if found, "" and false otherwise.
func (c *ResponseCache) Get(key string) (string, bool) {
	return c.cache.Get(key)
}

// Put adds or updates a payload in the cache.
func (c *ResponseCache) Put(key, payload string) {
	c.cache.Add(key, payload)
}

// Len returns the current number of items in the cache.
func (c *ResponseCache) Len() int {
	return c.cache.Len()
}

// Key fingerprints everything about spec that affects the fetched payload.
// The endpoint name is deliberately excluded so identical requests under
// different names share one fetch.
func Key(spec types.EndpointSpec) string {
	var b strings.Builder
	b.WriteString(spec.EffectiveMethod())
	b.WriteByte(' ')
	b.WriteString(spec.URL)

	headerNames := make([]string, 0, len(spec.Headers))
	for k := range spec.Headers {
		headerNames = append(headerNames, k)
	}
	sort.Strings(headerNames)
	for _, k := range headerNames {
		b.WriteString("\nH:")
		b.WriteString(strings.ToLower(k))
		b.WriteByte('=')
		b.WriteString(spec.Headers[k])
	}

	if spec.Body != nil {
		body, err := json.Marshal(spec.Body)
		if err == nil {
			b.WriteString("\nB:")
			b.Write(body)
		}
	}
	if spec.Select != "" {
		b.WriteString("\nS:")
		b.WriteString(spec.Select)
	}
	b.WriteString("\nSample:")
	b.WriteString(strconv.FormatBool(spec.SampleOnly))
	b.WriteString("\nT:")
	b.WriteString(strconv.Itoa(spec.Timeout))
	return b.String()
}

// upstream is the fetch capability being cached.
type upstream interface {
	Fetch(ctx context.Context, spec types.EndpointSpec) (string, error)
}

// Fetcher wraps an upstream fetcher with the response cache and deduplicates
// identical in-flight requests. Failures are never cached.
type Fetcher struct {
	next  upstream
	cache *ResponseCache
	group singleflight.Group
}

// NewFetcher creates a caching fetcher. A nil cache only deduplicates.
func NewFetcher(next upstream, c *ResponseCache) *Fetcher {
	return &Fetcher{next: next, cache: c}
}

// Fetch returns a cached payload or fetches it through the upstream.
func (f *Fetcher) Fetch(ctx context.Context, spec types.EndpointSpec) (string, error) {
	key := Key(spec)

	if f.cache != nil {
		if payload, ok := f.cache.Get(key); ok {
			return payload, nil
		}
	}

	v, err, shared := f.group.Do(key, func() (any, error) {
		payload, err := f.next.Fetch(ctx, spec)
		if err != nil {
			return "", err
		}
		if f.cache != nil {
			f.cache.Put(key, payload)
		}
		return payload, nil
	})
	if err != nil {
		if shared {
			// The error may carry the name of the endpoint that led the flight.
			var fe *client.FetchError
			if errors.As(err, &fe) && fe.Name != spec.Name {
				return "", &client.FetchError{Name: spec.Name, Err: fe.Err}
			}
		}
		return "", err
	}
	return v.(string), nil
}
