// Package client fetches sample JSON payloads for endpoint specs.
//
// A Client performs exactly one HTTP request per Fetch call; retries and
// concurrency belong to the scheduler that drives it.
//
// # Quick Start
//
//	c := client.New()
//	sample, err := c.Fetch(ctx, types.EndpointSpec{
//	    Name: "User",
//	    URL:  "https://jsonplaceholder.typicode.com/users/1",
//	})
//
// Use custom configuration:
//
//	c := client.New(
//	    client.WithDefaultTimeout(10*time.Second),
//	    client.WithHTTPClient(customHTTPClient),
//	)
//
// # Requests
//
// The method defaults to GET. Spec headers are applied over a default
// User-Agent, so a spec can override it. Non-string bodies are JSON-encoded
// and sent with Content-Type application/json unless the endpoint sets one.
//
// # Timeouts
//
// An endpoint's Timeout (seconds) overrides the client default. Timeouts surface
// as a *FetchError whose Timeout method reports true.
//
// # Status Codes
//
// The transport never fails on status codes; Fetch itself treats any status
// >= 400 as a failure carrying "HTTP {code}: {reason}":
//
//	var fe *client.FetchError
//	if errors.As(err, &fe) && fe.StatusCode() == 404 {
//	    // endpoint missing
//	}
//
// # Samples
//
// Successful bodies are decoded as JSON, narrowed by the endpoint's optional jq
// Select expression, truncated to their first three elements when SampleOnly
// is set and the document is an array, and re-encoded with two-space
// indentation.
package client
