// Package jsoncompact trims sample JSON documents and renders them in the
// canonical form handed to type inference.
package jsoncompact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DefaultSampleSize is the number of leading elements kept when a top-level
// array is sampled.
const DefaultSampleSize = 3

// Decode parses a JSON document into generic values
// (map[string]any, []any, json.Number, string, bool, nil). Numbers keep
// their literal text so large integers survive re-encoding.
func Decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("invalid JSON: empty document")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: unexpected data after top-level value")
	}
	return v, nil
}

// Sample keeps only the first n elements when v is an array longer than n.
// Non-array values, arrays of length <= n, and n <= 0 are returned unchanged.
func Sample(v any, n int) any {
	arr, ok := v.([]any)
	if !ok || n <= 0 || len(arr) <= n {
		return v
	}
	out := make([]any, n)
	copy(out, arr[:n])
	return out
}

// Pretty encodes v with two-space indentation and without HTML escaping,
// so '<', '>' and '&' in sample strings survive verbatim.
func Pretty(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// SamplePretty decodes data, samples it when sampleOnly is set, and returns
// the canonical pretty-printed form.
func SamplePretty(data []byte, sampleOnly bool) (string, error) {
	v, err := Decode(data)
	if err != nil {
		return "", err
	}
	if sampleOnly {
		v = Sample(v, DefaultSampleSize)
	}
	return Pretty(v)
}
