// Package types provides shared types for apitypes.
// These types flow through every pipeline stage and are designed for external consumption.
package types

import "strings"

// HTTP methods accepted for endpoint fetches.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
)

// Methods lists the supported HTTP methods in display order.
var Methods = []string{MethodGet, MethodPost, MethodPut, MethodDelete}

// EndpointSpec is one configured API call targeted for type generation.
type EndpointSpec struct {
	Name       string            `json:"name" yaml:"name"`
	URL        string            `json:"url" yaml:"url"`
	Method     string            `json:"method,omitempty" yaml:"method,omitempty"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       any               `json:"body,omitempty" yaml:"body,omitempty"`
	SampleOnly bool              `json:"sampleOnly,omitempty" yaml:"sampleOnly,omitempty"`
	Timeout    int               `json:"timeout,omitempty" yaml:"timeout,omitempty"` // seconds, 0 = run default
	Select     string            `json:"select,omitempty" yaml:"select,omitempty"`   // optional jq expression
}

// EffectiveMethod returns the upper-cased method, defaulting to GET.
func (s EndpointSpec) EffectiveMethod() string {
	if s.Method == "" {
		return MethodGet
	}
	return strings.ToUpper(s.Method)
}
