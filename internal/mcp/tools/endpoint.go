package tools

import "github.com/usestring/apitypes/pkg/types"

// EndpointInput describes one endpoint in tool arguments.
type EndpointInput struct {
	Name       string            `json:"name" jsonschema:"Type name, normalized to PascalCase (e.g. user profile becomes UserProfile)"`
	URL        string            `json:"url" jsonschema:"Absolute http or https URL that returns a JSON sample"`
	Method     string            `json:"method,omitempty" jsonschema:"GET (default), POST, PUT or DELETE"`
	Headers    map[string]string `json:"headers,omitempty" jsonschema:"Request headers, e.g. Authorization"`
	Body       any               `json:"body,omitempty" jsonschema:"Request body. Strings are sent verbatim, other values as JSON"`
	SampleOnly bool              `json:"sample_only,omitempty" jsonschema:"Keep only the first 3 elements of a top-level array response"`
	Timeout    int               `json:"timeout,omitempty" jsonschema:"Request timeout in seconds (default: the run timeout)"`
	Select     string            `json:"select,omitempty" jsonschema:"jq expression applied to the response before inference, e.g. .data"`
}

// Spec converts the input to an endpoint spec.
func (e EndpointInput) Spec() types.EndpointSpec {
	return types.EndpointSpec{
		Name:       e.Name,
		URL:        e.URL,
		Method:     e.Method,
		Headers:    e.Headers,
		Body:       e.Body,
		SampleOnly: e.SampleOnly,
		Timeout:    e.Timeout,
		Select:     e.Select,
	}
}
