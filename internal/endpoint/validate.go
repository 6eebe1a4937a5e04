// Package endpoint validates and normalizes endpoint definitions before
// they enter the generation pipeline.
package endpoint

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/usestring/apitypes/internal/query"
	"github.com/usestring/apitypes/pkg/types"
)

// MaxNameLength is the maximum trimmed length of an endpoint name.
const MaxNameLength = 100

// namePattern allows identifier characters plus the separators that
// ToPascalCase collapses ('-', whitespace and '.').
var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-\s.]*$`)

// ValidationError describes an invalid endpoint field.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// ValidateName checks a raw endpoint name and returns its normalized
// PascalCase form.
func ValidateName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		return "", &ValidationError{Field: "name", Value: raw, Message: "name is required"}
	}
	if len(trimmed) > MaxNameLength {
		return "", &ValidationError{
			Field:   "name",
			Value:   raw,
			Message: fmt.Sprintf("name must not exceed %d characters", MaxNameLength),
		}
	}
	if !namePattern.MatchString(trimmed) {
		return "", &ValidationError{
			Field:   "name",
			Value:   raw,
			Message: "name may only contain letters, digits, underscores, hyphens, dots and spaces, and must start with a letter or underscore",
		}
	}
	if IsReserved(trimmed) {
		return "", &ValidationError{Field: "name", Value: raw, Message: "name is a reserved TypeScript keyword"}
	}

	normalized := ToPascalCase(trimmed)
	if normalized == "" {
		return "", &ValidationError{Field: "name", Value: raw, Message: "name has no identifier characters"}
	}
	if !isASCIILetter(normalized[0]) {
		return "", &ValidationError{Field: "name", Value: raw, Message: fmt.Sprintf("normalized name %q must start with a letter", normalized)}
	}
	if IsReserved(normalized) {
		return "", &ValidationError{Field: "name", Value: raw, Message: "normalized name is a reserved TypeScript keyword"}
	}
	if IsGlobalTypeName(normalized) {
		return "", &ValidationError{Field: "name", Value: raw, Message: fmt.Sprintf("normalized name %q shadows a global used by generated code", normalized)}
	}

	return normalized, nil
}

func isASCIILetter(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}

// ValidateURL checks that raw is a well-formed absolute URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return &ValidationError{Field: "url", Value: raw, Message: err.Error()}
	}
	if !u.IsAbs() || u.Host == "" {
		return &ValidationError{Field: "url", Value: raw, Message: "must be an absolute URL with scheme and host"}
	}
	return nil
}

// ValidateMethod returns the canonical method, defaulting to GET.
func ValidateMethod(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return types.MethodGet, nil
	}
	m := strings.ToUpper(strings.TrimSpace(raw))
	for _, allowed := range types.Methods {
		if m == allowed {
			return m, nil
		}
	}
	return "", &ValidationError{
		Field:   "method",
		Value:   raw,
		Message: "must be one of " + strings.Join(types.Methods, ", "),
	}
}

// Validate checks a single spec and returns a normalized copy.
func Validate(spec types.EndpointSpec) (types.EndpointSpec, error) {
	name, err := ValidateName(spec.Name)
	if err != nil {
		return spec, err
	}
	if err := ValidateURL(spec.URL); err != nil {
		return spec, err
	}
	method, err := ValidateMethod(spec.Method)
	if err != nil {
		return spec, err
	}
	if spec.Timeout < 0 {
		return spec, &ValidationError{Field: "timeout", Value: fmt.Sprint(spec.Timeout), Message: "must not be negative"}
	}
	if spec.Select != "" {
		if err := query.ValidateExpression(spec.Select); err != nil {
			return spec, &ValidationError{Field: "select", Value: spec.Select, Message: err.Error()}
		}
	}

	out := spec
	out.Name = name
	out.URL = strings.TrimSpace(spec.URL)
	out.Method = method
	if len(spec.Headers) > 0 {
		out.Headers = make(map[string]string, len(spec.Headers))
		for k, v := range spec.Headers {
			out.Headers[k] = v
		}
	}
	return out, nil
}
