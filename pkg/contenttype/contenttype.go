// Package contenttype classifies response Content-Type headers so the fetch
// client can pick a body decoder.
package contenttype

import (
	"mime"
	"strings"
)

// Category represents a broad content-type classification.
type Category string

const (
	JSON    Category = "json"
	YAML    Category = "yaml"
	HTML    Category = "html"
	XML     Category = "xml"
	Text    Category = "text"
	Binary  Category = "binary"
	Unknown Category = "unknown"
)

// Classify returns the broad content category for a content-type header value.
// Parameters (charset, boundary) are ignored. An empty header is Unknown.
func Classify(contentType string) Category {
	if strings.TrimSpace(contentType) == "" {
		return Unknown
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	// application/json, application/problem+json, application/vnd.*+json
	case strings.Contains(mediaType, "json"):
		return JSON
	case strings.Contains(mediaType, "yaml"):
		return YAML
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return HTML
	case strings.Contains(mediaType, "xml"):
		return XML
	case strings.HasPrefix(mediaType, "text/"):
		return Text
	case strings.HasPrefix(mediaType, "image/"),
		strings.HasPrefix(mediaType, "audio/"),
		strings.HasPrefix(mediaType, "video/"),
		strings.Contains(mediaType, "octet-stream"),
		strings.Contains(mediaType, "pdf"),
		strings.Contains(mediaType, "zip"):
		return Binary
	}
	return Unknown
}

// Decodable reports whether a body of category c can carry a JSON-compatible
// document. Text and Unknown are attempted as JSON since many APIs send
// JSON with a generic or missing content type.
func (c Category) Decodable() bool {
	switch c {
	case JSON, YAML, Text, Unknown:
		return true
	}
	return false
}
