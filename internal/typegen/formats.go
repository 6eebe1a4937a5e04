package typegen

import (
	"fmt"
	"sort"
	"strings"
)

// Format is a canonical output format.
type Format string

// Canonical formats.
const (
	FormatTypeScript   Format = "typescript"
	FormatZod          Format = "typescript-zod"
	FormatEffectSchema Format = "typescript-effect-schema"
)

// DefaultFormat is used when no format is configured.
const DefaultFormat = FormatTypeScript

// Formats lists the canonical formats in display order.
var Formats = []Format{FormatTypeScript, FormatZod, FormatEffectSchema}

// formatAliases maps every accepted lower-case spelling to its canonical format.
var formatAliases = map[string]Format{
	"typescript":               FormatTypeScript,
	"ts":                       FormatTypeScript,
	"typescript-zod":           FormatZod,
	"zod":                      FormatZod,
	"typescript-effect-schema": FormatEffectSchema,
	"effect":                   FormatEffectSchema,
	"effect-schema":            FormatEffectSchema,
}

// FormatError reports an unrecognized format name.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return fmt.Sprintf("unsupported format %q (supported: %s)", e.Value, strings.Join(names, ", "))
}

// ParseFormat resolves a format name or alias, case-insensitively.
// The empty string resolves to DefaultFormat.
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return DefaultFormat, nil
	}
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	return "", &FormatError{Value: s}
}

// Aliases returns the accepted spellings for f, sorted, excluding f itself.
func Aliases(f Format) []string {
	var out []string
	for alias, target := range formatAliases {
		if target == f && alias != string(f) {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// String implements fmt.Stringer.
func (f Format) String() string {
	return string(f)
}
