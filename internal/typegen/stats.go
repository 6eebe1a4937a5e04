package typegen

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

// FieldStat summarizes one property across the objects it was observed in.
type FieldStat struct {
	Path          string   `json:"path"` // e.g. "user.name", "items[].id"
	Type          string   `json:"type"` // "a|b" for unions
	Frequency     float64  `json:"frequency"`
	Required      bool     `json:"required"`
	Nullable      bool     `json:"nullable"`
	DistinctCount int      `json:"distinct_count"`
	Examples      []any    `json:"examples,omitzero"`
	Format        string   `json:"format,omitempty"` // uuid, date-time, url, email or enum
	EnumValues    []string `json:"enum_values,omitzero"`
}

const (
	statsMaxDepth         = 5
	maxExamples           = 3
	minSamplesForFormat   = 5
	maxEnumDistinctValues = 10
)

var (
	uuidRegex     = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	dateTimeRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2})?`)
	urlRegex      = regexp.MustCompile(`^https?://`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// FieldStats infers a schema from samples and returns a flat table of
// per-field statistics. A root array contributes its elements as samples,
// with paths prefixed by "[]".
func FieldStats(samples []string) ([]FieldStat, error) {
	schema, values, err := InferSchema(samples)
	if err != nil {
		return nil, err
	}

	var stats []FieldStat
	if arr := alternative(schema, "array"); arr != nil && arr.Items != nil {
		walkFields(arr.Items, "[]", arrayItems(values), 0, &stats)
	} else {
		walkFields(schema, "", values, 0, &stats)
	}
	return stats, nil
}

func walkFields(schema *jsonschema.Schema, path string, values []any, depth int, stats *[]FieldStat) {
	obj := alternative(schema, "object")
	if obj == nil || obj.Properties == nil {
		return
	}
	if depth > statsMaxDepth {
		*stats = append(*stats, FieldStat{Path: path + " (truncated)", Type: "..."})
		return
	}

	var objects []map[string]any
	for _, v := range values {
		if m, ok := v.(map[string]any); ok {
			objects = append(objects, m)
		}
	}

	for pair := obj.Properties.Oldest(); pair != nil; pair = pair.Next() {
		fieldPath := joinPath(path, pair.Key)
		*stats = append(*stats, fieldStat(fieldPath, pair.Key, pair.Value, objects))

		var nested []any
		for _, o := range objects {
			if v, ok := o[pair.Key]; ok && v != nil {
				nested = append(nested, v)
			}
		}
		if alternative(pair.Value, "object") != nil {
			walkFields(pair.Value, fieldPath, nested, depth+1, stats)
		}
		if arr := alternative(pair.Value, "array"); arr != nil && arr.Items != nil {
			walkFields(arr.Items, fieldPath+"[]", arrayItems(nested), depth+1, stats)
		}
	}
}

func fieldStat(path, key string, schema *jsonschema.Schema, objects []map[string]any) FieldStat {
	stat := FieldStat{Path: path, Type: resolveType(schema)}

	present, nulls := 0, 0
	distinct := make(map[string]bool)
	var strs []string
	for _, o := range objects {
		v, ok := o[key]
		if !ok {
			continue
		}
		present++
		if v == nil {
			nulls++
			continue
		}
		k := fmt.Sprintf("%v", v)
		if !distinct[k] {
			distinct[k] = true
			switch v.(type) {
			case map[string]any, []any:
				// children describe structure
			default:
				if len(stat.Examples) < maxExamples {
					stat.Examples = append(stat.Examples, v)
				}
			}
		}
		if s, ok := v.(string); ok {
			strs = append(strs, s)
		}
	}

	if len(objects) > 0 {
		stat.Frequency = float64(present) / float64(len(objects))
	}
	stat.Required = present == len(objects) && nulls == 0
	stat.Nullable = nulls > 0
	stat.DistinctCount = len(distinct)

	if len(strs) > 0 {
		stat.Format, stat.EnumValues = detectFormat(strs)
	}
	return stat
}

// detectFormat names a format every value matches. Enums need enough values
// to be distinguishable from free text.
func detectFormat(values []string) (string, []string) {
	for _, f := range []struct {
		name string
		re   *regexp.Regexp
	}{
		{"uuid", uuidRegex},
		{"date-time", dateTimeRegex},
		{"url", urlRegex},
		{"email", emailRegex},
	} {
		if allMatch(values, f.re) {
			return f.name, nil
		}
	}

	if len(values) < minSamplesForFormat {
		return "", nil
	}
	distinct := make(map[string]bool)
	for _, v := range values {
		distinct[v] = true
	}
	if len(distinct) > maxEnumDistinctValues || len(distinct) == len(values) {
		return "", nil
	}
	enum := make([]string, 0, len(distinct))
	for v := range distinct {
		enum = append(enum, v)
	}
	sort.Strings(enum)
	return "enum", enum
}

func allMatch(values []string, re *regexp.Regexp) bool {
	for _, v := range values {
		if !re.MatchString(v) {
			return false
		}
	}
	return true
}

// alternative returns s, or the member of its anyOf, that has type typ.
func alternative(s *jsonschema.Schema, typ string) *jsonschema.Schema {
	if s == nil {
		return nil
	}
	for _, t := range schemaTypes(s) {
		if t.Type == typ {
			return t
		}
	}
	return nil
}

func arrayItems(values []any) []any {
	var items []any
	for _, v := range values {
		if arr, ok := v.([]any); ok {
			for _, item := range arr {
				if item != nil {
					items = append(items, item)
				}
			}
		}
	}
	return items
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func resolveType(s *jsonschema.Schema) string {
	if s.Type != "" {
		return s.Type
	}
	if len(s.AnyOf) > 0 {
		names := make([]string, 0, len(s.AnyOf))
		for _, sub := range s.AnyOf {
			if sub.Type != "" {
				names = append(names, sub.Type)
			}
		}
		return strings.Join(names, "|")
	}
	return "unknown"
}
