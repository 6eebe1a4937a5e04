package typegen

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/usestring/apitypes/pkg/jsoncompact"
)

// SchemaVersion is the JSON Schema dialect of inferred schemas.
const SchemaVersion = "https://json-schema.org/draft/2020-12/schema"

// InferSchema infers a merged JSON Schema from one or more JSON samples.
// Properties are required only when present and non-null in every sample.
func InferSchema(samples []string) (*jsonschema.Schema, []any, error) {
	if len(samples) == 0 {
		return nil, nil, errors.New("no samples")
	}

	values := make([]any, 0, len(samples))
	for i, data := range samples {
		v, err := jsoncompact.Decode([]byte(data))
		if err != nil {
			return nil, nil, fmt.Errorf("sample %d is not valid JSON: %w", i, err)
		}
		values = append(values, v)
	}

	schemas := make([]*jsonschema.Schema, 0, len(values))
	for _, v := range values {
		schemas = append(schemas, inferFromValue(v))
	}

	merged := mergeSchemas(schemas)
	markRequired(merged, values)
	return merged, values, nil
}

func inferFromValue(v any) *jsonschema.Schema {
	if v == nil {
		return &jsonschema.Schema{Type: "null"}
	}

	switch val := v.(type) {
	case bool:
		return &jsonschema.Schema{Type: "boolean"}

	case json.Number:
		if isIntegerLiteral(val) {
			return &jsonschema.Schema{Type: "integer"}
		}
		return &jsonschema.Schema{Type: "number"}

	case float64:
		if math.Trunc(val) == val && !math.IsInf(val, 0) && !math.IsNaN(val) {
			return &jsonschema.Schema{Type: "integer"}
		}
		return &jsonschema.Schema{Type: "number"}

	case string:
		return &jsonschema.Schema{Type: "string"}

	case []any:
		schema := &jsonschema.Schema{Type: "array"}
		if len(val) == 0 {
			return schema
		}
		items := make([]*jsonschema.Schema, 0, len(val))
		for _, item := range val {
			items = append(items, inferFromValue(item))
		}
		schema.Items = mergeSchemas(items)
		return schema

	case map[string]any:
		schema := &jsonschema.Schema{
			Type:       "object",
			Properties: jsonschema.NewProperties(),
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			schema.Properties.Set(k, inferFromValue(val[k]))
		}
		return schema

	default:
		// Unknown type, return empty schema (matches anything)
		return &jsonschema.Schema{}
	}
}

// isIntegerLiteral reports whether n is a whole number. Literals without a
// fraction or exponent are integers at any magnitude.
func isIntegerLiteral(n json.Number) bool {
	if !strings.ContainsAny(n.String(), ".eE") {
		return true
	}
	f, err := n.Float64()
	return err == nil && math.Trunc(f) == f && !math.IsInf(f, 0)
}

func mergeSchemas(schemas []*jsonschema.Schema) *jsonschema.Schema {
	if len(schemas) == 0 {
		return &jsonschema.Schema{}
	}
	if len(schemas) == 1 {
		return schemas[0]
	}

	types := make(map[string]bool)
	var objectSchemas, arraySchemas []*jsonschema.Schema
	for _, s := range schemas {
		for _, t := range schemaTypes(s) {
			types[t.Type] = true
			switch t.Type {
			case "object":
				objectSchemas = append(objectSchemas, t)
			case "array":
				arraySchemas = append(arraySchemas, t)
			}
		}
	}

	// integer widens to number when both appear.
	if types["integer"] && types["number"] {
		delete(types, "integer")
	}

	typeList := make([]string, 0, len(types))
	for t := range types {
		typeList = append(typeList, t)
	}
	sort.Strings(typeList)

	anyOf := make([]*jsonschema.Schema, 0, len(typeList))
	for _, t := range typeList {
		switch t {
		case "object":
			anyOf = append(anyOf, mergeObjectSchemas(objectSchemas))
		case "array":
			anyOf = append(anyOf, mergeArraySchemas(arraySchemas))
		default:
			anyOf = append(anyOf, &jsonschema.Schema{Type: t})
		}
	}

	switch len(anyOf) {
	case 0:
		return &jsonschema.Schema{}
	case 1:
		return anyOf[0]
	}
	return &jsonschema.Schema{AnyOf: anyOf}
}

// schemaTypes flattens a schema into its typed alternatives.
func schemaTypes(s *jsonschema.Schema) []*jsonschema.Schema {
	if len(s.AnyOf) > 0 {
		var out []*jsonschema.Schema
		for _, sub := range s.AnyOf {
			out = append(out, schemaTypes(sub)...)
		}
		return out
	}
	if s.Type == "" {
		return nil
	}
	return []*jsonschema.Schema{s}
}

func mergeObjectSchemas(schemas []*jsonschema.Schema) *jsonschema.Schema {
	if len(schemas) == 1 {
		return schemas[0]
	}

	allProperties := make(map[string][]*jsonschema.Schema)
	for _, s := range schemas {
		if s.Properties == nil {
			continue
		}
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			allProperties[pair.Key] = append(allProperties[pair.Key], pair.Value)
		}
	}

	merged := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}

	keys := make([]string, 0, len(allProperties))
	for k := range allProperties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		merged.Properties.Set(k, mergeSchemas(allProperties[k]))
	}
	return merged
}

func mergeArraySchemas(schemas []*jsonschema.Schema) *jsonschema.Schema {
	if len(schemas) == 1 {
		return schemas[0]
	}

	itemSchemas := make([]*jsonschema.Schema, 0, len(schemas))
	for _, s := range schemas {
		if s.Items != nil {
			itemSchemas = append(itemSchemas, s.Items)
		}
	}

	merged := &jsonschema.Schema{Type: "array"}
	if len(itemSchemas) > 0 {
		merged.Items = mergeSchemas(itemSchemas)
	}
	return merged
}

// markRequired walks schema alongside the sample values it was inferred from
// and marks object properties that are present and non-null in every value.
func markRequired(schema *jsonschema.Schema, values []any) {
	if schema == nil || len(values) == 0 {
		return
	}

	if len(schema.AnyOf) > 0 {
		for _, sub := range schema.AnyOf {
			markRequired(sub, valuesOfType(values, sub.Type))
		}
		return
	}

	switch schema.Type {
	case "object":
		markObjectRequired(schema, values)
	case "array":
		if schema.Items == nil {
			return
		}
		var items []any
		for _, v := range values {
			if arr, ok := v.([]any); ok {
				items = append(items, arr...)
			}
		}
		markRequired(schema.Items, items)
	}
}

func markObjectRequired(schema *jsonschema.Schema, values []any) {
	if schema.Properties == nil {
		return
	}

	var objects []map[string]any
	for _, v := range values {
		if obj, ok := v.(map[string]any); ok {
			objects = append(objects, obj)
		}
	}
	if len(objects) == 0 {
		return
	}

	var required []string
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		present := 0
		nullable := false
		var nested []any
		for _, obj := range objects {
			v, ok := obj[pair.Key]
			if !ok {
				continue
			}
			present++
			if v == nil {
				nullable = true
				continue
			}
			nested = append(nested, v)
		}
		if present == len(objects) && !nullable {
			required = append(required, pair.Key)
		}
		markRequired(pair.Value, nested)
	}

	sort.Strings(required)
	schema.Required = required
}

// valuesOfType filters decoded JSON values to those matching a schema type.
func valuesOfType(values []any, typ string) []any {
	var out []any
	for _, v := range values {
		switch v.(type) {
		case map[string]any:
			if typ == "object" {
				out = append(out, v)
			}
		case []any:
			if typ == "array" {
				out = append(out, v)
			}
		}
	}
	return out
}
