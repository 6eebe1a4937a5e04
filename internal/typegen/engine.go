// Package typegen turns sample JSON payloads into TypeScript sources.
//
// The default engine infers a JSON Schema from the samples, verifies every
// sample against it, builds a named type model and renders it in one of the
// supported formats:
//
//   - typescript: interfaces plus a Convert class (and is{Type} guards when
//     runtime checks are enabled)
//   - typescript-zod: Zod schemas with z.infer types
//   - typescript-effect-schema: Effect Schema definitions with derived types
package typegen

import (
	"fmt"

	"github.com/usestring/apitypes/internal/schema"
	"github.com/usestring/apitypes/pkg/jsoncompact"
)

// RenderOptions controls rendering.
type RenderOptions struct {
	// RuntimeCheck adds runtime validation to plain TypeScript output.
	RuntimeCheck bool
	// JSONSchema also produces the inferred JSON Schema document.
	JSONSchema bool
}

// Engine renders a type source for one endpoint.
type Engine interface {
	Generate(name string, samples []string, format Format, opts RenderOptions) (string, error)
}

// SchemaEngine is an Engine that can also expose the inferred JSON Schema.
type SchemaEngine interface {
	Engine
	Schema(name string, samples []string) (string, error)
}

// DefaultEngine is the built-in inference engine.
type DefaultEngine struct{}

// NewEngine returns the built-in inference engine.
func NewEngine() *DefaultEngine {
	return &DefaultEngine{}
}

// Generate infers types from samples and renders them under name.
func (g *DefaultEngine) Generate(name string, samples []string, format Format, opts RenderOptions) (string, error) {
	m, err := g.model(name, samples)
	if err != nil {
		return "", err
	}

	switch format {
	case FormatTypeScript:
		return renderTypeScript(m, opts), nil
	case FormatZod:
		return renderZod(m), nil
	case FormatEffectSchema:
		return renderEffect(m), nil
	}
	return "", &FormatError{Value: string(format)}
}

// Schema returns the inferred JSON Schema for samples as indented JSON.
func (g *DefaultEngine) Schema(name string, samples []string) (string, error) {
	inferred, _, err := InferSchema(samples)
	if err != nil {
		return "", err
	}
	inferred.Version = SchemaVersion
	inferred.Title = name
	return jsoncompact.Pretty(inferred)
}

func (g *DefaultEngine) model(name string, samples []string) (*model, error) {
	inferred, values, err := InferSchema(samples)
	if err != nil {
		return nil, err
	}

	v, err := schema.Compile(inferred)
	if err != nil {
		return nil, fmt.Errorf("inferred schema: %w", err)
	}
	for i, value := range values {
		if res := v.ValidateValue(value); !res.Valid {
			return nil, fmt.Errorf("sample %d does not match inferred schema: %v", i, res.Errors)
		}
	}

	return buildModel(name, inferred), nil
}
