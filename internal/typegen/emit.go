package typegen

import (
	"fmt"
	"strings"
)

// Item is one fetched endpoint awaiting emission.
type Item struct {
	Index  int // position in the original run input
	Name   string
	Sample string
}

// Emitted is a successfully rendered type source.
type Emitted struct {
	Index  int
	Name   string
	Source string
	// Schema is the inferred JSON Schema, set when RenderOptions.JSONSchema
	// is enabled and the engine supports it.
	Schema string
}

// EmissionError reports a failed emission for one endpoint.
// Emission is deterministic, so these are never retried.
type EmissionError struct {
	Index int
	Name  string
	Err   error
}

func (e *EmissionError) Error() string {
	return fmt.Sprintf("%s: type generation failed: %v", e.Name, e.Err)
}

func (e *EmissionError) Unwrap() error {
	return e.Err
}

// AggregateError collects every emission failure of a run.
type AggregateError struct {
	Errors []*EmissionError
}

func (e *AggregateError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("type generation failed for %d endpoint(s): %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Emit renders every item in order. A failing item never stops the rest.
// The aggregate error is nil when every item succeeded.
func Emit(engine Engine, items []Item, format Format, opts RenderOptions) ([]Emitted, *AggregateError) {
	var out []Emitted
	var failures []*EmissionError

	for _, item := range items {
		emitted, err := emitOne(engine, item, format, opts)
		if err != nil {
			failures = append(failures, &EmissionError{Index: item.Index, Name: item.Name, Err: err})
			continue
		}
		out = append(out, emitted)
	}

	if len(failures) == 0 {
		return out, nil
	}
	return out, &AggregateError{Errors: failures}
}

func emitOne(engine Engine, item Item, format Format, opts RenderOptions) (emitted Emitted, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	source, err := engine.Generate(item.Name, []string{item.Sample}, format, opts)
	if err != nil {
		return Emitted{}, err
	}
	emitted = Emitted{Index: item.Index, Name: item.Name, Source: source}

	if opts.JSONSchema {
		if se, ok := engine.(SchemaEngine); ok {
			doc, err := se.Schema(item.Name, []string{item.Sample})
			if err != nil {
				return Emitted{}, fmt.Errorf("json schema: %w", err)
			}
			emitted.Schema = doc
		}
	}
	return emitted, nil
}
