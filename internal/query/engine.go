// Package query applies jq expressions to fetched response bodies so an
// endpoint can generate types for a nested part of its payload.
package query

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/itchyny/gojq"
)

// Engine compiles and runs jq expressions. Compiled programs are cached per
// expression; an Engine is safe for concurrent use.
type Engine struct {
	mu    sync.Mutex
	codes map[string]*gojq.Code
}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	return &Engine{codes: make(map[string]*gojq.Code)}
}

// Select runs expression against input and returns the selected document.
// A single result is returned as-is; several results are collected into an
// array. Null results are skipped, and an expression that yields nothing is
// an error.
func (e *Engine) Select(input any, expression string) (any, error) {
	code, err := e.compile(expression)
	if err != nil {
		return nil, err
	}

	var values []any
	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, errors.New(formatJQError(expression, err))
		}
		if v == nil {
			continue
		}
		values = append(values, v)
	}

	switch len(values) {
	case 0:
		return nil, fmt.Errorf("jq expression %q selected no value (the path may not exist in this response)", expression)
	case 1:
		return values[0], nil
	default:
		return values, nil
	}
}

func (e *Engine) compile(expression string) (*gojq.Code, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if code, ok := e.codes[expression]; ok {
		return code, nil
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, parseError(err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	e.codes[expression] = code
	return code, nil
}

// formatJQError creates a helpful error message for jq execution errors.
//
// Runtime errors like "cannot iterate over: null" are plain errors in gojq,
// so hints are chosen by string matching on the display message only.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this response)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}

func parseError(err error) error {
	var pErr *gojq.ParseError
	if errors.As(err, &pErr) {
		return fmt.Errorf("invalid jq expression at position %d: %w", pErr.Offset, err)
	}
	return fmt.Errorf("invalid jq expression: %w", err)
}

// ValidateExpression checks if a jq expression is valid without executing it.
func ValidateExpression(expression string) error {
	query, err := gojq.Parse(expression)
	if err != nil {
		return parseError(err)
	}
	if _, err := gojq.Compile(query); err != nil {
		return fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return nil
}
