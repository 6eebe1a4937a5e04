package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckOutputSchema_panicsOnNilSlice(t *testing.T) {
	type BadOutput struct {
		Files []string `json:"files"`
	}
	assert.Panics(t, func() {
		CheckOutputSchema[BadOutput]("test_bad_tool")
	})
}

func TestCheckOutputSchema_okWithOmitzero(t *testing.T) {
	type GoodOutput struct {
		Files []string `json:"files,omitzero"`
	}
	assert.NotPanics(t, func() {
		CheckOutputSchema[GoodOutput]("test_good_tool")
	})
}

func TestCheckOutputSchema_okWithAny(t *testing.T) {
	assert.NotPanics(t, func() {
		CheckOutputSchema[any]("test_any_tool")
	})
}

func TestCheckOutputSchema_panicsOnRawMessage(t *testing.T) {
	type Inner struct {
		Schema json.RawMessage `json:"schema,omitempty"`
	}
	type BadOutput struct {
		Nested Inner `json:"nested"`
	}
	assert.Panics(t, func() {
		CheckOutputSchema[BadOutput]("test_nested_raw_message")
	})
}

func TestCheckOutputSchema_toolOutputs(t *testing.T) {
	assert.NotPanics(t, func() {
		CheckOutputSchema[GenerateOutput]("apitypes_generate")
		CheckOutputSchema[PreviewOutput]("apitypes_preview")
		CheckOutputSchema[FormatsOutput]("apitypes_formats")
	})
}
