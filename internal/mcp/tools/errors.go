package tools

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/usestring/apitypes/internal/output"
	"github.com/usestring/apitypes/internal/pipeline"
	"github.com/usestring/apitypes/internal/typegen"
	"github.com/usestring/apitypes/pkg/client"
)

// Error codes for MCP tool responses.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeFetchError   = "FETCH_ERROR"
	ErrCodeTimeout      = "TIMEOUT"
	ErrCodeGeneration   = "GENERATION_ERROR"
	ErrCodeWriteError   = "WRITE_ERROR"
	ErrCodeInternal     = "INTERNAL"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapFetchError converts a fetch failure to a coded error.
func WrapFetchError(err error) error {
	if err == nil {
		return nil
	}

	coded := &CodedError{Code: ErrCodeFetchError, Message: "fetch failed", Cause: err}

	var fe *client.FetchError
	if errors.As(err, &fe) {
		coded.Cause = fe.Err
		switch {
		case fe.StatusCode() == http.StatusNotFound:
			coded.Code = ErrCodeNotFound
			coded.Message = fmt.Sprintf("%s: endpoint returned 404", fe.Name)
		case fe.Timeout():
			coded.Code = ErrCodeTimeout
			coded.Message = fmt.Sprintf("%s: request timed out", fe.Name)
		default:
			coded.Message = fmt.Sprintf("%s: fetch failed", fe.Name)
		}
	}

	slog.Warn("fetch error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)
	return coded
}

// WrapRunError converts a run-level pipeline failure to a coded error.
func WrapRunError(err error) error {
	if err == nil {
		return nil
	}

	var optsErr *pipeline.OptionsError
	var fmtErr *typegen.FormatError
	var persistErr *output.PersistenceError
	var coded *CodedError
	switch {
	case errors.As(err, &coded):
		return coded
	case errors.As(err, &optsErr), errors.As(err, &fmtErr):
		return &CodedError{Code: ErrCodeInvalidInput, Message: err.Error()}
	case errors.As(err, &persistErr):
		return &CodedError{Code: ErrCodeWriteError, Message: "writing output", Cause: err}
	}
	return &CodedError{Code: ErrCodeInternal, Message: "generation run failed", Cause: err}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
