package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents an acta error code.
type ErrorCode string

const (
	ErrInvalidRequest          ErrorCode = "INVALID_REQUEST"           // 400
	ErrInvalidInput            ErrorCode = "INVALID_INPUT"             // 400
	ErrPayloadTooLarge         ErrorCode = "PAYLOAD_TOO_LARGE"         // 413
	ErrUnsupportedMedia        ErrorCode = "UNSUPPORTED_MEDIA"         // 415
	ErrInvalidAIOutput         ErrorCode = "INVALID_AI_OUTPUT"         // 422
	ErrValidationFailed        ErrorCode = "VALIDATION_FAILED"         // 422
	ErrEmptyTranscript         ErrorCode = "EMPTY_TRANSCRIPT"          // 422
	ErrEmptyExtractionResponse ErrorCode = "EMPTY_EXTRACTION_RESPONSE" // 502
	ErrExtractionCallFailed    ErrorCode = "EXTRACTION_CALL_FAILED"    // 502
	ErrTranscriptionFailed     ErrorCode = "TRANSCRIPTION_FAILED"      // 502
	ErrRenderFailed            ErrorCode = "RENDER_FAILED"             // 500
	ErrConfig                  ErrorCode = "CONFIG"                    // 500
	ErrInternal                ErrorCode = "INTERNAL"                  // 500
)

// ActaError represents a structured error with code, status, and details.
type ActaError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Cause   error
}

// Error implements the error interface.
func (e *ActaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ActaError) Unwrap() error {
	return e.Cause
}

// Regenerable reports whether asking the language model again may produce a
// usable result. Only data-quality failures of the model output qualify.
func (e *ActaError) Regenerable() bool {
	switch e.Code {
	case ErrInvalidAIOutput, ErrValidationFailed, ErrEmptyExtractionResponse:
		return true
	}
	return false
}

// Issue is a single field-level schema violation.
type Issue struct {
	Path     string `json:"path"`
	Expected string `json:"expected"`
}

// NewInvalidRequest creates a 400 error for malformed requests.
func NewInvalidRequest(msg string) *ActaError {
	return &ActaError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidInput creates a 400 error for a caller handing a nil or
// non-object value to the view-model stage.
func NewInvalidInput(msg string) *ActaError {
	return &ActaError{
		Code:    ErrInvalidInput,
		Status:  400,
		Message: msg,
	}
}

// NewPayloadTooLarge creates a 413 error when an upload exceeds the limit.
func NewPayloadTooLarge(max, actual int64) *ActaError {
	return &ActaError{
		Code:    ErrPayloadTooLarge,
		Status:  413,
		Message: fmt.Sprintf("file too large: maximum size is %dMB", max/1024/1024),
		Details: map[string]any{"max_bytes": max, "actual_bytes": actual},
	}
}

// NewUnsupportedMedia creates a 415 error for unsupported upload formats.
func NewUnsupportedMedia(supported []string) *ActaError {
	return &ActaError{
		Code:    ErrUnsupportedMedia,
		Status:  415,
		Message: fmt.Sprintf("unsupported audio format; supported formats: %v", supported),
		Details: map[string]any{"supported": supported},
	}
}

// NewInvalidAIOutput creates a 422 error when model output cannot be
// recovered as a JSON object carrying a metadata object.
func NewInvalidAIOutput(cause error) *ActaError {
	return &ActaError{
		Code:    ErrInvalidAIOutput,
		Status:  422,
		Message: "AI returned invalid JSON",
		Cause:   cause,
	}
}

// NewValidationFailed creates a 422 error carrying per-field issues.
func NewValidationFailed(issues []Issue) *ActaError {
	return &ActaError{
		Code:    ErrValidationFailed,
		Status:  422,
		Message: fmt.Sprintf("invalid acta structure: %d issue(s)", len(issues)),
		Details: map[string]any{"issues": issues},
	}
}

// NewEmptyTranscript creates a 422 error when transcription produced no text.
func NewEmptyTranscript() *ActaError {
	return &ActaError{
		Code:    ErrEmptyTranscript,
		Status:  422,
		Message: "transcription resulted in empty text",
	}
}

// NewEmptyExtractionResponse creates a 502 error when the model answered
// without usable content.
func NewEmptyExtractionResponse() *ActaError {
	return &ActaError{
		Code:    ErrEmptyExtractionResponse,
		Status:  502,
		Message: "empty AI response",
	}
}

// NewExtractionCallFailed creates a 502 error when the extraction call errored.
func NewExtractionCallFailed(cause error) *ActaError {
	return &ActaError{
		Code:    ErrExtractionCallFailed,
		Status:  502,
		Message: "extraction call failed",
		Cause:   cause,
	}
}

// NewTranscriptionFailed creates a 502 error when the transcription call errored.
func NewTranscriptionFailed(cause error) *ActaError {
	return &ActaError{
		Code:    ErrTranscriptionFailed,
		Status:  502,
		Message: "AI transcription failed",
		Cause:   cause,
	}
}

// NewRenderFailed creates a 500 error for render backend failures.
func NewRenderFailed(msg string, cause error) *ActaError {
	return &ActaError{
		Code:    ErrRenderFailed,
		Status:  500,
		Message: msg,
		Cause:   cause,
	}
}

// NewConfig creates a 500 error for missing or invalid configuration.
func NewConfig(msg string) *ActaError {
	return &ActaError{
		Code:    ErrConfig,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ActaError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ActaError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Cause:   err,
	}
}

// As extracts an *ActaError from err, wrapping anything else as INTERNAL.
func As(err error) *ActaError {
	var aErr *ActaError
	if stderrors.As(err, &aErr) {
		return aErr
	}
	return NewInternal(err)
}

// Is checks if an error is an ActaError with the given code.
func Is(err error, code ErrorCode) bool {
	var aErr *ActaError
	if stderrors.As(err, &aErr) {
		return aErr.Code == code
	}
	return false
}
