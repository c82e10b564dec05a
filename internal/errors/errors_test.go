package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestActaError_Error(t *testing.T) {
	err := &ActaError{
		Code:    ErrInvalidAIOutput,
		Status:  422,
		Message: "AI returned invalid JSON",
	}

	expected := "INVALID_AI_OUTPUT: AI returned invalid JSON"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestConstructors_Status(t *testing.T) {
	cause := fmt.Errorf("boom")
	tests := []struct {
		name   string
		err    *ActaError
		code   ErrorCode
		status int
	}{
		{"invalid request", NewInvalidRequest("bad"), ErrInvalidRequest, 400},
		{"invalid input", NewInvalidInput("nil"), ErrInvalidInput, 400},
		{"payload too large", NewPayloadTooLarge(25*1024*1024, 30*1024*1024), ErrPayloadTooLarge, 413},
		{"unsupported media", NewUnsupportedMedia([]string{".mp3"}), ErrUnsupportedMedia, 415},
		{"invalid ai output", NewInvalidAIOutput(cause), ErrInvalidAIOutput, 422},
		{"validation failed", NewValidationFailed(nil), ErrValidationFailed, 422},
		{"empty transcript", NewEmptyTranscript(), ErrEmptyTranscript, 422},
		{"empty extraction", NewEmptyExtractionResponse(), ErrEmptyExtractionResponse, 502},
		{"extraction call", NewExtractionCallFailed(cause), ErrExtractionCallFailed, 502},
		{"transcription", NewTranscriptionFailed(cause), ErrTranscriptionFailed, 502},
		{"render", NewRenderFailed("render failed", cause), ErrRenderFailed, 500},
		{"config", NewConfig("missing key"), ErrConfig, 500},
		{"internal", NewInternal(cause), ErrInternal, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Status != tt.status {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.status)
			}
		})
	}
}

func TestNewPayloadTooLarge_Details(t *testing.T) {
	err := NewPayloadTooLarge(25*1024*1024, 26*1024*1024)

	if err.Message != "file too large: maximum size is 25MB" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Details["max_bytes"] != int64(25*1024*1024) {
		t.Errorf("Details[max_bytes] = %v", err.Details["max_bytes"])
	}
}

func TestNewValidationFailed_CarriesIssues(t *testing.T) {
	issues := []Issue{{Path: "/metadata", Expected: "object"}}
	err := NewValidationFailed(issues)

	got, ok := err.Details["issues"].([]Issue)
	if !ok {
		t.Fatalf("Details[issues] has type %T", err.Details["issues"])
	}
	if len(got) != 1 || got[0].Path != "/metadata" {
		t.Errorf("issues = %+v", got)
	}
	if err.Message != "invalid acta structure: 1 issue(s)" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestRegenerable(t *testing.T) {
	tests := []struct {
		err  *ActaError
		want bool
	}{
		{NewInvalidAIOutput(nil), true},
		{NewValidationFailed(nil), true},
		{NewEmptyExtractionResponse(), true},
		{NewExtractionCallFailed(nil), false},
		{NewRenderFailed("x", nil), false},
		{NewInvalidInput("x"), false},
	}
	for _, tt := range tests {
		if got := tt.err.Regenerable(); got != tt.want {
			t.Errorf("%s.Regenerable() = %v, want %v", tt.err.Code, got, tt.want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewExtractionCallFailed(cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestIs(t *testing.T) {
	err := NewInvalidInput("nil input")
	wrapped := fmt.Errorf("project: %w", err)

	if !Is(err, ErrInvalidInput) {
		t.Error("Is(err, ErrInvalidInput) = false, want true")
	}
	if !Is(wrapped, ErrInvalidInput) {
		t.Error("Is(wrapped, ErrInvalidInput) = false, want true")
	}
	if Is(err, ErrInternal) {
		t.Error("Is(err, ErrInternal) = true, want false")
	}
	if Is(fmt.Errorf("plain"), ErrInternal) {
		t.Error("Is(plain, ErrInternal) = true, want false")
	}
	if Is(nil, ErrInternal) {
		t.Error("Is(nil, ErrInternal) = true, want false")
	}
}

func TestAs(t *testing.T) {
	orig := NewRenderFailed("chrome crashed", nil)
	if got := As(fmt.Errorf("wrap: %w", orig)); got != orig {
		t.Errorf("As() returned %v, want original", got)
	}

	got := As(fmt.Errorf("plain"))
	if got.Code != ErrInternal {
		t.Errorf("As(plain).Code = %q, want %q", got.Code, ErrInternal)
	}
	if got.Message != "plain" {
		t.Errorf("As(plain).Message = %q, want %q", got.Message, "plain")
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}
