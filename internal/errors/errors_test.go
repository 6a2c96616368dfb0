package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAuthError(t *testing.T) {
	err := NewAuthError("token expired")

	expected := "authentication failed: token expired"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, ErrNotAuthenticated) {
		t.Error("Expected AuthError to match ErrNotAuthenticated")
	}

	other := NewAPIError(400, "/api/llm/chat", "bad request")
	if err.Is(other) {
		t.Error("Expected AuthError not to match APIError")
	}
}

func TestAuthError_EmptyMessage(t *testing.T) {
	err := NewAuthError("")
	if err.Error() != "authentication failed: token may have expired" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"auth error", NewAuthError("expired"), true},
		{"wrapped auth error", fmt.Errorf("send failed: %w", NewAuthError("")), true},
		{"sentinel", ErrNotAuthenticated, true},
		{"api error", NewAPIError(500, "/api/llm/chat", "boom"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthError(tt.err); got != tt.want {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPIError(t *testing.T) {
	err := NewAPIError(404, "/api/llm/sessions/abc", "Session not found")

	expected := "API error [404] at /api/llm/sessions/abc: Session not found"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("send chat", "/api/llm/chat", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected NetworkError to unwrap to its cause")
	}
}

func TestIsTransportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network error", NewNetworkError("upload", "/api/files/upload", errors.New("timeout")), true},
		{"server error", NewAPIError(500, "/api/llm/chat", "internal"), true},
		{"unauthorized", NewAPIError(401, "/api/llm/chat", "unauthorized"), false},
		{"validation", NewValidationError("empty"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransportError(tt.err); got != tt.want {
				t.Errorf("IsTransportError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("empty message with no attachments")

	if !errors.Is(err, ErrEmptyMessage) {
		t.Error("Expected ValidationError to match ErrEmptyMessage")
	}

	expected := "validation error: empty message with no attachments"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
}

func TestUploadError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewUploadError("report.pdf", cause)

	expected := "upload failed for report.pdf: disk full"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, cause) {
		t.Error("Expected UploadError to unwrap to its cause")
	}
}

func TestResolutionError(t *testing.T) {
	err := NewResolutionError("")
	if err.Error() != "no provider available" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	if !errors.Is(err, ErrNoProvider) {
		t.Error("Expected ResolutionError to match ErrNoProvider")
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("missing session_id", "session_id")

	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("Expected ParseError to match ErrInvalidResponse")
	}
}
