// Package errors provides custom error types for the DocChat API client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSendInFlight     = errors.New("a send is already in flight")
	ErrEmptyMessage     = errors.New("message is empty")
	ErrNoProvider       = errors.New("no provider available")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidResponse  = errors.New("invalid response format")
)

// AuthError represents an authentication failure (401 from the server
// or a missing/expired token).
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed: token may have expired"
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *AuthError) Is(target error) bool {
	if target == ErrNotAuthenticated {
		return true
	}
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new AuthError
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// IsAuthError reports whether err is an authentication failure.
// Drives the global 401 policy: clear the stored token and require login.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	var authErr *AuthError
	return errors.As(err, &authErr) || errors.Is(err, ErrNotAuthenticated)
}

// APIError represents a non-2xx response from the server
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NetworkError represents a transport-level failure (connection refused,
// timeout, DNS) before any HTTP status was received.
type NetworkError struct {
	Op       string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s at %s: %v", e.Op, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(op, endpoint string, err error) *NetworkError {
	return &NetworkError{Op: op, Endpoint: endpoint, Err: err}
}

// IsTransportError reports whether err is a transport failure: either a
// network-level error or a non-2xx response other than 401.
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode != 401
}

// ValidationError represents input rejected before any network call
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ValidationError) Is(target error) bool {
	if target == ErrEmptyMessage {
		return true
	}
	_, ok := target.(*ValidationError)
	return ok
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// UploadError represents a failed file upload within a send. A failure of
// any one file aborts the whole send; FileName identifies the file that
// failed first.
type UploadError struct {
	FileName string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed for %s: %v", e.FileName, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// NewUploadError creates a new UploadError
func NewUploadError(fileName string, err error) *UploadError {
	return &UploadError{FileName: fileName, Err: err}
}

// ResolutionError represents a failed provider resolution: no provider is
// configured, so no send target exists.
type ResolutionError struct {
	Message string
}

func (e *ResolutionError) Error() string {
	if e.Message == "" {
		return "no provider available"
	}
	return fmt.Sprintf("no provider available: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ResolutionError) Is(target error) bool {
	if target == ErrNoProvider {
		return true
	}
	_, ok := target.(*ResolutionError)
	return ok
}

// NewResolutionError creates a new ResolutionError
func NewResolutionError(message string) *ResolutionError {
	return &ResolutionError{Message: message}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}
