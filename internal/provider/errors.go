package provider

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidToken indicates an invalid or expired API token (HTTP 401/403
// or an explicit validation failure).
var ErrInvalidToken = errors.New("invalid or expired API token")

// RateLimitedError indicates the provider rejected the request with HTTP
// 429. RetryAfter is zero when the provider did not supply a Retry-After
// header.
type RateLimitedError struct {
	RetryAfter time.Duration
}

// Error returns the error message
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// NetworkError wraps a transport-level failure.
type NetworkError struct {
	Err error
}

// Error returns the error message
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodingError wraps a malformed provider payload.
type DecodingError struct {
	Err error
}

// Error returns the error message
func (e *DecodingError) Error() string {
	return fmt.Sprintf("failed to parse response: %v", e.Err)
}

// Unwrap returns the underlying decode error
func (e *DecodingError) Unwrap() error {
	return e.Err
}

// ServerError is the catch-all for unexpected HTTP status codes.
type ServerError struct {
	StatusCode int
}

// Error returns the error message
func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: HTTP %d", e.StatusCode)
}

// IsAuthError reports whether err represents an authentication failure.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrInvalidToken) {
		return true
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.StatusCode == 401 || serverErr.StatusCode == 403
	}
	return false
}

// IsRateLimitError reports whether err represents an HTTP 429 response.
func IsRateLimitError(err error) bool {
	var rateLimited *RateLimitedError
	return errors.As(err, &rateLimited)
}

// IsNetworkError reports whether err represents a transport failure.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
