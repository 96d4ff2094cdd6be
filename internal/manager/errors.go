package manager

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// APIError is a non-2xx response from the management plane.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("management API %s returned %d: %s", e.Path, e.StatusCode, e.Body)
}

// AuthenticationError is a credential rejection by the management plane.
// It is never retried.
type AuthenticationError struct {
	Username string
	Err      error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed for user %q", e.Username)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// ConnectionError means the connect retry budget was exhausted without ever
// establishing a session. It carries the last underlying cause.
type ConnectionError struct {
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to management plane after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// SessionError is an unexpected, non-retryable session failure that is
// neither a transient network problem nor a credential rejection.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("unexpected session error: %v", e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// IsUnauthorized reports whether an error indicates a credential rejection.
// The management plane signals this with a 401/403 status or an explicit
// "Unauthorized" marker in the body.
func IsUnauthorized(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return true
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "401") || strings.Contains(msg, "Unauthorized")
}

// isTransient reports whether a connect failure is worth retrying.
// Connection refusal and other network-level failures are transient while
// the management plane is still booting.
func isTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}

	// url.Error and friends wrap the dial failure in prose.
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "EOF")
}
