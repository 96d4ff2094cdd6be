package manager

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUnauthorized(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "api 401", err: &APIError{StatusCode: 401}, want: true},
		{name: "api 403", err: &APIError{StatusCode: 403}, want: true},
		{name: "api 500", err: &APIError{StatusCode: 500}, want: false},
		{name: "wrapped api 401", err: fmt.Errorf("create failed: %w", &APIError{StatusCode: 401}), want: true},
		{name: "unauthorized marker in message", err: errors.New("device said Unauthorized"), want: true},
		{name: "401 marker in message", err: errors.New("status 401 from device"), want: true},
		{name: "unrelated error", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnauthorized(tt.err))
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "connection refused errno", err: syscall.ECONNREFUSED, want: true},
		{name: "connection reset errno", err: syscall.ECONNRESET, want: true},
		{name: "wrapped errno", err: fmt.Errorf("dial: %w", syscall.ECONNREFUSED), want: true},
		{name: "net error", err: &net.DNSError{Err: "lookup failed", IsTimeout: true}, want: true},
		{name: "api 500", err: &APIError{StatusCode: 500}, want: true},
		{name: "api 503", err: &APIError{StatusCode: 503}, want: true},
		{name: "api 404", err: &APIError{StatusCode: 404}, want: false},
		{name: "refused in message", err: errors.New("Post https://x: connection refused"), want: true},
		{name: "unknown host in message", err: errors.New("dial tcp: no such host"), want: true},
		{name: "unexpected EOF", err: errors.New("unexpected EOF"), want: true},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransient(tt.err))
		})
	}
}

func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("root cause")

	var authErr error = &AuthenticationError{Username: "admin", Err: cause}
	assert.ErrorIs(t, authErr, cause)
	assert.Contains(t, authErr.Error(), "admin")

	var connErr error = &ConnectionError{Attempts: 120, Err: cause}
	assert.ErrorIs(t, connErr, cause)
	assert.Contains(t, connErr.Error(), "120 attempts")

	var sessErr error = &SessionError{Err: cause}
	assert.ErrorIs(t, sessErr, cause)

	wrapped := fmt.Errorf("connect: %w", authErr)
	var target *AuthenticationError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "admin", target.Username)
}
