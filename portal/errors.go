package portal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials means the login endpoint rejected the username
	// and password. Terminal for that call; no retry, no session mutation
	// beyond ensuring no stale tokens remain.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAuthRejected means a call failed authentication even after one
	// refresh-and-retry cycle. It is a normal call failure for the caller to
	// handle; the session teardown, if any, has already happened.
	ErrAuthRejected = errors.New("authentication rejected after retry")

	// ErrNotFound maps the backend's 404 responses.
	ErrNotFound = errors.New("not found")
)

// RefreshReason distinguishes refresh failures for diagnostics. Every variant
// drives the same recovery: session teardown.
type RefreshReason string

const (
	RefreshNoToken          RefreshReason = "no_refresh_token"
	RefreshRejected         RefreshReason = "rejected"
	RefreshNetworkOrTimeout RefreshReason = "network_or_timeout"
)

// RefreshError reports a failed token refresh.
type RefreshError struct {
	Reason RefreshReason
	Err    error
}

func (e *RefreshError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token refresh failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("token refresh failed (%s)", e.Reason)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// StatusError carries an unexpected backend status code and response body.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
