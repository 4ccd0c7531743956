package regybox

import (
	"fmt"
	"strings"
)

// ConfigurationError means the booking credentials are not set. It is never
// retried and no request reaches the upstream.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "regybox credentials not configured: " + strings.Join(e.Missing, ", ")
}

// UpstreamAuthError is a rejected login, a transport failure during login or a
// login response without a session cookie. Status is 0 when no response was read.
type UpstreamAuthError struct {
	Status int
	Reason string
	Err    error
}

func (e *UpstreamAuthError) Error() string {
	switch {
	case e.Reason != "":
		return e.Reason
	case e.Err != nil:
		return "login request failed: " + e.Err.Error()
	default:
		return fmt.Sprintf("login failed with status %d", e.Status)
	}
}

func (e *UpstreamAuthError) Unwrap() error { return e.Err }

// UpstreamFetchError is a failed day listing request.
type UpstreamFetchError struct {
	Status int
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	if e.Err != nil {
		return "class listing request failed: " + e.Err.Error()
	}
	return fmt.Sprintf("failed to fetch classes: status %d", e.Status)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }
