package internal

import (
	"errors"
	"fmt"
)

// NetworkError represents a request that never reached the gateway.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error [%s]: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError represents a request that exceeded its bound. The underlying
// request is always cancelled when this is returned.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout [%s]: request exceeded its bound", e.Op)
}

// UpstreamError represents a non-success response from the gateway.
type UpstreamError struct {
	Op     string
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error [%s] status %d: %s", e.Op, e.Status, e.Detail)
}

// MalformedResponseError represents a success status whose body is missing
// an expected field. Displayed as an upstream failure, logged distinctly.
type MalformedResponseError struct {
	Op    string
	Field string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response [%s]: missing %s", e.Op, e.Field)
}

// UserMessage maps the failure taxonomy to the short, actionable message the
// overlay displays. Technical detail stays in the logs.
func UserMessage(err error) string {
	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		return fmt.Sprintf("Request timeout - %s took too long, try shorter input", timeout.Op)
	}

	var network *NetworkError
	if errors.As(err, &network) {
		return "Network error - please check your connection"
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		if upstream.Detail != "" {
			return fmt.Sprintf("Request failed: %s", upstream.Detail)
		}
		return fmt.Sprintf("Request failed with status %d", upstream.Status)
	}

	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		return "Request failed - unexpected response"
	}

	return "Something went wrong - please try again"
}
