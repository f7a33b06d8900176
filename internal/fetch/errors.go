package fetch

import (
	"context"
	"errors"
	"fmt"
)

// TimeoutError marks an attempt that exceeded its per-attempt timeout.
// Timeouts are retryable.
type TimeoutError struct {
	CorrelationID string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out (correlation %s)", e.CorrelationID)
}

// ClientError is a terminal 4xx response. The request itself is malformed or
// rejected, so retrying cannot help and none is attempted.
type ClientError struct {
	StatusCode    int
	Code          string
	CorrelationID string
}

func (e *ClientError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream rejected request: status %d code %s (correlation %s)", e.StatusCode, e.Code, e.CorrelationID)
	}
	return fmt.Sprintf("upstream rejected request: status %d (correlation %s)", e.StatusCode, e.CorrelationID)
}

// ServerError is a retryable 5xx response.
type ServerError struct {
	StatusCode    int
	CorrelationID string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("upstream server error: status %d (correlation %s)", e.StatusCode, e.CorrelationID)
}

// NetworkError is a retryable transport-level failure.
type NetworkError struct {
	CorrelationID string
	Err           error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure (correlation %s): %v", e.CorrelationID, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RetriesExhaustedError wraps the final attempt's classified failure once
// the attempt budget is spent.
type RetriesExhaustedError struct {
	Attempts      int
	CorrelationID string
	Err           error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts (correlation %s): %v", e.Attempts, e.CorrelationID, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Err }

// UserMessage maps an error from this package onto the short classified
// message shown to consumers instead of raw internal detail.
func UserMessage(err error) string {
	var exhausted *RetriesExhaustedError
	if errors.As(err, &exhausted) {
		return UserMessage(exhausted.Err)
	}
	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		return "request timed out"
	}
	var client *ClientError
	if errors.As(err, &client) {
		if client.StatusCode == 429 {
			return "rate limited"
		}
		return "request rejected"
	}
	var server *ServerError
	if errors.As(err, &server) {
		return "server error, try again later"
	}
	var network *NetworkError
	if errors.As(err, &network) {
		return "network error"
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	return "request failed"
}
