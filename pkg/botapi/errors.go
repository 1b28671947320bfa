package botapi

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// TransportErrorKind classifies a failed Bot API request.
type TransportErrorKind string

// Transport failure kinds.
const (
	// Network covers connection-level failures (DNS, refused, reset).
	Network TransportErrorKind = "network"
	// RateLimited is an HTTP 429 response.
	RateLimited TransportErrorKind = "rate_limited"
	// ServerError covers HTTP 5xx responses and malformed response
	// envelopes.
	ServerError TransportErrorKind = "server_error"
	// Timeout means the request exceeded its deadline.
	Timeout TransportErrorKind = "timeout"
)

// TransportError reports a failed request against the Bot API. All kinds are
// retryable from the dispatcher's point of view.
type TransportError struct {
	Kind     TransportErrorKind
	Endpoint string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("botapi: %s: %s (status %d)", e.Endpoint, e.Kind, e.Status)
	}
	return fmt.Sprintf("botapi: %s: %s: %v", e.Endpoint, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a well-formed Bot API response with ok=false. It is not a
// transport failure: the server understood and rejected the request.
type APIError struct {
	Endpoint    string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("botapi: %s: api error: %s", e.Endpoint, e.Description)
}

// classifyRequestError maps a request-level error to a TransportError kind.
func classifyRequestError(endpoint string, err error) *TransportError {
	kind := Network
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = Timeout
	}
	return &TransportError{Kind: kind, Endpoint: endpoint, Err: err}
}
