// Package dispatch implements the event-acquisition and dispatch engine: the
// long-poll loop with cursor tracking, the middleware chain, and the
// filter-routed handler registry.
package dispatch

import "errors"

// Sentinel errors for dispatcher operations.
var (
	// ErrNoPoller indicates the dispatcher was built without a transport
	// poller.
	ErrNoPoller = errors.New("dispatch: poller is required")

	// ErrStarted indicates a registration arrived after Run. The handler
	// and middleware lists are finalized before the loop starts; late
	// registration is rejected rather than synchronized.
	ErrStarted = errors.New("dispatch: dispatcher already started")

	// ErrDuplicateHandler indicates a handler is already registered under
	// the same name.
	ErrDuplicateHandler = errors.New("dispatch: duplicate handler name")

	// ErrRetriesExhausted is the fatal error surfaced by Run after the
	// transport retry budget is spent.
	ErrRetriesExhausted = errors.New("dispatch: transport retry budget exhausted")
)
