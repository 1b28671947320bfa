package dispatch

import (
	"time"

	"github.com/teambot-io/teambot/pkg/event"
)

// Observer receives dispatch lifecycle notifications. It is the engine's
// observability hook: per-event failures are isolated and reported here
// rather than propagated. Implementations must be safe for concurrent use.
type Observer interface {
	// PollError is called for every failed poll attempt.
	PollError()
	// BatchReceived is called after a successful poll call.
	BatchReceived(size int)
	// CursorAdvanced is called when the cursor moves to a new position.
	CursorAdvanced(cursor int64)
	// DecodeError is called when a raw update is skipped as undecodable.
	DecodeError()
	// MiddlewareAborted is called when the chain stopped an event.
	MiddlewareAborted()
	// Unhandled is called when no handler matched an event.
	Unhandled()
	// HandlerDone is called after a handler callback returned or panicked.
	HandlerDone(handler string, typ event.Type, elapsed time.Duration, err error)
}

// NopObserver is an Observer that discards every notification.
type NopObserver struct{}

func (NopObserver) PollError() {}
func (NopObserver) BatchReceived(int) {}
func (NopObserver) CursorAdvanced(int64) {}
func (NopObserver) DecodeError() {}
func (NopObserver) MiddlewareAborted() {}
func (NopObserver) Unhandled() {}
func (NopObserver) HandlerDone(string, event.Type, time.Duration, error) {}
