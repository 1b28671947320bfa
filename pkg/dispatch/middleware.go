package dispatch

import (
	"context"

	"github.com/teambot-io/teambot/pkg/event"
)

// Result signals the chain what to do after a middleware ran.
type Result int

const (
	// Continue passes the event on to the next middleware or to handler
	// matching.
	Continue Result = iota

	// Abort stops the chain; no later middleware and no handler runs for
	// this event. Earlier middleware have already run and their
	// side-channel annotations stay visible.
	Abort
)

// Middleware intercepts an event before handler routing. It may annotate the
// event's side channel, perform outbound sends, or abort processing for this
// event. A middleware must not mutate dispatcher state; any private state it
// holds is its own to synchronize.
type Middleware interface {
	Handle(ctx context.Context, ev *event.Event) (Result, error)
}

// MiddlewareFunc adapts a plain function to the Middleware interface.
type MiddlewareFunc func(ctx context.Context, ev *event.Event) (Result, error)

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx context.Context, ev *event.Event) (Result, error) {
	return f(ctx, ev)
}

// runChain executes the middleware chain in registration order. An error or
// panic from a middleware is reported and treated as Abort for this event
// only.
func (d *Dispatcher) runChain(ctx context.Context, ev *event.Event) Result {
	for i, mw := range d.middlewares {
		res, err := safeHandle(ctx, mw, ev)
		if err != nil {
			d.logger.Error("middleware failed, aborting event",
				"event_id", ev.ID,
				"event_type", string(ev.Type),
				"middleware", i,
				"error", err,
			)
			d.observer.MiddlewareAborted()
			return Abort
		}
		if res == Abort {
			d.logger.Debug("middleware aborted event",
				"event_id", ev.ID,
				"middleware", i,
			)
			d.observer.MiddlewareAborted()
			return Abort
		}
	}
	return Continue
}

// safeHandle invokes one middleware, converting a panic into an error.
func safeHandle(ctx context.Context, mw Middleware, ev *event.Event) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = Abort, &panicError{value: r}
		}
	}()
	return mw.Handle(ctx, ev)
}
