package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/teambot-io/teambot/pkg/event"
)

func TestObserverCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.PollError()
	m.PollError()
	m.BatchReceived(3)
	m.CursorAdvanced(42)
	m.DecodeError()
	m.MiddlewareAborted()
	m.Unhandled()
	m.HandlerDone("echo", event.NewMessage, 10*time.Millisecond, nil)
	m.HandlerDone("echo", event.NewMessage, 10*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.pollErrors); got != 2 {
		t.Errorf("poll errors = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.cursor); got != 42 {
		t.Errorf("cursor = %v, want 42", got)
	}
	if got := testutil.ToFloat64(m.decodeErrors); got != 1 {
		t.Errorf("decode errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.middlewareAborts); got != 1 {
		t.Errorf("middleware aborts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.unhandled); got != 1 {
		t.Errorf("unhandled = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.handlerErrors.WithLabelValues("echo")); got != 1 {
		t.Errorf("handler errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.eventsDispatched.WithLabelValues("newMessage")); got != 2 {
		t.Errorf("events dispatched = %v, want 2", got)
	}
}

func TestRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	// Vec collectors only appear after their first observation, but the
	// plain counters, the gauge, and the histogram register eagerly.
	if len(families) < 6 {
		t.Errorf("gathered %d metric families, want at least 6", len(families))
	}
}
