// Package metrics exposes the dispatch engine's counters as Prometheus
// collectors. It implements dispatch.Observer so the engine itself stays
// free of metrics dependencies.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/teambot-io/teambot/pkg/dispatch"
	"github.com/teambot-io/teambot/pkg/event"
)

// Compile-time interface guard.
var _ dispatch.Observer = (*Metrics)(nil)

// Metrics holds the engine collectors.
type Metrics struct {
	pollErrors       prometheus.Counter
	batchSize        prometheus.Histogram
	cursor           prometheus.Gauge
	decodeErrors     prometheus.Counter
	middlewareAborts prometheus.Counter
	unhandled        prometheus.Counter
	handlerErrors    *prometheus.CounterVec
	eventsDispatched *prometheus.CounterVec
	handlerDurations *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "teambot_poll_errors_total",
			Help: "Failed poll attempts against the Bot API.",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "teambot_poll_batch_size",
			Help:    "Number of updates per successful poll.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		}),
		cursor: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "teambot_cursor",
			Help: "Last fully submitted cursor position.",
		}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "teambot_decode_errors_total",
			Help: "Raw updates skipped as undecodable.",
		}),
		middlewareAborts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "teambot_middleware_aborts_total",
			Help: "Events stopped by the middleware chain.",
		}),
		unhandled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "teambot_unhandled_events_total",
			Help: "Events no handler matched.",
		}),
		handlerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teambot_handler_errors_total",
			Help: "Handler callbacks that returned an error or panicked.",
		}, []string{"handler"}),
		eventsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teambot_events_dispatched_total",
			Help: "Events delivered to a handler, by event type.",
		}, []string{"type"}),
		handlerDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "teambot_handler_duration_seconds",
			Help:    "Handler callback execution time.",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler"}),
	}

	reg.MustRegister(
		m.pollErrors, m.batchSize, m.cursor, m.decodeErrors,
		m.middlewareAborts, m.unhandled, m.handlerErrors,
		m.eventsDispatched, m.handlerDurations,
	)
	return m
}

// PollError implements dispatch.Observer.
func (m *Metrics) PollError() { m.pollErrors.Inc() }

// BatchReceived implements dispatch.Observer.
func (m *Metrics) BatchReceived(size int) { m.batchSize.Observe(float64(size)) }

// CursorAdvanced implements dispatch.Observer.
func (m *Metrics) CursorAdvanced(cursor int64) { m.cursor.Set(float64(cursor)) }

// DecodeError implements dispatch.Observer.
func (m *Metrics) DecodeError() { m.decodeErrors.Inc() }

// MiddlewareAborted implements dispatch.Observer.
func (m *Metrics) MiddlewareAborted() { m.middlewareAborts.Inc() }

// Unhandled implements dispatch.Observer.
func (m *Metrics) Unhandled() { m.unhandled.Inc() }

// HandlerDone implements dispatch.Observer.
func (m *Metrics) HandlerDone(handler string, typ event.Type, elapsed time.Duration, err error) {
	m.eventsDispatched.WithLabelValues(string(typ)).Inc()
	m.handlerDurations.WithLabelValues(handler).Observe(elapsed.Seconds())
	if err != nil {
		m.handlerErrors.WithLabelValues(handler).Inc()
	}
}
