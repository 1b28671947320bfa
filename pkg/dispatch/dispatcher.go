package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teambot-io/teambot/pkg/event"
	"github.com/teambot-io/teambot/pkg/filter"
)

// Poller is the transport surface the dispatcher polls for updates. Poll
// blocks server-side for up to pollTime seconds, returning a batch of raw
// updates in arrival order plus the cursor for the next poll.
type Poller interface {
	Poll(ctx context.Context, cursor int64, pollTime int) ([]event.Raw, int64, error)
}

// PollerFunc adapts a plain function to the Poller interface.
type PollerFunc func(ctx context.Context, cursor int64, pollTime int) ([]event.Raw, int64, error)

// Poll implements Poller.
func (f PollerFunc) Poll(ctx context.Context, cursor int64, pollTime int) ([]event.Raw, int64, error) {
	return f(ctx, cursor, pollTime)
}

// State is the dispatcher's loop state.
type State int32

// Loop states.
const (
	StateIdle State = iota
	StatePolling
	StateProcessing
	StateStopped
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateProcessing:
		return "processing"
	default:
		return "stopped"
	}
}

// RetryConfig bounds the exponential backoff applied to failed polls.
type RetryConfig struct {
	// MaxAttempts is the number of consecutive poll failures tolerated
	// before the loop stops with a fatal error. Zero retries forever with
	// the backoff capped at MaxBackoff.
	MaxAttempts int

	// InitialBackoff is the delay after the first failure.
	InitialBackoff time.Duration

	// MaxBackoff caps the doubling delay.
	MaxBackoff time.Duration
}

func (r *RetryConfig) defaults() {
	if r.InitialBackoff <= 0 {
		r.InitialBackoff = time.Second
	}
	if r.MaxBackoff <= 0 {
		r.MaxBackoff = 30 * time.Second
	}
}

// Config holds the dispatcher configuration.
type Config struct {
	// Poller is the transport collaborator. Required.
	Poller Poller

	// PollTime is the server-side long-poll window in seconds.
	PollTime int

	// Workers is the number of goroutines processing events from a batch.
	// The default of 1 processes a batch strictly in arrival order. With
	// more workers, events are still started in arrival order but may
	// complete in any order.
	Workers int

	// QueueSize is the capacity of the processing queue between the poll
	// loop and the workers. When the queue is full, batch submission
	// blocks; the next poll only starts once the batch is fully submitted.
	QueueSize int

	// Retry bounds the poll failure backoff.
	Retry RetryConfig

	// InitialCursor is the cursor for the first poll. Zero polls from the
	// platform default ("now"): events that arrived while the process was
	// down are skipped. The cursor lives in process memory only.
	InitialCursor int64

	Logger   *slog.Logger
	Observer Observer

	// Tracer records one span per event dispatch. Nil uses the global
	// tracer provider.
	Tracer trace.Tracer
}

func (c *Config) withDefaults() {
	if c.PollTime <= 0 {
		c.PollTime = 15
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 64
	}
	c.Retry.defaults()
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Observer == nil {
		c.Observer = NopObserver{}
	}
	if c.Tracer == nil {
		c.Tracer = otel.Tracer("github.com/teambot-io/teambot/pkg/dispatch")
	}
}

// Dispatcher owns the poll loop, the cursor, the middleware chain, and the
// handler registry. The cursor and the registries have a single writer: the
// application before Run, the loop goroutine afterwards.
type Dispatcher struct {
	config      Config
	logger      *slog.Logger
	observer    Observer
	tracer      trace.Tracer
	middlewares []Middleware
	registry    *registry

	cursor  atomic.Int64
	state   atomic.Int32
	started atomic.Bool

	queue    chan *event.Event
	workers  sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a Dispatcher. Handlers and middleware must be registered
// before Run is called.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Poller == nil {
		return nil, ErrNoPoller
	}
	cfg.withDefaults()

	d := &Dispatcher{
		config:   cfg,
		logger:   cfg.Logger.With("component", "dispatch"),
		observer: cfg.Observer,
		tracer:   cfg.Tracer,
		registry: newRegistry(),
		queue:    make(chan *event.Event, cfg.QueueSize),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	d.cursor.Store(cfg.InitialCursor)
	d.state.Store(int32(StateIdle))
	return d, nil
}

// Use appends a middleware to the chain. Returns ErrStarted after Run.
func (d *Dispatcher) Use(mw Middleware) error {
	if d.started.Load() {
		return ErrStarted
	}
	d.middlewares = append(d.middlewares, mw)
	return nil
}

// Handle registers a handler under a unique name. Handlers are matched in
// registration order; the first whose filter matches receives the event.
// Returns ErrStarted after Run.
func (d *Dispatcher) Handle(name string, f filter.Filter, fn HandlerFunc) error {
	if d.started.Load() {
		return ErrStarted
	}
	return d.registry.add(name, f, fn)
}

// State returns the current loop state.
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

// Cursor returns the last fully submitted cursor position.
func (d *Dispatcher) Cursor() int64 {
	return d.cursor.Load()
}

// Stop signals the loop to stop. In-flight handlers run to completion; Stop
// returns once the loop has fully wound down. Calling Stop before Run keeps
// the loop from ever starting. Safe to call multiple times.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
	if d.started.Load() {
		<-d.done
	}
}

// Run enters the poll loop and blocks the caller until Stop is called, ctx
// is cancelled, or the transport retry budget is exhausted. Only the last
// case returns a non-nil error.
func (d *Dispatcher) Run(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return ErrStarted
	}
	defer close(d.done)

	// Stop may already have been called. A Stop that observed
	// started == false has returned without waiting on done, so the loop
	// must not start any work after it.
	if d.stopping() {
		d.state.Store(int32(StateStopped))
		return nil
	}

	// pollCtx unblocks the in-flight poll when Stop is called. Workers
	// keep the parent context: in-flight handlers run to completion.
	pollCtx, cancelPoll := context.WithCancel(ctx)
	defer cancelPoll()
	go func() {
		select {
		case <-d.stopCh:
			cancelPoll()
		case <-pollCtx.Done():
		}
	}()

	for range d.config.Workers {
		d.workers.Add(1)
		go func() {
			defer d.workers.Done()
			for ev := range d.queue {
				d.process(ctx, ev)
			}
		}()
	}

	err := d.loop(pollCtx)

	close(d.queue)
	d.workers.Wait()
	d.state.Store(int32(StateStopped))
	d.logger.Info("dispatcher stopped", "cursor", d.cursor.Load())
	return err
}

// loop is the poll state machine. It runs on a single goroutine, which is
// the only writer of the cursor.
func (d *Dispatcher) loop(ctx context.Context) error {
	var (
		attempts int
		backoff  = d.config.Retry.InitialBackoff
	)

	for {
		select {
		case <-d.stopCh:
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		d.state.Store(int32(StatePolling))
		cursor := d.cursor.Load()
		updates, next, err := d.config.Poller.Poll(ctx, cursor, d.config.PollTime)
		if err != nil {
			if ctx.Err() != nil || d.stopping() {
				return nil
			}

			attempts++
			d.observer.PollError()
			d.logger.Error("poll failed",
				"cursor", cursor,
				"attempt", attempts,
				"error", err,
			)

			if budget := d.config.Retry.MaxAttempts; budget > 0 && attempts >= budget {
				return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, err)
			}

			if !d.sleep(ctx, backoff) {
				return nil
			}
			backoff = min(backoff*2, d.config.Retry.MaxBackoff)
			continue
		}

		attempts = 0
		backoff = d.config.Retry.InitialBackoff
		d.observer.BatchReceived(len(updates))

		if len(updates) == 0 {
			continue
		}

		d.state.Store(int32(StateProcessing))
		if !d.submitBatch(ctx, updates) {
			return nil
		}

		// The cursor advances as a whole batch, only forward, and only
		// after the batch is fully submitted.
		if next > cursor {
			d.cursor.Store(next)
			d.observer.CursorAdvanced(next)
		}
	}
}

// submitBatch decodes the batch in arrival order and enqueues each decoded
// event for processing. Undecodable updates are logged and skipped; they
// never block their siblings. Returns false if stopped mid-batch.
func (d *Dispatcher) submitBatch(ctx context.Context, updates []event.Raw) bool {
	for _, raw := range updates {
		ev, err := event.Decode(raw)
		if err != nil {
			d.observer.DecodeError()
			d.logger.Warn("skipping undecodable update",
				"event_id", raw.EventID,
				"event_type", raw.Type,
				"error", err,
			)
			continue
		}

		select {
		case d.queue <- ev:
		case <-d.stopCh:
			return false
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// process runs one event through the middleware chain and the first matching
// handler. Every failure here is isolated to this event.
func (d *Dispatcher) process(ctx context.Context, ev *event.Event) {
	ctx, span := d.tracer.Start(ctx, "dispatch.event",
		trace.WithAttributes(
			attribute.Int64("event.id", ev.ID),
			attribute.String("event.type", string(ev.Type)),
			attribute.String("chat.id", ev.Chat.ID),
		))
	defer span.End()

	if d.runChain(ctx, ev) == Abort {
		return
	}

	entry, ok := d.registry.match(ev)
	if !ok {
		d.observer.Unhandled()
		d.logger.Debug("no handler matched",
			"event_id", ev.ID,
			"event_type", string(ev.Type),
		)
		return
	}

	span.SetAttributes(attribute.String("handler", entry.name))

	start := time.Now()
	err := invoke(ctx, entry, ev)
	d.observer.HandlerDone(entry.name, ev.Type, time.Since(start), err)
	if err != nil {
		d.logger.Error("handler failed",
			"event_id", ev.ID,
			"event_type", string(ev.Type),
			"handler", entry.name,
			"error", err,
		)
	}
}

// invoke calls a handler, converting a panic into an error so one callback
// cannot take down the loop or its sibling events.
func invoke(ctx context.Context, entry handlerEntry, ev *event.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	return entry.fn(ctx, ev)
}

// sleep waits for the backoff, returning false if stopped meanwhile.
func (d *Dispatcher) sleep(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-d.stopCh:
		return false
	case <-ctx.Done():
		return false
	}
}

func (d *Dispatcher) stopping() bool {
	select {
	case <-d.stopCh:
		return true
	default:
		return false
	}
}

// panicError wraps a recovered panic value.
type panicError struct{ value any }

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }
