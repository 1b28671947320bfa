// Package gateway provides the admin/monitoring HTTP server: health and
// status of the dispatch loop plus the Prometheus scrape endpoint. It binds
// to loopback by default.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teambot-io/teambot/pkg/dispatch"
)

// Config holds the gateway configuration.
type Config struct {
	// Addr is the listen address.
	Addr string

	// RunID identifies this process run in /status.
	RunID string

	// Dispatcher is the engine whose state the gateway reports.
	Dispatcher *dispatch.Dispatcher

	// Gatherer serves /metrics.
	Gatherer prometheus.Gatherer

	Logger *slog.Logger
}

// Gateway is the admin HTTP server.
type Gateway struct {
	config  Config
	logger  *slog.Logger
	server  *http.Server
	started time.Time
}

// New creates a Gateway.
func New(cfg Config) *Gateway {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	g := &Gateway{
		config: cfg,
		logger: cfg.Logger.With("component", "gateway"),
	}
	g.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           g.buildRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return g
}

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", g.handleHealth())
	r.Get("/status", g.handleStatus())
	if g.config.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Start begins serving in a background goroutine.
func (g *Gateway) Start() error {
	ln, err := net.Listen("tcp", g.config.Addr)
	if err != nil {
		return err
	}
	g.started = time.Now()

	go func() {
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve failed", "error", err)
		}
	}()

	g.logger.Info("gateway listening", "addr", ln.Addr().String())
	return nil
}

// Stop shuts the server down gracefully.
func (g *Gateway) Stop(ctx context.Context) error {
	return g.server.Shutdown(ctx)
}
