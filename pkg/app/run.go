// Package app wires the engine together: configuration, logging, metrics,
// telemetry, the Bot API client, the state store, the gateway, and the
// dispatcher, with signal-driven shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/teambot-io/teambot/internal/config"
	"github.com/teambot-io/teambot/internal/cron"
	"github.com/teambot-io/teambot/internal/gateway"
	"github.com/teambot-io/teambot/internal/metrics"
	"github.com/teambot-io/teambot/internal/state"
	"github.com/teambot-io/teambot/internal/telemetry"
	"github.com/teambot-io/teambot/pkg/botapi"
	"github.com/teambot-io/teambot/pkg/dispatch"
)

const shutdownTimeout = 30 * time.Second

// App exposes the wired components to the Setup callback so the application
// can register its handlers and middleware before the loop starts.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Client     *botapi.Client
	State      state.Store
	Dispatcher *dispatch.Dispatcher
}

// RunParams configures the main application loop.
type RunParams struct {
	// ConfigPath is the path to the YAML configuration file.
	ConfigPath string

	// Version, Commit, and Date are injected at build time via ldflags.
	Version string
	Commit  string
	Date    string

	// Setup registers the application's middleware and handlers. Called
	// after wiring and before the poll loop starts.
	Setup func(app *App) error
}

// Run loads configuration, wires all components, enters the poll loop, and
// blocks until a shutdown signal arrives or the transport retry budget is
// exhausted. Only the latter returns a non-nil error.
func Run(params RunParams) error {
	cfg, err := config.Load(params.ConfigPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	})).With("run_id", runID)

	ctx := context.Background()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(ctx, telemetry.Config{
			Endpoint:    cfg.Telemetry.Endpoint,
			Insecure:    cfg.Telemetry.Insecure,
			ServiceName: cfg.Telemetry.ServiceName,
			Version:     params.Version,
		})
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdown(flushCtx); err != nil {
				logger.Error("telemetry shutdown failed", "error", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer := metrics.New(registry)

	client := botapi.NewClient(cfg.Token, cfg.APIURL)
	info, err := client.SelfGet(ctx)
	if err != nil {
		return fmt.Errorf("app: token check failed: %w", err)
	}
	logger.Info("bot authenticated", "user_id", info.UserID, "nick", info.Nick)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	scheduler := cron.NewScheduler(logger)
	if err := scheduler.RegisterJob(state.NewSweepJob(store, cfg.State.SweepSchedule, logger)); err != nil {
		return err
	}

	dispatcher, err := dispatch.New(dispatch.Config{
		Poller:    client,
		PollTime:  cfg.PollTime,
		Workers:   cfg.Workers,
		QueueSize: cfg.QueueSize,
		Retry: dispatch.RetryConfig{
			MaxAttempts:    cfg.Retry.MaxAttempts,
			InitialBackoff: cfg.Retry.InitialBackoff,
			MaxBackoff:     cfg.Retry.MaxBackoff,
		},
		InitialCursor: cfg.InitialCursor,
		Logger:        logger,
		Observer:      observer,
	})
	if err != nil {
		return err
	}

	if len(cfg.Access.AllowChats) > 0 {
		mw := dispatch.AllowChats(dispatch.AllowListConfig{
			Chats:      cfg.Access.AllowChats,
			Sender:     client,
			RejectText: cfg.Access.RejectText,
			Logger:     logger,
		})
		if err := dispatcher.Use(mw); err != nil {
			return err
		}
	}

	if params.Setup != nil {
		app := &App{
			Config:     cfg,
			Logger:     logger,
			Client:     client,
			State:      store,
			Dispatcher: dispatcher,
		}
		if err := params.Setup(app); err != nil {
			return fmt.Errorf("app: setup failed: %w", err)
		}
	}

	if err := scheduler.Start(); err != nil {
		return err
	}
	defer stopScheduler(scheduler, logger)

	if cfg.Gateway.Enabled {
		gw := gateway.New(gateway.Config{
			Addr:       cfg.Gateway.Addr,
			RunID:      runID,
			Dispatcher: dispatcher,
			Gatherer:   registry,
			Logger:     logger,
		})
		if err := gw.Start(); err != nil {
			return fmt.Errorf("app: gateway start failed: %w", err)
		}
		defer stopGateway(gw, logger)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		sig := <-sigCh
		logger.Info("shutdown signal received", "signal", sig.String())
		dispatcher.Stop()
	}()

	logger.Info("starting poll loop",
		"poll_time", cfg.PollTime,
		"workers", cfg.Workers,
	)
	return dispatcher.Run(ctx)
}

// openStore builds the configured state backend.
func openStore(cfg *config.Config) (state.Store, error) {
	if cfg.State.Backend == "sqlite" {
		return state.OpenSQLiteStore(cfg.State.Path)
	}
	return state.NewMemoryStore(), nil
}

func stopScheduler(s *cron.Scheduler, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		logger.Error("scheduler stop failed", "error", err)
	}
}

func stopGateway(g *gateway.Gateway, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := g.Stop(ctx); err != nil {
		logger.Error("gateway stop failed", "error", err)
	}
}

// logLevel maps the config string to a slog level.
func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
