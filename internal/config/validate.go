package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Validate checks configuration constraints after defaults are applied.
func Validate(cfg *Config) error {
	if cfg.Token == "" {
		return errors.New("config: token is required")
	}

	if cfg.APIURL != "" {
		u, err := url.Parse(cfg.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("config: api_url must be a valid http/https URL, got %q", cfg.APIURL)
		}
	}

	if cfg.PollTime < 1 || cfg.PollTime > 60 {
		return fmt.Errorf("config: poll_time must be 1-60 seconds, got %d", cfg.PollTime)
	}

	if cfg.Workers < 1 || cfg.Workers > 256 {
		return fmt.Errorf("config: workers must be 1-256, got %d", cfg.Workers)
	}

	if cfg.Retry.MaxAttempts < 0 {
		return fmt.Errorf("config: retry.max_attempts must be >= 0, got %d", cfg.Retry.MaxAttempts)
	}

	if cfg.Retry.InitialBackoff < 100*time.Millisecond || cfg.Retry.InitialBackoff > cfg.Retry.MaxBackoff {
		return fmt.Errorf("config: retry.initial_backoff must be 100ms-%s, got %s",
			cfg.Retry.MaxBackoff, cfg.Retry.InitialBackoff)
	}

	switch cfg.State.Backend {
	case "memory":
	case "sqlite":
		if cfg.State.Path == "" {
			return errors.New("config: state.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("config: invalid state.backend %q (must be \"memory\" or \"sqlite\")", cfg.State.Backend)
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		return errors.New("config: telemetry.endpoint is required when telemetry is enabled")
	}

	return nil
}
