package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "teambot.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "token: abc\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Token != "abc" {
		t.Errorf("Token = %q, want %q", cfg.Token, "abc")
	}
	if cfg.PollTime != 15 {
		t.Errorf("PollTime = %d, want 15", cfg.PollTime)
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want 1", cfg.Workers)
	}
	if cfg.QueueSize != 64 {
		t.Errorf("QueueSize = %d, want 64", cfg.QueueSize)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Retry.InitialBackoff != time.Second {
		t.Errorf("Retry.InitialBackoff = %s, want 1s", cfg.Retry.InitialBackoff)
	}
	if cfg.Retry.MaxBackoff != 30*time.Second {
		t.Errorf("Retry.MaxBackoff = %s, want 30s", cfg.Retry.MaxBackoff)
	}
	if cfg.Gateway.Addr != "127.0.0.1:8288" {
		t.Errorf("Gateway.Addr = %q, want loopback default", cfg.Gateway.Addr)
	}
	if cfg.State.Backend != "memory" {
		t.Errorf("State.Backend = %q, want %q", cfg.State.Backend, "memory")
	}
	if cfg.State.TTL != 5*time.Minute {
		t.Errorf("State.TTL = %s, want 5m", cfg.State.TTL)
	}
}

func TestLoadFull(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
token: abc
api_url: https://example.com
poll_time: 30
workers: 4
queue_size: 128
log_level: debug
retry:
  max_attempts: 10
  initial_backoff: 500ms
  max_backoff: 1m
access:
  allow_chats: [c1, c2]
  reject_text: not allowed
gateway:
  enabled: true
  addr: 127.0.0.1:9000
state:
  backend: sqlite
  path: /tmp/state.db
  ttl: 1h
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIURL != "https://example.com" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.Retry.MaxAttempts != 10 {
		t.Errorf("Retry.MaxAttempts = %d, want 10", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.InitialBackoff != 500*time.Millisecond {
		t.Errorf("Retry.InitialBackoff = %s, want 500ms", cfg.Retry.InitialBackoff)
	}
	if len(cfg.Access.AllowChats) != 2 || cfg.Access.AllowChats[0] != "c1" {
		t.Errorf("Access.AllowChats = %v, want [c1 c2]", cfg.Access.AllowChats)
	}
	if !cfg.Gateway.Enabled || cfg.Gateway.Addr != "127.0.0.1:9000" {
		t.Errorf("Gateway = %+v", cfg.Gateway)
	}
	if cfg.State.Backend != "sqlite" || cfg.State.Path != "/tmp/state.db" {
		t.Errorf("State = %+v", cfg.State)
	}
	if cfg.State.TTL != time.Hour {
		t.Errorf("State.TTL = %s, want 1h", cfg.State.TTL)
	}
}

func TestEnvExpansion(t *testing.T) {
	t.Setenv("TEAMBOT_TEST_TOKEN", "from-env")

	cfg, err := Load(writeConfig(t, `
token: ${TEAMBOT_TEST_TOKEN}
log_level: ${TEAMBOT_TEST_LEVEL:-warn}
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Token != "from-env" {
		t.Errorf("Token = %q, want %q", cfg.Token, "from-env")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want default %q", cfg.LogLevel, "warn")
	}
}

func TestEnvExpansionPrefersEnvOverDefault(t *testing.T) {
	t.Setenv("TEAMBOT_TEST_LEVEL", "error")

	cfg, err := Load(writeConfig(t, "token: abc\nlog_level: ${TEAMBOT_TEST_LEVEL:-warn}\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "error")
	}
}

func TestEnvExpansionUnresolved(t *testing.T) {
	_, err := Load(writeConfig(t, "token: ${TEAMBOT_TEST_MISSING_VAR}\n"))
	if err == nil {
		t.Fatal("Load() succeeded, want unresolved variable error")
	}
	if !strings.Contains(err.Error(), "TEAMBOT_TEST_MISSING_VAR") {
		t.Errorf("error = %v, want it to name the variable", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() succeeded, want error for missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{Token: "abc"}
		cfg.defaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing token", func(c *Config) { c.Token = "" }, "token"},
		{"bad api url", func(c *Config) { c.APIURL = "not a url" }, "api_url"},
		{"poll time too low", func(c *Config) { c.PollTime = 0 }, "poll_time"},
		{"poll time too high", func(c *Config) { c.PollTime = 120 }, "poll_time"},
		{"too many workers", func(c *Config) { c.Workers = 1000 }, "workers"},
		{"negative retries", func(c *Config) { c.Retry.MaxAttempts = -1 }, "max_attempts"},
		{"backoff too small", func(c *Config) { c.Retry.InitialBackoff = time.Millisecond }, "initial_backoff"},
		{"backoff inverted", func(c *Config) {
			c.Retry.InitialBackoff = time.Minute
			c.Retry.MaxBackoff = time.Second
		}, "initial_backoff"},
		{"unknown state backend", func(c *Config) { c.State.Backend = "redis" }, "state.backend"},
		{"sqlite without path", func(c *Config) { c.State.Backend = "sqlite" }, "state.path"},
		{"telemetry without endpoint", func(c *Config) { c.Telemetry.Enabled = true }, "telemetry.endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
