// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for teambot.
package config

import "time"

// Config is the top-level configuration structure.
type Config struct {
	// Token is the bot token issued by the platform.
	Token string `yaml:"token"`

	// APIURL overrides the Bot API base URL. Empty uses the public
	// endpoint.
	APIURL string `yaml:"api_url"`

	// PollTime is the server-side long-poll window in seconds.
	PollTime int `yaml:"poll_time"`

	// Workers is the number of event-processing goroutines. 1 processes
	// each batch strictly in arrival order.
	Workers int `yaml:"workers"`

	// QueueSize is the processing queue capacity between the poll loop
	// and the workers.
	QueueSize int `yaml:"queue_size"`

	// InitialCursor is the cursor for the first poll. Zero starts from
	// the platform default ("now").
	InitialCursor int64 `yaml:"initial_cursor"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Retry     RetryConfig     `yaml:"retry"`
	Access    AccessConfig    `yaml:"access"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	State     StateConfig     `yaml:"state"`
}

// RetryConfig bounds the poll failure backoff.
type RetryConfig struct {
	// MaxAttempts is the consecutive-failure budget before the runtime
	// exits with a fatal error. Zero retries forever.
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// AccessConfig configures the built-in allow-list middleware.
type AccessConfig struct {
	// AllowChats lists chat IDs allowed to use the bot. Empty allows
	// everyone.
	AllowChats []string `yaml:"allow_chats"`

	// RejectText, when set, is sent to rejected chats before the event
	// is dropped.
	RejectText string `yaml:"reject_text"`
}

// GatewayConfig configures the admin/monitoring HTTP server.
type GatewayConfig struct {
	Enabled bool `yaml:"enabled"`

	// Addr is the listen address. Binds to loopback by default.
	Addr string `yaml:"addr"`
}

// TelemetryConfig configures OTLP trace export.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP/HTTP collector endpoint (host:port).
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure"`

	// ServiceName overrides the reported service.name resource.
	ServiceName string `yaml:"service_name"`
}

// StateConfig configures the user conversation-state store.
type StateConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// Path is the SQLite database file, for the sqlite backend.
	Path string `yaml:"path"`

	// TTL is how long an idle user state survives before the sweeper
	// removes it.
	TTL time.Duration `yaml:"ttl"`

	// SweepSchedule is the cron expression driving the expiry sweep.
	SweepSchedule string `yaml:"sweep_schedule"`
}

// defaults applies default values to unset fields.
func (c *Config) defaults() {
	if c.PollTime == 0 {
		c.PollTime = 15
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.QueueSize == 0 {
		c.QueueSize = 64
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Retry.InitialBackoff == 0 {
		c.Retry.InitialBackoff = time.Second
	}
	if c.Retry.MaxBackoff == 0 {
		c.Retry.MaxBackoff = 30 * time.Second
	}
	if c.Gateway.Addr == "" {
		c.Gateway.Addr = "127.0.0.1:8288"
	}
	if c.State.Backend == "" {
		c.State.Backend = "memory"
	}
	if c.State.TTL == 0 {
		c.State.TTL = 5 * time.Minute
	}
	if c.State.SweepSchedule == "" {
		c.State.SweepSchedule = "* * * * *"
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "teambot"
	}
}
