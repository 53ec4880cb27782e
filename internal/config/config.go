// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML config file, and environment variables (highest precedence).
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	NATS     NATSConfig     `koanf:"nats"`
	Consumer ConsumerConfig `koanf:"consumer"`
	Summary  SummaryConfig  `koanf:"summary"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxHeaderBytes  int           `koanf:"max_header_bytes"`
}

// Addr returns the host:port bind address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" creates an in-memory
	// database, used by tests.
	Path string `koanf:"path"`
	// MaxMemory caps DuckDB memory usage, e.g. "2GB".
	MaxMemory string `koanf:"max_memory"`
	// Threads sets DuckDB worker threads. 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
	// AccessMode is automatic, read_only, or read_write.
	AccessMode string `koanf:"access_mode"`
	// MaxOpenConns limits the sql.DB connection pool.
	MaxOpenConns int `koanf:"max_open_conns"`
	// MaxIdleConns sets the idle connection pool size.
	MaxIdleConns int `koanf:"max_idle_conns"`
}

// NATSConfig holds broker, stream, and durable consumer settings.
type NATSConfig struct {
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
	MaxMemory      int64  `koanf:"max_memory"`
	MaxStore       int64  `koanf:"max_store"`

	// StreamName is the JetStream stream holding registration events.
	StreamName string `koanf:"stream_name"`
	// Subject is the topic registration events are published to.
	Subject string `koanf:"subject"`
	// DurableName identifies the durable consumer so redelivery survives
	// process restarts.
	DurableName string `koanf:"durable_name"`
	// StreamRetentionDays bounds how long unconsumed events are kept.
	StreamRetentionDays int `koanf:"stream_retention_days"`
	// AckWaitTimeout is how long the broker waits for an ack before
	// redelivering a message.
	AckWaitTimeout time.Duration `koanf:"ack_wait_timeout"`
}

// ConsumerConfig holds connection retry policy and router middleware settings.
type ConsumerConfig struct {
	// MaxConnectAttempts bounds startup connection retries before the
	// consumer gives up.
	MaxConnectAttempts int `koanf:"max_connect_attempts"`
	// ConnectBackoff is the fixed delay between connection attempts.
	ConnectBackoff time.Duration `koanf:"connect_backoff"`

	// RetryCount bounds redelivery of a message whose store write failed
	// before it is routed to the poison queue.
	RetryCount int `koanf:"retry_count"`
	// RetryInitialInterval is the first retry delay; subsequent delays
	// grow exponentially.
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `koanf:"retry_max_interval"`

	// PoisonQueueEnabled routes messages that exhaust retries to
	// PoisonQueueTopic instead of redelivering them forever.
	PoisonQueueEnabled bool   `koanf:"poison_queue_enabled"`
	PoisonQueueTopic   string `koanf:"poison_queue_topic"`

	// CloseTimeout bounds graceful router shutdown.
	CloseTimeout time.Duration `koanf:"close_timeout"`
}

// SummaryConfig holds periodic summary reporting settings.
type SummaryConfig struct {
	Enabled bool `koanf:"enabled"`
	// Every reports a summary after each N successfully processed events.
	Every int `koanf:"every"`
	// TopDomains is how many leading domains each summary includes.
	TopDomains int `koanf:"top_domains"`
	// QueryTimeout bounds the read queries behind a summary.
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// APIConfig holds pagination and rate limiting settings.
type APIConfig struct {
	DefaultPageSize  int           `koanf:"default_page_size"`
	MaxPageSize      int           `koanf:"max_page_size"`
	RateLimitEnabled bool          `koanf:"rate_limit_enabled"`
	RateLimit        int           `koanf:"rate_limit"`
	RateLimitWindow  time.Duration `koanf:"rate_limit_window"`
	QueryTimeout     time.Duration `koanf:"query_timeout"`
}

// LoggingConfig holds log level and format settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for malformed or out-of-range values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database.threads must be >= 0, got %d", c.Database.Threads)
	}

	if c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required")
	}
	if c.NATS.StreamName == "" || c.NATS.Subject == "" {
		return fmt.Errorf("nats.stream_name and nats.subject are required")
	}
	if c.NATS.DurableName == "" {
		return fmt.Errorf("nats.durable_name is required for durable consumption")
	}
	if c.NATS.StreamRetentionDays < 1 {
		return fmt.Errorf("nats.stream_retention_days must be >= 1, got %d", c.NATS.StreamRetentionDays)
	}

	if c.Consumer.MaxConnectAttempts < 1 {
		return fmt.Errorf("consumer.max_connect_attempts must be >= 1, got %d", c.Consumer.MaxConnectAttempts)
	}
	if c.Consumer.ConnectBackoff < 0 {
		return fmt.Errorf("consumer.connect_backoff must be >= 0")
	}
	if c.Consumer.RetryCount < 0 {
		return fmt.Errorf("consumer.retry_count must be >= 0, got %d", c.Consumer.RetryCount)
	}
	if c.Consumer.PoisonQueueEnabled && c.Consumer.PoisonQueueTopic == "" {
		return fmt.Errorf("consumer.poison_queue_topic is required when the poison queue is enabled")
	}

	if c.Summary.Enabled && c.Summary.Every < 1 {
		return fmt.Errorf("summary.every must be >= 1, got %d", c.Summary.Every)
	}
	if c.Summary.TopDomains < 0 {
		return fmt.Errorf("summary.top_domains must be >= 0, got %d", c.Summary.TopDomains)
	}

	if c.API.DefaultPageSize < 1 || c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api page sizes invalid: default=%d max=%d", c.API.DefaultPageSize, c.API.MaxPageSize)
	}
	if c.API.RateLimitEnabled && c.API.RateLimit < 1 {
		return fmt.Errorf("api.rate_limit must be >= 1 when rate limiting is enabled")
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "":
	default:
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console", "":
	default:
		return fmt.Errorf("logging.format %q must be json or console", c.Logging.Format)
	}

	return nil
}
