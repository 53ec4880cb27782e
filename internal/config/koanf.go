// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/regboard/config.yaml",
	"/etc/regboard/config.yml",
}

// ConfigPathEnvVar is the environment variable that overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are loaded
// first, then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8090,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
		},
		Database: DatabaseConfig{
			Path:         "/data/regboard.duckdb",
			MaxMemory:    "2GB",
			Threads:      0, // 0 = runtime.NumCPU()
			AccessMode:   "automatic",
			MaxOpenConns: 4,
			MaxIdleConns: 2,
		},
		NATS: NATSConfig{
			URL:                 "nats://127.0.0.1:4222",
			EmbeddedServer:      true,
			StoreDir:            "/data/nats/jetstream",
			MaxMemory:           1 << 30,  // 1GB
			MaxStore:            10 << 30, // 10GB
			StreamName:          "REGISTRATIONS",
			Subject:             "user.registrations",
			DurableName:         "registration-processor",
			StreamRetentionDays: 7,
			AckWaitTimeout:      30 * time.Second,
		},
		Consumer: ConsumerConfig{
			MaxConnectAttempts:   10,
			ConnectBackoff:       5 * time.Second,
			RetryCount:           3,
			RetryInitialInterval: 100 * time.Millisecond,
			RetryMaxInterval:     10 * time.Second,
			PoisonQueueEnabled:   true,
			PoisonQueueTopic:     "user.registrations.poison",
			CloseTimeout:         30 * time.Second,
		},
		Summary: SummaryConfig{
			Enabled:      true,
			Every:        5,
			TopDomains:   3,
			QueryTimeout: 5 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize:  25,
			MaxPageSize:      1000,
			RateLimitEnabled: true,
			RateLimit:        100,
			RateLimitWindow:  time.Minute,
			QueryTimeout:     10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML config file (if found)
//  3. Environment variables: override any setting
//
// Precedence is ENV > file > defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// HTTP_PORT -> server.port, NATS_URL -> nats.url, LOG_LEVEL -> logging.level
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file, checking CONFIG_PATH first and
// then the default paths. Returns empty string when no file exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - NATS_URL -> nats.url
//   - CONSUMER_MAX_CONNECT_ATTEMPTS -> consumer.max_connect_attempts
//   - SUMMARY_EVERY -> summary.every
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server
		"http_host":             "server.host",
		"http_port":             "server.port",
		"http_read_timeout":     "server.read_timeout",
		"http_write_timeout":    "server.write_timeout",
		"http_idle_timeout":     "server.idle_timeout",
		"http_shutdown_timeout": "server.shutdown_timeout",

		// Database
		"duckdb_path":           "database.path",
		"duckdb_max_memory":     "database.max_memory",
		"duckdb_threads":        "database.threads",
		"duckdb_access_mode":    "database.access_mode",
		"duckdb_max_open_conns": "database.max_open_conns",
		"duckdb_max_idle_conns": "database.max_idle_conns",

		// Broker
		"nats_url":                   "nats.url",
		"nats_embedded_server":       "nats.embedded_server",
		"nats_store_dir":             "nats.store_dir",
		"nats_max_memory":            "nats.max_memory",
		"nats_max_store":             "nats.max_store",
		"nats_stream_name":           "nats.stream_name",
		"nats_subject":               "nats.subject",
		"nats_durable_name":          "nats.durable_name",
		"nats_stream_retention_days": "nats.stream_retention_days",
		"nats_ack_wait_timeout":      "nats.ack_wait_timeout",

		// Consumer
		"consumer_max_connect_attempts":   "consumer.max_connect_attempts",
		"consumer_connect_backoff":        "consumer.connect_backoff",
		"consumer_retry_count":            "consumer.retry_count",
		"consumer_retry_initial_interval": "consumer.retry_initial_interval",
		"consumer_retry_max_interval":     "consumer.retry_max_interval",
		"consumer_poison_queue_enabled":   "consumer.poison_queue_enabled",
		"consumer_poison_queue_topic":     "consumer.poison_queue_topic",
		"consumer_close_timeout":          "consumer.close_timeout",

		// Summary
		"summary_enabled":       "summary.enabled",
		"summary_every":         "summary.every",
		"summary_top_domains":   "summary.top_domains",
		"summary_query_timeout": "summary.query_timeout",

		// API
		"api_default_page_size":  "api.default_page_size",
		"api_max_page_size":      "api.max_page_size",
		"api_rate_limit_enabled": "api.rate_limit_enabled",
		"api_rate_limit":         "api.rate_limit",
		"api_rate_limit_window":  "api.rate_limit_window",
		"api_query_timeout":      "api.query_timeout",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if path, ok := envMappings[key]; ok {
		return path
	}

	// Unknown variables are dropped so unrelated environment noise cannot
	// leak into the configuration tree.
	return ""
}
