// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

/*
Package config provides centralized configuration management for Regboard.

Configuration is loaded in three layers with clear precedence (highest last):

 1. Defaults: built-in sensible defaults for every setting
 2. Config file: optional YAML file (config.yaml or CONFIG_PATH)
 3. Environment variables: override any setting

# Configuration Structure

Settings are organized into logical groups:

  - ServerConfig: HTTP server bind address, port, and timeouts
  - DatabaseConfig: DuckDB path and performance tuning
  - NATSConfig: embedded broker, JetStream stream, and durable consumer
  - ConsumerConfig: connection retry policy and router middleware
  - SummaryConfig: periodic summary reporting cadence
  - APIConfig: pagination limits and rate limiting
  - LoggingConfig: log level and output format

# Environment Variables

Common variables:

  - HTTP_PORT: listen port (default: 8090)
  - DUCKDB_PATH: database file path (default: /data/regboard.duckdb)
  - NATS_URL: broker URL (default: nats://127.0.0.1:4222)
  - NATS_EMBEDDED_SERVER: run an embedded broker (default: true)
  - CONSUMER_MAX_CONNECT_ATTEMPTS: startup connection retries (default: 10)
  - SUMMARY_EVERY: report a summary every N processed events (default: 5)
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)

# Thread Safety

The Config struct is immutable after Load() returns, making it safe for
concurrent access from multiple goroutines without synchronization.
*/
package config
