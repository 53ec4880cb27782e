// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 8090 {
		t.Errorf("Expected default port 8090, got %d", cfg.Server.Port)
	}
	if cfg.NATS.StreamName != "REGISTRATIONS" {
		t.Errorf("Expected default stream REGISTRATIONS, got %s", cfg.NATS.StreamName)
	}
	if cfg.NATS.DurableName != "registration-processor" {
		t.Errorf("Expected default durable name, got %s", cfg.NATS.DurableName)
	}
	if cfg.Consumer.MaxConnectAttempts != 10 {
		t.Errorf("Expected 10 connect attempts, got %d", cfg.Consumer.MaxConnectAttempts)
	}
	if cfg.Consumer.ConnectBackoff != 5*time.Second {
		t.Errorf("Expected 5s connect backoff, got %s", cfg.Consumer.ConnectBackoff)
	}
	if cfg.Summary.Every != 5 {
		t.Errorf("Expected summary every 5 events, got %d", cfg.Summary.Every)
	}
	if !cfg.Consumer.PoisonQueueEnabled {
		t.Error("Expected poison queue enabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("DUCKDB_PATH", "/tmp/test.duckdb")
	t.Setenv("NATS_URL", "nats://broker:4222")
	t.Setenv("SUMMARY_EVERY", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/test.duckdb" {
		t.Errorf("Expected overridden db path, got %s", cfg.Database.Path)
	}
	if cfg.NATS.URL != "nats://broker:4222" {
		t.Errorf("Expected overridden NATS URL, got %s", cfg.NATS.URL)
	}
	if cfg.Summary.Every != 10 {
		t.Errorf("Expected summary every 10 events, got %d", cfg.Summary.Every)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug level, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 7070
summary:
  every: 3
  top_domains: 5
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Expected port 7070 from file, got %d", cfg.Server.Port)
	}
	if cfg.Summary.Every != 3 || cfg.Summary.TopDomains != 5 {
		t.Errorf("Expected summary settings from file, got every=%d top=%d",
			cfg.Summary.Every, cfg.Summary.TopDomains)
	}
	// Untouched settings keep their defaults.
	if cfg.NATS.Subject != "user.registrations" {
		t.Errorf("Expected default subject, got %s", cfg.NATS.Subject)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "6060")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("Expected env var to win over file, got %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "missing durable name",
			mutate:  func(c *Config) { c.NATS.DurableName = "" },
			wantErr: true,
		},
		{
			name:    "zero connect attempts",
			mutate:  func(c *Config) { c.Consumer.MaxConnectAttempts = 0 },
			wantErr: true,
		},
		{
			name: "poison queue without topic",
			mutate: func(c *Config) {
				c.Consumer.PoisonQueueEnabled = true
				c.Consumer.PoisonQueueTopic = ""
			},
			wantErr: true,
		},
		{
			name:    "summary every zero while enabled",
			mutate:  func(c *Config) { c.Summary.Every = 0 },
			wantErr: true,
		},
		{
			name:    "max page size below default",
			mutate:  func(c *Config) { c.API.MaxPageSize = 1 },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"NATS_DURABLE_NAME", "nats.durable_name"},
		{"CONSUMER_RETRY_COUNT", "consumer.retry_count"},
		{"SUMMARY_TOP_DOMAINS", "summary.top_domains"},
		{"LOG_FORMAT", "logging.format"},
		{"PATH", ""},
		{"UNRELATED_VARIABLE", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}
