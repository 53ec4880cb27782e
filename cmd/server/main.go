// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

// Package main is the entry point for the Regboard server.
//
// Regboard consumes user registration events from NATS JetStream,
// maintains incremental aggregates in DuckDB, and serves them through a
// read-only HTTP API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered settings from defaults, config file, and
//     environment variables (Koanf v2)
//  2. Database: DuckDB with the aggregate schema created idempotently
//  3. Embedded NATS (optional): in-process JetStream broker for
//     single-binary deployments
//  4. Event pipeline: durable consumer, retry/poison-queue router, and
//     the summary reporter
//  5. HTTP server: chi-based read API with Prometheus metrics
//
// The pipeline and the HTTP server run under a suture supervisor tree.
// A transport fault restarts the consumer with backoff while the API
// keeps serving reads from the store.
//
// # Configuration
//
// Highest priority wins:
//   - Environment variables (HTTP_PORT, DUCKDB_PATH, NATS_URL, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the consumer
// drains its current message, the HTTP server finishes in-flight
// requests, and the database checkpoints on close.
//
// # Example Usage
//
// Single binary with the embedded broker:
//
//	export DUCKDB_PATH=/data/regboard.duckdb
//	./regboard
//
// Against an external NATS cluster:
//
//	export NATS_EMBEDDED_SERVER=false
//	export NATS_URL=nats://broker:4222
//	./regboard
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/regboard/internal/api"
	"github.com/tomtom215/regboard/internal/config"
	"github.com/tomtom215/regboard/internal/database"
	"github.com/tomtom215/regboard/internal/eventprocessor"
	"github.com/tomtom215/regboard/internal/logging"
	"github.com/tomtom215/regboard/internal/supervisor"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("subject", cfg.NATS.Subject).
		Bool("embedded_broker", cfg.NATS.EmbeddedServer).
		Msg("Starting Regboard")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional in-process JetStream broker for single-binary deployments.
	if cfg.NATS.EmbeddedServer {
		serverCfg := eventprocessor.ServerConfigFromApp(cfg)
		broker, err := eventprocessor.NewEmbeddedServer(&serverCfg)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to start embedded NATS server")
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := broker.Shutdown(shutdownCtx); err != nil {
				logging.Warn().Err(err).Msg("Embedded NATS shutdown incomplete")
			}
		}()
		cfg.NATS.URL = broker.ClientURL()
		logging.Info().Str("url", cfg.NATS.URL).Msg("Embedded NATS server started")
	}

	// Summary reporter reads aggregates every Nth applied event.
	var reporter *eventprocessor.SummaryReporter
	if cfg.Summary.Enabled {
		reporter = eventprocessor.NewSummaryReporter(db, eventprocessor.SummaryReporterConfig{
			TopDomains:   cfg.Summary.TopDomains,
			QueryTimeout: cfg.Summary.QueryTimeout,
		})
	} else {
		logging.Info().Msg("Summary reporting disabled (SUMMARY_ENABLED=false)")
	}

	handler := eventprocessor.NewRegistrationHandler(
		db,
		eventprocessor.NewSentinelDuplicateChecker(database.ErrDuplicateEvent),
		reporter,
		cfg.Summary.Every,
	)

	consumer, err := eventprocessor.NewConsumer(eventprocessor.ConsumerConfigFromApp(cfg), handler)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create consumer")
	}

	// Supervisor tree: pipeline layer for the consumer, api layer for
	// the HTTP server. Supervisor events log through the slog bridge.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddPipelineService(supervisor.NewConsumerService(consumer))
	logging.Info().Msg("Event consumer added to supervisor tree")

	apiHandler := api.NewHandler(db, consumer, &cfg.API)
	router := api.NewRouter(apiHandler, &cfg.API)
	tree.AddAPIService(supervisor.NewHTTPService(&cfg.Server, router.Setup()))
	logging.Info().Str("addr", cfg.Server.Addr()).Msg("HTTP server added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Regboard stopped gracefully")
}
