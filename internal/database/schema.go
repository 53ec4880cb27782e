// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables idempotently.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		// Append-only record of every accepted registration event.
		`CREATE TABLE IF NOT EXISTS registrations (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			email_domain TEXT NOT NULL,
			registration_time TIMESTAMP NOT NULL,
			processed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// Rolling per-domain aggregate. percentage_of_total and
		// popularity_tier are recomputed across all rows on every apply.
		`CREATE TABLE IF NOT EXISTS domain_stats (
			domain TEXT PRIMARY KEY,
			total_registrations BIGINT NOT NULL,
			first_seen TIMESTAMP NOT NULL,
			last_seen TIMESTAMP NOT NULL,
			percentage_of_total DOUBLE NOT NULL DEFAULT 0,
			popularity_tier TEXT NOT NULL DEFAULT 'Rare',
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS hourly_stats (
			hour_start TIMESTAMP PRIMARY KEY,
			registrations_count BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS daily_stats (
			day DATE PRIMARY KEY,
			total_registrations BIGINT NOT NULL
		)`,

		// Idempotency ledger. A redelivered event whose key is already
		// present commits as a no-op instead of double-counting.
		`CREATE TABLE IF NOT EXISTS processed_events (
			event_key TEXT PRIMARY KEY,
			processed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// createIndexes creates indexes for the common query patterns.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_registrations_domain ON registrations(email_domain)`,
		`CREATE INDEX IF NOT EXISTS idx_registrations_time ON registrations(registration_time)`,
	}

	for _, idx := range indexes {
		if _, err := db.conn.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", idx, err)
		}
	}

	return nil
}
