// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/regboard/internal/eventprocessor"
	"github.com/tomtom215/regboard/internal/logging"
	"github.com/tomtom215/regboard/internal/models"
)

// ErrDuplicateEvent is returned by ApplyRegistration when the event's
// idempotency key is already in the processed_events ledger. Callers treat
// it as success: the event's effect is already committed.
var ErrDuplicateEvent = errors.New("event already processed")

// ClassifyTier maps a domain's share of total registrations to its
// popularity tier: >=10% Popular, >=1% Common, otherwise Rare.
func ClassifyTier(percentage float64) string {
	switch {
	case percentage >= 10:
		return models.TierPopular
	case percentage >= 1:
		return models.TierCommon
	default:
		return models.TierRare
	}
}

// ApplyRegistration applies one registration event as a single atomic unit
// of work:
//
//  1. Insert the idempotency ledger row; a conflict means a redelivered
//     duplicate, which commits as a no-op and returns ErrDuplicateEvent.
//  2. Insert the registrations row.
//  3. Upsert domain_stats for the event's email domain, extending
//     first_seen downward and last_seen upward (events may arrive out of
//     order), then recompute percentage_of_total and popularity_tier for
//     every domain against the new total.
//  4. Upsert the hourly_stats bucket for the truncated hour.
//  5. Upsert the daily_stats bucket for the calendar day.
//
// All writes commit together or roll back together. The engine performs no
// retries; errors are returned for the consumer's ack/nack decision.
// Validation failures return *eventprocessor.ValidationError before any
// write is attempted.
func (db *DB) ApplyRegistration(ctx context.Context, event *eventprocessor.RegistrationEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Warn().Err(rbErr).Msg("Failed to roll back registration transaction")
			}
		}
	}()

	now := time.Now().UTC()

	// Ledger check-and-insert inside the same unit of work as the
	// aggregate writes. Zero rows affected means the key already exists.
	res, err := tx.ExecContext(ctx,
		`INSERT INTO processed_events (event_key, processed_at)
		 VALUES (?, ?)
		 ON CONFLICT (event_key) DO NOTHING`,
		event.EventKey(), now)
	if err != nil {
		return fmt.Errorf("failed to record event key: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read ledger insert result: %w", err)
	}
	if affected == 0 {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit duplicate no-op: %w", err)
		}
		committed = true
		return ErrDuplicateEvent
	}

	registrationTime := event.RegisteredAt.UTC()
	domain := event.EmailDomain()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO registrations (id, user_id, name, email, email_domain, registration_time, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), event.UserID, event.Name, event.Email, domain, registrationTime, now)
	if err != nil {
		return fmt.Errorf("failed to insert registration: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO domain_stats (domain, total_registrations, first_seen, last_seen, updated_at)
		 VALUES (?, 1, ?, ?, ?)
		 ON CONFLICT (domain) DO UPDATE SET
			total_registrations = domain_stats.total_registrations + 1,
			first_seen = LEAST(domain_stats.first_seen, excluded.first_seen),
			last_seen = GREATEST(domain_stats.last_seen, excluded.last_seen),
			updated_at = excluded.updated_at`,
		domain, registrationTime, registrationTime, now)
	if err != nil {
		return fmt.Errorf("failed to upsert domain stats: %w", err)
	}

	// Read the post-insert total within the same transaction, then
	// recompute every domain's share so percentages always sum to 100.
	var total int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&total); err != nil {
		return fmt.Errorf("failed to count registrations: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE domain_stats SET
			percentage_of_total = total_registrations * 100.0 / ?,
			popularity_tier = CASE
				WHEN total_registrations * 100.0 / ? >= 10 THEN 'Popular'
				WHEN total_registrations * 100.0 / ? >= 1 THEN 'Common'
				ELSE 'Rare'
			END`,
		total, total, total)
	if err != nil {
		return fmt.Errorf("failed to recompute domain percentages: %w", err)
	}

	hourStart := registrationTime.Truncate(time.Hour)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO hourly_stats (hour_start, registrations_count)
		 VALUES (?, 1)
		 ON CONFLICT (hour_start) DO UPDATE SET
			registrations_count = hourly_stats.registrations_count + 1`,
		hourStart)
	if err != nil {
		return fmt.Errorf("failed to upsert hourly stats: %w", err)
	}

	day := time.Date(registrationTime.Year(), registrationTime.Month(), registrationTime.Day(), 0, 0, 0, 0, time.UTC)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO daily_stats (day, total_registrations)
		 VALUES (?, 1)
		 ON CONFLICT (day) DO UPDATE SET
			total_registrations = daily_stats.total_registrations + 1`,
		day)
	if err != nil {
		return fmt.Errorf("failed to upsert daily stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	committed = true

	return nil
}
