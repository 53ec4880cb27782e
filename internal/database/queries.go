// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/regboard/internal/models"
)

// GetDashboardStats returns the composite dashboard payload: overall totals,
// today's and the trailing 24 hours' volume, the top 5 domains, and the
// busiest hour bucket.
func (db *DB) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	now := time.Now().UTC()
	stats := &models.DashboardStats{GeneratedAt: now}

	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT email_domain) FROM registrations`,
	).Scan(&stats.TotalRegistrations, &stats.UniqueDomains)
	if err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	err = db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_registrations), 0) FROM daily_stats WHERE day = ?`, today,
	).Scan(&stats.TodayRegistrations)
	if err != nil {
		return nil, fmt.Errorf("failed to query today's count: %w", err)
	}

	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE registration_time >= ?`, now.Add(-24*time.Hour),
	).Scan(&stats.Last24HRegistrations)
	if err != nil {
		return nil, fmt.Errorf("failed to query trailing 24h count: %w", err)
	}

	topDomains, err := db.ListDomains(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.TopDomains = topDomains

	// Peak hour is scoped to today's buckets.
	var peakHour time.Time
	var peakCount int64
	err = db.conn.QueryRowContext(ctx,
		`SELECT hour_start, registrations_count FROM hourly_stats
		 WHERE hour_start >= ? AND hour_start < ?
		 ORDER BY registrations_count DESC, hour_start DESC LIMIT 1`,
		today, today.Add(24*time.Hour),
	).Scan(&peakHour, &peakCount)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No events yet, leave the peak unset.
	case err != nil:
		return nil, fmt.Errorf("failed to query peak hour: %w", err)
	default:
		utc := peakHour.UTC()
		stats.PeakHour = &utc
		stats.PeakHourCount = peakCount
	}

	return stats, nil
}

// GetHourlyTrends returns per-hour registration counts for the trailing
// days window, oldest bucket first.
func (db *DB) GetHourlyTrends(ctx context.Context, days int) ([]models.HourlyTrendPoint, error) {
	since := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour).Truncate(time.Hour)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT hour_start, registrations_count FROM hourly_stats
		 WHERE hour_start >= ?
		 ORDER BY hour_start ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly trends: %w", err)
	}
	defer closeQuietly(rows)

	points := make([]models.HourlyTrendPoint, 0)
	for rows.Next() {
		var p models.HourlyTrendPoint
		if err := rows.Scan(&p.HourStart, &p.RegistrationsCount); err != nil {
			return nil, fmt.Errorf("failed to scan hourly trend row: %w", err)
		}
		p.HourStart = p.HourStart.UTC()
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hourly trends iteration failed: %w", err)
	}

	return points, nil
}

// ListDomains returns domain aggregates ordered by total registrations
// descending, bounded by limit.
func (db *DB) ListDomains(ctx context.Context, limit int) ([]models.DomainStats, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT domain, total_registrations, first_seen, last_seen,
			percentage_of_total, popularity_tier, updated_at
		 FROM domain_stats
		 ORDER BY total_registrations DESC, domain ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query domains: %w", err)
	}
	defer closeQuietly(rows)

	domains := make([]models.DomainStats, 0, limit)
	for rows.Next() {
		var d models.DomainStats
		if err := rows.Scan(&d.Domain, &d.TotalRegistrations, &d.FirstSeen, &d.LastSeen,
			&d.PercentageOfTotal, &d.PopularityTier, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan domain row: %w", err)
		}
		d.FirstSeen = d.FirstSeen.UTC()
		d.LastSeen = d.LastSeen.UTC()
		d.UpdatedAt = d.UpdatedAt.UTC()
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("domains iteration failed: %w", err)
	}

	return domains, nil
}

// ListRecentRegistrations returns the most recently registered users,
// newest first, bounded by limit.
func (db *DB) ListRecentRegistrations(ctx context.Context, limit int) ([]models.Registration, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, name, email, email_domain, registration_time, processed_at
		 FROM registrations
		 ORDER BY registration_time DESC, id ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent registrations: %w", err)
	}
	defer closeQuietly(rows)

	regs := make([]models.Registration, 0, limit)
	for rows.Next() {
		var r models.Registration
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Email, &r.EmailDomain,
			&r.RegistrationTime, &r.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		r.RegistrationTime = r.RegistrationTime.UTC()
		r.ProcessedAt = r.ProcessedAt.UTC()
		regs = append(regs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent registrations iteration failed: %w", err)
	}

	return regs, nil
}

// GetStatsSummary returns the lightweight totals used by the summary
// reporter and the /stats/summary endpoint. topDomains bounds how many
// leading domains are included.
func (db *DB) GetStatsSummary(ctx context.Context, topDomains int) (*models.StatsSummary, error) {
	summary := &models.StatsSummary{}

	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT email_domain) FROM registrations`,
	).Scan(&summary.TotalRegistrations, &summary.UniqueDomains)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary totals: %w", err)
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	err = db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_registrations), 0) FROM daily_stats WHERE day = ?`, today,
	).Scan(&summary.TodayRegistrations)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary today count: %w", err)
	}

	if topDomains > 0 {
		top, err := db.ListDomains(ctx, topDomains)
		if err != nil {
			return nil, err
		}
		summary.TopDomains = top
	}

	return summary, nil
}
