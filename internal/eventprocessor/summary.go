// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package eventprocessor

import (
	"context"
	"errors"
	"strconv"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/regboard/internal/logging"
	"github.com/tomtom215/regboard/internal/metrics"
	"github.com/tomtom215/regboard/internal/models"
)

// StatsReader provides the read-only totals behind a summary report.
// The database layer implements it.
type StatsReader interface {
	GetStatsSummary(ctx context.Context, topDomains int) (*models.StatsSummary, error)
}

// SummaryReporterConfig holds summary reporter settings.
type SummaryReporterConfig struct {
	TopDomains   int
	QueryTimeout time.Duration
}

// DefaultSummaryReporterConfig returns production defaults.
func DefaultSummaryReporterConfig() SummaryReporterConfig {
	return SummaryReporterConfig{
		TopDomains:   3,
		QueryTimeout: 5 * time.Second,
	}
}

// SummaryReporter emits a periodic structured log line with the current
// registration totals. It is strictly read-only and its failures never
// affect message acknowledgment. A circuit breaker stops the reporter from
// hammering the store when reads fail repeatedly.
type SummaryReporter struct {
	reader  StatsReader
	config  SummaryReporterConfig
	breaker *gobreaker.CircuitBreaker[*models.StatsSummary]
}

// NewSummaryReporter creates a reporter over the given stats reader.
func NewSummaryReporter(reader StatsReader, cfg SummaryReporterConfig) *SummaryReporter {
	settings := gobreaker.Settings{
		Name:        "summary-reporter",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}

	return &SummaryReporter{
		reader:  reader,
		config:  cfg,
		breaker: gobreaker.NewCircuitBreaker[*models.StatsSummary](settings),
	}
}

// Report reads the current totals and logs them. Failures are logged and
// swallowed; an open breaker skips the read entirely.
func (r *SummaryReporter) Report(ctx context.Context) {
	summary, err := r.breaker.Execute(func() (*models.StatsSummary, error) {
		queryCtx, cancel := context.WithTimeout(ctx, r.config.QueryTimeout)
		defer cancel()
		return r.reader.GetStatsSummary(queryCtx, r.config.TopDomains)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordSummaryReport("skipped")
			logging.Debug().Msg("Summary report skipped, circuit breaker open")
			return
		}
		metrics.RecordSummaryReport("failure")
		logging.Warn().Err(err).Msg("Summary report failed")
		return
	}

	metrics.RecordSummaryReport("success")

	event := logging.Info().
		Int64("total_registrations", summary.TotalRegistrations).
		Int64("unique_domains", summary.UniqueDomains).
		Int64("today_registrations", summary.TodayRegistrations)

	for i, d := range summary.TopDomains {
		event = event.Str(topDomainKey(i), d.Domain).
			Int64(topDomainKey(i)+"_count", d.TotalRegistrations)
	}

	event.Msg("Registration summary")
}

func topDomainKey(i int) string {
	return "top_domain_" + strconv.Itoa(i+1)
}
