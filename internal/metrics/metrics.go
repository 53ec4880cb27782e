// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Event pipeline metrics

	EventsConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "regboard_events_consumed_total",
			Help: "Total number of messages delivered to the consumer",
		},
	)

	EventsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "regboard_events_processed_total",
			Help: "Total number of registration events successfully applied",
		},
	)

	EventsDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regboard_events_discarded_total",
			Help: "Total number of messages acknowledged and discarded without effect",
		},
		[]string{"reason"}, // "malformed", "unknown_type", "validation"
	)

	EventsDuplicate = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "regboard_events_duplicate_total",
			Help: "Total number of redelivered events skipped by the idempotency ledger",
		},
	)

	EventsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "regboard_events_failed_total",
			Help: "Total number of events whose store write failed (nacked for retry)",
		},
	)

	EventsPoisoned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "regboard_events_poisoned_total",
			Help: "Total number of messages routed to the poison queue after exhausting retries",
		},
	)

	ApplyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "regboard_apply_duration_seconds",
			Help:    "Duration of the registration apply transaction in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Database metrics

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regboard_db_query_errors_total",
			Help: "Total number of database query errors",
		},
		[]string{"operation"},
	)

	// API metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regboard_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "regboard_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "regboard_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Consumer metrics

	ConsumerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "regboard_consumer_state",
			Help: "Consumer connection state (0=disconnected 1=connecting 2=connected 3=consuming 4=stopped)",
		},
	)

	ConsumerConnectAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "regboard_consumer_connect_attempts_total",
			Help: "Total number of broker connection attempts",
		},
	)

	SummaryReports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regboard_summary_reports_total",
			Help: "Total number of summary reporter runs",
		},
		[]string{"outcome"}, // "success", "failure", "skipped"
	)
)

// RecordConsume increments the consumed message counter.
func RecordConsume() {
	EventsConsumed.Inc()
}

// RecordProcessed increments the processed event counter.
func RecordProcessed() {
	EventsProcessed.Inc()
}

// RecordDiscarded counts a message acknowledged without aggregate effect.
// Reason is one of "malformed", "unknown_type", "validation".
func RecordDiscarded(reason string) {
	EventsDiscarded.WithLabelValues(reason).Inc()
}

// RecordDuplicate increments the duplicate-skip counter.
func RecordDuplicate() {
	EventsDuplicate.Inc()
}

// RecordFailed increments the failed (nacked) event counter.
func RecordFailed() {
	EventsFailed.Inc()
}

// RecordPoisoned increments the poison queue counter.
func RecordPoisoned() {
	EventsPoisoned.Inc()
}

// RecordApplyDuration observes one apply transaction's duration.
func RecordApplyDuration(duration time.Duration) {
	ApplyDuration.Observe(duration.Seconds())
}

// RecordDBError counts a database query error for the given operation.
func RecordDBError(operation string) {
	DBQueryErrors.WithLabelValues(operation).Inc()
}

// RecordAPIRequest records an API request with its duration.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetConsumerState publishes the consumer's connection state.
func SetConsumerState(state int) {
	ConsumerState.Set(float64(state))
}

// RecordConnectAttempt increments the broker connection attempt counter.
func RecordConnectAttempt() {
	ConsumerConnectAttempts.Inc()
}

// RecordSummaryReport counts a summary reporter run by outcome.
func RecordSummaryReport(outcome string) {
	SummaryReports.WithLabelValues(outcome).Inc()
}
