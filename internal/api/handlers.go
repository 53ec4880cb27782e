// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package api

import (
	"context"
	"time"

	"github.com/tomtom215/regboard/internal/config"
	"github.com/tomtom215/regboard/internal/eventprocessor"
	"github.com/tomtom215/regboard/internal/models"
)

// Version is the reported service version.
const Version = "1.0.0"

// Store is the read-only query surface the handlers need. *database.DB
// satisfies it; tests substitute a stub.
type Store interface {
	Ping(ctx context.Context) error
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
	GetHourlyTrends(ctx context.Context, days int) ([]models.HourlyTrendPoint, error)
	ListDomains(ctx context.Context, limit int) ([]models.DomainStats, error)
	ListRecentRegistrations(ctx context.Context, limit int) ([]models.Registration, error)
	GetStatsSummary(ctx context.Context, topDomains int) (*models.StatsSummary, error)
}

// ConsumerStatus reports the live state of the event consumer for the
// health payload. *eventprocessor.Consumer satisfies it.
type ConsumerStatus interface {
	State() eventprocessor.State
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	store     Store
	consumer  ConsumerStatus
	config    *config.APIConfig
	startTime time.Time
}

// NewHandler creates a handler. consumer may be nil when the process runs
// in query-only mode.
func NewHandler(store Store, consumer ConsumerStatus, cfg *config.APIConfig) *Handler {
	return &Handler{
		store:     store,
		consumer:  consumer,
		config:    cfg,
		startTime: time.Now(),
	}
}

// queryContext derives a bounded context for store reads.
func (h *Handler) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := 10 * time.Second
	if h.config != nil && h.config.QueryTimeout > 0 {
		timeout = h.config.QueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// consumerState returns the consumer's state string, or "disabled" when
// no consumer is wired.
func (h *Handler) consumerState() string {
	if h.consumer == nil {
		return "disabled"
	}
	return h.consumer.State().String()
}
