// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package api

import (
	"net/http"
	"time"
)

// Query parameter defaults. Ranges are enforced by the request structs
// in requests.go.
const (
	defaultTrendDays   = 7
	defaultDomainLimit = 10
	defaultRecentLimit = 20
	summaryTopDomains  = 3
)

// Dashboard returns the composite dashboard payload: totals, today's and
// the trailing 24 hours' volume, top domains, and the peak hour.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r.Context())
	defer cancel()

	start := time.Now()
	stats, err := h.store.GetDashboardStats(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load dashboard stats", err)
		return
	}

	respondSuccess(w, stats, time.Since(start))
}

// HourlyTrends returns per-hour registration counts for the trailing
// days window (?days=N, 1-30, default 7).
func (h *Handler) HourlyTrends(w http.ResponseWriter, r *http.Request) {
	req := TrendsRequest{
		Days: getIntParam(r, "days", defaultTrendDays),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ctx, cancel := h.queryContext(r.Context())
	defer cancel()

	start := time.Now()
	points, err := h.store.GetHourlyTrends(ctx, req.Days)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load hourly trends", err)
		return
	}

	respondSuccess(w, points, time.Since(start))
}

// Domains returns domain aggregates ordered by total registrations
// descending (?limit=N, 1-100, default 10).
func (h *Handler) Domains(w http.ResponseWriter, r *http.Request) {
	req := DomainsRequest{
		Limit: getIntParam(r, "limit", defaultDomainLimit),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ctx, cancel := h.queryContext(r.Context())
	defer cancel()

	start := time.Now()
	domains, err := h.store.ListDomains(ctx, req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load domains", err)
		return
	}

	respondSuccess(w, domains, time.Since(start))
}

// RecentRegistrations returns the newest stored registrations
// (?limit=N, 1-100, default 20).
func (h *Handler) RecentRegistrations(w http.ResponseWriter, r *http.Request) {
	req := RecentRegistrationsRequest{
		Limit: getIntParam(r, "limit", defaultRecentLimit),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ctx, cancel := h.queryContext(r.Context())
	defer cancel()

	start := time.Now()
	regs, err := h.store.ListRecentRegistrations(ctx, req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load recent registrations", err)
		return
	}

	respondSuccess(w, regs, time.Since(start))
}

// StatsSummary returns the lightweight totals payload shared with the
// periodic summary reporter.
func (h *Handler) StatsSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r.Context())
	defer cancel()

	start := time.Now()
	summary, err := h.store.GetStatsSummary(ctx, summaryTopDomains)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load stats summary", err)
		return
	}

	respondSuccess(w, summary, time.Since(start))
}
