// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/regboard/internal/config"
	"github.com/tomtom215/regboard/internal/models"
)

func newTestRouter(store *stubStore) http.Handler {
	cfg := &config.APIConfig{
		RateLimitEnabled: false,
		QueryTimeout:     5 * time.Second,
	}
	handler := NewHandler(store, nil, cfg)
	return NewRouter(handler, cfg).Setup()
}

func TestRouterRoutes(t *testing.T) {
	store := &stubStore{
		dashboard: &models.DashboardStats{},
		trends:    []models.HourlyTrendPoint{},
		domains:   []models.DomainStats{},
		regs:      []models.Registration{},
		summary:   &models.StatsSummary{},
	}
	router := newTestRouter(store)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/v1/health", http.StatusOK},
		{"/api/v1/health/live", http.StatusOK},
		{"/api/v1/health/ready", http.StatusOK},
		{"/api/v1/analytics/dashboard", http.StatusOK},
		{"/api/v1/analytics/trends/hourly", http.StatusOK},
		{"/api/v1/analytics/domains", http.StatusOK},
		{"/api/v1/analytics/registrations/recent", http.StatusOK},
		{"/api/v1/analytics/stats/summary", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := newTestRouter(&stubStore{summary: &models.StatsSummary{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analytics/stats/summary", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST = %d, want 405", rec.Code)
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter(&stubStore{summary: &models.StatsSummary{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/stats/summary", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set by middleware")
	}
}

func TestRouterRateLimitEnforced(t *testing.T) {
	cfg := &config.APIConfig{
		RateLimitEnabled: true,
		RateLimit:        2,
		RateLimitWindow:  time.Minute,
		QueryTimeout:     5 * time.Second,
	}
	handler := NewHandler(&stubStore{summary: &models.StatsSummary{}}, nil, cfg)
	router := NewRouter(handler, cfg).Setup()

	var limited bool
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/stats/summary", nil)
		req.RemoteAddr = "203.0.113.5:1234"
		router.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}

	if !limited {
		t.Error("Rate limiter never returned 429 after exceeding the limit")
	}
}
