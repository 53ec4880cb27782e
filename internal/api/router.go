// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/regboard/internal/config"
	"github.com/tomtom215/regboard/internal/middleware"
)

// rateLimitHealth allows frequent probe traffic while still bounding abuse.
var rateLimitHealth = struct {
	requests int
	window   time.Duration
}{requests: 1000, window: time.Minute}

// Router assembles the chi handler tree for the query API.
type Router struct {
	handler *Handler
	config  *config.APIConfig
}

// NewRouter creates a router around the given handler.
func NewRouter(handler *Handler, cfg *config.APIConfig) *Router {
	return &Router{
		handler: handler,
		config:  cfg,
	}
}

// Setup builds the full HTTP handler with the middleware stack applied.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	// Prometheus scrape endpoint lives outside the /api/v1 prefix and
	// outside rate limiting.
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.rateLimit(rateLimitHealth.requests, rateLimitHealth.window))
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Use(router.rateLimit(router.requestsPerWindow()))
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Get("/dashboard", router.handler.Dashboard)
		r.Get("/trends/hourly", router.handler.HourlyTrends)
		r.Get("/domains", router.handler.Domains)
		r.Get("/registrations/recent", router.handler.RecentRegistrations)
		r.Get("/stats/summary", router.handler.StatsSummary)
	})

	return r
}

// requestsPerWindow resolves the configured analytics rate limit.
func (router *Router) requestsPerWindow() (int, time.Duration) {
	requests := 100
	window := time.Minute
	if router.config != nil {
		if router.config.RateLimit > 0 {
			requests = router.config.RateLimit
		}
		if router.config.RateLimitWindow > 0 {
			window = router.config.RateLimitWindow
		}
	}
	return requests, window
}

// rateLimit returns an httprate IP-keyed limiter, or a no-op when rate
// limiting is disabled in configuration.
func (router *Router) rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if router.config != nil && !router.config.RateLimitEnabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.LimitByIP(requests, window)
}
