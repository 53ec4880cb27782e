// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

/*
Package middleware provides HTTP middleware components for the query API.

This package implements infrastructure middleware for request ID tracking,
gzip compression, and Prometheus metrics instrumentation. The api package
assembles them into the chi middleware stack:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

All middleware here is handler-shape agnostic: each component takes and
returns http.Handler so it composes directly with chi's r.Use().
*/
package middleware
