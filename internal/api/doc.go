// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

/*
Package api provides the read-only HTTP query surface over the aggregates
maintained by the event pipeline.

Routing uses chi with httprate rate limiting. Every endpoint responds with
the models.APIResponse envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 4}
	}

Endpoints under /api/v1:

  - GET /health, /health/live, /health/ready
  - GET /analytics/dashboard
  - GET /analytics/trends/hourly?days=N
  - GET /analytics/domains?limit=N
  - GET /analytics/registrations/recent?limit=N
  - GET /analytics/stats/summary

Prometheus metrics are exposed on /metrics outside the /api/v1 prefix.
The API never writes to the store; all mutation flows through the event
consumer, so reads tolerate concurrently advancing aggregates.
*/
package api
