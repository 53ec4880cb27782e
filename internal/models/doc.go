// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

/*
Package models defines the shared data structures exchanged between the
database layer and the HTTP API.

The package contains two families of types:

  - API response envelope types (APIResponse, Metadata, APIError) used by
    every HTTP endpoint for consistent success and error payloads
  - Read models (DashboardStats, DomainStats, HourlyTrendPoint,
    Registration, StatsSummary) returned by analytics queries

All types are plain data carriers with JSON tags and no behavior beyond
trivial helpers, so they can be shared freely across packages without
creating import cycles.
*/
package models
