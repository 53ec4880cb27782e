// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package api

// Request parameter structs with validation tags. Parsing is lenient
// (defaults on absence or garbage), validation is strict (400 on values
// outside the documented ranges).

// TrendsRequest bounds the /analytics/trends/hourly window.
type TrendsRequest struct {
	Days int `validate:"min=1,max=30"`
}

// DomainsRequest bounds the /analytics/domains page size.
type DomainsRequest struct {
	Limit int `validate:"min=1,max=100"`
}

// RecentRegistrationsRequest bounds the /analytics/registrations/recent
// page size.
type RecentRegistrationsRequest struct {
	Limit int `validate:"min=1,max=100"`
}
