// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package models

import (
	"time"
)

// Popularity tiers assigned to email domains based on their share of all
// registrations. Thresholds: >=10% Popular, >=1% Common, otherwise Rare.
const (
	TierPopular = "Popular"
	TierCommon  = "Common"
	TierRare    = "Rare"
)

// Registration represents a single stored registration event.
type Registration struct {
	ID               string    `json:"id"`
	UserID           int64     `json:"user_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	EmailDomain      string    `json:"email_domain"`
	RegistrationTime time.Time `json:"registration_time"`
	ProcessedAt      time.Time `json:"processed_at"`
}

// DomainStats represents the rolling aggregate for one email domain.
//
// FirstSeen and LastSeen are the earliest and latest registration times
// observed for the domain, tolerant of out-of-order event arrival.
type DomainStats struct {
	Domain             string    `json:"domain"`
	TotalRegistrations int64     `json:"total_registrations"`
	FirstSeen          time.Time `json:"first_seen"`
	LastSeen           time.Time `json:"last_seen"`
	PercentageOfTotal  float64   `json:"percentage_of_total"`
	PopularityTier     string    `json:"popularity_tier"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// HourlyTrendPoint represents registration volume for one clock hour.
type HourlyTrendPoint struct {
	HourStart          time.Time `json:"hour_start"`
	RegistrationsCount int64     `json:"registrations_count"`
}

// DailyTrendPoint represents registration volume for one calendar day.
type DailyTrendPoint struct {
	Day                time.Time `json:"day"`
	TotalRegistrations int64     `json:"total_registrations"`
}

// DashboardStats is the composite payload behind /analytics/dashboard.
type DashboardStats struct {
	TotalRegistrations   int64         `json:"total_registrations"`
	UniqueDomains        int64         `json:"unique_domains"`
	TodayRegistrations   int64         `json:"today_registrations"`
	Last24HRegistrations int64         `json:"last_24h_registrations"`
	TopDomains           []DomainStats `json:"top_domains"`
	PeakHour             *time.Time    `json:"peak_hour,omitempty"`
	PeakHourCount        int64         `json:"peak_hour_count"`
	GeneratedAt          time.Time     `json:"generated_at"`
}

// StatsSummary is the lightweight payload behind /analytics/stats/summary,
// also read by the periodic summary reporter.
type StatsSummary struct {
	TotalRegistrations int64         `json:"total_registrations"`
	UniqueDomains      int64         `json:"unique_domains"`
	TodayRegistrations int64         `json:"today_registrations"`
	TopDomains         []DomainStats `json:"top_domains"`
}

// HealthStatus represents the health check response, including the live
// connection state of the event consumer.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	ConsumerState     string  `json:"consumer_state"`
	Uptime            float64 `json:"uptime_seconds"`
}
