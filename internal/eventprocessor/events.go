// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package eventprocessor

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// EventTypeUserRegistered is the only event type this pipeline processes.
const EventTypeUserRegistered = "user.registered"

// UnknownDomain is recorded when an email has no @ separator.
const UnknownDomain = "unknown"

// Envelope is the inbound message envelope. Producers use either the
// event_type or the event key; event_type is preferred when both appear.
type Envelope struct {
	EventType string          `json:"event_type"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
}

// Type returns the effective event type, preferring event_type over event.
func (e *Envelope) Type() string {
	if e.EventType != "" {
		return e.EventType
	}
	return e.Event
}

// registrationPayload is the wire form of the data object. created_at is an
// ISO-8601 timestamp string with a Z suffix or explicit offset.
type registrationPayload struct {
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// RegistrationEvent is the canonical parsed form of one user registration.
type RegistrationEvent struct {
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ParseEnvelope decodes a raw message body into an Envelope.
func ParseEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}
	return &env, nil
}

// ParseRegistration decodes the envelope's data object into a
// RegistrationEvent. The created_at field must be RFC 3339.
func ParseRegistration(data json.RawMessage) (*RegistrationEvent, error) {
	var payload registrationPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("malformed registration payload: %w", err)
	}

	event := &RegistrationEvent{
		UserID: payload.UserID,
		Name:   payload.Name,
		Email:  payload.Email,
	}

	if payload.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, payload.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("malformed created_at %q: %w", payload.CreatedAt, err)
		}
		event.RegisteredAt = t.UTC()
	}

	return event, nil
}

// Validate checks required fields and returns a *ValidationError naming the
// first missing field.
func (e *RegistrationEvent) Validate() error {
	if e.UserID == 0 {
		return &ValidationError{Field: "user_id", Message: "required"}
	}
	if e.Name == "" {
		return &ValidationError{Field: "name", Message: "required"}
	}
	if e.Email == "" {
		return &ValidationError{Field: "email", Message: "required"}
	}
	if e.RegisteredAt.IsZero() {
		return &ValidationError{Field: "created_at", Message: "required"}
	}
	return nil
}

// EmailDomain returns the lower-cased domain part of the email, or
// UnknownDomain when the address has no @ separator.
func (e *RegistrationEvent) EmailDomain() string {
	at := strings.LastIndexByte(e.Email, '@')
	if at < 0 || at == len(e.Email)-1 {
		return UnknownDomain
	}
	return strings.ToLower(e.Email[at+1:])
}

// EventKey derives the stable idempotency key for this event: an FNV-1a
// hash of the user ID and the nanosecond-precision registration time. The
// same logical event always produces the same key, so redeliveries hit the
// processed_events ledger instead of double-counting.
func (e *RegistrationEvent) EventKey() string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strconv.FormatInt(e.UserID, 10)))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(e.RegisteredAt.UTC().Format(time.RFC3339Nano)))
	return strconv.FormatUint(h.Sum64(), 16)
}
