// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/regboard/internal/logging"
	"github.com/tomtom215/regboard/internal/metrics"
)

// Applier applies one parsed registration event to the aggregate store.
// The database layer implements it; a returned error nacks the message.
type Applier interface {
	ApplyRegistration(ctx context.Context, event *RegistrationEvent) error
}

// DuplicateChecker lets the handler distinguish already-processed events
// from store failures without importing the database package.
type DuplicateChecker interface {
	IsDuplicate(err error) bool
}

// RegistrationHandler implements the per-message acknowledgment policy:
//
//   - malformed JSON, unknown event type, validation failure: return nil
//     (ack, discard, count the reason)
//   - duplicate delivery already in the ledger: return nil (ack)
//   - store failure: return the error (nack into retry, then poison queue)
//
// Processing is sequential; the subscriber delivers at most one message at
// a time, so the handler keeps no locks around the applier call.
type RegistrationHandler struct {
	applier   Applier
	dupes     DuplicateChecker
	reporter  *SummaryReporter
	processed atomic.Int64
	every     int64
}

// NewRegistrationHandler creates the handler. reporter may be nil to
// disable summary reporting; every controls its cadence (default 5).
func NewRegistrationHandler(applier Applier, dupes DuplicateChecker, reporter *SummaryReporter, every int) *RegistrationHandler {
	if every < 1 {
		every = 5
	}
	return &RegistrationHandler{
		applier:  applier,
		dupes:    dupes,
		reporter: reporter,
		every:    int64(every),
	}
}

// Processed returns the number of successfully applied events.
func (h *RegistrationHandler) Processed() int64 {
	return h.processed.Load()
}

// Handle processes one delivered message. The return value is the ack
// decision: nil acks, an error nacks.
func (h *RegistrationHandler) Handle(msg *message.Message) error {
	metrics.RecordConsume()
	ctx := msg.Context()
	log := logging.Ctx(ctx)

	env, err := ParseEnvelope(msg.Payload)
	if err != nil {
		log.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Discarding malformed message")
		metrics.RecordDiscarded("malformed")
		return nil
	}

	if env.Type() != EventTypeUserRegistered {
		log.Debug().Str("event_type", env.Type()).Str("message_uuid", msg.UUID).Msg("Discarding unknown event type")
		metrics.RecordDiscarded("unknown_type")
		return nil
	}

	event, err := ParseRegistration(env.Data)
	if err != nil {
		log.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Discarding malformed registration payload")
		metrics.RecordDiscarded("malformed")
		return nil
	}

	start := time.Now()
	err = h.applier.ApplyRegistration(ctx, event)
	metrics.RecordApplyDuration(time.Since(start))

	switch {
	case err == nil:
		// Applied.
	case IsValidationError(err):
		log.Warn().Err(err).Int64("user_id", event.UserID).Msg("Discarding invalid registration event")
		metrics.RecordDiscarded("validation")
		return nil
	case h.dupes != nil && h.dupes.IsDuplicate(err):
		log.Debug().Int64("user_id", event.UserID).Str("event_key", event.EventKey()).Msg("Skipping duplicate delivery")
		metrics.RecordDuplicate()
		return nil
	default:
		metrics.RecordFailed()
		return fmt.Errorf("apply registration for user %d: %w", event.UserID, err)
	}

	metrics.RecordProcessed()
	count := h.processed.Add(1)
	log.Info().
		Int64("user_id", event.UserID).
		Str("email_domain", event.EmailDomain()).
		Int64("processed_total", count).
		Msg("Registration event applied")

	if h.reporter != nil && count%h.every == 0 {
		h.reporter.Report(ctx)
	}

	return nil
}

// errDuplicateFunc adapts a sentinel error into a DuplicateChecker.
type errDuplicateFunc struct {
	sentinel error
}

// NewSentinelDuplicateChecker returns a DuplicateChecker matching errors
// against the given sentinel with errors.Is.
func NewSentinelDuplicateChecker(sentinel error) DuplicateChecker {
	return &errDuplicateFunc{sentinel: sentinel}
}

func (c *errDuplicateFunc) IsDuplicate(err error) bool {
	return errors.Is(err, c.sentinel)
}
