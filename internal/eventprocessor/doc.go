// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

/*
Package eventprocessor implements the durable event pipeline that feeds
Regboard's aggregates.

# Components

  - Event model (events.go): the inbound envelope, the RegistrationEvent,
    and the stable idempotency key derivation
  - EmbeddedServer (server.go): optional in-process NATS JetStream broker
    for single-instance deployments
  - StreamManager (stream.go): idempotent create-or-update of the
    JetStream stream before consumption begins
  - Subscriber (subscriber.go): durable JetStream pull with
    MaxAckPending(1) for strict sequential processing
  - Publisher (publisher.go): JetStream publisher used for the poison
    queue and by test producers
  - Router (router.go): Watermill router with recoverer, bounded
    exponential retry, and poison queue middleware
  - RegistrationHandler (handler.go): the per-message ack/nack policy
  - Consumer (consumer.go): owns connection, subscriber, and router
    lifecycle behind an explicit state machine
  - SummaryReporter (summary.go): periodic read-only stats log line
    guarded by a circuit breaker

# Delivery semantics

The broker delivers at-least-once. The handler acknowledges and discards
malformed payloads, unknown event types, and validation failures; the
idempotency ledger in the database layer absorbs redeliveries; store
failures are nacked, retried with exponential backoff, and finally routed
to the poison queue so no message can loop forever.
*/
package eventprocessor
