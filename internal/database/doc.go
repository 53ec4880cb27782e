// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

/*
Package database provides the DuckDB-backed persistent store for Regboard.

It owns three concerns:

  - Connection lifecycle: opening the database file with tuning options,
    connection pooling, WAL checkpointing on close (database.go)
  - Schema management: idempotent creation of the five tables and their
    indexes at startup (schema.go)
  - Data access: the transactional aggregation engine that applies one
    registration event as an atomic unit of work (aggregate.go), and the
    read-only analytics queries behind the HTTP API and summary reporter
    (queries.go)

# Aggregation

ApplyRegistration is the single write path. One event produces five writes
inside one transaction: an idempotency ledger insert, the registration row,
a domain aggregate upsert with percentage and tier recomputation across all
domains, an hourly bucket upsert, and a daily bucket upsert. All commit
together or roll back together; partial aggregate state is never visible
to readers.

Redelivered duplicates are detected by the processed_events ledger and
reported as ErrDuplicateEvent without modifying any aggregate.

# Concurrency

The write path is serialized upstream (a single consumer goroutine with at
most one in-flight message), so the engine needs no locks of its own. Reads
may run concurrently with writes; DuckDB transaction isolation guarantees
they observe only committed state.
*/
package database
