// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

/*
Package metrics provides Prometheus instrumentation for Regboard.

Collectors are registered with the default registry via promauto and exposed
through the /metrics endpoint. Instrumented concerns:

  - Event pipeline: consumed, processed, discarded, duplicate, and
    poisoned message counts plus apply latency
  - Database: apply transaction duration and query errors
  - API: request counts, latency, and in-flight requests
  - Consumer: connection state and reconnect attempts

Record* helper functions keep call sites terse and centralize label
conventions.
*/
package metrics
