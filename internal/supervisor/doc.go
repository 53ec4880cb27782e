// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

/*
Package supervisor provides Suture-based process supervision for Regboard.

The tree is organized into two layers:

  - pipeline: the event consumer (broker connection, router, handler)
  - api: the HTTP query server

This structure provides failure isolation: a transport fault that tears
down the consumer restarts only the pipeline layer while the API keeps
serving reads from the store. Supervisor events are logged through
sutureslog, bridged into zerolog by internal/logging's slog handler.

Services follow suture semantics: Serve blocks, returns an error to be
restarted with backoff, or returns suture.ErrDoNotRestart to be removed
from the tree permanently (used when the consumer is stopped by hand or
exhausts its bounded connect attempts).
*/
package supervisor
