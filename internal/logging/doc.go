// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

// Package logging provides centralized zerolog-based logging for Regboard.
//
// All packages log through this wrapper rather than constructing their own
// loggers, so output format and level are controlled in one place:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("queue", name).Msg("Consumer started")
//	logging.Error().Err(err).Msg("Apply failed")
//
// Context-aware logging attaches correlation IDs carried through the
// message-processing pipeline:
//
//	logging.Ctx(ctx).Info().Int("user_id", id).Msg("Registration recorded")
//
// Always terminate log chains with .Msg() or .Send(); an unterminated chain
// is silently dropped by zerolog.
package logging
