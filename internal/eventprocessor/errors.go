// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package eventprocessor

import (
	"errors"
	"fmt"
)

// ErrConnectExhausted is returned when the consumer exhausts its bounded
// startup connection attempts. The consumer does not start.
var ErrConnectExhausted = errors.New("broker connection attempts exhausted")

// ErrConsumerClosed is returned when operating on a stopped consumer.
var ErrConsumerClosed = errors.New("consumer is closed")

// ErrUnknownEventType marks envelopes whose type is not user.registered.
// Such messages are acknowledged and discarded.
var ErrUnknownEventType = errors.New("unknown event type")

// ErrNilPublisher is returned when a publisher dependency is nil.
var ErrNilPublisher = errors.New("publisher cannot be nil")

// ErrInvalidConfig is returned when configuration is invalid.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError reports a missing or malformed required event field.
// Events failing validation are acknowledged and discarded, never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
