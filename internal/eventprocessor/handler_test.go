// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package eventprocessor

import (
	"context"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

var errDuplicateSentinel = errors.New("duplicate event")

// fakeApplier records applied events and returns a scripted error.
type fakeApplier struct {
	applied []*RegistrationEvent
	err     error
}

func (f *fakeApplier) ApplyRegistration(_ context.Context, event *RegistrationEvent) error {
	if f.err != nil {
		return f.err
	}
	f.applied = append(f.applied, event)
	return nil
}

func newTestMessage(body string) *message.Message {
	return message.NewMessage(watermill.NewUUID(), []byte(body))
}

func TestHandleValidEvent(t *testing.T) {
	applier := &fakeApplier{}
	handler := NewRegistrationHandler(applier, NewSentinelDuplicateChecker(errDuplicateSentinel), nil, 5)

	msg := newTestMessage(`{"event_type":"user.registered","data":{"user_id":1,"name":"A","email":"a@gmail.com","created_at":"2024-01-01T10:15:00Z"}}`)
	if err := handler.Handle(msg); err != nil {
		t.Fatalf("Handle() = %v, want nil (ack)", err)
	}

	if len(applier.applied) != 1 {
		t.Fatalf("Expected 1 applied event, got %d", len(applier.applied))
	}
	if applier.applied[0].EmailDomain() != "gmail.com" {
		t.Errorf("Unexpected domain %q", applier.applied[0].EmailDomain())
	}
	if handler.Processed() != 1 {
		t.Errorf("Processed() = %d, want 1", handler.Processed())
	}
}

func TestHandleMalformedJSON(t *testing.T) {
	applier := &fakeApplier{}
	handler := NewRegistrationHandler(applier, nil, nil, 5)

	if err := handler.Handle(newTestMessage(`{not json at all`)); err != nil {
		t.Errorf("Handle() = %v, want nil (ack and discard)", err)
	}
	if len(applier.applied) != 0 {
		t.Errorf("Expected no state changes for malformed message")
	}
}

func TestHandleUnknownEventType(t *testing.T) {
	applier := &fakeApplier{}
	handler := NewRegistrationHandler(applier, nil, nil, 5)

	msg := newTestMessage(`{"event_type":"something.else","data":{"user_id":1}}`)
	if err := handler.Handle(msg); err != nil {
		t.Errorf("Handle() = %v, want nil (ack and discard)", err)
	}
	if len(applier.applied) != 0 {
		t.Errorf("Expected no state changes for unknown event type")
	}
}

func TestHandleValidationFailure(t *testing.T) {
	applier := &fakeApplier{err: &ValidationError{Field: "email", Message: "required"}}
	handler := NewRegistrationHandler(applier, nil, nil, 5)

	msg := newTestMessage(`{"event_type":"user.registered","data":{"user_id":1,"name":"A","created_at":"2024-01-01T10:15:00Z"}}`)
	if err := handler.Handle(msg); err != nil {
		t.Errorf("Handle() = %v, want nil (validation failures are discarded)", err)
	}
	if handler.Processed() != 0 {
		t.Errorf("Validation failure must not count as processed")
	}
}

func TestHandleDuplicateDelivery(t *testing.T) {
	applier := &fakeApplier{err: errDuplicateSentinel}
	handler := NewRegistrationHandler(applier, NewSentinelDuplicateChecker(errDuplicateSentinel), nil, 5)

	msg := newTestMessage(`{"event_type":"user.registered","data":{"user_id":1,"name":"A","email":"a@x.io","created_at":"2024-01-01T10:15:00Z"}}`)
	if err := handler.Handle(msg); err != nil {
		t.Errorf("Handle() = %v, want nil (duplicates are acked)", err)
	}
	if handler.Processed() != 0 {
		t.Errorf("Duplicate must not count as processed")
	}
}

func TestHandleStoreFailureNacks(t *testing.T) {
	applier := &fakeApplier{err: errors.New("disk full")}
	handler := NewRegistrationHandler(applier, NewSentinelDuplicateChecker(errDuplicateSentinel), nil, 5)

	msg := newTestMessage(`{"event_type":"user.registered","data":{"user_id":1,"name":"A","email":"a@x.io","created_at":"2024-01-01T10:15:00Z"}}`)
	if err := handler.Handle(msg); err == nil {
		t.Error("Handle() = nil, want error (store failures are nacked for retry)")
	}
	if handler.Processed() != 0 {
		t.Errorf("Failed apply must not count as processed")
	}
}

func TestHandleEventKeyFallback(t *testing.T) {
	applier := &fakeApplier{}
	handler := NewRegistrationHandler(applier, nil, nil, 5)

	msg := newTestMessage(`{"event":"user.registered","data":{"user_id":7,"name":"G","email":"g@x.io","created_at":"2024-01-01T00:00:00Z"}}`)
	if err := handler.Handle(msg); err != nil {
		t.Fatalf("Handle() = %v, want nil", err)
	}
	if len(applier.applied) != 1 {
		t.Fatalf("Expected event parsed via event key fallback")
	}
}
