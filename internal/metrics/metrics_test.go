// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDiscardedReasons(t *testing.T) {
	before := testutil.ToFloat64(EventsDiscarded.WithLabelValues("malformed"))
	RecordDiscarded("malformed")
	after := testutil.ToFloat64(EventsDiscarded.WithLabelValues("malformed"))
	if after != before+1 {
		t.Errorf("Expected malformed counter to increment, got %f -> %f", before, after)
	}
}

func TestPipelineCounters(t *testing.T) {
	tests := []struct {
		name   string
		record func()
		read   func() float64
	}{
		{"consumed", RecordConsume, func() float64 { return testutil.ToFloat64(EventsConsumed) }},
		{"processed", RecordProcessed, func() float64 { return testutil.ToFloat64(EventsProcessed) }},
		{"duplicate", RecordDuplicate, func() float64 { return testutil.ToFloat64(EventsDuplicate) }},
		{"failed", RecordFailed, func() float64 { return testutil.ToFloat64(EventsFailed) }},
		{"poisoned", RecordPoisoned, func() float64 { return testutil.ToFloat64(EventsPoisoned) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.read()
			tt.record()
			if got := tt.read(); got != before+1 {
				t.Errorf("Expected %s counter to increment, got %f -> %f", tt.name, before, got)
			}
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != base+1 {
		t.Errorf("Expected gauge %f, got %f", base+1, got)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != base {
		t.Errorf("Expected gauge %f, got %f", base, got)
	}
}

func TestSetConsumerState(t *testing.T) {
	SetConsumerState(3)
	if got := testutil.ToFloat64(ConsumerState); got != 3 {
		t.Errorf("Expected consumer state 3, got %f", got)
	}
	SetConsumerState(0)
}

func TestRecordApplyDuration(t *testing.T) {
	// Histograms cannot be read back with ToFloat64; just ensure the
	// helper does not panic on boundary values.
	RecordApplyDuration(0)
	RecordApplyDuration(50 * time.Millisecond)
	RecordApplyDuration(10 * time.Second)
}
