// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/regboard/internal/config"
	"github.com/tomtom215/regboard/internal/eventprocessor"
)

// fakeConsumer returns a scripted error from Start.
type fakeConsumer struct {
	startErr error
	waitCtx  bool
}

func (f *fakeConsumer) Start(ctx context.Context) error {
	if f.waitCtx {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.startErr
}

func (f *fakeConsumer) Stop() error {
	return nil
}

func TestConsumerServiceErrorMapping(t *testing.T) {
	transportErr := errors.New("router terminated: connection lost")

	tests := []struct {
		name  string
		start error
		want  error
	}{
		{"connect exhausted is terminal", eventprocessor.ErrConnectExhausted, suture.ErrDoNotRestart},
		{"consumer closed is terminal", eventprocessor.ErrConsumerClosed, suture.ErrDoNotRestart},
		{"transport fault restarts", transportErr, transportErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewConsumerService(&fakeConsumer{startErr: tt.start})
			err := svc.Serve(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("Serve() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConsumerServiceWrappedErrors(t *testing.T) {
	// Errors wrapped by the consumer still map to the terminal verdict.
	wrapped := errors.Join(errors.New("giving up after 10 attempts"), eventprocessor.ErrConnectExhausted)
	svc := NewConsumerService(&fakeConsumer{startErr: wrapped})

	if err := svc.Serve(context.Background()); !errors.Is(err, suture.ErrDoNotRestart) {
		t.Errorf("Serve() = %v, want ErrDoNotRestart", err)
	}
}

func TestConsumerServiceNilErrorRestarts(t *testing.T) {
	svc := NewConsumerService(&fakeConsumer{startErr: nil})

	err := svc.Serve(context.Background())
	if err == nil {
		t.Fatal("Serve() = nil for unexpected run loop exit, want restartable error")
	}
	if errors.Is(err, suture.ErrDoNotRestart) {
		t.Error("Unexpected run loop exit must be restartable")
	}
}

func TestConsumerServiceContextCancellation(t *testing.T) {
	svc := NewConsumerService(&fakeConsumer{waitCtx: true})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestConsumerServiceString(t *testing.T) {
	if got := NewConsumerService(&fakeConsumer{}).String(); got != "event-consumer" {
		t.Errorf("String() = %q, want event-consumer", got)
	}
}

func TestHTTPServiceLifecycle(t *testing.T) {
	cfg := &config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ShutdownTimeout: time.Second,
	}
	svc := NewHTTPService(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx)
	}()

	// Give the listener a moment to bind, then shut down.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("HTTP service did not stop after cancellation")
	}
}

func TestHTTPServiceBindFailure(t *testing.T) {
	cfg := &config.ServerConfig{Host: "256.256.256.256", Port: 80}
	svc := NewHTTPService(cfg, http.NewServeMux())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := svc.Serve(ctx); err == nil {
		t.Error("Serve() = nil for unbindable address, want error")
	}
}

func TestHTTPServiceString(t *testing.T) {
	if got := NewHTTPService(&config.ServerConfig{}, nil).String(); got != "http-server" {
		t.Errorf("String() = %q, want http-server", got)
	}
}
