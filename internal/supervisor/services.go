// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/regboard/internal/config"
	"github.com/tomtom215/regboard/internal/eventprocessor"
	"github.com/tomtom215/regboard/internal/logging"
)

// ConsumerRunner is the lifecycle surface of the event consumer.
// *eventprocessor.Consumer satisfies it.
type ConsumerRunner interface {
	Start(ctx context.Context) error
	Stop() error
}

// ConsumerService adapts the event consumer to the suture.Service
// interface. Transport faults surface as returned errors, so suture
// restarts the consumer with backoff; bounded-connect exhaustion and
// explicit stops are terminal.
type ConsumerService struct {
	consumer ConsumerRunner
}

// NewConsumerService wraps a consumer for supervision.
func NewConsumerService(consumer ConsumerRunner) *ConsumerService {
	return &ConsumerService{consumer: consumer}
}

// Serve implements suture.Service. It blocks inside the consumer's run
// loop until the context is canceled or the transport fails.
func (s *ConsumerService) Serve(ctx context.Context) error {
	logging.Info().Msg("Starting event consumer service")

	err := s.consumer.Start(ctx)

	if ctx.Err() != nil {
		// Normal shutdown path.
		return ctx.Err()
	}

	switch {
	case err == nil:
		// Run loop ended without error outside shutdown; treat as a
		// fault so supervision brings the consumer back.
		logging.Warn().Msg("Consumer run loop ended unexpectedly")
		return errors.New("consumer run loop ended unexpectedly")
	case errors.Is(err, eventprocessor.ErrConnectExhausted):
		logging.Error().Err(err).Msg("Consumer exhausted connect attempts; not restarting")
		return suture.ErrDoNotRestart
	case errors.Is(err, eventprocessor.ErrConsumerClosed):
		logging.Info().Msg("Consumer stopped; removing from supervision")
		return suture.ErrDoNotRestart
	default:
		logging.Error().Err(err).Msg("Consumer failed; supervisor will restart it")
		return err
	}
}

// String names the service in supervisor logs.
func (s *ConsumerService) String() string {
	return "event-consumer"
}

// HTTPService adapts the query API's HTTP server to suture.Service.
// The http.Server is built per Serve call because a Server cannot be
// reused after Shutdown.
type HTTPService struct {
	cfg     *config.ServerConfig
	handler http.Handler
}

// NewHTTPService creates a supervised HTTP server service.
func NewHTTPService(cfg *config.ServerConfig, handler http.Handler) *HTTPService {
	return &HTTPService{
		cfg:     cfg,
		handler: handler,
	}
}

// Serve implements suture.Service. It runs the HTTP server until the
// context is canceled, then shuts down gracefully within the configured
// shutdown timeout.
func (s *HTTPService) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:           s.cfg.Addr(),
		Handler:        s.handler,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		IdleTimeout:    s.cfg.IdleTimeout,
		MaxHeaderBytes: s.cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Warn().Err(err).Msg("HTTP server shutdown incomplete")
		}
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logging.Error().Err(err).Msg("HTTP server failed")
		return err
	}
}

// String names the service in supervisor logs.
func (s *HTTPService) String() string {
	return "http-server"
}
