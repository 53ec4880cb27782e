// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/regboard/internal/logging"
	"github.com/tomtom215/regboard/internal/metrics"
)

// State is the consumer's connection state, exported for health reporting.
type State int32

const (
	// StateDisconnected is the initial state and the state after a
	// transport fault.
	StateDisconnected State = iota
	// StateConnecting means a bounded connect loop is in progress.
	StateConnecting
	// StateConnected means the broker connection and stream are ready.
	StateConnected
	// StateConsuming means the router is processing deliveries.
	StateConsuming
	// StateStopped is terminal after an explicit shutdown.
	StateStopped
)

// String returns the state name for health payloads.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateConsuming:
		return "consuming"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Consumer owns the broker connection, subscriber, router, and handler
// lifecycle. All mutable state lives on this struct; Start and Stop operate
// on the owned instance.
type Consumer struct {
	config  ConsumerConfig
	handler *RegistrationHandler

	mu         sync.RWMutex
	state      State
	nc         *natsgo.Conn
	subscriber *Subscriber
	poisonPub  *Publisher
	router     *Router
}

// NewConsumer creates a consumer in StateDisconnected. Nothing is connected
// until Start.
func NewConsumer(cfg ConsumerConfig, handler *RegistrationHandler) (*Consumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("%w: handler is required", ErrInvalidConfig)
	}
	if cfg.URL == "" || cfg.Subject == "" {
		return nil, fmt.Errorf("%w: url and subject are required", ErrInvalidConfig)
	}

	return &Consumer{
		config:  cfg,
		handler: handler,
		state:   StateDisconnected,
	}, nil
}

// State returns the current connection state.
func (c *Consumer) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Consumer) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	metrics.SetConsumerState(int(s))
}

// connect runs the bounded startup connect loop: MaxConnectAttempts tries
// with a fixed backoff between them. Exhaustion returns ErrConnectExhausted
// and the consumer never starts consuming.
func (c *Consumer) connect(ctx context.Context) error {
	c.setState(StateConnecting)

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxConnectAttempts; attempt++ {
		metrics.RecordConnectAttempt()

		nc, err := natsgo.Connect(c.config.URL,
			natsgo.RetryOnFailedConnect(false),
			natsgo.Timeout(10*time.Second),
		)
		if err == nil {
			c.mu.Lock()
			c.nc = nc
			c.mu.Unlock()
			logging.Info().Str("url", c.config.URL).Int("attempt", attempt).Msg("Connected to broker")
			return nil
		}

		lastErr = err
		logging.Warn().Err(err).
			Int("attempt", attempt).
			Int("max_attempts", c.config.MaxConnectAttempts).
			Dur("backoff", c.config.ConnectBackoff).
			Msg("Broker connection failed")

		if attempt == c.config.MaxConnectAttempts {
			break
		}

		select {
		case <-ctx.Done():
			// Stop may have raced in; never downgrade the terminal state.
			if c.State() != StateStopped {
				c.setState(StateDisconnected)
			}
			return ctx.Err()
		case <-time.After(c.config.ConnectBackoff):
		}
	}

	c.setState(StateDisconnected)
	return fmt.Errorf("%w after %d attempts: %v", ErrConnectExhausted, c.config.MaxConnectAttempts, lastErr)
}

// Start connects to the broker, declares the stream, and runs the router
// until ctx is canceled or a transport fault stops it. It blocks; run it
// under a supervisor so faults re-enter the connect loop.
func (c *Consumer) Start(ctx context.Context) error {
	if c.State() == StateStopped {
		return ErrConsumerClosed
	}

	if err := c.connect(ctx); err != nil {
		return err
	}

	logger := NewLoggerAdapter()

	// Declare the stream before any subscription binds to it.
	streamMgr, err := NewStreamManager(c.conn(), &c.config.Stream)
	if err != nil {
		c.teardown()
		return err
	}
	streamCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	_, err = streamMgr.EnsureStream(streamCtx)
	cancel()
	if err != nil {
		c.teardown()
		return fmt.Errorf("ensure stream: %w", err)
	}

	subscriber, err := NewSubscriber(&c.config.Subscriber, logger)
	if err != nil {
		c.teardown()
		return err
	}

	var poisonPub *Publisher
	if c.config.Router.PoisonQueueTopic != "" {
		poisonPub, err = NewPublisher(DefaultPublisherConfig(c.config.URL), logger)
		if err != nil {
			closeQuietlyLogged(subscriber, "subscriber")
			c.teardown()
			return err
		}
	}

	var router *Router
	if poisonPub != nil {
		router, err = NewRouter(&c.config.Router, poisonPub.Unwrap(), logger)
	} else {
		router, err = NewRouter(&c.config.Router, nil, logger)
	}
	if err != nil {
		if poisonPub != nil {
			closeQuietlyLogged(poisonPub, "poison publisher")
		}
		closeQuietlyLogged(subscriber, "subscriber")
		c.teardown()
		return err
	}

	router.AddConsumerHandler(
		"registration-consumer",
		c.config.Subject,
		subscriber.Unwrap(),
		c.handler.Handle,
	)

	c.mu.Lock()
	c.subscriber = subscriber
	c.poisonPub = poisonPub
	c.router = router
	c.mu.Unlock()

	c.setState(StateConnected)
	logging.Info().
		Str("subject", c.config.Subject).
		Str("stream", c.config.Stream.Name).
		Str("durable", c.config.Subscriber.DurableName).
		Msg("Consumer starting")

	// The watcher must not outlive Run: if the router fails before its
	// running channel closes, runDone releases the goroutine.
	runDone := make(chan struct{})
	go func() {
		select {
		case <-router.Running():
			if c.State() == StateConnected {
				c.setState(StateConsuming)
			}
		case <-runDone:
		}
	}()

	err = router.Run(ctx)
	close(runDone)

	// Router exit: either graceful shutdown or transport fault. Either
	// way the connection is torn down; the supervisor decides on restart.
	c.teardownAll()
	if c.State() != StateStopped {
		c.setState(StateDisconnected)
	}
	return err
}

// Stop transitions to StateStopped and closes the router, waiting for the
// in-flight handler to finish its ack or nack before the connection closes.
func (c *Consumer) Stop() error {
	c.setState(StateStopped)

	c.mu.RLock()
	router := c.router
	c.mu.RUnlock()

	var err error
	if router != nil {
		err = router.Close()
	}
	c.teardownAll()
	return err
}

func (c *Consumer) conn() *natsgo.Conn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nc
}

// teardown closes just the broker connection.
func (c *Consumer) teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.nc != nil {
		c.nc.Close()
		c.nc = nil
	}
}

// teardownAll closes subscriber, publisher, and connection.
func (c *Consumer) teardownAll() {
	c.mu.Lock()
	subscriber := c.subscriber
	poisonPub := c.poisonPub
	c.subscriber = nil
	c.poisonPub = nil
	c.router = nil
	nc := c.nc
	c.nc = nil
	c.mu.Unlock()

	if subscriber != nil {
		closeQuietlyLogged(subscriber, "subscriber")
	}
	if poisonPub != nil {
		closeQuietlyLogged(poisonPub, "poison publisher")
	}
	if nc != nil {
		nc.Close()
	}
}

// closeQuietlyLogged closes a component and logs failures at warn level.
func closeQuietlyLogged(closer interface{ Close() error }, name string) {
	if err := closer.Close(); err != nil {
		logging.Warn().Err(err).Str("component", name).Msg("Failed to close component")
	}
}
