// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package eventprocessor

import (
	"time"

	"github.com/tomtom215/regboard/internal/config"
)

// ServerConfig holds embedded NATS server configuration.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// DefaultServerConfig returns production defaults for the embedded broker.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "/data/nats/jetstream",
		JetStreamMaxMem:   1 << 30,  // 1GB
		JetStreamMaxStore: 10 << 30, // 10GB
	}
}

// PublisherConfig holds publisher configuration.
type PublisherConfig struct {
	URL             string
	MaxReconnects   int
	ReconnectWait   time.Duration
	ReconnectBuffer int
}

// DefaultPublisherConfig returns production defaults for the publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:             url,
		MaxReconnects:   -1, // Unlimited
		ReconnectWait:   2 * time.Second,
		ReconnectBuffer: 8 * 1024 * 1024, // 8MB
	}
}

// SubscriberConfig holds durable subscriber configuration.
//
// MaxAckPending=1 with a single subscriber goroutine serializes processing:
// at most one message is in flight, and the next delivery waits for the
// previous ack or nack.
type SubscriberConfig struct {
	URL              string
	StreamName       string
	DurableName      string
	SubscribersCount int
	AckWaitTimeout   time.Duration
	MaxDeliver       int
	MaxAckPending    int
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration
}

// DefaultSubscriberConfig returns production defaults for the subscriber.
func DefaultSubscriberConfig(url string) SubscriberConfig {
	return SubscriberConfig{
		URL:              url,
		StreamName:       "REGISTRATIONS",
		DurableName:      "registration-processor",
		SubscribersCount: 1, // Single goroutine, sequential processing
		AckWaitTimeout:   30 * time.Second,
		MaxDeliver:       5,
		MaxAckPending:    1, // One in-flight message
		CloseTimeout:     30 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
	}
}

// StreamConfig defines the registration event stream settings.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	MaxMsgs         int64
	DuplicateWindow time.Duration
	Replicas        int
}

// DefaultStreamConfig returns production stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Name:            "REGISTRATIONS",
		Subjects:        []string{"user.registrations", "user.registrations.poison"},
		MaxAge:          7 * 24 * time.Hour,
		MaxBytes:        10 * 1024 * 1024 * 1024, // 10GB
		MaxMsgs:         -1,                      // Unlimited
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// RouterConfig holds configuration for the Watermill router middleware.
type RouterConfig struct {
	CloseTimeout         time.Duration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
	PoisonQueueTopic     string
}

// DefaultRouterConfig returns production defaults for the router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     10 * time.Second,
		RetryMultiplier:      2.0,
		PoisonQueueTopic:     "user.registrations.poison",
	}
}

// ConsumerConfig holds the consumer's connection policy and topic wiring.
type ConsumerConfig struct {
	URL                string
	Subject            string
	MaxConnectAttempts int
	ConnectBackoff     time.Duration

	Subscriber SubscriberConfig
	Stream     StreamConfig
	Router     RouterConfig
}

// DefaultConsumerConfig returns production defaults for the consumer.
func DefaultConsumerConfig(url string) ConsumerConfig {
	return ConsumerConfig{
		URL:                url,
		Subject:            "user.registrations",
		MaxConnectAttempts: 10,
		ConnectBackoff:     5 * time.Second,
		Subscriber:         DefaultSubscriberConfig(url),
		Stream:             DefaultStreamConfig(),
		Router:             DefaultRouterConfig(),
	}
}

// ConsumerConfigFromApp builds the consumer configuration from the loaded
// application config.
func ConsumerConfigFromApp(cfg *config.Config) ConsumerConfig {
	cc := DefaultConsumerConfig(cfg.NATS.URL)
	cc.Subject = cfg.NATS.Subject
	cc.MaxConnectAttempts = cfg.Consumer.MaxConnectAttempts
	cc.ConnectBackoff = cfg.Consumer.ConnectBackoff

	cc.Subscriber.StreamName = cfg.NATS.StreamName
	cc.Subscriber.DurableName = cfg.NATS.DurableName
	cc.Subscriber.AckWaitTimeout = cfg.NATS.AckWaitTimeout
	cc.Subscriber.CloseTimeout = cfg.Consumer.CloseTimeout
	// MaxDeliver covers the first delivery plus router-level retries.
	cc.Subscriber.MaxDeliver = cfg.Consumer.RetryCount + 2

	cc.Stream.Name = cfg.NATS.StreamName
	cc.Stream.Subjects = []string{cfg.NATS.Subject}
	if cfg.Consumer.PoisonQueueEnabled {
		cc.Stream.Subjects = append(cc.Stream.Subjects, cfg.Consumer.PoisonQueueTopic)
	}
	cc.Stream.MaxAge = time.Duration(cfg.NATS.StreamRetentionDays) * 24 * time.Hour

	cc.Router.CloseTimeout = cfg.Consumer.CloseTimeout
	cc.Router.RetryMaxRetries = cfg.Consumer.RetryCount
	cc.Router.RetryInitialInterval = cfg.Consumer.RetryInitialInterval
	cc.Router.RetryMaxInterval = cfg.Consumer.RetryMaxInterval
	if cfg.Consumer.PoisonQueueEnabled {
		cc.Router.PoisonQueueTopic = cfg.Consumer.PoisonQueueTopic
	} else {
		cc.Router.PoisonQueueTopic = ""
	}

	return cc
}

// ServerConfigFromApp builds the embedded broker configuration from the
// loaded application config. The broker listens on the host and port of
// the configured NATS URL's default localhost binding.
func ServerConfigFromApp(cfg *config.Config) ServerConfig {
	sc := DefaultServerConfig()
	sc.StoreDir = cfg.NATS.StoreDir
	sc.JetStreamMaxMem = cfg.NATS.MaxMemory
	sc.JetStreamMaxStore = cfg.NATS.MaxStore
	return sc
}
