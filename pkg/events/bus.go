// Package events carries domain events from the API to the worker through
// PostgreSQL tables managed by Watermill.
//
// Repositories publish inside their own transaction (PublishInTx), so an
// order and its order.placed event commit together. With the forwarder
// enabled those writes land in a durable queue that StartForwarder drains
// onto the real topics.
//
// Subscribers in the same consumer group share the work: each message is
// handled by one worker instance. Handlers must be idempotent; a failed
// message is retried per RetryPolicy and then Nacked for redelivery, unless
// the handler marks the failure Permanent.
package events

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/possystem/pkg/config"
	"github.com/ghuser/possystem/pkg/logger"
)

const (
	shutdownTimeout = 30 * time.Second
	forwarderTopic  = "_forwarder_queue"
)

// EventBus publishes and consumes events stored in PostgreSQL.
type EventBus struct {
	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder
	db         *sql.DB
	log        logger.Logger
	wlog       *slogAdapter
	opts       Options
	wg         sync.WaitGroup
}

// Options tunes one bus instance.
type Options struct {
	// Forwarder routes every publish through the durable forwarder queue.
	Forwarder bool
	// ConsumerGroup is shared by all instances that split the work.
	ConsumerGroup string
	Retry         RetryPolicy
}

// OptionsFromConfig derives bus options from the service config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ConsumerGroup: cfg.ServiceName + "-consumer",
		Retry: RetryPolicy{
			Attempts:  cfg.EventMaxAttempts,
			BaseDelay: cfg.EventRetryDelay,
		},
	}
}

// NewEventBus opens a bus that publishes straight to topics. The worker and
// posctl use it.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return Open(cfg.DatabaseURL, OptionsFromConfig(cfg), log)
}

// NewEventBusWithForwarder opens the API's bus. Call StartForwarder before
// serving so queued events reach their topics.
func NewEventBusWithForwarder(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	opts := OptionsFromConfig(cfg)
	opts.Forwarder = true
	return Open(cfg.DatabaseURL, opts, log)
}

// Open connects to databaseURL and prepares the publisher and subscriber.
// Watermill creates its tables on first use.
func Open(databaseURL string, opts Options, log logger.Logger) (*EventBus, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}
	b := &EventBus{db: db, log: log, wlog: &slogAdapter{log: log}, opts: opts}

	pub, err := b.newPublisher()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	b.publisher = b.wrapForwarder(pub)

	b.subscriber, err = b.newSubscriber(opts.ConsumerGroup)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

func (b *EventBus) newPublisher() (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(b.db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: true,
	}, b.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	return pub, nil
}

// txPublisher binds a publisher to tx. The tables already exist once the
// bus is open.
func (b *EventBus) txPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := watermillsql.NewPublisher(tx, watermillsql.PublisherConfig{
		SchemaAdapter: watermillsql.DefaultPostgreSQLSchema{},
	}, b.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	return b.wrapForwarder(pub), nil
}

func (b *EventBus) newSubscriber(group string) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(b.db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, b.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber for %s: %w", group, err)
	}
	return sub, nil
}

func (b *EventBus) wrapForwarder(pub message.Publisher) message.Publisher {
	if !b.opts.Forwarder {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
}

// Ping reports whether the event store is reachable.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops consuming, waits up to 30s for in-flight handlers and the
// forwarder, then releases the publisher and the connection pool.
func (b *EventBus) Close() error {
	if err := b.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		b.log.Error("events: timed out waiting for in-flight handlers")
	}

	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return b.db.Close()
}
