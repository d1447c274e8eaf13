package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Handler processes one event. Returning nil acknowledges it.
type Handler func(ctx context.Context, msg *message.Message) error

// RetryPolicy bounds how often a failing handler is re-run in-process
// before the message is handed back to the store.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

const (
	defaultAttempts  = 3
	defaultBaseDelay = time.Second
	defaultMaxDelay  = 30 * time.Second
)

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = defaultAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = defaultMaxDelay
	}
	return p
}

// Delay returns the wait after the given failed attempt (1-based): the base
// delay doubled per attempt, capped at MaxDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	p = p.normalized()
	d := p.BaseDelay
	for i := 1; i < attempt && d < p.MaxDelay; i++ {
		d *= 2
	}
	return min(d, p.MaxDelay)
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying, e.g. an undecodable payload.
// The message is acknowledged and the error still reaches the error channel.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

// Decode unmarshals the message payload into T. Failures are permanent.
func Decode[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, Permanent(fmt.Errorf("decode event %s: %w", msg.Metadata.Get(MetaEventID), err))
	}
	return v, nil
}

// Subscribe consumes topic in the background. Errors from handlers that
// gave up are sent on the returned channel (buffered, 100), which the
// caller must drain; it is closed once the subscription ends.
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, 100)
	policy := b.opts.Retry.normalized()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx := extractTrace(ctx, msg)
			err := b.handle(msgCtx, msg, handler, policy)
			switch {
			case err == nil:
				msg.Ack()
				continue
			case IsPermanent(err):
				msg.Ack()
			default:
				msg.Nack()
			}
			select {
			case errCh <- fmt.Errorf("%s: %w", topic, err):
			default:
				b.log.ErrorContext(msgCtx, "events: error channel full, dropping error", "topic", topic, "error", err)
			}
		}
	}()
	return errCh, nil
}

// handle runs handler until it succeeds, fails permanently or the policy
// runs out of attempts.
func (b *EventBus) handle(ctx context.Context, msg *message.Message, handler Handler, policy RetryPolicy) error {
	var err error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		if err = handler(ctx, msg); err == nil || IsPermanent(err) {
			return err
		}
		if attempt == policy.Attempts {
			break
		}
		delay := policy.Delay(attempt)
		b.log.WarnContext(ctx, "events: handler failed, retrying",
			"event_id", msg.Metadata.Get(MetaEventID),
			"attempt", attempt,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("handler failed after %d attempts: %w", policy.Attempts, err)
}
