package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/forwarder"
)

var errNoForwarder = errors.New("events: bus was opened without a forwarder")

// StartForwarder runs the daemon that moves queued events onto their topics
// and returns once it is running. It may be called once per bus.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	if !b.opts.Forwarder {
		return errNoForwarder
	}
	if b.fwd != nil {
		return fmt.Errorf("events: forwarder already started")
	}

	queue, err := b.newSubscriber("forwarder-consumer")
	if err != nil {
		return err
	}
	target, err := b.newPublisher()
	if err != nil {
		_ = queue.Close()
		return err
	}
	fwd, err := forwarder.NewForwarder(queue, target, b.wlog, forwarder.Config{ForwarderTopic: forwarderTopic})
	if err != nil {
		_ = target.Close()
		_ = queue.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
			return
		}
		b.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		b.log.InfoContext(ctx, "events: forwarder running")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}
