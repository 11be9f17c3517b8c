package events

import (
	"context"

	"talentflow/internal/domain/event"
)

// NoopChannel drops every event. Used when the broker is not configured or
// unreachable at startup.
type NoopChannel struct{}

func (NoopChannel) Publish(ctx context.Context, topic string, payload event.Payload) error {
	return nil
}

func (NoopChannel) Close() error {
	return nil
}
