package event

import "context"

// Payload is the flat key/value record published for a completed transition.
// Payloads carry ids, the new status, and timestamps, never whole entities.
type Payload map[string]any

// Publisher is the at-most-once notification channel. Topic names follow the
// <entity>.<event> convention.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload Payload) error
}
