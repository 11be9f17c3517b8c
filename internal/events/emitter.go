package events

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"talentflow/internal/domain/event"
	"talentflow/internal/observability"
)

// Emitter publishes events after committed state transitions. A publish
// failure never propagates to the caller: the transition is already the
// source of truth, so the failure is retried a bounded number of times and
// then logged and counted as degraded.
type Emitter struct {
	publisher event.Publisher
	logger    *logrus.Logger
	retries   int
	timeout   time.Duration
	degraded  uint64
}

func NewEmitter(publisher event.Publisher, logger *logrus.Logger, retries int, timeout time.Duration) *Emitter {
	if retries < 1 {
		retries = 1
	}
	return &Emitter{publisher: publisher, logger: logger, retries: retries, timeout: timeout}
}

func (e *Emitter) Emit(ctx context.Context, topic string, payload event.Payload) {
	// The intent is logically complete once the write committed, so the
	// request's cancellation must not cut the publish short.
	base := context.WithoutCancel(ctx)

	var lastErr error
	for attempt := 0; attempt < e.retries; attempt++ {
		publishCtx, cancel := context.WithTimeout(base, e.timeout)
		lastErr = e.publisher.Publish(publishCtx, topic, payload)
		cancel()
		if lastErr == nil {
			return
		}
		time.Sleep(time.Duration(attempt+1) * 100 * time.Millisecond)
	}

	atomic.AddUint64(&e.degraded, 1)
	e.logger.WithFields(logrus.Fields{
		"topic":      topic,
		"request_id": observability.RequestIDFromContext(ctx),
		"error":      lastErr.Error(),
	}).Warn("notification degraded: event dropped after retries")
}

// Degraded returns the count of events dropped after exhausting retries.
func (e *Emitter) Degraded() uint64 {
	return atomic.LoadUint64(&e.degraded)
}
