package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"talentflow/internal/domain/event"
)

type recordingPublisher struct {
	mu       sync.Mutex
	failures int
	calls    int
	topics   []string
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, payload event.Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failures {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	return nil
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestEmitPublishes(t *testing.T) {
	publisher := &recordingPublisher{}
	emitter := NewEmitter(publisher, silentLogger(), 3, time.Second)

	emitter.Emit(context.Background(), "vacancy.published", event.Payload{"vacancy_id": int64(1)})

	if len(publisher.topics) != 1 || publisher.topics[0] != "vacancy.published" {
		t.Fatalf("expected one published event, got %v", publisher.topics)
	}
	if emitter.Degraded() != 0 {
		t.Fatalf("expected no degraded events, got %d", emitter.Degraded())
	}
}

func TestEmitRetriesThenSucceeds(t *testing.T) {
	publisher := &recordingPublisher{failures: 2}
	emitter := NewEmitter(publisher, silentLogger(), 3, time.Second)

	emitter.Emit(context.Background(), "test.completed", event.Payload{})

	if publisher.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", publisher.calls)
	}
	if emitter.Degraded() != 0 {
		t.Fatalf("expected no degraded events, got %d", emitter.Degraded())
	}
}

func TestEmitDegradesAfterExhaustedRetries(t *testing.T) {
	publisher := &recordingPublisher{failures: 10}
	emitter := NewEmitter(publisher, silentLogger(), 2, time.Second)

	emitter.Emit(context.Background(), "selection.decision", event.Payload{})

	if publisher.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", publisher.calls)
	}
	if emitter.Degraded() != 1 {
		t.Fatalf("expected 1 degraded event, got %d", emitter.Degraded())
	}
}

func TestEmitSurvivesCancelledRequestContext(t *testing.T) {
	publisher := &recordingPublisher{}
	emitter := NewEmitter(publisher, silentLogger(), 1, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	emitter.Emit(ctx, "candidate.registered", event.Payload{})

	if len(publisher.topics) != 1 {
		t.Fatalf("expected publish despite cancelled request, got %v", publisher.topics)
	}
}

func TestNoopChannel(t *testing.T) {
	var channel Channel = NoopChannel{}
	if err := channel.Publish(context.Background(), "anything", event.Payload{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := channel.Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
