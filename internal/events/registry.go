package events

import (
	"context"
	"sync"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"talentflow/internal/common"
)

// Handler processes one consumed event payload.
type Handler func(ctx context.Context, payload []byte)

// Registry owns the lifecycle of topic consumers. It is created once at
// startup and handed to whoever wires subscriptions; consumers are stopped
// together via Close.
type Registry struct {
	brokers     []string
	topicPrefix string
	groupID     string
	logger      *logrus.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	ctx     context.Context
	readers []*kafka.Reader
	wg      sync.WaitGroup
	closed  bool
}

func NewRegistry(brokers []string, topicPrefix, groupID string, logger *logrus.Logger) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		brokers:     brokers,
		topicPrefix: topicPrefix,
		groupID:     groupID,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Subscribe starts a consumer goroutine for the topic. It fails when the
// registry is closed or no brokers are configured.
func (r *Registry) Subscribe(topic string, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return common.NewError(common.CodeUnavailable, "consumer registry is closed", nil)
	}
	if len(r.brokers) == 0 {
		return common.NewError(common.CodeUnavailable, "no kafka brokers configured", nil)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: r.brokers,
		GroupID: r.groupID,
		Topic:   r.topicPrefix + "." + topic,
	})
	r.readers = append(r.readers, reader)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			message, err := reader.ReadMessage(r.ctx)
			if err != nil {
				if r.ctx.Err() != nil {
					return
				}
				r.logger.WithError(err).WithField("topic", reader.Config().Topic).Warn("consumer read failed")
				continue
			}
			handler(r.ctx, message.Value)
		}
	}()
	return nil
}

func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	readers := r.readers
	r.mu.Unlock()

	r.cancel()
	for _, reader := range readers {
		_ = reader.Close()
	}
	r.wg.Wait()
}
