package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"talentflow/internal/common"
	"talentflow/internal/domain/event"
)

// Channel is a closeable notification publisher.
type Channel interface {
	event.Publisher
	Close() error
}

type KafkaPublisher struct {
	writer      *kafka.Writer
	topicPrefix string
}

func NewKafkaPublisher(brokers []string, topicPrefix string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
		topicPrefix: topicPrefix,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, payload event.Payload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to encode event payload", err)
	}
	message := kafka.Message{
		Topic: p.topicPrefix + "." + topic,
		Key:   []byte(uuid.NewString()),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return common.NewError(common.CodeUnavailable, "failed to publish event", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NewChannel selects the live Kafka publisher when brokers are configured and
// reachable, and falls back to the no-op publisher otherwise. Startup never
// fails because of an unreachable broker; the service just runs with
// notifications disabled.
func NewChannel(brokers []string, topicPrefix string, logger *logrus.Logger) Channel {
	if len(brokers) == 0 {
		logger.Warn("no kafka brokers configured, notifications disabled")
		return NoopChannel{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		logger.WithError(err).WithField("broker", brokers[0]).Warn("kafka unreachable, notifications disabled")
		return NoopChannel{}
	}
	_ = conn.Close()
	logger.WithField("brokers", brokers).Info("kafka producer connected")
	return NewKafkaPublisher(brokers, topicPrefix)
}
