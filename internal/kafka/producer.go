package kafka

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/quantrisk/var-engine/pkg/utils/logger"
)

// Producer publishes messages to a single topic.
type Producer struct {
	writer *kafkago.Writer
	log    *logger.Logger
}

// NewProducer creates a producer for the given topic.
func NewProducer(config Config, topic string) *Producer {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(config.Brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}

	return &Producer{
		writer: writer,
		log:    logger.GetLogger("kafka.producer").With("topic", topic),
	}
}

// Publish writes one keyed message to the topic.
func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   key,
		Value: value,
	})
	if err != nil {
		p.log.Errorf("failed to write message: %v", err)
		return err
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
