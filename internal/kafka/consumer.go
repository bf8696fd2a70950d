package kafka

import (
	"context"
	"errors"
	"io"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/quantrisk/var-engine/pkg/utils/logger"
)

// Handler processes one consumed message.
type Handler func(ctx context.Context, key, value []byte) error

// Consumer reads messages from a single topic within a consumer group.
type Consumer struct {
	reader *kafkago.Reader
	log    *logger.Logger
}

// NewConsumer creates a consumer for the given topic.
func NewConsumer(config Config, topic string) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        config.Brokers,
		GroupID:        config.GroupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		SessionTimeout: config.SessionTimeout,
	})

	return &Consumer{
		reader: reader,
		log:    logger.GetLogger("kafka.consumer").With("topic", topic),
	}
}

// Run consumes messages until the context is canceled or the reader is
// closed, invoking handler for each. Handler errors are logged and the
// message is skipped; the loop keeps going.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	c.log.Info("starting consumer loop")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				c.log.Info("consumer loop stopped")
				return nil
			}
			c.log.Errorf("failed to read message: %v", err)
			return err
		}

		if err := handler(ctx, msg.Key, msg.Value); err != nil {
			c.log.Warnf("handler rejected message at offset %d: %v", msg.Offset, err)
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
