package kafka

import (
	"context"
	"time"

	apperrors "ecommerce-backend/pkg/errors"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Sender publishes to Kafka. Exchanges map to topics and routing keys to
// message keys, so consumers can filter on the key the way a topic exchange
// would route. A circuit breaker makes a dead broker fail fast instead of
// stalling every publish for the full write timeout.
type Sender struct {
	writer  *kafkago.Writer
	breaker *gobreaker.CircuitBreaker
}

// NewSender creates a Kafka-backed sender
func NewSender(brokers []string, logger *zap.Logger) *Sender {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Balancer:     &kafkago.LeastBytes{},
		WriteTimeout: 10 * time.Second,
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "kafka-publish",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("kafka circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Sender{writer: writer, breaker: breaker}
}

// Send writes one message to the topic named after the exchange
func (s *Sender) Send(ctx context.Context, exchange, routingKey string, payload []byte) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.writer.WriteMessages(ctx, kafkago.Message{
			Topic: exchange,
			Key:   []byte(routingKey),
			Value: payload,
		})
	})
	if err != nil {
		return apperrors.NewDeliveryError("kafka publish failed", err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (s *Sender) Close() error {
	return s.writer.Close()
}

// Consumer reads messages from Kafka topics
type Consumer struct {
	brokers []string
	logger  *zap.Logger
}

// NewConsumer creates a Kafka consumer
func NewConsumer(brokers []string, logger *zap.Logger) *Consumer {
	return &Consumer{brokers: brokers, logger: logger}
}

// Consume reads messages from a topic until the context is cancelled,
// invoking handler for each. Handler errors are logged and the message is
// dropped; redelivery is the broker's concern, deduplication the consumer's.
func (c *Consumer) Consume(ctx context.Context, topic, groupID string, handler func(ctx context.Context, key string, payload []byte) error) {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: c.brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	defer reader.Close()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer shutting down", zap.String("topic", topic))
				return
			}
			c.logger.Error("error reading message", zap.String("topic", topic), zap.Error(err))
			continue
		}

		if err := handler(ctx, string(msg.Key), msg.Value); err != nil {
			c.logger.Error("error handling message",
				zap.String("topic", topic),
				zap.String("key", string(msg.Key)),
				zap.Error(err),
			)
		}
	}
}
