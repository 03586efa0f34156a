package messaging

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"ecommerce-backend/domain/events"
	"ecommerce-backend/domain/messaging"
	apperrors "ecommerce-backend/pkg/errors"

	"go.uber.org/zap"
)

// Exchange and routing key names shared with the other services
const (
	DomainEventsExchange = "domain.events.exchange"
	SagaCommandsExchange = "saga.commands.exchange"

	OrderEventsRoutingKey   = "order.events"
	ProductEventsRoutingKey = "product.events"
	PaymentEventsRoutingKey = "payment.events"
	SagaCommandsRoutingKey  = "saga.commands"
	DefaultEventsRoutingKey = "default.events"
)

// Sender is the transport half of publishing: one attempt to hand a payload
// to the message fabric under an exchange and routing key.
type Sender interface {
	Send(ctx context.Context, exchange, routingKey string, payload []byte) error
}

// Publisher delivers domain events and saga commands with retry and a
// recovery path. Transient failures are retried with exponential backoff;
// once attempts are exhausted the message is recorded in the dead-letter
// store instead of being lost, and the business caller is not failed.
type Publisher struct {
	sender      Sender
	deadLetters DeadLetterStore
	logger      *zap.Logger

	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration

	// wait is replaceable in tests so retries don't sleep for real
	wait func(ctx context.Context, d time.Duration) error
}

// NewPublisher creates a publisher with the standard retry policy:
// 3 attempts, 1s initial delay doubling up to 10s.
func NewPublisher(sender Sender, deadLetters DeadLetterStore, logger *zap.Logger) *Publisher {
	return &Publisher{
		sender:       sender,
		deadLetters:  deadLetters,
		logger:       logger,
		maxAttempts:  3,
		initialDelay: time.Second,
		maxDelay:     10 * time.Second,
		wait:         waitWithContext,
	}
}

// PublishEvent delivers a domain event under the routing key derived from its
// event type.
func (p *Publisher) PublishEvent(ctx context.Context, event events.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrap(err, "failed to serialize event for publishing")
	}

	return p.deliver(ctx, deadLetterKindEvent, event.GetEventID(), event.GetEventType(),
		DomainEventsExchange, RoutingKeyForEventType(event.GetEventType()), payload)
}

// PublishSagaCommand delivers a saga command on the saga commands exchange
func (p *Publisher) PublishSagaCommand(ctx context.Context, command messaging.SagaCommand) error {
	payload, err := json.Marshal(command)
	if err != nil {
		return apperrors.Wrap(err, "failed to serialize saga command for publishing")
	}

	return p.deliver(ctx, deadLetterKindSagaCommand, command.CommandID, command.CommandType,
		SagaCommandsExchange, SagaCommandsRoutingKey, payload)
}

func (p *Publisher) deliver(ctx context.Context, kind, messageID, messageType, exchange, routingKey string, payload []byte) error {
	delay := p.initialDelay
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		publishAttempts.WithLabelValues(kind).Inc()

		err := p.sender.Send(ctx, exchange, routingKey, payload)
		if err == nil {
			p.logger.Info("published message",
				zap.String("kind", kind),
				zap.String("messageId", messageID),
				zap.String("messageType", messageType),
				zap.String("routingKey", routingKey),
				zap.Int("attempt", attempt),
			)
			return nil
		}

		lastErr = err
		publishFailures.WithLabelValues(kind).Inc()
		p.logger.Warn("publish attempt failed",
			zap.String("kind", kind),
			zap.String("messageId", messageID),
			zap.String("messageType", messageType),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", p.maxAttempts),
			zap.Error(err),
		)

		if attempt < p.maxAttempts {
			if err := p.wait(ctx, delay); err != nil {
				lastErr = err
				break
			}
			delay *= 2
			if delay > p.maxDelay {
				delay = p.maxDelay
			}
		}
	}

	return p.recover(ctx, kind, messageID, messageType, exchange, routingKey, payload, lastErr)
}

// recover is the last line of defense against message loss: the exhausted
// message is appended to the durable dead-letter store for manual
// inspection. Recovery success is not an error for the business caller.
func (p *Publisher) recover(ctx context.Context, kind, messageID, messageType, exchange, routingKey string, payload []byte, cause error) error {
	p.logger.Error("publish failed after all retries, recording dead letter",
		zap.String("kind", kind),
		zap.String("messageId", messageID),
		zap.String("messageType", messageType),
		zap.String("routingKey", routingKey),
		zap.Error(cause),
	)

	deadLetter := DeadLetter{
		MessageID:   messageID,
		Kind:        kind,
		MessageType: messageType,
		Exchange:    exchange,
		RoutingKey:  routingKey,
		Payload:     payload,
		Reason:      cause.Error(),
		CreatedAt:   time.Now().UTC(),
	}

	if err := p.deadLetters.Record(ctx, deadLetter); err != nil {
		return apperrors.NewDeliveryError("failed to record dead letter for undeliverable message", err)
	}

	deadLettersRecorded.WithLabelValues(kind).Inc()
	return nil
}

// RoutingKeyForEventType derives the routing key from the event type
// discriminator. The substring rules are shared with the other services.
func RoutingKeyForEventType(eventType string) string {
	switch {
	case strings.Contains(eventType, "Order"):
		return OrderEventsRoutingKey
	case strings.Contains(eventType, "Product"), strings.Contains(eventType, "Stock"):
		return ProductEventsRoutingKey
	case strings.Contains(eventType, "Payment"):
		return PaymentEventsRoutingKey
	default:
		return DefaultEventsRoutingKey
	}
}

func waitWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
