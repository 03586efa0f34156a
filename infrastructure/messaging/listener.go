package messaging

import (
	"context"
	"encoding/json"

	"ecommerce-backend/domain/events"
	apperrors "ecommerce-backend/pkg/errors"

	"go.uber.org/zap"
)

// Consumer reads raw messages from the fabric
type Consumer interface {
	Consume(ctx context.Context, topic, groupID string, handler func(ctx context.Context, key string, payload []byte) error)
}

// EventSink receives decoded domain events. The saga manager is the sink in
// every service that participates in a saga.
type EventSink interface {
	HandleEvent(ctx context.Context, event events.DomainEvent) error
}

// EventListener consumes the domain events topic, decodes each message via
// the event type registry and feeds it to the sink
type EventListener struct {
	consumer Consumer
	sink     EventSink
	groupID  string
	logger   *zap.Logger
}

// NewEventListener creates an event listener for one consumer group
func NewEventListener(consumer Consumer, sink EventSink, groupID string, logger *zap.Logger) *EventListener {
	return &EventListener{
		consumer: consumer,
		sink:     sink,
		groupID:  groupID,
		logger:   logger,
	}
}

// Run consumes domain events until the context is cancelled. Blocks; run in
// its own goroutine.
func (l *EventListener) Run(ctx context.Context) {
	l.consumer.Consume(ctx, DomainEventsExchange, l.groupID, l.handleMessage)
}

func (l *EventListener) handleMessage(ctx context.Context, key string, payload []byte) error {
	var envelope struct {
		EventType string `json:"eventType"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return apperrors.Wrap(err, "malformed event payload")
	}

	event, err := events.Decode(envelope.EventType, payload)
	if err != nil {
		return err
	}

	l.logger.Info("processing event",
		zap.String("eventId", event.GetEventID()),
		zap.String("eventType", event.GetEventType()),
		zap.String("routingKey", key),
	)

	return l.sink.HandleEvent(ctx, event)
}
