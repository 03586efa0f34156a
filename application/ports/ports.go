package ports

import (
	"context"

	"ecommerce-backend/domain/events"
	"ecommerce-backend/domain/messaging"
)

// EventStore is the append-only, per-aggregate persistence of domain events.
// It is the single source of truth for aggregate history.
type EventStore interface {
	// SaveEvents appends events for one aggregate. The append is all-or-nothing
	// and fails with a conflict error when the store's current event count for
	// the aggregate differs from expectedVersion. On success each event is
	// assigned version expectedVersion+1, +2, ... in order.
	SaveEvents(ctx context.Context, aggregateID string, evts []events.DomainEvent, expectedVersion int64) error

	// GetEventsForAggregate returns the full history ascending by version.
	// An aggregate that was never created yields an empty slice, not an error.
	GetEventsForAggregate(ctx context.Context, aggregateID string) ([]events.DomainEvent, error)

	// GetEventsForAggregateFromVersion returns only events with version
	// strictly greater than the given one, for incremental replay.
	GetEventsForAggregateFromVersion(ctx context.Context, aggregateID string, version int64) ([]events.DomainEvent, error)

	// GetAllEvents returns every stored event ascending by persisted creation
	// order. Administrative use.
	GetAllEvents(ctx context.Context) ([]events.DomainEvent, error)

	// GetEventsByType returns events of one type ascending by persisted
	// creation order. Administrative use.
	GetEventsByType(ctx context.Context, eventType string) ([]events.DomainEvent, error)
}

// EventPublisher hands domain events and saga commands to the message fabric.
// Implementations retry transient failures and route exhausted messages to a
// durable recovery channel instead of losing them.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event events.DomainEvent) error
	PublishSagaCommand(ctx context.Context, command messaging.SagaCommand) error
}
