package persistence

import (
	"context"

	"ecommerce-backend/application/ports"
	"ecommerce-backend/domain/events"

	"go.uber.org/zap"
)

// Aggregate is what the repository needs from an event-sourced aggregate root
type Aggregate interface {
	ID() string
	Version() int64
	UncommittedEvents() []events.DomainEvent
	MarkCommitted()
	Replay(history []events.DomainEvent) error
}

// AggregateRepository translates between an aggregate and the event store.
// Saving persists and publishes the uncommitted events; loading is a full
// replay of the aggregate's history. No aggregate state is cached between
// calls.
type AggregateRepository[T Aggregate] struct {
	store        ports.EventStore
	publisher    ports.EventPublisher
	newAggregate func() T
	logger       *zap.Logger
}

// NewAggregateRepository creates a repository for one aggregate type.
// newAggregate must return a fresh, empty instance ready for replay.
func NewAggregateRepository[T Aggregate](
	store ports.EventStore,
	publisher ports.EventPublisher,
	newAggregate func() T,
	logger *zap.Logger,
) *AggregateRepository[T] {
	return &AggregateRepository[T]{
		store:        store,
		publisher:    publisher,
		newAggregate: newAggregate,
		logger:       logger,
	}
}

// Save persists the aggregate's uncommitted events and publishes them in
// order. A concurrency conflict fails the save entirely and leaves the
// uncommitted buffer intact so the caller can reload and retry.
func (r *AggregateRepository[T]) Save(ctx context.Context, aggregate T) error {
	uncommitted := aggregate.UncommittedEvents()
	if len(uncommitted) == 0 {
		return nil
	}

	expectedVersion := aggregate.Version() - int64(len(uncommitted))

	if err := r.store.SaveEvents(ctx, aggregate.ID(), uncommitted, expectedVersion); err != nil {
		return err
	}

	// Events are durable from here on; a publish failure is a delivery
	// problem handled by the publisher's retry/recovery path, not a reason
	// to keep the events uncommitted.
	var publishErr error
	for _, event := range uncommitted {
		if err := r.publisher.PublishEvent(ctx, event); err != nil {
			r.logger.Error("failed to publish committed event",
				zap.String("eventId", event.GetEventID()),
				zap.String("eventType", event.GetEventType()),
				zap.Error(err),
			)
			if publishErr == nil {
				publishErr = err
			}
		}
	}

	aggregate.MarkCommitted()
	return publishErr
}

// FindByID loads the full event history and replays it into a fresh
// aggregate instance. An aggregate with no history yields the zero value and
// no error.
func (r *AggregateRepository[T]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T

	history, err := r.store.GetEventsForAggregate(ctx, id)
	if err != nil {
		return zero, err
	}
	if len(history) == 0 {
		return zero, nil
	}

	aggregate := r.newAggregate()
	if err := aggregate.Replay(history); err != nil {
		return zero, err
	}
	return aggregate, nil
}
