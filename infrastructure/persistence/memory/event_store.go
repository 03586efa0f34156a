package memory

import (
	"context"
	"encoding/json"
	"sync"

	"ecommerce-backend/domain/events"
	apperrors "ecommerce-backend/pkg/errors"
)

// storedEvent keeps the serialized form so reads exercise the same
// discriminator registry as the relational store.
type storedEvent struct {
	eventType string
	data      []byte
}

// EventStore is an in-memory event store with the same contract as the
// Postgres one. Used by tests and local runs without a database.
type EventStore struct {
	mu      sync.Mutex
	streams map[string][]storedEvent
	log     []storedEvent
}

// NewEventStore creates an empty in-memory event store
func NewEventStore() *EventStore {
	return &EventStore{
		streams: make(map[string][]storedEvent),
	}
}

// SaveEvents appends events for one aggregate under the optimistic
// concurrency check. The append is atomic: either every event is stored or
// none is.
func (s *EventStore) SaveEvents(ctx context.Context, aggregateID string, evts []events.DomainEvent, expectedVersion int64) error {
	if len(evts) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	currentVersion := int64(len(s.streams[aggregateID]))
	if currentVersion != expectedVersion {
		return apperrors.NewConcurrencyConflictError(aggregateID, expectedVersion, currentVersion)
	}

	serialized := make([]storedEvent, 0, len(evts))
	for i, event := range evts {
		event.SetVersion(expectedVersion + int64(i) + 1)
		data, err := json.Marshal(event)
		if err != nil {
			return apperrors.Wrap(err, "failed to serialize event")
		}
		serialized = append(serialized, storedEvent{eventType: event.GetEventType(), data: data})
	}

	s.streams[aggregateID] = append(s.streams[aggregateID], serialized...)
	s.log = append(s.log, serialized...)
	return nil
}

// GetEventsForAggregate returns the full history ascending by version
func (s *EventStore) GetEventsForAggregate(ctx context.Context, aggregateID string) ([]events.DomainEvent, error) {
	s.mu.Lock()
	stream := make([]storedEvent, len(s.streams[aggregateID]))
	copy(stream, s.streams[aggregateID])
	s.mu.Unlock()

	return decodeAll(stream)
}

// GetEventsForAggregateFromVersion returns events with version strictly
// greater than the given one
func (s *EventStore) GetEventsForAggregateFromVersion(ctx context.Context, aggregateID string, version int64) ([]events.DomainEvent, error) {
	history, err := s.GetEventsForAggregate(ctx, aggregateID)
	if err != nil {
		return nil, err
	}

	var out []events.DomainEvent
	for _, event := range history {
		if event.GetVersion() > version {
			out = append(out, event)
		}
	}
	return out, nil
}

// GetAllEvents returns every stored event in insertion order
func (s *EventStore) GetAllEvents(ctx context.Context) ([]events.DomainEvent, error) {
	s.mu.Lock()
	log := make([]storedEvent, len(s.log))
	copy(log, s.log)
	s.mu.Unlock()

	return decodeAll(log)
}

// GetEventsByType returns events of one type in insertion order
func (s *EventStore) GetEventsByType(ctx context.Context, eventType string) ([]events.DomainEvent, error) {
	s.mu.Lock()
	var matching []storedEvent
	for _, stored := range s.log {
		if stored.eventType == eventType {
			matching = append(matching, stored)
		}
	}
	s.mu.Unlock()

	return decodeAll(matching)
}

func decodeAll(stored []storedEvent) ([]events.DomainEvent, error) {
	if len(stored) == 0 {
		return nil, nil
	}
	out := make([]events.DomainEvent, 0, len(stored))
	for _, entry := range stored {
		event, err := events.Decode(entry.eventType, entry.data)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, nil
}
