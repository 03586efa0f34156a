package memory

import (
	"context"
	"sync"
	"testing"

	"ecommerce-backend/domain/events"
	apperrors "ecommerce-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewEventStore()

	created := events.NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1)
	confirmed := events.NewOrderConfirmed(1001, 42, "CONFIRMED", 2)

	require.NoError(t, store.SaveEvents(ctx, "1001", []events.DomainEvent{created}, 0))
	require.NoError(t, store.SaveEvents(ctx, "1001", []events.DomainEvent{confirmed}, 1))

	history, err := store.GetEventsForAggregate(ctx, "1001")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, events.TypeOrderCreated, history[0].GetEventType())
	assert.Equal(t, int64(1), history[0].GetVersion())
	assert.Equal(t, events.TypeOrderConfirmed, history[1].GetEventType())
	assert.Equal(t, int64(2), history[1].GetVersion())
}

func TestEventStore_ConcurrencyConflict(t *testing.T) {
	ctx := context.Background()
	store := NewEventStore()

	created := events.NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1)
	require.NoError(t, store.SaveEvents(ctx, "1001", []events.DomainEvent{created}, 0))

	stale := events.NewOrderConfirmed(1001, 42, "CONFIRMED", 1)
	err := store.SaveEvents(ctx, "1001", []events.DomainEvent{stale}, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	// The conflicting write must not have appended anything
	history, err := store.GetEventsForAggregate(ctx, "1001")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestEventStore_ConcurrentWritersOneWins(t *testing.T) {
	ctx := context.Background()
	store := NewEventStore()

	created := events.NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1)
	require.NoError(t, store.SaveEvents(ctx, "1001", []events.DomainEvent{created}, 0))

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			event := events.NewOrderConfirmed(1001, 42, "CONFIRMED", 2)
			errs[i] = store.SaveEvents(ctx, "1001", []events.DomainEvent{event}, 1)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperrors.IsConflict(err))
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent writer must win")

	history, err := store.GetEventsForAggregate(ctx, "1001")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestEventStore_FromVersion(t *testing.T) {
	ctx := context.Background()
	store := NewEventStore()

	batch := []events.DomainEvent{
		events.NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1),
		events.NewOrderConfirmed(1001, 42, "CONFIRMED", 2),
		events.NewOrderCancelled(1001, 42, "customer request", "CANCELLED", 3),
	}
	require.NoError(t, store.SaveEvents(ctx, "1001", batch, 0))

	tail, err := store.GetEventsForAggregateFromVersion(ctx, "1001", 1)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Equal(t, int64(2), tail[0].GetVersion())
	assert.Equal(t, int64(3), tail[1].GetVersion())

	none, err := store.GetEventsForAggregateFromVersion(ctx, "1001", 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEventStore_GetAllEventsAndByType(t *testing.T) {
	ctx := context.Background()
	store := NewEventStore()

	require.NoError(t, store.SaveEvents(ctx, "1001", []events.DomainEvent{
		events.NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1),
	}, 0))
	require.NoError(t, store.SaveEvents(ctx, "1002", []events.DomainEvent{
		events.NewOrderCreated(1002, 43, 8, 1, 9.99, "PENDING", 1),
	}, 0))
	require.NoError(t, store.SaveEvents(ctx, "1001", []events.DomainEvent{
		events.NewOrderConfirmed(1001, 42, "CONFIRMED", 2),
	}, 1))

	all, err := store.GetAllEvents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Insertion order across aggregates
	assert.Equal(t, events.TypeOrderCreated, all[0].GetEventType())
	assert.Equal(t, events.TypeOrderCreated, all[1].GetEventType())
	assert.Equal(t, events.TypeOrderConfirmed, all[2].GetEventType())

	confirmed, err := store.GetEventsByType(ctx, events.TypeOrderConfirmed)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, "1001", confirmed[0].GetAggregateID())
}

func TestEventStore_EmptyAggregate(t *testing.T) {
	store := NewEventStore()

	history, err := store.GetEventsForAggregate(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, history)
}
