package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ecommerce-backend/application/ports"
	"ecommerce-backend/application/queries"
	"ecommerce-backend/application/queries/bus"
	"ecommerce-backend/domain/events"
	apperrors "ecommerce-backend/pkg/errors"
)

// GetOrderEventsHandler returns an order's event history straight from the
// event store, without rebuilding the aggregate
type GetOrderEventsHandler struct {
	store ports.EventStore
}

// NewGetOrderEventsHandler creates a new handler instance
func NewGetOrderEventsHandler(store ports.EventStore) *GetOrderEventsHandler {
	return &GetOrderEventsHandler{store: store}
}

// Handle executes the get order events query
func (h *GetOrderEventsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(*queries.GetOrderEventsQuery)
	if !ok {
		return nil, apperrors.NewInternalError(fmt.Sprintf("unexpected query type %T", query))
	}

	aggregateID := strconv.FormatInt(q.OrderID, 10)

	var history []events.DomainEvent
	var err error
	if q.FromVersion > 0 {
		history, err = h.store.GetEventsForAggregateFromVersion(ctx, aggregateID, q.FromVersion)
	} else {
		history, err = h.store.GetEventsForAggregate(ctx, aggregateID)
	}
	if err != nil {
		return nil, err
	}
	// A from-version past the head legitimately yields no events; only a
	// completely unknown order is a 404.
	if len(history) == 0 && q.FromVersion == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %d", q.OrderID))
	}

	views := make([]queries.OrderEventView, 0, len(history))
	for _, event := range history {
		views = append(views, queries.OrderEventView{
			EventID:    event.GetEventID(),
			EventType:  event.GetEventType(),
			Version:    event.GetVersion(),
			OccurredOn: event.GetOccurredOn().Format(time.RFC3339Nano),
		})
	}
	return views, nil
}
