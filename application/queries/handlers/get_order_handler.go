package handlers

import (
	"context"
	"fmt"
	"strconv"

	"ecommerce-backend/application/queries"
	"ecommerce-backend/application/queries/bus"
	"ecommerce-backend/domain/core/aggregates"
	"ecommerce-backend/infrastructure/persistence"
	apperrors "ecommerce-backend/pkg/errors"
)

// GetOrderHandler rebuilds an order's current state by replaying its history
type GetOrderHandler struct {
	orders *persistence.AggregateRepository[*aggregates.OrderAggregate]
}

// NewGetOrderHandler creates a new handler instance
func NewGetOrderHandler(orders *persistence.AggregateRepository[*aggregates.OrderAggregate]) *GetOrderHandler {
	return &GetOrderHandler{orders: orders}
}

// Handle executes the get order query
func (h *GetOrderHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(*queries.GetOrderQuery)
	if !ok {
		return nil, apperrors.NewInternalError(fmt.Sprintf("unexpected query type %T", query))
	}

	aggregate, err := h.orders.FindByID(ctx, strconv.FormatInt(q.OrderID, 10))
	if err != nil {
		return nil, err
	}
	if aggregate == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %d", q.OrderID))
	}

	return &queries.OrderView{
		OrderID:            aggregate.OrderID(),
		UserID:             aggregate.UserID(),
		ProductID:          aggregate.ProductID(),
		Quantity:           aggregate.Quantity(),
		TotalAmount:        aggregate.TotalAmount(),
		Status:             string(aggregate.Status()),
		CancellationReason: aggregate.CancellationReason(),
		Version:            aggregate.Version(),
	}, nil
}
