package handlers

import (
	"context"
	"fmt"
	"strconv"

	"ecommerce-backend/application/commands"
	"ecommerce-backend/application/commands/bus"
	"ecommerce-backend/domain/core/aggregates"
	"ecommerce-backend/infrastructure/persistence"
	apperrors "ecommerce-backend/pkg/errors"

	"go.uber.org/zap"
)

// CancelOrderHandler cancels an order with a reason. Cancelling an already
// cancelled order succeeds without producing a new event.
type CancelOrderHandler struct {
	orders *persistence.AggregateRepository[*aggregates.OrderAggregate]
	logger *zap.Logger
}

// NewCancelOrderHandler creates a new handler instance
func NewCancelOrderHandler(
	orders *persistence.AggregateRepository[*aggregates.OrderAggregate],
	logger *zap.Logger,
) *CancelOrderHandler {
	return &CancelOrderHandler{orders: orders, logger: logger}
}

// Handle executes the cancel order command
func (h *CancelOrderHandler) Handle(ctx context.Context, cmd bus.Command) error {
	command, ok := cmd.(*commands.CancelOrderCommand)
	if !ok {
		return apperrors.NewInternalError(fmt.Sprintf("unexpected command type %T", cmd))
	}

	aggregate, err := h.orders.FindByID(ctx, strconv.FormatInt(command.OrderID, 10))
	if err != nil {
		return err
	}
	if aggregate == nil {
		return apperrors.NewNotFoundError(fmt.Sprintf("order %d", command.OrderID))
	}

	if err := aggregate.Cancel(command.Reason); err != nil {
		return err
	}

	if err := h.orders.Save(ctx, aggregate); err != nil {
		return err
	}

	h.logger.Info("order cancelled",
		zap.Int64("orderId", command.OrderID),
		zap.String("reason", command.Reason),
	)
	return nil
}
