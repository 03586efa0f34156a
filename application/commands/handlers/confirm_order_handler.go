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

// ConfirmOrderHandler moves an order to CONFIRMED
type ConfirmOrderHandler struct {
	orders *persistence.AggregateRepository[*aggregates.OrderAggregate]
	logger *zap.Logger
}

// NewConfirmOrderHandler creates a new handler instance
func NewConfirmOrderHandler(
	orders *persistence.AggregateRepository[*aggregates.OrderAggregate],
	logger *zap.Logger,
) *ConfirmOrderHandler {
	return &ConfirmOrderHandler{orders: orders, logger: logger}
}

// Handle executes the confirm order command
func (h *ConfirmOrderHandler) Handle(ctx context.Context, cmd bus.Command) error {
	command, ok := cmd.(*commands.ConfirmOrderCommand)
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

	if err := aggregate.Confirm(); err != nil {
		return err
	}

	if err := h.orders.Save(ctx, aggregate); err != nil {
		return err
	}

	h.logger.Info("order confirmed", zap.Int64("orderId", command.OrderID))
	return nil
}
