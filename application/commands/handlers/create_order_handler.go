package handlers

import (
	"context"
	"fmt"
	"time"

	"ecommerce-backend/application/commands"
	"ecommerce-backend/application/commands/bus"
	"ecommerce-backend/application/sagas"
	"ecommerce-backend/domain/core/aggregates"
	"ecommerce-backend/infrastructure/persistence"
	apperrors "ecommerce-backend/pkg/errors"

	"go.uber.org/zap"
)

// CreateOrderHandler creates the order aggregate and starts the order
// processing saga. The saga makes no progress until the OrderCreated event
// comes back through the event stream.
type CreateOrderHandler struct {
	orders      *persistence.AggregateRepository[*aggregates.OrderAggregate]
	sagaManager *sagas.Manager
	logger      *zap.Logger
}

// NewCreateOrderHandler creates a new handler instance
func NewCreateOrderHandler(
	orders *persistence.AggregateRepository[*aggregates.OrderAggregate],
	sagaManager *sagas.Manager,
	logger *zap.Logger,
) *CreateOrderHandler {
	return &CreateOrderHandler{
		orders:      orders,
		sagaManager: sagaManager,
		logger:      logger,
	}
}

// Handle executes the create order command
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd bus.Command) error {
	command, ok := cmd.(*commands.CreateOrderCommand)
	if !ok {
		return apperrors.NewInternalError(fmt.Sprintf("unexpected command type %T", cmd))
	}

	orderID := time.Now().UnixMilli()
	command.OrderID = orderID

	aggregate, err := aggregates.CreateOrder(
		orderID, command.UserID, command.ProductID, command.Quantity, command.TotalAmount,
	)
	if err != nil {
		return err
	}

	saga := sagas.NewOrderProcessingSaga(
		orderID, command.UserID, command.ProductID, command.Quantity, command.TotalAmount,
	)
	h.sagaManager.StartSaga(ctx, saga)

	if err := h.orders.Save(ctx, aggregate); err != nil {
		return err
	}

	h.logger.Info("order created",
		zap.Int64("orderId", orderID),
		zap.Int64("userId", command.UserID),
		zap.String("sagaId", saga.SagaID()),
	)
	return nil
}
