package sagas

import (
	"testing"

	"ecommerce-backend/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSaga() *OrderProcessingSaga {
	return NewOrderProcessingSaga(1001, 42, 7, 3, 149.97)
}

func TestOrderProcessingSaga_HappyPath(t *testing.T) {
	saga := newTestSaga()
	assert.Equal(t, StatusStarted, saga.Status())
	assert.Equal(t, StepOrderCreated, saga.CurrentStep())

	saga.Handle(events.NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1))
	assert.Equal(t, StatusInProgress, saga.Status())
	assert.Equal(t, StepReservingStock, saga.CurrentStep())

	commands := saga.DrainPendingCommands()
	require.Len(t, commands, 1)
	assert.Equal(t, CommandTypeReserveStock, commands[0].CommandType)
	assert.Equal(t, "product-service", commands[0].TargetService)
	assert.Equal(t, saga.SagaID(), commands[0].SagaID)
	reserve, ok := commands[0].Payload.(ReserveStockRequest)
	require.True(t, ok)
	assert.Equal(t, int64(7), reserve.ProductID)
	assert.Equal(t, 3, reserve.Quantity)

	saga.Handle(events.NewStockReserved(7, 1001, 3, 1))
	assert.Equal(t, StepProcessingPayment, saga.CurrentStep())

	commands = saga.DrainPendingCommands()
	require.Len(t, commands, 1)
	assert.Equal(t, CommandTypeProcessPayment, commands[0].CommandType)
	assert.Equal(t, "payment-service", commands[0].TargetService)
	payment, ok := commands[0].Payload.(ProcessPaymentRequest)
	require.True(t, ok)
	assert.Equal(t, 149.97, payment.Amount)

	saga.Handle(events.NewPaymentProcessed(555, 1001, 42, 149.97, 1))
	assert.Equal(t, StatusCompleted, saga.Status())
	assert.Equal(t, StepConfirmingOrder, saga.CurrentStep())

	commands = saga.DrainPendingCommands()
	require.Len(t, commands, 1)
	assert.Equal(t, CommandTypeConfirmOrder, commands[0].CommandType)
	assert.Equal(t, "order-service", commands[0].TargetService)
}

func TestOrderProcessingSaga_StockReservationFails(t *testing.T) {
	saga := newTestSaga()
	saga.Handle(events.NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1))
	saga.DrainPendingCommands()

	saga.Handle(events.NewStockReservationFailed(7, 1001, 3, "insufficient stock", 1))
	assert.Equal(t, StatusFailed, saga.Status())
	assert.Equal(t, StepCancellingOrder, saga.CurrentStep())

	commands := saga.DrainPendingCommands()
	require.Len(t, commands, 1)
	assert.Equal(t, CommandTypeCancelOrder, commands[0].CommandType)
	cancel, ok := commands[0].Payload.(CancelOrderRequest)
	require.True(t, ok)
	assert.Equal(t, ReasonStockUnavailable, cancel.Reason)
}

func TestOrderProcessingSaga_PaymentFails(t *testing.T) {
	saga := newTestSaga()
	saga.Handle(events.NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1))
	saga.Handle(events.NewStockReserved(7, 1001, 3, 1))
	saga.DrainPendingCommands()

	saga.Handle(events.NewPaymentFailed(555, 1001, 42, 149.97, "card declined", 1))
	assert.Equal(t, StatusFailed, saga.Status())

	// Compensation first releases the reserved stock, then cancels the order
	commands := saga.DrainPendingCommands()
	require.Len(t, commands, 2)
	assert.Equal(t, CommandTypeReleaseStock, commands[0].CommandType)
	assert.Equal(t, "product-service", commands[0].TargetService)
	release, ok := commands[0].Payload.(ReleaseStockRequest)
	require.True(t, ok)
	assert.Equal(t, 3, release.Quantity)

	assert.Equal(t, CommandTypeCancelOrder, commands[1].CommandType)
	cancel, ok := commands[1].Payload.(CancelOrderRequest)
	require.True(t, ok)
	assert.Equal(t, ReasonPaymentFailed, cancel.Reason)
}

func TestOrderProcessingSaga_IgnoresOtherOrders(t *testing.T) {
	saga := newTestSaga()

	saga.Handle(events.NewOrderCreated(9999, 42, 7, 3, 149.97, "PENDING", 1))
	assert.Equal(t, StatusStarted, saga.Status())
	assert.Empty(t, saga.DrainPendingCommands())
}

func TestOrderProcessingSaga_IgnoresUnknownEvents(t *testing.T) {
	saga := newTestSaga()
	saga.Handle(events.NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1))
	saga.DrainPendingCommands()
	stepBefore := saga.CurrentStep()

	saga.Handle(events.NewOrderConfirmed(1001, 42, "CONFIRMED", 2))
	assert.Equal(t, stepBefore, saga.CurrentStep())
	assert.Empty(t, saga.DrainPendingCommands())
}

func TestOrderProcessingSaga_EventDedupBookkeeping(t *testing.T) {
	saga := newTestSaga()
	event := events.NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1)

	assert.False(t, saga.HasProcessedEvent(event.GetEventID()))
	saga.MarkEventProcessed(event.GetEventID())
	assert.True(t, saga.HasProcessedEvent(event.GetEventID()))
}
