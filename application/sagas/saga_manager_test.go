package sagas

import (
	"context"
	"testing"

	"ecommerce-backend/domain/events"
	"ecommerce-backend/domain/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	events   []events.DomainEvent
	commands []messaging.SagaCommand
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, event events.DomainEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) PublishSagaCommand(ctx context.Context, command messaging.SagaCommand) error {
	p.commands = append(p.commands, command)
	return nil
}

func TestManager_StartSaga(t *testing.T) {
	publisher := &recordingPublisher{}
	manager := NewManager(publisher, zap.NewNop())

	saga := NewOrderProcessingSaga(1001, 42, 7, 3, 149.97)
	manager.StartSaga(context.Background(), saga)

	assert.Equal(t, 1, manager.ActiveCount())
	assert.Same(t, saga, manager.GetSaga(saga.SagaID()).(*OrderProcessingSaga))
}

func TestManager_HandleEventDrivesSaga(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{}
	manager := NewManager(publisher, zap.NewNop())

	saga := NewOrderProcessingSaga(1001, 42, 7, 3, 149.97)
	manager.StartSaga(ctx, saga)

	require.NoError(t, manager.HandleEvent(ctx, events.NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1)))
	require.Len(t, publisher.commands, 1)
	assert.Equal(t, CommandTypeReserveStock, publisher.commands[0].CommandType)

	require.NoError(t, manager.HandleEvent(ctx, events.NewStockReserved(7, 1001, 3, 1)))
	require.Len(t, publisher.commands, 2)
	assert.Equal(t, CommandTypeProcessPayment, publisher.commands[1].CommandType)

	require.NoError(t, manager.HandleEvent(ctx, events.NewPaymentProcessed(555, 1001, 42, 149.97, 1)))
	require.Len(t, publisher.commands, 3)
	assert.Equal(t, CommandTypeConfirmOrder, publisher.commands[2].CommandType)

	// Completed sagas are dropped from tracking
	assert.Equal(t, 0, manager.ActiveCount())
	assert.Nil(t, manager.GetSaga(saga.SagaID()))
}

func TestManager_RedeliveredEventIsIgnored(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{}
	manager := NewManager(publisher, zap.NewNop())

	manager.StartSaga(ctx, NewOrderProcessingSaga(1001, 42, 7, 3, 149.97))

	event := events.NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1)
	require.NoError(t, manager.HandleEvent(ctx, event))
	require.NoError(t, manager.HandleEvent(ctx, event))

	assert.Len(t, publisher.commands, 1, "a redelivered event id must not be processed twice")
}

func TestManager_FailedSagaStaysActive(t *testing.T) {
	// Terminal failure does not remove the saga from the active map. The
	// removal policy only covers COMPLETED and COMPENSATED, so FAILED sagas
	// stay visible until removed explicitly.
	ctx := context.Background()
	publisher := &recordingPublisher{}
	manager := NewManager(publisher, zap.NewNop())

	saga := NewOrderProcessingSaga(1001, 42, 7, 3, 149.97)
	manager.StartSaga(ctx, saga)

	require.NoError(t, manager.HandleEvent(ctx, events.NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1)))
	require.NoError(t, manager.HandleEvent(ctx, events.NewStockReservationFailed(7, 1001, 3, "insufficient stock", 1)))

	assert.Equal(t, StatusFailed, saga.Status())
	assert.Equal(t, 1, manager.ActiveCount())
	assert.NotNil(t, manager.GetSaga(saga.SagaID()))

	// A FAILED saga no longer reacts to events
	require.NoError(t, manager.HandleEvent(ctx, events.NewStockReserved(7, 1001, 3, 1)))
	assert.Len(t, publisher.commands, 2)

	manager.RemoveSaga(saga.SagaID())
	assert.Equal(t, 0, manager.ActiveCount())
}

func TestManager_EventFansOutToAllEligibleSagas(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{}
	manager := NewManager(publisher, zap.NewNop())

	first := NewOrderProcessingSaga(1001, 42, 7, 3, 149.97)
	second := NewOrderProcessingSaga(1002, 43, 8, 1, 9.99)
	manager.StartSaga(ctx, first)
	manager.StartSaga(ctx, second)

	// Both sagas see the event; only the matching order reacts
	require.NoError(t, manager.HandleEvent(ctx, events.NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1)))

	require.Len(t, publisher.commands, 1)
	assert.Equal(t, first.SagaID(), publisher.commands[0].SagaID)
	assert.Equal(t, StatusStarted, second.Status())
}
