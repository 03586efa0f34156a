package sagas

import (
	"context"
	"sync"

	"ecommerce-backend/application/ports"
	"ecommerce-backend/domain/events"
	"ecommerce-backend/domain/messaging"

	"go.uber.org/zap"
)

// Manager tracks the active saga instances of this service and routes
// incoming domain events to them. All map access and saga mutation happens
// under one mutex so insert, dispatch and removal are linearizable; publishes
// happen after the lock is released, so a delivery failure can never corrupt
// saga state.
//
// There is no saga-level timeout: a saga whose expected event never arrives
// stays active until removed through RemoveSaga.
type Manager struct {
	mu        sync.Mutex
	active    map[string]Saga
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewManager creates a saga manager
func NewManager(publisher ports.EventPublisher, logger *zap.Logger) *Manager {
	return &Manager{
		active:    make(map[string]Saga),
		publisher: publisher,
		logger:    logger,
	}
}

// StartSaga registers a saga and immediately publishes any commands it
// queued during construction
func (m *Manager) StartSaga(ctx context.Context, saga Saga) {
	m.mu.Lock()
	m.active[saga.SagaID()] = saga
	commands := saga.DrainPendingCommands()
	m.mu.Unlock()

	m.logger.Info("saga started",
		zap.String("sagaId", saga.SagaID()),
		zap.String("currentStep", saga.CurrentStep()),
	)

	m.publishCommands(ctx, saga.SagaID(), commands)
}

// HandleEvent dispatches an event to every active saga that can still make
// progress and has not seen this event id before. Sagas that reach COMPLETED
// or COMPENSATED are removed from tracking; FAILED sagas stay registered
// until removed explicitly.
func (m *Manager) HandleEvent(ctx context.Context, event events.DomainEvent) error {
	type drained struct {
		sagaID   string
		commands []messaging.SagaCommand
	}

	m.mu.Lock()
	var toPublish []drained
	for id, saga := range m.active {
		if !shouldHandleEvent(saga) {
			continue
		}
		if saga.HasProcessedEvent(event.GetEventID()) {
			continue
		}

		saga.Handle(event)
		saga.MarkEventProcessed(event.GetEventID())
		commands := saga.DrainPendingCommands()
		if len(commands) > 0 {
			toPublish = append(toPublish, drained{sagaID: id, commands: commands})
		}

		m.logger.Info("saga handled event",
			zap.String("sagaId", id),
			zap.String("eventId", event.GetEventID()),
			zap.String("eventType", event.GetEventType()),
			zap.String("status", string(saga.Status())),
			zap.String("currentStep", saga.CurrentStep()),
		)

		if saga.Status() == StatusCompleted || saga.Status() == StatusCompensated {
			delete(m.active, id)
		}
	}
	m.mu.Unlock()

	for _, d := range toPublish {
		m.publishCommands(ctx, d.sagaID, d.commands)
	}
	return nil
}

// GetSaga returns the active saga for a correlation id, or nil
func (m *Manager) GetSaga(sagaID string) Saga {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[sagaID]
}

// RemoveSaga drops a saga from active tracking
func (m *Manager) RemoveSaga(sagaID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, sagaID)
}

// ActiveCount returns the number of tracked sagas
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

func (m *Manager) publishCommands(ctx context.Context, sagaID string, commands []messaging.SagaCommand) {
	for _, command := range commands {
		if err := m.publisher.PublishSagaCommand(ctx, command); err != nil {
			// The publisher has already retried and dead-lettered; there is
			// nothing left to do but record the failure.
			m.logger.Error("failed to publish saga command",
				zap.String("sagaId", sagaID),
				zap.String("commandId", command.CommandID),
				zap.String("commandType", command.CommandType),
				zap.Error(err),
			)
		}
	}
}

func shouldHandleEvent(saga Saga) bool {
	switch saga.Status() {
	case StatusStarted, StatusInProgress, StatusCompensating:
		return true
	default:
		return false
	}
}
