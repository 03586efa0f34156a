package sagas

import (
	"time"

	"ecommerce-backend/domain/events"
	"ecommerce-backend/domain/messaging"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a saga
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusInProgress   Status = "IN_PROGRESS"
	StatusCompleted    Status = "COMPLETED"
	StatusFailed       Status = "FAILED"
	StatusCompensating Status = "COMPENSATING"
	StatusCompensated  Status = "COMPENSATED"
)

// Saga is one long-running business process instance tracked under a
// correlation id. Implementations mutate their own state in Handle and queue
// outbound commands; the manager drains and publishes them.
type Saga interface {
	SagaID() string
	Status() Status
	CurrentStep() string

	// Handle reacts to a domain event. Events the saga does not recognize
	// must be ignored silently.
	Handle(event events.DomainEvent)

	// DrainPendingCommands atomically removes and returns the queued
	// outbound commands.
	DrainPendingCommands() []messaging.SagaCommand

	// HasProcessedEvent reports whether an event id was already handled,
	// protecting against redelivered messages.
	HasProcessedEvent(eventID string) bool

	// MarkEventProcessed records an event id in the dedup set
	MarkEventProcessed(eventID string)
}

// State carries the bookkeeping shared by every saga; concrete sagas embed
// it and use the mark/set helpers from their Handle implementations.
type State struct {
	sagaID      string
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
	currentStep string
	pending     []messaging.SagaCommand
	processed   map[string]struct{}
}

// NewState initializes saga state with a fresh correlation id
func NewState() State {
	now := time.Now().UTC()
	return State{
		sagaID:    uuid.NewString(),
		status:    StatusStarted,
		createdAt: now,
		updatedAt: now,
		processed: make(map[string]struct{}),
	}
}

// SagaID returns the correlation id
func (s *State) SagaID() string { return s.sagaID }

// Status returns the current lifecycle status
func (s *State) Status() Status { return s.status }

// CurrentStep returns the human-readable state label
func (s *State) CurrentStep() string { return s.currentStep }

// CreatedAt returns when the saga was created
func (s *State) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns when the saga state last changed
func (s *State) UpdatedAt() time.Time { return s.updatedAt }

// AddCommand queues an outbound command for the next drain
func (s *State) AddCommand(command messaging.SagaCommand) {
	s.pending = append(s.pending, command)
	s.touch()
}

// DrainPendingCommands removes and returns all queued commands
func (s *State) DrainPendingCommands() []messaging.SagaCommand {
	commands := s.pending
	s.pending = nil
	return commands
}

// HasProcessedEvent reports whether an event id was already handled
func (s *State) HasProcessedEvent(eventID string) bool {
	_, ok := s.processed[eventID]
	return ok
}

// MarkEventProcessed records an event id in the dedup set
func (s *State) MarkEventProcessed(eventID string) {
	s.processed[eventID] = struct{}{}
	s.touch()
}

// SetCurrentStep updates the state label
func (s *State) SetCurrentStep(step string) {
	s.currentStep = step
	s.touch()
}

// MarkInProgress moves the saga into IN_PROGRESS
func (s *State) MarkInProgress() {
	s.status = StatusInProgress
	s.touch()
}

// MarkCompleted moves the saga into the COMPLETED terminal status
func (s *State) MarkCompleted() {
	s.status = StatusCompleted
	s.touch()
}

// MarkFailed moves the saga into FAILED
func (s *State) MarkFailed() {
	s.status = StatusFailed
	s.touch()
}

// MarkCompensating moves the saga into COMPENSATING
func (s *State) MarkCompensating() {
	s.status = StatusCompensating
	s.touch()
}

// MarkCompensated moves the saga into the COMPENSATED terminal status
func (s *State) MarkCompensated() {
	s.status = StatusCompensated
	s.touch()
}

func (s *State) touch() {
	s.updatedAt = time.Now().UTC()
}
