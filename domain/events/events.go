package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the base interface for all domain events.
// Events represent something that has happened in the past; once persisted
// they are never modified again. SetVersion exists for the event store, which
// assigns the final per-aggregate sequence number during an append.
type DomainEvent interface {
	GetEventID() string
	GetEventType() string
	GetAggregateID() string
	GetAggregateType() string
	GetVersion() int64
	GetOccurredOn() time.Time
	SetVersion(version int64)
}

// Base provides the common event fields shared by every concrete event
type Base struct {
	EventID       string    `json:"eventId"`
	EventType     string    `json:"eventType"`
	AggregateID   string    `json:"aggregateId"`
	AggregateType string    `json:"aggregateType"`
	Version       int64     `json:"version"`
	OccurredOn    time.Time `json:"occurredOn"`
}

// NewBase creates the base fields for a new event
func NewBase(eventType, aggregateID, aggregateType string, version int64) Base {
	return Base{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		Version:       version,
		OccurredOn:    time.Now().UTC(),
	}
}

func (e *Base) GetEventID() string { return e.EventID }

func (e *Base) GetEventType() string { return e.EventType }

func (e *Base) GetAggregateID() string { return e.AggregateID }

func (e *Base) GetAggregateType() string { return e.AggregateType }

func (e *Base) GetVersion() int64 { return e.Version }

func (e *Base) GetOccurredOn() time.Time { return e.OccurredOn }

func (e *Base) SetVersion(version int64) { e.Version = version }
