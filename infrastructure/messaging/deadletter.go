package messaging

import (
	"context"
	"sync"
	"time"
)

const (
	deadLetterKindEvent       = "event"
	deadLetterKindSagaCommand = "saga_command"
)

// DeadLetter is the durable record of a message that could not be delivered
// after exhausting the publisher's retries
type DeadLetter struct {
	MessageID   string    `json:"messageId"`
	Kind        string    `json:"kind"`
	MessageType string    `json:"messageType"`
	Exchange    string    `json:"exchange"`
	RoutingKey  string    `json:"routingKey"`
	Payload     []byte    `json:"payload"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DeadLetterStore is the durable side channel for undeliverable messages
type DeadLetterStore interface {
	Record(ctx context.Context, deadLetter DeadLetter) error
}

// MemoryDeadLetterStore keeps dead letters in memory. Tests and local runs.
type MemoryDeadLetterStore struct {
	mu      sync.Mutex
	entries []DeadLetter
}

// NewMemoryDeadLetterStore creates an empty in-memory dead-letter store
func NewMemoryDeadLetterStore() *MemoryDeadLetterStore {
	return &MemoryDeadLetterStore{}
}

// Record appends a dead letter
func (s *MemoryDeadLetterStore) Record(ctx context.Context, deadLetter DeadLetter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, deadLetter)
	return nil
}

// Entries returns a copy of the recorded dead letters
func (s *MemoryDeadLetterStore) Entries() []DeadLetter {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DeadLetter, len(s.entries))
	copy(out, s.entries)
	return out
}
