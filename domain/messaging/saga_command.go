package messaging

import (
	"time"

	"github.com/google/uuid"
)

// SagaCommand is a one-way instruction a saga sends to another service over
// the message fabric. There is no synchronous reply; only further domain
// events acknowledge its effect.
type SagaCommand struct {
	CommandID     string      `json:"commandId"`
	CommandType   string      `json:"commandType"`
	SagaID        string      `json:"sagaId"`
	TargetService string      `json:"targetService"`
	Payload       interface{} `json:"payload"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// NewSagaCommand creates a saga command with a fresh command id
func NewSagaCommand(commandType, sagaID, targetService string, payload interface{}) SagaCommand {
	return SagaCommand{
		CommandID:     uuid.NewString(),
		CommandType:   commandType,
		SagaID:        sagaID,
		TargetService: targetService,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	}
}
