package commands

import "errors"

// ConfirmOrderCommand represents the command to confirm an order
type ConfirmOrderCommand struct {
	OrderID int64 `json:"orderId" validate:"required,gt=0"`
}

// Validate validates the command
func (cmd *ConfirmOrderCommand) Validate() error {
	if cmd.OrderID <= 0 {
		return errors.New("order ID is required")
	}
	return nil
}
