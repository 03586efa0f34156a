package commands

import "errors"

// CancelOrderCommand represents the command to cancel an order
type CancelOrderCommand struct {
	OrderID int64  `json:"orderId" validate:"required,gt=0"`
	Reason  string `json:"reason" validate:"required"`
}

// Validate validates the command
func (cmd *CancelOrderCommand) Validate() error {
	if cmd.OrderID <= 0 {
		return errors.New("order ID is required")
	}
	if cmd.Reason == "" {
		return errors.New("cancellation reason is required")
	}
	return nil
}
