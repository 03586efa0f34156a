package commands

import "errors"

// CreateOrderCommand represents the command to create a new order.
// OrderID is assigned by the handler and can be read back after Send.
type CreateOrderCommand struct {
	OrderID     int64   `json:"orderId"`
	UserID      int64   `json:"userId" validate:"required,gt=0"`
	ProductID   int64   `json:"productId" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	TotalAmount float64 `json:"totalAmount" validate:"required,gt=0"`
}

// Validate validates the command
func (cmd *CreateOrderCommand) Validate() error {
	if cmd.UserID <= 0 {
		return errors.New("user ID is required")
	}
	if cmd.ProductID <= 0 {
		return errors.New("product ID is required")
	}
	if cmd.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if cmd.TotalAmount <= 0 {
		return errors.New("total amount must be positive")
	}
	return nil
}
