package queries

import "errors"

// GetOrderQuery represents a query for the current state of one order
type GetOrderQuery struct {
	OrderID int64
}

// Validate validates the GetOrderQuery
func (q *GetOrderQuery) Validate() error {
	if q.OrderID <= 0 {
		return errors.New("order ID is required")
	}
	return nil
}

// OrderView is the read model of an order, rebuilt from its event history
type OrderView struct {
	OrderID            int64   `json:"orderId"`
	UserID             int64   `json:"userId"`
	ProductID          int64   `json:"productId"`
	Quantity           int     `json:"quantity"`
	TotalAmount        float64 `json:"totalAmount"`
	Status             string  `json:"status"`
	CancellationReason string  `json:"cancellationReason,omitempty"`
	Version            int64   `json:"version"`
}
