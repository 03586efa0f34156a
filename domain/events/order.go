package events

import "strconv"

// Event type discriminators for order events. These strings are the stable
// wire contract shared with the other services; renaming one is a breaking
// change for every consumer.
const (
	TypeOrderCreated   = "OrderCreatedEvent"
	TypeOrderConfirmed = "OrderConfirmedEvent"
	TypeOrderCancelled = "OrderCancelledEvent"
)

// AggregateTypeOrder identifies the order aggregate in stored events
const AggregateTypeOrder = "Order"

// OrderCreated is raised when a new order enters the system in PENDING state
type OrderCreated struct {
	Base
	OrderID     int64   `json:"orderId"`
	UserID      int64   `json:"userId"`
	ProductID   int64   `json:"productId"`
	Quantity    int     `json:"quantity"`
	TotalAmount float64 `json:"totalAmount"`
	Status      string  `json:"status"`
}

// NewOrderCreated creates an OrderCreated event
func NewOrderCreated(orderID, userID, productID int64, quantity int, totalAmount float64, status string, version int64) *OrderCreated {
	return &OrderCreated{
		Base:        NewBase(TypeOrderCreated, strconv.FormatInt(orderID, 10), AggregateTypeOrder, version),
		OrderID:     orderID,
		UserID:      userID,
		ProductID:   productID,
		Quantity:    quantity,
		TotalAmount: totalAmount,
		Status:      status,
	}
}

// OrderConfirmed is raised when an order moves from PENDING to CONFIRMED
type OrderConfirmed struct {
	Base
	OrderID int64  `json:"orderId"`
	UserID  int64  `json:"userId"`
	Status  string `json:"status"`
}

// NewOrderConfirmed creates an OrderConfirmed event
func NewOrderConfirmed(orderID, userID int64, status string, version int64) *OrderConfirmed {
	return &OrderConfirmed{
		Base:    NewBase(TypeOrderConfirmed, strconv.FormatInt(orderID, 10), AggregateTypeOrder, version),
		OrderID: orderID,
		UserID:  userID,
		Status:  status,
	}
}

// OrderCancelled is raised when an order is cancelled, carrying the reason
// (stock unavailable, payment declined, user request)
type OrderCancelled struct {
	Base
	OrderID int64  `json:"orderId"`
	UserID  int64  `json:"userId"`
	Reason  string `json:"reason"`
	Status  string `json:"status"`
}

// NewOrderCancelled creates an OrderCancelled event
func NewOrderCancelled(orderID, userID int64, reason, status string, version int64) *OrderCancelled {
	return &OrderCancelled{
		Base:    NewBase(TypeOrderCancelled, strconv.FormatInt(orderID, 10), AggregateTypeOrder, version),
		OrderID: orderID,
		UserID:  userID,
		Reason:  reason,
		Status:  status,
	}
}
