package aggregates

import (
	"fmt"
	"strconv"

	"ecommerce-backend/domain/events"
	apperrors "ecommerce-backend/pkg/errors"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderAggregate is the event-sourced order. All state is derived from the
// order's event history; the struct is never stored directly.
type OrderAggregate struct {
	Root

	orderID            int64
	userID             int64
	productID          int64
	quantity           int
	totalAmount        float64
	status             OrderStatus
	cancellationReason string
}

// NewOrderAggregate creates an empty aggregate ready for replay
func NewOrderAggregate() *OrderAggregate {
	agg := &OrderAggregate{}
	agg.bind(agg.on)
	return agg
}

// CreateOrder creates a new order in PENDING state, producing the
// OrderCreated event as the first entry of its history
func CreateOrder(orderID, userID, productID int64, quantity int, totalAmount float64) (*OrderAggregate, error) {
	agg := NewOrderAggregate()
	agg.setID(strconv.FormatInt(orderID, 10))

	event := events.NewOrderCreated(
		orderID, userID, productID, quantity, totalAmount,
		string(OrderStatusPending), agg.Version()+1,
	)
	if err := agg.ApplyEvent(event); err != nil {
		return nil, err
	}
	return agg, nil
}

// Confirm moves the order from PENDING to CONFIRMED
func (a *OrderAggregate) Confirm() error {
	if a.status != OrderStatusPending {
		return apperrors.NewValidationError("order can only be confirmed when in PENDING status")
	}

	event := events.NewOrderConfirmed(a.orderID, a.userID, string(OrderStatusConfirmed), a.Version()+1)
	return a.ApplyEvent(event)
}

// Cancel cancels the order. Cancelling an already cancelled order is a no-op.
func (a *OrderAggregate) Cancel(reason string) error {
	if a.status == OrderStatusCancelled {
		return nil
	}

	event := events.NewOrderCancelled(a.orderID, a.userID, reason, string(OrderStatusCancelled), a.Version()+1)
	return a.ApplyEvent(event)
}

// OrderID returns the numeric order identifier
func (a *OrderAggregate) OrderID() int64 { return a.orderID }

// UserID returns the ordering user
func (a *OrderAggregate) UserID() int64 { return a.userID }

// ProductID returns the ordered product
func (a *OrderAggregate) ProductID() int64 { return a.productID }

// Quantity returns the ordered quantity
func (a *OrderAggregate) Quantity() int { return a.quantity }

// TotalAmount returns the order total
func (a *OrderAggregate) TotalAmount() float64 { return a.totalAmount }

// Status returns the current order status
func (a *OrderAggregate) Status() OrderStatus { return a.status }

// CancellationReason returns why the order was cancelled, if it was
func (a *OrderAggregate) CancellationReason() string { return a.cancellationReason }

// on is the state-transition handler; it matches over the closed set of order
// event variants.
func (a *OrderAggregate) on(event events.DomainEvent) error {
	switch e := event.(type) {
	case *events.OrderCreated:
		a.orderID = e.OrderID
		a.userID = e.UserID
		a.productID = e.ProductID
		a.quantity = e.Quantity
		a.totalAmount = e.TotalAmount
		a.status = OrderStatus(e.Status)
		a.setID(strconv.FormatInt(e.OrderID, 10))
	case *events.OrderConfirmed:
		a.status = OrderStatus(e.Status)
	case *events.OrderCancelled:
		a.status = OrderStatus(e.Status)
		a.cancellationReason = e.Reason
	default:
		return apperrors.NewInternalError(fmt.Sprintf("unexpected event type for order aggregate: %s", event.GetEventType()))
	}
	return nil
}
