package events

import "strconv"

// Event type discriminators for payment events published by the payment service
const (
	TypePaymentProcessed = "PaymentProcessedEvent"
	TypePaymentFailed    = "PaymentFailedEvent"
)

// AggregateTypePayment identifies the payment aggregate in stored events
const AggregateTypePayment = "Payment"

// PaymentProcessed is raised when a payment for an order was charged successfully
type PaymentProcessed struct {
	Base
	PaymentID int64   `json:"paymentId"`
	OrderID   int64   `json:"orderId"`
	UserID    int64   `json:"userId"`
	Amount    float64 `json:"amount"`
}

// NewPaymentProcessed creates a PaymentProcessed event
func NewPaymentProcessed(paymentID, orderID, userID int64, amount float64, version int64) *PaymentProcessed {
	return &PaymentProcessed{
		Base:      NewBase(TypePaymentProcessed, strconv.FormatInt(paymentID, 10), AggregateTypePayment, version),
		PaymentID: paymentID,
		OrderID:   orderID,
		UserID:    userID,
		Amount:    amount,
	}
}

// PaymentFailed is raised when a charge was declined. Like stock failure this
// is a domain fact that drives compensation, not an error.
type PaymentFailed struct {
	Base
	PaymentID int64   `json:"paymentId"`
	OrderID   int64   `json:"orderId"`
	UserID    int64   `json:"userId"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
}

// NewPaymentFailed creates a PaymentFailed event
func NewPaymentFailed(paymentID, orderID, userID int64, amount float64, reason string, version int64) *PaymentFailed {
	return &PaymentFailed{
		Base:      NewBase(TypePaymentFailed, strconv.FormatInt(paymentID, 10), AggregateTypePayment, version),
		PaymentID: paymentID,
		OrderID:   orderID,
		UserID:    userID,
		Amount:    amount,
		Reason:    reason,
	}
}
