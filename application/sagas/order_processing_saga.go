package sagas

import (
	"ecommerce-backend/domain/events"
	"ecommerce-backend/domain/messaging"
)

// Saga command types and their target services
const (
	CommandTypeReserveStock   = "ReserveStockCommand"
	CommandTypeProcessPayment = "ProcessPaymentCommand"
	CommandTypeConfirmOrder   = "ConfirmOrderCommand"
	CommandTypeCancelOrder    = "CancelOrderCommand"
	CommandTypeReleaseStock   = "ReleaseStockCommand"

	targetOrderService   = "order-service"
	targetProductService = "product-service"
	targetPaymentService = "payment-service"
)

// Step labels for the order processing saga
const (
	StepOrderCreated      = "ORDER_CREATED"
	StepReservingStock    = "RESERVING_STOCK"
	StepProcessingPayment = "PROCESSING_PAYMENT"
	StepConfirmingOrder   = "CONFIRMING_ORDER"
	StepCancellingOrder   = "CANCELLING_ORDER"
	StepCompensating      = "COMPENSATING"
)

// Cancellation reasons carried on CancelOrderCommand payloads
const (
	ReasonStockUnavailable = "Stock not available"
	ReasonPaymentFailed    = "Payment failed"
)

// ReserveStockRequest asks the product service to reserve stock for an order
type ReserveStockRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
	OrderID   int64 `json:"orderId"`
}

// ProcessPaymentRequest asks the payment service to charge the order total
type ProcessPaymentRequest struct {
	OrderID int64   `json:"orderId"`
	UserID  int64   `json:"userId"`
	Amount  float64 `json:"amount"`
}

// CancelOrderRequest asks the order service to cancel an order
type CancelOrderRequest struct {
	OrderID int64  `json:"orderId"`
	Reason  string `json:"reason"`
}

// ConfirmOrderRequest asks the order service to confirm an order
type ConfirmOrderRequest struct {
	OrderID int64 `json:"orderId"`
}

// ReleaseStockRequest asks the product service to return a reservation
type ReleaseStockRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
	OrderID   int64 `json:"orderId"`
}

// OrderProcessingSaga coordinates order creation across the product, payment
// and order services:
//
//	OrderCreated           -> ReserveStockCommand            (RESERVING_STOCK)
//	StockReserved          -> ProcessPaymentCommand          (PROCESSING_PAYMENT)
//	StockReservationFailed -> CancelOrderCommand             (FAILED)
//	PaymentProcessed       -> ConfirmOrderCommand            (COMPLETED)
//	PaymentFailed          -> ReleaseStock + CancelOrder     (FAILED)
//
// Events for other orders and event types the saga does not know are ignored.
type OrderProcessingSaga struct {
	State

	orderID     int64
	userID      int64
	productID   int64
	quantity    int
	totalAmount float64
}

// NewOrderProcessingSaga creates a saga for one order
func NewOrderProcessingSaga(orderID, userID, productID int64, quantity int, totalAmount float64) *OrderProcessingSaga {
	saga := &OrderProcessingSaga{
		State:       NewState(),
		orderID:     orderID,
		userID:      userID,
		productID:   productID,
		quantity:    quantity,
		totalAmount: totalAmount,
	}
	saga.SetCurrentStep(StepOrderCreated)
	return saga
}

// OrderID returns the order this saga coordinates
func (s *OrderProcessingSaga) OrderID() int64 { return s.orderID }

// Handle advances the saga's state machine. The match is over the closed set
// of event variants; anything else falls through untouched.
func (s *OrderProcessingSaga) Handle(event events.DomainEvent) {
	switch e := event.(type) {
	case *events.OrderCreated:
		if e.OrderID == s.orderID {
			s.handleOrderCreated()
		}
	case *events.StockReserved:
		if e.OrderID == s.orderID {
			s.handleStockReserved()
		}
	case *events.StockReservationFailed:
		if e.OrderID == s.orderID {
			s.handleStockReservationFailed()
		}
	case *events.PaymentProcessed:
		if e.OrderID == s.orderID {
			s.handlePaymentProcessed()
		}
	case *events.PaymentFailed:
		if e.OrderID == s.orderID {
			s.handlePaymentFailed()
		}
	}
}

func (s *OrderProcessingSaga) handleOrderCreated() {
	s.SetCurrentStep(StepReservingStock)
	s.MarkInProgress()

	s.AddCommand(messaging.NewSagaCommand(
		CommandTypeReserveStock,
		s.SagaID(),
		targetProductService,
		ReserveStockRequest{ProductID: s.productID, Quantity: s.quantity, OrderID: s.orderID},
	))
}

func (s *OrderProcessingSaga) handleStockReserved() {
	s.SetCurrentStep(StepProcessingPayment)

	s.AddCommand(messaging.NewSagaCommand(
		CommandTypeProcessPayment,
		s.SagaID(),
		targetPaymentService,
		ProcessPaymentRequest{OrderID: s.orderID, UserID: s.userID, Amount: s.totalAmount},
	))
}

func (s *OrderProcessingSaga) handleStockReservationFailed() {
	s.SetCurrentStep(StepCancellingOrder)
	s.MarkCompensating()

	s.AddCommand(messaging.NewSagaCommand(
		CommandTypeCancelOrder,
		s.SagaID(),
		targetOrderService,
		CancelOrderRequest{OrderID: s.orderID, Reason: ReasonStockUnavailable},
	))

	s.MarkFailed()
}

func (s *OrderProcessingSaga) handlePaymentProcessed() {
	s.SetCurrentStep(StepConfirmingOrder)

	s.AddCommand(messaging.NewSagaCommand(
		CommandTypeConfirmOrder,
		s.SagaID(),
		targetOrderService,
		ConfirmOrderRequest{OrderID: s.orderID},
	))

	s.MarkCompleted()
}

func (s *OrderProcessingSaga) handlePaymentFailed() {
	s.SetCurrentStep(StepCompensating)
	s.MarkCompensating()

	s.AddCommand(messaging.NewSagaCommand(
		CommandTypeReleaseStock,
		s.SagaID(),
		targetProductService,
		ReleaseStockRequest{ProductID: s.productID, Quantity: s.quantity, OrderID: s.orderID},
	))

	s.AddCommand(messaging.NewSagaCommand(
		CommandTypeCancelOrder,
		s.SagaID(),
		targetOrderService,
		CancelOrderRequest{OrderID: s.orderID, Reason: ReasonPaymentFailed},
	))

	s.MarkFailed()
}
