package events

import "strconv"

// Event type discriminators for stock events published by the product service
const (
	TypeStockReserved          = "StockReservedEvent"
	TypeStockReservationFailed = "StockReservationFailedEvent"
	TypeStockReleased          = "StockReleasedEvent"
)

// AggregateTypeProduct identifies the product aggregate in stored events
const AggregateTypeProduct = "Product"

// StockReserved is raised by the product service when stock for an order was
// successfully reserved
type StockReserved struct {
	Base
	ProductID int64 `json:"productId"`
	OrderID   int64 `json:"orderId"`
	Quantity  int   `json:"quantity"`
}

// NewStockReserved creates a StockReserved event
func NewStockReserved(productID, orderID int64, quantity int, version int64) *StockReserved {
	return &StockReserved{
		Base:      NewBase(TypeStockReserved, strconv.FormatInt(productID, 10), AggregateTypeProduct, version),
		ProductID: productID,
		OrderID:   orderID,
		Quantity:  quantity,
	}
}

// StockReservationFailed is raised when the requested quantity could not be
// reserved. This is a business outcome, not a software error.
type StockReservationFailed struct {
	Base
	ProductID int64  `json:"productId"`
	OrderID   int64  `json:"orderId"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// NewStockReservationFailed creates a StockReservationFailed event
func NewStockReservationFailed(productID, orderID int64, quantity int, reason string, version int64) *StockReservationFailed {
	return &StockReservationFailed{
		Base:      NewBase(TypeStockReservationFailed, strconv.FormatInt(productID, 10), AggregateTypeProduct, version),
		ProductID: productID,
		OrderID:   orderID,
		Quantity:  quantity,
		Reason:    reason,
	}
}

// StockReleased is raised after a previously reserved quantity was returned
// to the pool as part of saga compensation
type StockReleased struct {
	Base
	ProductID int64 `json:"productId"`
	OrderID   int64 `json:"orderId"`
	Quantity  int   `json:"quantity"`
}

// NewStockReleased creates a StockReleased event
func NewStockReleased(productID, orderID int64, quantity int, version int64) *StockReleased {
	return &StockReleased{
		Base:      NewBase(TypeStockReleased, strconv.FormatInt(productID, 10), AggregateTypeProduct, version),
		ProductID: productID,
		OrderID:   orderID,
		Quantity:  quantity,
	}
}
