package queries

import "errors"

// GetOrderEventsQuery represents a query for an order's raw event history,
// optionally starting from a version
type GetOrderEventsQuery struct {
	OrderID     int64
	FromVersion int64
}

// Validate validates the GetOrderEventsQuery
func (q *GetOrderEventsQuery) Validate() error {
	if q.OrderID <= 0 {
		return errors.New("order ID is required")
	}
	if q.FromVersion < 0 {
		return errors.New("from version must not be negative")
	}
	return nil
}

// OrderEventView is one entry of an order's event history
type OrderEventView struct {
	EventID    string `json:"eventId"`
	EventType  string `json:"eventType"`
	Version    int64  `json:"version"`
	OccurredOn string `json:"occurredOn"`
}
