package events

import (
	"encoding/json"

	apperrors "ecommerce-backend/pkg/errors"
)

// Decoder turns a serialized event payload back into its concrete type
type Decoder func(data []byte) (DomainEvent, error)

// The registry is a closed, explicit mapping from event type discriminator to
// decoder. Every new event variant must be added here; nothing is discovered
// by reflection.
var registry = map[string]Decoder{
	TypeOrderCreated:           decodeInto[OrderCreated],
	TypeOrderConfirmed:         decodeInto[OrderConfirmed],
	TypeOrderCancelled:         decodeInto[OrderCancelled],
	TypeStockReserved:          decodeInto[StockReserved],
	TypeStockReservationFailed: decodeInto[StockReservationFailed],
	TypeStockReleased:          decodeInto[StockReleased],
	TypePaymentProcessed:       decodeInto[PaymentProcessed],
	TypePaymentFailed:          decodeInto[PaymentFailed],
}

// Decode deserializes an event payload using the registered decoder for the
// given discriminator. An unregistered discriminator is an unrecoverable load
// error for that event.
func Decode(eventType string, data []byte) (DomainEvent, error) {
	decoder, ok := registry[eventType]
	if !ok {
		return nil, apperrors.NewUnknownEventTypeError(eventType)
	}
	return decoder(data)
}

// IsRegistered reports whether a discriminator has a decoder
func IsRegistered(eventType string) bool {
	_, ok := registry[eventType]
	return ok
}

func decodeInto[E any](data []byte) (DomainEvent, error) {
	event := new(E)
	if err := json.Unmarshal(data, event); err != nil {
		return nil, apperrors.Wrap(err, "failed to deserialize event")
	}
	domainEvent, ok := any(event).(DomainEvent)
	if !ok {
		return nil, apperrors.NewInternalError("registered type does not implement DomainEvent")
	}
	return domainEvent, nil
}
