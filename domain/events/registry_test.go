package events

import (
	"encoding/json"
	"testing"

	apperrors "ecommerce-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_OrderCreated(t *testing.T) {
	original := NewOrderCreated(1001, 42, 7, 3, 149.97, "PENDING", 1)
	payload, err := json.Marshal(original)
	require.NoError(t, err)

	decoded, err := Decode(TypeOrderCreated, payload)
	require.NoError(t, err)

	event, ok := decoded.(*OrderCreated)
	require.True(t, ok)
	assert.Equal(t, original.GetEventID(), event.GetEventID())
	assert.Equal(t, int64(1001), event.OrderID)
	assert.Equal(t, int64(1), event.GetVersion())
	assert.Equal(t, 149.97, event.TotalAmount)
}

func TestDecode_PreservesConcreteTypes(t *testing.T) {
	cases := []struct {
		eventType string
		event     DomainEvent
	}{
		{TypeStockReserved, NewStockReserved(7, 1001, 3, 1)},
		{TypeStockReservationFailed, NewStockReservationFailed(7, 1001, 3, "insufficient stock", 1)},
		{TypePaymentFailed, NewPaymentFailed(555, 1001, 42, 149.97, "card declined", 1)},
	}

	for _, tc := range cases {
		payload, err := json.Marshal(tc.event)
		require.NoError(t, err)

		decoded, err := Decode(tc.eventType, payload)
		require.NoError(t, err)
		assert.IsType(t, tc.event, decoded, "decoded %s must keep its concrete type", tc.eventType)
		assert.Equal(t, tc.eventType, decoded.GetEventType())
	}
}

func TestDecode_UnknownType(t *testing.T) {
	_, err := Decode("ShippingLabelPrintedEvent", []byte(`{}`))
	require.Error(t, err)
	assert.True(t, apperrors.IsUnknownEventType(err))
}

func TestIsRegistered(t *testing.T) {
	assert.True(t, IsRegistered(TypeOrderCancelled))
	assert.True(t, IsRegistered(TypePaymentProcessed))
	assert.False(t, IsRegistered("NoSuchEvent"))
}
