package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"ecommerce-backend/application/commands"
	commandbus "ecommerce-backend/application/commands/bus"
	commandhandlers "ecommerce-backend/application/commands/handlers"
	"ecommerce-backend/application/queries"
	querybus "ecommerce-backend/application/queries/bus"
	queryhandlers "ecommerce-backend/application/queries/handlers"
	"ecommerce-backend/application/sagas"
	"ecommerce-backend/domain/core/aggregates"
	"ecommerce-backend/domain/events"
	"ecommerce-backend/domain/messaging"
	"ecommerce-backend/infrastructure/persistence"
	"ecommerce-backend/infrastructure/persistence/memory"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noopPublisher struct{}

func (noopPublisher) PublishEvent(ctx context.Context, event events.DomainEvent) error { return nil }

func (noopPublisher) PublishSagaCommand(ctx context.Context, command messaging.SagaCommand) error {
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *persistence.AggregateRepository[*aggregates.OrderAggregate]) {
	t.Helper()
	logger := zap.NewNop()

	store := memory.NewEventStore()
	orders := persistence.NewAggregateRepository(store, noopPublisher{}, aggregates.NewOrderAggregate, logger)
	sagaManager := sagas.NewManager(noopPublisher{}, logger)

	cmdBus := commandbus.NewCommandBus()
	require.NoError(t, cmdBus.Register(&commands.CreateOrderCommand{},
		commandhandlers.NewCreateOrderHandler(orders, sagaManager, logger)))
	require.NoError(t, cmdBus.Register(&commands.ConfirmOrderCommand{},
		commandhandlers.NewConfirmOrderHandler(orders, logger)))
	require.NoError(t, cmdBus.Register(&commands.CancelOrderCommand{},
		commandhandlers.NewCancelOrderHandler(orders, logger)))

	qryBus := querybus.NewQueryBus()
	require.NoError(t, qryBus.Register(&queries.GetOrderQuery{}, queryhandlers.NewGetOrderHandler(orders)))
	require.NoError(t, qryBus.Register(&queries.GetOrderEventsQuery{}, queryhandlers.NewGetOrderEventsHandler(store)))

	handler := NewOrderHandler(cmdBus, qryBus, logger)
	router := chi.NewRouter()
	router.Post("/orders", handler.CreateOrder)
	router.Get("/orders/{orderID}", handler.GetOrder)
	router.Get("/orders/{orderID}/events", handler.GetOrderEvents)
	router.Post("/orders/{orderID}/confirm", handler.ConfirmOrder)
	router.Post("/orders/{orderID}/cancel", handler.CancelOrder)
	return router, orders
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"userId":42,"productId":7,"quantity":3,"totalAmount":149.97}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.OrderID)
	assert.Equal(t, "PENDING", resp.Status)
}

func TestOrderHandler_CreateOrderValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"userId":42,"productId":7,"quantity":-1,"totalAmount":149.97}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderHandler_GetOrder(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"userId":42,"productId":7,"quantity":3,"totalAmount":149.97}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var created CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req = httptest.NewRequest(http.MethodGet, "/orders/"+strconv.FormatInt(created.OrderID, 10), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var view queries.OrderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, created.OrderID, view.OrderID)
	assert.Equal(t, "PENDING", view.Status)
	assert.Equal(t, int64(1), view.Version)
}

func TestOrderHandler_GetOrderNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/orders/424242", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderHandler_ConfirmAndEventHistory(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"userId":42,"productId":7,"quantity":3,"totalAmount":149.97}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var created CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	orderPath := "/orders/" + strconv.FormatInt(created.OrderID, 10)

	req = httptest.NewRequest(http.MethodPost, orderPath+"/confirm", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, orderPath+"/events", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var history []queries.OrderEventView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, events.TypeOrderCreated, history[0].EventType)
	assert.Equal(t, events.TypeOrderConfirmed, history[1].EventType)
	assert.Equal(t, int64(1), history[0].Version)
	assert.Equal(t, int64(2), history[1].Version)
}

func TestOrderHandler_CancelOrder(t *testing.T) {
	router, orders := newTestRouter(t)

	body := `{"userId":42,"productId":7,"quantity":3,"totalAmount":149.97}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var created CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	cancelBody := `{"reason":"customer request"}`
	req = httptest.NewRequest(http.MethodPost, "/orders/"+strconv.FormatInt(created.OrderID, 10)+"/cancel", strings.NewReader(cancelBody))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	loaded, err := orders.FindByID(context.Background(), strconv.FormatInt(created.OrderID, 10))
	require.NoError(t, err)
	assert.Equal(t, aggregates.OrderStatusCancelled, loaded.Status())
	assert.Equal(t, "customer request", loaded.CancellationReason())
}
