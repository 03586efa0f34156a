package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ecommerce-backend/application/commands"
	"ecommerce-backend/application/commands/bus"
	"ecommerce-backend/application/queries"
	querybus "ecommerce-backend/application/queries/bus"
	apperrors "ecommerce-backend/pkg/errors"
	"ecommerce-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *OrderHandler {
	return &OrderHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	UserID      int64   `json:"userId" validate:"required,gt=0"`
	ProductID   int64   `json:"productId" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	TotalAmount float64 `json:"totalAmount" validate:"required,gt=0"`
}

// CreateOrderResponse represents the response for creating an order
type CreateOrderResponse struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CancelOrderRequest represents the request body for cancelling an order
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CreateOrder handles POST /orders. Creation is accepted, not completed:
// stock reservation and payment run asynchronously through the saga.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cmd := &commands.CreateOrderCommand{
		UserID:      req.UserID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		TotalAmount: req.TotalAmount,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("failed to create order", zap.Error(err))
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusAccepted, CreateOrderResponse{
		OrderID: cmd.OrderID,
		Status:  "PENDING",
		Message: "Order accepted for processing",
	})
}

// ConfirmOrder handles POST /orders/{orderID}/confirm
func (h *OrderHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDFromURL(w, r)
	if !ok {
		return
	}

	cmd := &commands.ConfirmOrderCommand{OrderID: orderID}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("failed to confirm order", zap.Int64("orderId", orderID), zap.Error(err))
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "CONFIRMED"})
}

// CancelOrder handles POST /orders/{orderID}/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDFromURL(w, r)
	if !ok {
		return
	}

	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cmd := &commands.CancelOrderCommand{OrderID: orderID, Reason: req.Reason}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("failed to cancel order", zap.Int64("orderId", orderID), zap.Error(err))
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "CANCELLED"})
}

// GetOrder handles GET /orders/{orderID}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDFromURL(w, r)
	if !ok {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), &queries.GetOrderQuery{OrderID: orderID})
	if err != nil {
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetOrderEvents handles GET /orders/{orderID}/events
func (h *OrderHandler) GetOrderEvents(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDFromURL(w, r)
	if !ok {
		return
	}

	var fromVersion int64
	if raw := r.URL.Query().Get("fromVersion"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			h.respondError(w, http.StatusBadRequest, "Invalid fromVersion")
			return
		}
		fromVersion = parsed
	}

	result, err := h.queryBus.Ask(r.Context(), &queries.GetOrderEventsQuery{
		OrderID:     orderID,
		FromVersion: fromVersion,
	})
	if err != nil {
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *OrderHandler) orderIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || orderID <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid order ID")
		return 0, false
	}
	return orderID, true
}

func (h *OrderHandler) respondAppError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsNotFound(err):
		h.respondError(w, http.StatusNotFound, err.Error())
	case apperrors.IsValidation(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case apperrors.IsConflict(err):
		h.respondError(w, http.StatusConflict, err.Error())
	default:
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *OrderHandler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *OrderHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
