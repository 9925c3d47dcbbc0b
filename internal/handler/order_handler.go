package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"seedmart/internal/auth"
	"seedmart/internal/events"
	"seedmart/internal/model"
	"seedmart/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service   service.CheckoutService
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.CheckoutService, publisher events.Publisher, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service:   service,
		publisher: publisher,
		logger:    logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := auth.BuyerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication required", h.logger)
		return
	}

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	orders, err := h.service.Checkout(r.Context(), buyerID, &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	// Notification is the caller's responsibility after a successful
	// checkout; a publish failure never fails the order.
	for i := range orders {
		if err := h.publisher.PublishOrderCreated(r.Context(), &orders[i]); err != nil {
			h.logger.Warn().
				Err(err).
				Str("order_number", orders[i].OrderNumber).
				Msg("failed to publish order created event")
		}
	}

	writeJSON(w, http.StatusCreated, Response{
		Message: "orders created",
		Data:    orders,
	})
}

// GetByNumber handles GET /api/orders/{orderNumber} requests.
func (h *OrderHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := auth.BuyerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication required", h.logger)
		return
	}

	orderNumber := orderNumberFromPath(r.URL.Path)
	if orderNumber == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "order number is required", h.logger)
		return
	}

	order, err := h.service.GetByNumber(r.Context(), buyerID, orderNumber)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Message: "order retrieved",
		Data:    order,
	})
}

// List handles GET /api/orders requests for the authenticated buyer.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := auth.BuyerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication required", h.logger)
		return
	}

	orders, err := h.service.ListByBuyer(r.Context(), buyerID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Message: "orders retrieved",
		Data:    orders,
	})
}

// Cancel handles POST /api/orders/{orderNumber}/cancel requests.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := auth.BuyerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication required", h.logger)
		return
	}

	orderNumber := orderNumberFromPath(strings.TrimSuffix(r.URL.Path, "/cancel"))
	if orderNumber == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "order number is required", h.logger)
		return
	}

	order, err := h.service.Cancel(r.Context(), buyerID, orderNumber)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Message: "order cancelled",
		Data:    order,
	})
}

// orderNumberFromPath extracts the order number from /api/orders/{orderNumber}.
func orderNumberFromPath(path string) string {
	const prefix = "/api/orders/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	return strings.Trim(path[len(prefix):], "/")
}
