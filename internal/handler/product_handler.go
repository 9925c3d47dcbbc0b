package handler

import (
	"net/http"
	"strconv"
	"strings"

	"seedmart/internal/model"
	"seedmart/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidRequest, "method not allowed", h.logger)
		return
	}

	limit := queryAsInt(r, "limit", 50)
	offset := queryAsInt(r, "offset", 0)

	products, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Message: "products retrieved",
		Data:    products,
	})
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidRequest, "method not allowed", h.logger)
		return
	}

	idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid product id", h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	if product == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeProductNotFound, "product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Message: "product retrieved",
		Data:    product,
	})
}

// queryAsInt reads an integer query parameter with a default.
func queryAsInt(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
