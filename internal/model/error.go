package model

import (
	"fmt"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeNotCancellable    = "ORDER_NOT_CANCELLABLE"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeStorageError      = "STORAGE_ERROR"
)

// DomainError is a typed business failure. The HTTP layer maps Code to a
// status without inspecting message content.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewInvalidRequest flags malformed client input; never retryable as-is.
func NewInvalidRequest(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidRequest, message)
}

// NewProductNotFound enumerates the missing or unpurchasable product ids.
func NewProductNotFound(missing []int64) *DomainError {
	ids := make([]string, len(missing))
	for i, id := range missing {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return NewDomainError(ErrCodeProductNotFound,
		fmt.Sprintf("products not available: %s", strings.Join(ids, ", ")))
}

// NewInsufficientStock names the offending product so the client can
// highlight it in the cart.
func NewInsufficientStock(title string) *DomainError {
	return NewDomainError(ErrCodeInsufficientStock,
		fmt.Sprintf("insufficient stock for %q", title))
}

// Common domain errors
var (
	ErrOrderNumberConflict = NewDomainError(ErrCodeConflict, "Order number collision, retry the checkout")
	ErrOrderNotFound       = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrOrderNotCancellable = NewDomainError(ErrCodeNotCancellable, "Order can no longer be cancelled")
	ErrUnauthenticated     = NewDomainError(ErrCodeUnauthorised, "Missing or invalid credentials")
)
