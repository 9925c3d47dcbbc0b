package service

import (
	"context"

	"seedmart/internal/model"
)

// ProductService defines operations for catalogue reads.
type ProductService interface {
	// GetAll retrieves all active products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}

// CheckoutService defines the multi-supplier checkout operations.
type CheckoutService interface {
	// Checkout validates the request, partitions the cart by supplier and
	// creates one PENDING order per supplier in a single transaction.
	Checkout(ctx context.Context, buyerID int64, req *model.CheckoutRequest) ([]model.Order, error)

	// GetByNumber retrieves one of the buyer's orders with its lines.
	GetByNumber(ctx context.Context, buyerID int64, orderNumber string) (*model.Order, error)

	// ListByBuyer retrieves the buyer's orders, newest first.
	ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error)

	// Cancel cancels one of the buyer's orders and restocks its lines.
	Cancel(ctx context.Context, buyerID int64, orderNumber string) (*model.Order, error)
}
