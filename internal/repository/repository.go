package repository

import (
	"context"

	"seedmart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all active products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// ResolveForCheckout retrieves the authoritative records for the given
	// product ids within the checkout transaction.
	ResolveForCheckout(ctx context.Context, tx pgx.Tx, ids []int64) ([]model.Product, error)

	// DecrementStock atomically decrements stock if enough is available.
	// Returns false when the conditional update affected no rows.
	DecrementStock(ctx context.Context, tx pgx.Tx, productID int64, qty int) (bool, error)

	// RestoreStock adds quantity back to a product's stock, used on cancellation.
	RestoreStock(ctx context.Context, tx pgx.Tx, productID int64, qty int) error
}

// AddressRepository defines the interface for shipping address persistence.
type AddressRepository interface {
	// Create inserts a shipping address within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, address *model.ShippingAddress) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// NextOrderNumber atomically increments and returns the year-scoped
	// order counter within the provided transaction.
	NextOrderNumber(ctx context.Context, tx pgx.Tx, year int) (int64, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderLines inserts the order's line snapshots within the provided transaction.
	CreateOrderLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error

	// GetByNumber retrieves an order and its lines by order number.
	GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error)

	// GetForUpdate retrieves an order and its lines by order number with a
	// row lock, within the provided transaction.
	GetForUpdate(ctx context.Context, tx pgx.Tx, orderNumber string) (*model.Order, error)

	// ListByBuyer retrieves a buyer's orders, newest first, without lines.
	ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error)

	// UpdateStatus transitions an order's status within the provided transaction.
	UpdateStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.OrderStatus) error
}
