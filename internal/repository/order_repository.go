package repository

import (
	"context"
	"errors"
	"fmt"

	"seedmart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const uniqueViolation = "23505"

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// NextOrderNumber atomically increments and returns the year-scoped order
// counter. The upsert-increment is atomic in the storage engine, so two
// concurrent checkouts can never read the same value.
func (r *orderRepository) NextOrderNumber(ctx context.Context, tx pgx.Tx, year int) (int64, error) {
	query := `
		INSERT INTO order_sequences (year, last_value, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (year)
		DO UPDATE SET last_value = order_sequences.last_value + 1, updated_at = NOW()
		RETURNING last_value
	`

	var seq int64
	if err := tx.QueryRow(ctx, query, year).Scan(&seq); err != nil {
		r.logger.Error().Err(err).Int("year", year).Msg("failed to advance order sequence")
		return 0, fmt.Errorf("failed to advance order sequence: %w", err)
	}

	return seq, nil
}

// CreateOrder inserts a new order within the provided transaction. A unique
// violation on order_number surfaces as a retryable conflict.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, order_number, buyer_id, supplier_id, total_cents, currency,
			payment_method, status, shipping_address_id, note, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.OrderNumber,
		order.BuyerID,
		order.SupplierID,
		order.TotalCents,
		order.Currency,
		order.PaymentMethod,
		order.Status,
		order.ShippingAddressID,
		order.Note,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Warn().
				Str("order_number", order.OrderNumber).
				Msg("order number collision")
			return model.ErrOrderNumberConflict
		}
		r.logger.Error().
			Err(err).
			Str("order_number", order.OrderNumber).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_number", order.OrderNumber).
		Msg("order created successfully")

	return nil
}

// CreateOrderLines inserts the order's line snapshots within the provided transaction.
func (r *orderRepository) CreateOrderLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_lines (id, order_id, product_id, title, unit_price_cents, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query, line.ID, line.OrderID, line.ProductID, line.Title, line.UnitPriceCents, line.Quantity)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(lines); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", lines[i].OrderID.String()).
				Int64("product_id", lines[i].ProductID).
				Msg("failed to create order line")
			return fmt.Errorf("failed to create order line: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(lines)).
		Msg("order lines created successfully")

	return nil
}

const orderColumns = `
	id, order_number, buyer_id, supplier_id, total_cents, currency,
	payment_method, status, shipping_address_id, note, created_at, updated_at
`

// GetByNumber retrieves an order and its lines by order number.
func (r *orderRepository) GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	order, err := r.scanOrder(r.pool.QueryRow(ctx, query, orderNumber))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_number", orderNumber).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_number", orderNumber).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	lines, err := r.getLines(ctx, r.pool, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = lines

	return order, nil
}

// GetForUpdate retrieves an order and its lines by order number with a row
// lock, within the provided transaction.
func (r *orderRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, orderNumber string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1 FOR UPDATE`

	order, err := r.scanOrder(tx.QueryRow(ctx, query, orderNumber))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_number", orderNumber).Msg("failed to lock order")
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	lines, err := r.getLines(ctx, tx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = lines

	return order, nil
}

// ListByBuyer retrieves a buyer's orders, newest first, without lines.
func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, buyerID)
	if err != nil {
		r.logger.Error().Err(err).Int64("buyer_id", buyerID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus transitions an order's status within the provided transaction.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, orderID, status)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Str("status", string(status)).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found for status update", orderID)
	}

	return nil
}

// querier abstracts pool and transaction for shared read helpers.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *orderRepository) scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.BuyerID,
		&o.SupplierID,
		&o.TotalCents,
		&o.Currency,
		&o.PaymentMethod,
		&o.Status,
		&o.ShippingAddressID,
		&o.Note,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) getLines(ctx context.Context, q querier, orderID uuid.UUID) ([]model.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id, title, unit_price_cents, quantity
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Msg("failed to query order lines")
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []model.OrderLine
	for rows.Next() {
		var line model.OrderLine
		err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Title, &line.UnitPriceCents, &line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return lines, nil
}
