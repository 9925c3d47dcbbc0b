package repository

import (
	"context"
	"fmt"

	"seedmart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves all active products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT id, title, unit_price_cents, supplier_id, stock, status, created_at
		FROM products
		WHERE status = $1
		ORDER BY title
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, model.ProductActive, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT id, title, unit_price_cents, supplier_id, stock, status, created_at
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Title, &p.UnitPriceCents, &p.SupplierID, &p.Stock, &p.Status, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// ResolveForCheckout retrieves the authoritative records for the given
// product ids within the checkout transaction.
func (r *productRepository) ResolveForCheckout(ctx context.Context, tx pgx.Tx, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `
		SELECT id, title, unit_price_cents, supplier_id, stock, status, created_at
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to resolve products")
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// DecrementStock atomically decrements stock if enough is available. The
// conditional update is the authoritative insufficient-stock check; the
// earlier read is advisory only.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, productID int64, qty int) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $2
		WHERE id = $1 AND stock >= $2
	`

	tag, err := tx.Exec(ctx, query, productID, qty)
	if err != nil {
		r.logger.Error().Err(err).
			Int64("product_id", productID).
			Int("quantity", qty).
			Msg("failed to decrement stock")
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// RestoreStock adds quantity back to a product's stock.
func (r *productRepository) RestoreStock(ctx context.Context, tx pgx.Tx, productID int64, qty int) error {
	query := `
		UPDATE products
		SET stock = stock + $2
		WHERE id = $1
	`

	if _, err := tx.Exec(ctx, query, productID, qty); err != nil {
		r.logger.Error().Err(err).
			Int64("product_id", productID).
			Int("quantity", qty).
			Msg("failed to restore stock")
		return fmt.Errorf("failed to restore stock: %w", err)
	}

	return nil
}

// scanProducts reads product rows into a slice.
func scanProducts(rows pgx.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Title, &p.UnitPriceCents, &p.SupplierID, &p.Stock, &p.Status, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
