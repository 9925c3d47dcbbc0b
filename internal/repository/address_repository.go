package repository

import (
	"context"
	"fmt"

	"seedmart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// addressRepository implements the AddressRepository interface using PostgreSQL.
type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

// Create inserts a shipping address within the provided transaction.
func (r *addressRepository) Create(ctx context.Context, tx pgx.Tx, address *model.ShippingAddress) error {
	query := `
		INSERT INTO shipping_addresses (id, buyer_id, label, country, region, city, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query,
		address.ID,
		address.BuyerID,
		address.Label,
		address.Country,
		address.Region,
		address.City,
		address.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("address_id", address.ID.String()).
			Msg("failed to create shipping address")
		return fmt.Errorf("failed to create shipping address: %w", err)
	}

	r.logger.Debug().
		Str("address_id", address.ID.String()).
		Msg("shipping address created")

	return nil
}
