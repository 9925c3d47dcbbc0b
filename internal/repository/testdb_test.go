package repository

import (
	"context"
	"testing"
	"time"

	"seedmart/internal/database"
	"seedmart/internal/model"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer, applies the schema and
// returns a connection pool.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, database.Schema)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	})

	return pool
}

// seedProduct inserts a product and returns its generated id.
func seedProduct(t *testing.T, pool *pgxpool.Pool, p model.Product) int64 {
	t.Helper()

	if p.Title == "" {
		p.Title = gofakeit.ProductName()
	}
	if p.UnitPriceCents == 0 {
		p.UnitPriceCents = int64(gofakeit.Number(1000, 50000))
	}
	if p.Status == "" {
		p.Status = model.ProductActive
	}

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO products (title, unit_price_cents, supplier_id, stock, status)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		p.Title, p.UnitPriceCents, p.SupplierID, p.Stock, p.Status,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

// seedAddress inserts a shipping address for use as an order FK target.
func seedAddress(t *testing.T, pool *pgxpool.Pool, address *model.ShippingAddress) {
	t.Helper()

	if address.Label == "" {
		address.Label = gofakeit.Word()
	}
	if address.Country == "" {
		address.Country = gofakeit.Country()
	}
	if address.Region == "" {
		address.Region = gofakeit.State()
	}
	if address.City == "" {
		address.City = gofakeit.City()
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO shipping_addresses (id, buyer_id, label, country, region, city)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		address.ID, address.BuyerID, address.Label, address.Country, address.Region, address.City,
	)
	require.NoError(t, err)
}
