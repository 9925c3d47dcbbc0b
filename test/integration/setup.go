package integration

import (
	"context"
	"testing"
	"time"

	"seedmart/internal/config"
	"seedmart/internal/database"
	"seedmart/internal/model"
	"seedmart/internal/repository"
	"seedmart/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
}

// SetupTestDB creates a PostgreSQL test container, applies the schema and
// returns a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if _, err := pool.Exec(ctx, database.Schema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
	}
}

// NewCheckoutService wires a checkout service over the test database using
// the production repositories.
func NewCheckoutService(db *TestDB) service.CheckoutService {
	logger := zerolog.Nop()

	cfg := config.CheckoutConfig{
		Currency:          "ETB",
		OrderNumberPrefix: "SM",
		Timeout:           5 * time.Second,
	}

	return service.NewCheckoutService(
		repository.NewOrderRepository(db.Pool, logger),
		repository.NewProductRepository(db.Pool, logger),
		repository.NewAddressRepository(db.Pool, logger),
		cfg,
		logger,
	)
}

// SeedProduct inserts a product and returns its generated id.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, title string, priceCents int64, supplierID int64, stock int) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO products (title, unit_price_cents, supplier_id, stock, status)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		title, priceCents, supplierID, stock, model.ProductActive,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", title, err)
	}

	return id
}

// CountRows returns the number of rows in a table.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()

	var count int
	if err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	return count
}

// ProductStock returns the current stock of a product.
func ProductStock(t *testing.T, pool *pgxpool.Pool, productID int64) int {
	t.Helper()

	var stock int
	err := pool.QueryRow(context.Background(),
		"SELECT stock FROM products WHERE id = $1", productID,
	).Scan(&stock)
	if err != nil {
		t.Fatalf("failed to read stock for product %d: %v", productID, err)
	}
	return stock
}
