package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"seedmart/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutRequest(items []model.CheckoutItem) *model.CheckoutRequest {
	return &model.CheckoutRequest{
		Items: items,
		Address: model.AddressPayload{
			Label:   "Farm gate",
			Country: "Ethiopia",
			Region:  "Amhara",
			City:    "Bahir Dar",
		},
		PaymentMethod: model.PaymentMobileMoney,
	}
}

func TestCheckout_SplitsCartBySupplier(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := SetupTestDB(t)
	svc := NewCheckoutService(db)
	ctx := context.Background()

	maizeID := SeedProduct(t, db.Pool, "Maize Seed - Premium", 15000, 10, 25)
	teffID := SeedProduct(t, db.Pool, "Teff Seed - Highland", 5000, 20, 8)

	orders, err := svc.Checkout(ctx, 42, checkoutRequest([]model.CheckoutItem{
		{ProductID: maizeID, Quantity: 3},
		{ProductID: teffID, Quantity: 1},
	}))

	require.NoError(t, err)
	require.Len(t, orders, 2)

	year := time.Now().UTC().Year()
	assert.Equal(t, fmt.Sprintf("SM-%d-000001", year), orders[0].OrderNumber)
	assert.Equal(t, fmt.Sprintf("SM-%d-000002", year), orders[1].OrderNumber)

	assert.Equal(t, int64(10), orders[0].SupplierID)
	assert.Equal(t, int64(45000), orders[0].TotalCents)
	assert.Equal(t, int64(20), orders[1].SupplierID)
	assert.Equal(t, int64(5000), orders[1].TotalCents)

	for _, order := range orders {
		assert.Equal(t, model.StatusPending, order.Status)
		assert.Equal(t, "ETB", order.Currency)
		assert.Equal(t, orders[0].ShippingAddressID, order.ShippingAddressID)
	}

	// Stock is decremented and the address written exactly once
	assert.Equal(t, 22, ProductStock(t, db.Pool, maizeID))
	assert.Equal(t, 7, ProductStock(t, db.Pool, teffID))
	assert.Equal(t, 1, CountRows(t, db.Pool, "shipping_addresses"))
	assert.Equal(t, 2, CountRows(t, db.Pool, "orders"))
	assert.Equal(t, 2, CountRows(t, db.Pool, "order_lines"))

	// Orders are retrievable by their buyer with full line snapshots
	got, err := svc.GetByNumber(ctx, 42, orders[0].OrderNumber)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Maize Seed - Premium", got.Items[0].Title)
	assert.Equal(t, int64(15000), got.Items[0].UnitPriceCents)
	assert.Equal(t, 3, got.Items[0].Quantity)
}

func TestCheckout_FailureLeavesNoTrace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := SetupTestDB(t)
	svc := NewCheckoutService(db)
	ctx := context.Background()

	maizeID := SeedProduct(t, db.Pool, "Maize Seed - Premium", 15000, 10, 25)
	teffID := SeedProduct(t, db.Pool, "Teff Seed - Highland", 5000, 20, 2)

	// The second line exceeds available stock, failing the whole checkout
	orders, err := svc.Checkout(ctx, 42, checkoutRequest([]model.CheckoutItem{
		{ProductID: maizeID, Quantity: 3},
		{ProductID: teffID, Quantity: 5},
	}))

	require.Error(t, err)
	assert.Nil(t, orders)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeInsufficientStock, domainErr.Code)

	// Nothing of the attempt persists
	assert.Equal(t, 0, CountRows(t, db.Pool, "orders"))
	assert.Equal(t, 0, CountRows(t, db.Pool, "order_lines"))
	assert.Equal(t, 0, CountRows(t, db.Pool, "shipping_addresses"))
	assert.Equal(t, 25, ProductStock(t, db.Pool, maizeID))
	assert.Equal(t, 2, ProductStock(t, db.Pool, teffID))
}

func TestCheckout_ConcurrentBuyersCannotOversell(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := SetupTestDB(t)
	svc := NewCheckoutService(db)
	ctx := context.Background()

	// One unit left, two buyers race for it
	productID := SeedProduct(t, db.Pool, "Wheat Seed - Durum", 8000, 30, 1)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Checkout(ctx, int64(100+i), checkoutRequest([]model.CheckoutItem{
				{ProductID: productID, Quantity: 1},
			}))
		}(i)
	}
	wg.Wait()

	var successes, stockFailures int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var domainErr *model.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, model.ErrCodeInsufficientStock, domainErr.Code)
		stockFailures++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, stockFailures)
	assert.Equal(t, 1, CountRows(t, db.Pool, "orders"))
	assert.Equal(t, 0, ProductStock(t, db.Pool, productID))
}

func TestCheckout_CancelRestocks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := SetupTestDB(t)
	svc := NewCheckoutService(db)
	ctx := context.Background()

	maizeID := SeedProduct(t, db.Pool, "Maize Seed - Premium", 15000, 10, 25)

	orders, err := svc.Checkout(ctx, 42, checkoutRequest([]model.CheckoutItem{
		{ProductID: maizeID, Quantity: 3},
	}))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, 22, ProductStock(t, db.Pool, maizeID))

	cancelled, err := svc.Cancel(ctx, 42, orders[0].OrderNumber)

	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, 25, ProductStock(t, db.Pool, maizeID))

	// A cancelled order cannot be cancelled again
	_, err = svc.Cancel(ctx, 42, orders[0].OrderNumber)
	require.ErrorIs(t, err, model.ErrOrderNotCancellable)
}

func TestCheckout_OrderNumbersUniqueAcrossConcurrentCheckouts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := SetupTestDB(t)
	svc := NewCheckoutService(db)
	ctx := context.Background()

	productID := SeedProduct(t, db.Pool, "Barley Seed - Malting", 6000, 40, 1000)

	const buyers = 10

	results := make([][]model.Order, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			orders, err := svc.Checkout(ctx, int64(200+i), checkoutRequest([]model.CheckoutItem{
				{ProductID: productID, Quantity: 1},
			}))
			if err == nil {
				results[i] = orders
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, orders := range results {
		require.Len(t, orders, 1)
		number := orders[0].OrderNumber
		assert.False(t, seen[number], "order number %s allocated twice", number)
		seen[number] = true
	}
	assert.Len(t, seen, buyers)
}
