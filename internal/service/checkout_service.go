package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seedmart/internal/config"
	"seedmart/internal/model"
	"seedmart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// maxConflictRetries bounds retries of the whole transaction after an
// order-number collision.
const maxConflictRetries = 3

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	addressRepo repository.AddressRepository
	cfg         config.CheckoutConfig
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	addressRepo repository.AddressRepository,
	cfg config.CheckoutConfig,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		addressRepo: addressRepo,
		cfg:         cfg,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout validates the request, partitions the cart by supplier and creates
// one PENDING order per supplier. Address creation, order creation and stock
// decrements happen in a single transaction: either every supplier's order
// commits or nothing does.
func (s *checkoutService) Checkout(ctx context.Context, buyerID int64, req *model.CheckoutRequest) ([]model.Order, error) {
	// Pure shape check, performed before touching storage.
	if err := req.Validate(); err != nil {
		s.logger.Warn().Int64("buyer_id", buyerID).Err(err).Msg("invalid checkout request")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var conflictErr error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		orders, err := s.checkoutOnce(ctx, buyerID, req)
		if errors.Is(err, model.ErrOrderNumberConflict) {
			s.logger.Warn().
				Int64("buyer_id", buyerID).
				Int("attempt", attempt).
				Msg("order number conflict, retrying checkout")
			conflictErr = err
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info().
			Int64("buyer_id", buyerID).
			Int("order_count", len(orders)).
			Msg("checkout completed")
		return orders, nil
	}

	return nil, conflictErr
}

// checkoutOnce runs one attempt of the checkout transaction.
func (s *checkoutService) checkoutOnce(ctx context.Context, buyerID int64, req *model.CheckoutRequest) (_ []model.Order, err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start checkout: %w", err)
	}

	// Ensure the whole attempt rolls back on any failure
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback checkout transaction")
			}
		}
	}()

	resolved, err := s.resolveProducts(ctx, tx, req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	address := &model.ShippingAddress{
		ID:        uuid.New(),
		BuyerID:   buyerID,
		Label:     req.Address.Label,
		Country:   req.Address.Country,
		Region:    req.Address.Region,
		City:      req.Address.City,
		CreatedAt: now,
	}
	if err = s.addressRepo.Create(ctx, tx, address); err != nil {
		return nil, err
	}

	orders, err := s.createSupplierOrders(ctx, tx, buyerID, req, resolved, address.ID, now)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	return orders, nil
}

// resolveProducts fetches the authoritative product records for the cart and
// runs the advisory stock pre-check. A missing or unpurchasable product fails
// the whole checkout.
func (s *checkoutService) resolveProducts(ctx context.Context, tx pgx.Tx, req *model.CheckoutRequest) (map[int64]model.Product, error) {
	ids := req.ProductIDs()

	products, err := s.productRepo.ResolveForCheckout(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	byID := lo.SliceToMap(products, func(p model.Product) (int64, model.Product) {
		return p.ID, p
	})

	missing := lo.Filter(ids, func(id int64, _ int) bool {
		p, ok := byID[id]
		return !ok || !p.Purchasable()
	})
	if len(missing) > 0 {
		s.logger.Warn().Ints64("product_ids", missing).Msg("products unavailable at checkout")
		return nil, model.NewProductNotFound(missing)
	}

	for _, item := range req.Items {
		if p := byID[item.ProductID]; item.Quantity > p.Stock {
			s.logger.Warn().
				Int64("product_id", p.ID).
				Int("requested", item.Quantity).
				Int("stock", p.Stock).
				Msg("stock pre-check failed")
			return nil, model.NewInsufficientStock(p.Title)
		}
	}

	return byID, nil
}

// createSupplierOrders partitions the cart by supplier in first-appearance
// order and creates one order per supplier, decrementing stock as it goes.
func (s *checkoutService) createSupplierOrders(
	ctx context.Context,
	tx pgx.Tx,
	buyerID int64,
	req *model.CheckoutRequest,
	products map[int64]model.Product,
	addressID uuid.UUID,
	now time.Time,
) ([]model.Order, error) {
	// Group items by supplier, preserving the order suppliers first appear
	// in the cart so order-number allocation is reproducible.
	var supplierOrder []int64
	partitions := make(map[int64][]model.CheckoutItem)
	for _, item := range req.Items {
		supplierID := products[item.ProductID].SupplierID
		if _, seen := partitions[supplierID]; !seen {
			supplierOrder = append(supplierOrder, supplierID)
		}
		partitions[supplierID] = append(partitions[supplierID], item)
	}

	year := now.Year()
	orders := make([]model.Order, 0, len(supplierOrder))

	for _, supplierID := range supplierOrder {
		items := partitions[supplierID]

		var total int64
		for _, item := range items {
			total += products[item.ProductID].UnitPriceCents * int64(item.Quantity)
		}

		seq, err := s.orderRepo.NextOrderNumber(ctx, tx, year)
		if err != nil {
			return nil, err
		}

		order := model.Order{
			ID:                uuid.New(),
			OrderNumber:       fmt.Sprintf("%s-%d-%06d", s.cfg.OrderNumberPrefix, year, seq),
			BuyerID:           buyerID,
			SupplierID:        supplierID,
			TotalCents:        total,
			Currency:          s.cfg.Currency,
			PaymentMethod:     req.PaymentMethod,
			Status:            model.StatusPending,
			ShippingAddressID: addressID,
			Note:              req.Notes,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		if err := s.orderRepo.CreateOrder(ctx, tx, &order); err != nil {
			return nil, err
		}

		lines := make([]model.OrderLine, len(items))
		for i, item := range items {
			p := products[item.ProductID]
			lines[i] = model.OrderLine{
				ID:             uuid.New(),
				OrderID:        order.ID,
				ProductID:      p.ID,
				Title:          p.Title,
				UnitPriceCents: p.UnitPriceCents,
				Quantity:       item.Quantity,
			}
		}
		if err := s.orderRepo.CreateOrderLines(ctx, tx, lines); err != nil {
			return nil, err
		}

		// The conditional decrement is authoritative: a concurrent checkout
		// may have consumed stock since the pre-check.
		for _, item := range items {
			ok, err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return nil, err
			}
			if !ok {
				s.logger.Warn().
					Int64("product_id", item.ProductID).
					Int("quantity", item.Quantity).
					Msg("stock decrement lost the race")
				return nil, model.NewInsufficientStock(products[item.ProductID].Title)
			}
		}

		order.Items = lines
		orders = append(orders, order)
	}

	return orders, nil
}

// GetByNumber retrieves one of the buyer's orders with its lines.
func (s *checkoutService) GetByNumber(ctx context.Context, buyerID int64, orderNumber string) (*model.Order, error) {
	order, err := s.orderRepo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	// Buyers only ever see their own orders.
	if order == nil || order.BuyerID != buyerID {
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// ListByBuyer retrieves the buyer's orders, newest first.
func (s *checkoutService) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Cancel cancels one of the buyer's orders and restocks its lines in the
// same transaction. Only PENDING and CONFIRMED orders can be cancelled.
func (s *checkoutService) Cancel(ctx context.Context, buyerID int64, orderNumber string) (_ *model.Order, err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start cancellation: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback cancellation")
			}
		}
	}()

	order, err := s.orderRepo.GetForUpdate(ctx, tx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil || order.BuyerID != buyerID {
		return nil, model.ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(model.StatusCancelled) {
		return nil, model.ErrOrderNotCancellable
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, order.ID, model.StatusCancelled); err != nil {
		return nil, err
	}

	for _, line := range order.Items {
		if err = s.productRepo.RestoreStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	order.Status = model.StatusCancelled

	s.logger.Info().
		Int64("buyer_id", buyerID).
		Str("order_number", orderNumber).
		Msg("order cancelled")

	return order, nil
}
