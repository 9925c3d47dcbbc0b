package service

import (
	"context"
	"fmt"

	"seedmart/internal/model"
	"seedmart/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// productService implements ProductService.
type productService struct {
	repo   repository.ProductRepository
	logger zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		repo:   repo,
		logger: logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all active products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.repo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if id <= 0 {
		return nil, model.NewInvalidRequest("product id must be positive")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}
