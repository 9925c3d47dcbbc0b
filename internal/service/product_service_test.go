package service

import (
	"context"
	"errors"
	"testing"

	"seedmart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductService_GetAll(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	products := []model.Product{
		{ID: 1, Title: "Maize Seed - Premium", Status: model.ProductActive},
		{ID: 7, Title: "Teff Seed - Highland", Status: model.ProductActive},
	}

	tests := []struct {
		name          string
		limit, offset int
		wantLimit     int
		wantOffset    int
	}{
		{name: "Defaults applied", limit: 0, offset: -5, wantLimit: 50, wantOffset: 0},
		{name: "Values passed through", limit: 10, offset: 20, wantLimit: 10, wantOffset: 20},
		{name: "Limit clamped", limit: 5000, offset: 0, wantLimit: 200, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			svc := NewProductService(mockRepo, logger)

			mockRepo.On("GetAll", ctx, tt.wantLimit, tt.wantOffset).Return(products, nil)

			got, err := svc.GetAll(ctx, tt.limit, tt.offset)

			require.NoError(t, err)
			assert.Len(t, got, 2)
			mockRepo.AssertExpectations(t)
		})
	}

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, logger)

		mockRepo.On("GetAll", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("database error"))

		got, err := svc.GetAll(ctx, 10, 0)

		require.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestProductService_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	t.Run("Existing product", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, logger)

		product := &model.Product{ID: 1, Title: "Maize Seed - Premium"}
		mockRepo.On("GetByID", ctx, int64(1)).Return(product, nil)

		got, err := svc.GetByID(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, product, got)
	})

	t.Run("Non-positive id", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, logger)

		got, err := svc.GetByID(ctx, 0)

		require.Error(t, err)
		assert.Nil(t, got)

		var domainErr *model.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, model.ErrCodeInvalidRequest, domainErr.Code)
		mockRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("Unknown product", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, logger)

		mockRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

		got, err := svc.GetByID(ctx, 99)

		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
