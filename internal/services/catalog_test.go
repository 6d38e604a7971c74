package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"adminhub/internal/apperr"
	"adminhub/internal/domain"
	"adminhub/internal/infra/media"
	"adminhub/internal/mocks"
	"adminhub/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func imageFile(name string) *media.File {
	return &media.File{Name: name, ContentType: "image/png", Size: 4, Body: strings.NewReader("\x89PNG")}
}

func TestCatalogService_CreateProduct(t *testing.T) {
	tests := []struct {
		name          string
		input         func(categoryID uint64) ProductInput
		image         *media.File
		setupMocks    func(*mocks.MockMediaStore)
		expectedError error
		expectedMsg   string
	}{
		{
			name: "successful creation with image",
			input: func(cid uint64) ProductInput {
				return ProductInput{Name: "Phone", SKU: "PH-1", Price: decimal.RequireFromString("199.99"), CategoryID: cid, Stock: 4}
			},
			image: imageFile("phone.png"),
			setupMocks: func(m *mocks.MockMediaStore) {
				m.On("Upload", mock.Anything, mock.Anything, "products").Return(domain.Image{URL: "https://cdn/p.png", PublicID: "products/p"}, nil)
			},
		},
		{
			name: "duplicate sku discards the upload",
			input: func(cid uint64) ProductInput {
				return ProductInput{Name: "Clone", SKU: "EXIST", Price: decimal.NewFromInt(1), CategoryID: cid}
			},
			image: imageFile("clone.png"),
			setupMocks: func(m *mocks.MockMediaStore) {
				m.On("Upload", mock.Anything, mock.Anything, "products").Return(domain.Image{URL: "https://cdn/c.png", PublicID: "products/c"}, nil)
				m.On("Delete", mock.Anything, "products/c").Return(nil)
			},
			expectedError: apperr.ErrConflict,
			expectedMsg:   "Product with this SKU already exists",
		},
		{
			name: "unknown category",
			input: func(uint64) ProductInput {
				return ProductInput{Name: "Orphan", SKU: "OR-1", Price: decimal.NewFromInt(1), CategoryID: 404}
			},
			setupMocks:    func(*mocks.MockMediaStore) {},
			expectedError: apperr.ErrNotFound,
			expectedMsg:   "Category not found",
		},
		{
			name: "upload failure aborts",
			input: func(cid uint64) ProductInput {
				return ProductInput{Name: "Phone", SKU: "PH-2", Price: decimal.NewFromInt(1), CategoryID: cid}
			},
			image: imageFile("phone.png"),
			setupMocks: func(m *mocks.MockMediaStore) {
				m.On("Upload", mock.Anything, mock.Anything, "products").Return(domain.Image{}, errors.New("cdn down"))
			},
			expectedError: apperr.ErrUpstream,
		},
		{
			name: "uploads disabled",
			input: func(cid uint64) ProductInput {
				return ProductInput{Name: "Phone", SKU: "PH-3", Price: decimal.NewFromInt(1), CategoryID: cid}
			},
			image: imageFile("phone.png"),
			setupMocks: func(m *mocks.MockMediaStore) {
				m.On("Upload", mock.Anything, mock.Anything, "products").Return(domain.Image{}, media.ErrDisabled)
			},
			expectedError: apperr.ErrValidation,
			expectedMsg:   "Image uploads are not enabled",
		},
		{
			name: "negative stock",
			input: func(cid uint64) ProductInput {
				return ProductInput{Name: "Phone", SKU: "PH-4", Price: decimal.NewFromInt(1), CategoryID: cid, Stock: -1}
			},
			setupMocks:    func(*mocks.MockMediaStore) {},
			expectedError: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := memory.NewStore()
			c := seedCategory(t, s, TestCategoryName)
			seedProduct(t, s, c.ID, "EXIST", 10, 1)
			m := new(mocks.MockMediaStore)
			tt.setupMocks(m)

			service := NewCatalogService(s, m, zap.NewNop())
			result, err := service.CreateProduct(context.Background(), tt.input(c.ID), tt.image)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				if tt.expectedMsg != "" {
					assert.Equal(t, tt.expectedMsg, apperr.From(err).Message)
				}
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, domain.StockLowStock, result.Status)
				require.Len(t, result.Images, 1)
				assert.Equal(t, "https://cdn/p.png", result.Images[0].URL)
				require.NotNil(t, result.Category)
				assert.Equal(t, TestCategoryName, result.Category.Name)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestCatalogService_UpdateProduct_ReplacesImageAfterPersist(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	c := seedCategory(t, s, TestCategoryName)
	p := seedProduct(t, s, c.ID, "PH-1", 10, 20)
	p.Images = []domain.ProductImage{{Image: domain.Image{URL: "old", PublicID: "products/old"}}}
	require.NoError(t, s.Repos().Products.Update(ctx, p))

	m := new(mocks.MockMediaStore)
	m.On("Upload", mock.Anything, mock.Anything, "products").Return(domain.Image{URL: "new", PublicID: "products/new"}, nil)
	m.On("Delete", mock.Anything, "products/old").Return(nil)

	service := NewCatalogService(s, m, zap.NewNop())
	got, err := service.UpdateProduct(ctx, p.ID, ProductInput{
		Name: "Phone 2", SKU: "IGNORED", Price: decimal.NewFromInt(12), CategoryID: c.ID, Stock: 0,
	}, imageFile("new.png"))
	require.NoError(t, err)

	assert.Equal(t, "PH-1", got.SKU)
	assert.Equal(t, domain.StockOutOfStock, got.Status)
	require.Len(t, got.Images, 1)
	assert.Equal(t, "products/new", got.Images[0].PublicID)
	m.AssertExpectations(t)
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockMediaStore)
		expectedError error
		stillExists   bool
	}{
		{
			name: "removes media then row",
			setupMocks: func(m *mocks.MockMediaStore) {
				m.On("Delete", mock.Anything, "products/a").Return(nil)
			},
		},
		{
			name: "media failure keeps the product",
			setupMocks: func(m *mocks.MockMediaStore) {
				m.On("Delete", mock.Anything, "products/a").Return(errors.New("cdn down"))
			},
			expectedError: apperr.ErrUpstream,
			stillExists:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := memory.NewStore()
			c := seedCategory(t, s, TestCategoryName)
			p := seedProduct(t, s, c.ID, "A", 10, 1)
			p.Images = []domain.ProductImage{{Image: domain.Image{URL: "a", PublicID: "products/a"}}}
			require.NoError(t, s.Repos().Products.Update(ctx, p))

			m := new(mocks.MockMediaStore)
			tt.setupMocks(m)
			service := NewCatalogService(s, m, zap.NewNop())

			err := service.DeleteProduct(ctx, p.ID)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			_, err = service.GetProduct(ctx, p.ID)
			if tt.stillExists {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperr.ErrNotFound)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestCatalogService_ListProducts(t *testing.T) {
	s := memory.NewStore()
	c := seedCategory(t, s, TestCategoryName)
	for _, sku := range []string{"A", "B", "C"} {
		seedProduct(t, s, c.ID, sku, 10, 50)
	}
	seedProduct(t, s, c.ID, "LOW", 10, 2)
	service := NewCatalogService(s, media.Disabled{}, zap.NewNop())

	page, err := service.ListProducts(context.Background(), domain.ProductFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, int64(4), page.Pagination.Total)
	assert.Equal(t, int64(2), page.Pagination.Pages)

	page, err = service.ListProducts(context.Background(), domain.ProductFilter{Status: domain.StockLowStock})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "LOW", page.Products[0].SKU)
	assert.Equal(t, defaultPageLimit, page.Pagination.Limit)

	_, err = service.ListProducts(context.Background(), domain.ProductFilter{Status: "Sold"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
