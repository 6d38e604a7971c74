package services

import (
	"context"
	"testing"

	"adminhub/internal/domain"
	"adminhub/internal/mocks"
	"adminhub/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	TestCategoryName = "Electronics"
	TestPassword     = "s3cret-pass"
)

func seedCategory(t *testing.T, s *memory.Store, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name, Slug: domain.Slugify(name), IsActive: true}
	require.NoError(t, s.Repos().Categories.Create(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, s *memory.Store, categoryID uint64, sku string, price int64, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:       "Product " + sku,
		SKU:        sku,
		Price:      decimal.NewFromInt(price),
		CategoryID: categoryID,
	}
	p.SetStock(stock)
	require.NoError(t, s.Repos().Products.Create(context.Background(), p))
	return p
}

func seedUser(t *testing.T, s *memory.Store, email string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := HashPassword(TestPassword)
	require.NoError(t, err)
	u := &domain.User{Name: "User " + email, Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, s.Repos().Users.Create(context.Background(), u))
	return u
}

func stockOf(t *testing.T, s *memory.Store, id uint64) int {
	t.Helper()
	p, err := s.Repos().Products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

// quietPublisher accepts any event; publishing happens on background
// goroutines so expectations are optional.
func quietPublisher() *mocks.MockPublisher {
	pub := new(mocks.MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return pub
}
