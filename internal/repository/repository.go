package repository

import (
	"context"
	"errors"

	"adminhub/internal/domain"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicate         = errors.New("duplicate key")
)

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	// Update writes every editable column, stock and status included, and
	// replaces the image list.
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error)
	Count(ctx context.Context) (int64, error)
	// AdjustStock applies stock += delta and recomputes status in a single
	// conditional write. It fails with ErrInsufficientStock when the result
	// would be negative and ErrNotFound when the product does not exist.
	AdjustStock(ctx context.Context, id uint64, delta int) (*domain.Product, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*domain.Category, error)
	List(ctx context.Context, f domain.CategoryFilter) ([]domain.Category, error)
	HasProducts(ctx context.Context, id uint64) (bool, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus, payment domain.PaymentStatus) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)
	Recent(ctx context.Context, limit int) ([]domain.Order, error)
	Totals(ctx context.Context, r domain.TimeRange) (domain.PeriodTotals, error)
	TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	List(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error)
	Recent(ctx context.Context, limit int) ([]domain.Transaction, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	Update(ctx context.Context, n *domain.Notification) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID uint64, limit int) ([]domain.Notification, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, f domain.UserFilter) ([]domain.User, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

type SettingsRepository interface {
	// Get returns ErrNotFound until the document has been saved once.
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, s *domain.Settings) error
}

type SequenceRepository interface {
	// Next returns the next value of scope, starting at 0. Values are never
	// handed out twice.
	Next(ctx context.Context, scope string) (int64, error)
}

// Repositories groups every repository bound to the same connection or
// transaction.
type Repositories struct {
	Products      ProductRepository
	Categories    CategoryRepository
	Orders        OrderRepository
	Transactions  TransactionRepository
	Notifications NotificationRepository
	Users         UserRepository
	Settings      SettingsRepository
	Sequences     SequenceRepository
}

// Store hands out repositories and runs units of work. Everything fn does
// through the Repositories it receives commits or rolls back together.
type Store interface {
	Repos() Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
}
