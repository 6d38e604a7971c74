package gormrepo

import (
	"context"

	"adminhub/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

// Create inserts the order together with its line items.
func (r *orderRepo) Create(ctx context.Context, o *domain.Order) error {
	return translate(r.db.WithContext(ctx).Create(o).Error)
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus, payment domain.PaymentStatus) error {
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Updates(map[string]any{
		"status":         status,
		"payment_status": payment,
	}).Error
	return translate(err)
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	q := r.db.WithContext(ctx).Preload("Items")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("LOWER(order_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ?", like, like, like)
	}

	var out []domain.Order
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *orderRepo) Totals(ctx context.Context, tr domain.TimeRange) (domain.PeriodTotals, error) {
	var row struct {
		Orders  int64
		Revenue decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Select("COUNT(*) AS orders, SUM(total_amount) AS revenue").
		Where("created_at >= ? AND created_at < ?", tr.From, tr.To).
		Scan(&row).Error
	if err != nil {
		return domain.PeriodTotals{}, err
	}

	out := domain.PeriodTotals{Orders: row.Orders, Revenue: decimal.Zero}
	if row.Revenue.Valid {
		out.Revenue = row.Revenue.Decimal
	}
	return out, nil
}

// TopProducts ranks products by revenue across every order line ever sold.
func (r *orderRepo) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	var out []domain.TopProduct
	err := r.db.WithContext(ctx).Table("order_items AS oi").
		Select(`oi.product_id AS id,
			MAX(oi.name) AS name,
			COALESCE(MAX(c.name), 'Uncategorized') AS category,
			SUM(oi.quantity) AS sales,
			SUM(oi.price * oi.quantity) AS revenue`).
		Joins("LEFT JOIN products p ON p.id = oi.product_id").
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Group("oi.product_id").
		Order("revenue DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}
