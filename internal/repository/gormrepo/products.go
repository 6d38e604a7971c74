package gormrepo

import (
	"context"
	"time"

	"adminhub/internal/domain"
	"adminhub/internal/repository"

	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

// adjustStockSQL recomputes status before stock: MySQL evaluates SET
// assignments left to right, so status must still see the old stock.
const adjustStockSQL = `UPDATE products
SET status = CASE WHEN stock + ? <= 0 THEN ? WHEN stock + ? <= ? THEN ? ELSE ? END,
    stock = stock + ?,
    updated_at = ?
WHERE id = ? AND stock + ? >= 0`

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	return translate(r.db.WithContext(ctx).Omit("Category").Create(p).Error)
}

func (r *productRepo) Update(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Product{}).Where("id = ?", p.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}

		err := tx.Model(&domain.Product{}).Where("id = ?", p.ID).Updates(map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"category_id": p.CategoryID,
			"stock":       p.Stock,
			"status":      domain.StockStatusFor(p.Stock),
		}).Error
		if err != nil {
			return translate(err)
		}

		if err := tx.Where("product_id = ?", p.ID).Delete(&domain.ProductImage{}).Error; err != nil {
			return err
		}
		for i := range p.Images {
			p.Images[i].ID = 0
			p.Images[i].ProductID = p.ID
			p.Images[i].Position = i
		}
		if len(p.Images) > 0 {
			if err := tx.Create(&p.Images).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *productRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.ProductImage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&p, id).Error
	if err != nil {
		return nil, translate(err)
	}
	withImageList(&p)
	return &p, nil
}

// withImageList makes a product without images serialize as [] rather than
// null.
func withImageList(p *domain.Product) {
	if p.Images == nil {
		p.Images = []domain.ProductImage{}
	}
}

func filterProducts(f domain.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.CategoryID != 0 {
			q = q.Where("category_id = ?", f.CategoryID)
		}
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.Search != "" {
			like := likePattern(f.Search)
			q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
		}
		return q
	}
}

func (r *productRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Scopes(filterProducts(f)).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var out []domain.Product
	err = r.db.WithContext(ctx).Scopes(filterProducts(f)).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").Order("id DESC").
		Offset(f.Offset()).Limit(f.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range out {
		withImageList(&out[i])
	}
	return out, total, nil
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&n).Error
	return n, err
}

func (r *productRepo) AdjustStock(ctx context.Context, id uint64, delta int) (*domain.Product, error) {
	db := r.db.WithContext(ctx)

	res := db.Exec(adjustStockSQL,
		delta, domain.StockOutOfStock,
		delta, domain.LowStockThreshold, domain.StockLowStock,
		domain.StockInStock,
		delta,
		time.Now(),
		id, delta,
	)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		var n int64
		if err := db.Model(&domain.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, repository.ErrNotFound
		}
		if delta != 0 {
			return nil, repository.ErrInsufficientStock
		}
	}

	var p domain.Product
	if err := db.First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}
