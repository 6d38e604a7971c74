package gormrepo

import (
	"context"

	"adminhub/internal/domain"
	"adminhub/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type categoryRepo struct {
	db *gorm.DB
}

func (r *categoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error)
}

func (r *categoryRepo) Update(ctx context.Context, c *domain.Category) error {
	res := r.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":            c.Name,
		"slug":            c.Slug,
		"description":     c.Description,
		"parent_id":       c.ParentID,
		"is_active":       c.IsActive,
		"image_url":       c.Image.URL,
		"image_public_id": c.Image.PublicID,
	})
	return translate(res.Error)
}

func (r *categoryRepo) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *categoryRepo) FindByID(ctx context.Context, id uint64) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).Preload("Parent").First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *categoryRepo) List(ctx context.Context, f domain.CategoryFilter) ([]domain.Category, error) {
	q := r.db.WithContext(ctx).Preload("Parent")
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	switch {
	case f.TopLevel:
		q = q.Where("parent_id IS NULL")
	case f.ParentID != nil:
		q = q.Where("parent_id = ?", *f.ParentID)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}

	var out []domain.Category
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *categoryRepo) HasProducts(ctx context.Context, id uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("category_id = ?", id).Limit(1).Count(&n).Error
	return n > 0, err
}
