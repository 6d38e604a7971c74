package gormrepo

import (
	"context"
	"strings"

	"adminhub/internal/domain"
	"adminhub/internal/repository"

	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepo) Update(ctx context.Context, u *domain.User) error {
	return translate(r.db.WithContext(ctx).Save(u).Error)
}

func (r *userRepo) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&domain.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	q := r.db.WithContext(ctx)
	if f.Department != "" {
		q = q.Where("department = ?", f.Department)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(position) LIKE ?", like, like, like)
	}

	var out []domain.User
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

type notificationRepo struct {
	db *gorm.DB
}

func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) Update(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *notificationRepo) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *notificationRepo) FindByID(ctx context.Context, id uint64) (*domain.Notification, error) {
	var n domain.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

type settingsRepo struct {
	db *gorm.DB
}

func (r *settingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	var s domain.Settings
	if err := r.db.WithContext(ctx).Order("id ASC").First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *settingsRepo) Save(ctx context.Context, s *domain.Settings) error {
	return r.db.WithContext(ctx).Save(s).Error
}
