package gormrepo

import (
	"context"

	"adminhub/internal/domain"
	"adminhub/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepo struct {
	db *gorm.DB
}

func (r *transactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *transactionRepo) List(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error) {
	q := r.db.WithContext(ctx)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("LOWER(transaction_id) LIKE ? OR LOWER(description) LIKE ? OR LOWER(account) LIKE ?", like, like, like)
	}

	var out []domain.Transaction
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *transactionRepo) Recent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	var out []domain.Transaction
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

type sequenceRepo struct {
	db *gorm.DB
}

// Next inserts the counter at 0 or bumps it by one, then reads it back in
// the same transaction. The upsert holds the row lock until commit, so
// concurrent callers queue behind each other.
func (r *sequenceRepo) Next(ctx context.Context, scope string) (int64, error) {
	var seq domain.Sequence
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]any{"value": gorm.Expr("sequences.value + 1")}),
		}).Create(&domain.Sequence{Name: scope, Value: 0}).Error
		if err != nil {
			return err
		}
		return tx.Where("name = ?", scope).First(&seq).Error
	})
	if err != nil {
		return 0, translate(err)
	}
	return seq.Value, nil
}

var _ repository.SequenceRepository = (*sequenceRepo)(nil)
