package gormrepo

import (
	"context"
	"errors"
	"strings"

	"adminhub/internal/repository"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Repos() repository.Repositories {
	return reposFor(s.db)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r repository.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, reposFor(tx))
	})
}

func reposFor(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Products:      &productRepo{db: db},
		Categories:    &categoryRepo{db: db},
		Orders:        &orderRepo{db: db},
		Transactions:  &transactionRepo{db: db},
		Notifications: &notificationRepo{db: db},
		Users:         &userRepo{db: db},
		Settings:      &settingsRepo{db: db},
		Sequences:     &sequenceRepo{db: db},
	}
}

var _ repository.Store = (*Store)(nil)

// translate maps driver errors onto the repository sentinels. The
// connection must be opened with TranslateError enabled.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	}
	return err
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
