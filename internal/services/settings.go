package services

import (
	"context"
	"errors"

	"adminhub/internal/apperr"
	"adminhub/internal/domain"
	"adminhub/internal/repository"
)

type SettingsService struct {
	store repository.Store
}

func NewSettingsService(store repository.Store) *SettingsService {
	return &SettingsService{store: store}
}

// GetSettings creates the defaults on first read.
func (s *SettingsService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	var out *domain.Settings
	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		var err error
		out, err = loadOrCreateSettings(ctx, r.Settings)
		return err
	})
	if err != nil {
		return nil, apperr.Internal("Failed to fetch settings", err)
	}
	return out, nil
}

func (s *SettingsService) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (*domain.Settings, error) {
	var out *domain.Settings
	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		cur, err := loadOrCreateSettings(ctx, r.Settings)
		if err != nil {
			return err
		}
		cur.Apply(patch)
		if err := r.Settings.Save(ctx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, apperr.Internal("Failed to update settings", err)
	}
	return out, nil
}

func loadOrCreateSettings(ctx context.Context, repo repository.SettingsRepository) (*domain.Settings, error) {
	cur, err := repo.Get(ctx)
	if err == nil {
		return cur, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	def := domain.DefaultSettings()
	if err := repo.Save(ctx, &def); err != nil {
		return nil, err
	}
	return &def, nil
}
