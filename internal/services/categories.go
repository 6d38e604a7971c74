package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adminhub/internal/apperr"
	"adminhub/internal/domain"
	"adminhub/internal/infra/cache"
	"adminhub/internal/infra/media"
	"adminhub/internal/logger"
	"adminhub/internal/repository"

	"go.uber.org/zap"
)

const (
	categoryImageFolder  = "categories"
	categoryCachePrefix  = "categories:"
	defaultCategoryCache = 30 * time.Second
)

type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	ParentID    *uint64
	IsActive    bool
}

type CategoryService struct {
	store    repository.Store
	media    media.Store
	cache    *cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewCategoryService(store repository.Store, m media.Store, log *zap.Logger) *CategoryService {
	return &CategoryService{store: store, media: m, log: log, cacheTTL: defaultCategoryCache}
}

func (s *CategoryService) SetCache(c *cache.Cache, ttl time.Duration) {
	s.cache = c
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

func categoryCacheKey(f domain.CategoryFilter) string {
	parent := "any"
	switch {
	case f.TopLevel:
		parent = "null"
	case f.ParentID != nil:
		parent = fmt.Sprint(*f.ParentID)
	}
	active := "any"
	if f.IsActive != nil {
		active = fmt.Sprint(*f.IsActive)
	}
	return fmt.Sprintf("%slist:%s:%s:%s", categoryCachePrefix, parent, active, strings.ToLower(strings.TrimSpace(f.Search)))
}

func (s *CategoryService) ListCategories(ctx context.Context, f domain.CategoryFilter) ([]domain.Category, error) {
	key := categoryCacheKey(f)
	var cached []domain.Category
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		logger.For(ctx, s.log).Warn("category cache read failed", zap.Error(err))
	} else if found {
		return cached, nil
	}

	out, err := s.store.Repos().Categories.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch categories", err)
	}
	if out == nil {
		out = []domain.Category{}
	}
	if err := s.cache.Set(ctx, key, out, s.cacheTTL); err != nil {
		logger.For(ctx, s.log).Warn("category cache write failed", zap.Error(err))
	}
	return out, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint64) (*domain.Category, error) {
	c, err := s.store.Repos().Categories.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.NotFound("Category not found"))
	}
	return c, nil
}

func (s *CategoryService) checkParent(ctx context.Context, self uint64, parentID *uint64) error {
	if parentID == nil {
		return nil
	}
	if *parentID == self {
		return apperr.Validation("A category cannot be its own parent")
	}
	_, err := s.store.Repos().Categories.FindByID(ctx, *parentID)
	return notFoundOr(err, apperr.NotFound("Parent category not found"))
}

// resolveSlug derives a slug from the explicit value or the name and falls
// back to a sequence-numbered one when nothing usable remains.
func (s *CategoryService) resolveSlug(ctx context.Context, explicit, name string) (string, error) {
	slug := domain.Slugify(explicit)
	if slug == "" {
		slug = domain.Slugify(name)
	}
	if slug != "" {
		return slug, nil
	}
	n, err := s.store.Repos().Sequences.Next(ctx, domain.SeqCategories)
	if err != nil {
		return "", apperr.Internal("failed to allocate category slug", err)
	}
	return domain.FallbackSlug(n), nil
}

func validateCategory(in CategoryInput) error {
	if len(in.Name) > 50 {
		return apperr.Validation("Category name cannot be more than 50 characters")
	}
	if len(in.Description) > 500 {
		return apperr.Validation("Description cannot be more than 500 characters")
	}
	return nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CategoryInput, image *media.File) (*domain.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("Category name is required")
	}
	if err := validateCategory(in); err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, 0, in.ParentID); err != nil {
		return nil, err
	}

	slug, err := s.resolveSlug(ctx, in.Slug, in.Name)
	if err != nil {
		return nil, err
	}
	c := &domain.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		ParentID:    in.ParentID,
		IsActive:    in.IsActive,
	}

	if image != nil {
		img, err := s.media.Upload(ctx, *image, categoryImageFolder)
		if err != nil {
			return nil, uploadError(err)
		}
		c.Image = img
	}

	if err := s.store.Repos().Categories.Create(ctx, c); err != nil {
		s.discard(ctx, c.Image)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Category with this slug already exists")
		}
		return nil, apperr.Internal("Failed to create category", err)
	}
	s.invalidate(ctx)
	return s.GetCategory(ctx, c.ID)
}

// UpdateCategory keeps the current name and slug when the new ones are
// empty. A replacement image is uploaded first and the old one removed only
// after the row has been updated.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uint64, in CategoryInput, image *media.File) (*domain.Category, error) {
	if err := validateCategory(in); err != nil {
		return nil, err
	}
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, id, in.ParentID); err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		c.Name = name
	}
	if slug := domain.Slugify(in.Slug); slug != "" {
		c.Slug = slug
	}
	c.Description = strings.TrimSpace(in.Description)
	c.ParentID = in.ParentID
	c.Parent = nil
	c.IsActive = in.IsActive

	old := c.Image
	if image != nil {
		img, err := s.media.Upload(ctx, *image, categoryImageFolder)
		if err != nil {
			return nil, uploadError(err)
		}
		c.Image = img
	}

	if err := s.store.Repos().Categories.Update(ctx, c); err != nil {
		if image != nil {
			s.discard(ctx, c.Image)
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Category with this slug already exists")
		}
		return nil, notFoundOr(err, apperr.NotFound("Category not found"))
	}

	if image != nil {
		s.discard(ctx, old)
	}
	s.invalidate(ctx)
	return s.GetCategory(ctx, id)
}

// DeleteCategory refuses while any product references the category.
// Otherwise the image goes first, then the row.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint64) error {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	used, err := s.store.Repos().Categories.HasProducts(ctx, id)
	if err != nil {
		return apperr.Internal("Failed to delete category", err)
	}
	if used {
		return apperr.Dependency("Cannot delete category with associated products")
	}

	if c.Image.PublicID != "" {
		if err := s.media.Delete(ctx, c.Image.PublicID); err != nil {
			return apperr.Upstream("Failed to delete category image", err)
		}
	}

	if err := s.store.Repos().Categories.Delete(ctx, id); err != nil {
		return notFoundOr(err, apperr.NotFound("Category not found"))
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) discard(ctx context.Context, img domain.Image) {
	if img.PublicID == "" {
		return
	}
	if err := s.media.Delete(ctx, img.PublicID); err != nil {
		logger.For(ctx, s.log).Warn("failed to delete category image", zap.String("public_id", img.PublicID), zap.Error(err))
	}
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if err := s.cache.DelPrefix(ctx, categoryCachePrefix); err != nil {
		logger.For(ctx, s.log).Warn("failed to invalidate category cache", zap.Error(err))
	}
}
