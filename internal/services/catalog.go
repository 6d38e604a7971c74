package services

import (
	"context"
	"errors"
	"strings"

	"adminhub/internal/apperr"
	"adminhub/internal/domain"
	"adminhub/internal/infra/cache"
	"adminhub/internal/infra/media"
	"adminhub/internal/logger"
	"adminhub/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	productImageFolder = "products"
	defaultPageLimit   = 10
	maxPageLimit       = 100
)

type ProductInput struct {
	Name        string
	SKU         string
	Description string
	Price       decimal.Decimal
	CategoryID  uint64
	Stock       int
}

type ProductPage struct {
	Products   []domain.Product  `json:"products"`
	Pagination domain.Pagination `json:"pagination"`
}

type CatalogService struct {
	store repository.Store
	media media.Store
	cache *cache.Cache
	log   *zap.Logger
}

func NewCatalogService(store repository.Store, m media.Store, log *zap.Logger) *CatalogService {
	return &CatalogService{store: store, media: m, log: log}
}

func (s *CatalogService) SetCache(c *cache.Cache) {
	s.cache = c
}

func (s *CatalogService) ListProducts(ctx context.Context, f domain.ProductFilter) (*ProductPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("Invalid stock status: %s", f.Status)
	}

	products, total, err := s.store.Repos().Products.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch products", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return &ProductPage{Products: products, Pagination: domain.NewPagination(total, f.Page, f.Limit)}, nil
}

func validateProduct(in ProductInput, requireSKU bool) error {
	if strings.TrimSpace(in.Name) == "" || in.CategoryID == 0 || (requireSKU && strings.TrimSpace(in.SKU) == "") {
		return apperr.Validation("Missing or invalid required fields")
	}
	if len(in.Name) > 100 {
		return apperr.Validation("Product name cannot be more than 100 characters")
	}
	if len(in.Description) > 1000 {
		return apperr.Validation("Description cannot be more than 1000 characters")
	}
	if in.Price.IsNegative() {
		return apperr.Validation("Price must be a positive number")
	}
	if in.Stock < 0 {
		return apperr.Validation("Stock cannot be negative")
	}
	return nil
}

func (s *CatalogService) ensureCategory(ctx context.Context, id uint64) error {
	_, err := s.store.Repos().Categories.FindByID(ctx, id)
	return notFoundOr(err, apperr.NotFound("Category not found"))
}

// CreateProduct uploads the optional image first; a failed upload aborts
// before anything is written.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput, image *media.File) (*domain.Product, error) {
	if err := validateProduct(in, true); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	p := &domain.Product{
		Name:        strings.TrimSpace(in.Name),
		SKU:         strings.TrimSpace(in.SKU),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		Images:      []domain.ProductImage{},
	}
	p.SetStock(in.Stock)

	if image != nil {
		img, err := s.media.Upload(ctx, *image, productImageFolder)
		if err != nil {
			return nil, uploadError(err)
		}
		p.Images = []domain.ProductImage{{Image: img}}
	}

	if err := s.store.Repos().Products.Create(ctx, p); err != nil {
		s.discardUpload(ctx, p.ImageRefs())
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Product with this SKU already exists")
		}
		return nil, apperr.Internal("Failed to create product", err)
	}

	s.invalidateDashboard(ctx)
	return s.GetProduct(ctx, p.ID)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := s.store.Repos().Products.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.NotFound("Product not found"))
	}
	return p, nil
}

// UpdateProduct edits everything except the SKU. A new image replaces the
// first one; the old object is removed from the media store only after the
// update has been persisted.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint64, in ProductInput, image *media.File) (*domain.Product, error) {
	if err := validateProduct(in, false); err != nil {
		return nil, err
	}

	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	var replaced *domain.Image
	if image != nil {
		img, err := s.media.Upload(ctx, *image, productImageFolder)
		if err != nil {
			return nil, uploadError(err)
		}
		if len(p.Images) > 0 {
			old := p.Images[0].Image
			replaced = &old
			p.Images[0] = domain.ProductImage{Image: img}
		} else {
			p.Images = []domain.ProductImage{{Image: img}}
		}
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Price = in.Price
	p.CategoryID = in.CategoryID
	p.SetStock(in.Stock)

	if err := s.store.Repos().Products.Update(ctx, p); err != nil {
		if image != nil {
			s.discardUpload(ctx, p.ImageRefs()[:1])
		}
		return nil, notFoundOr(err, apperr.NotFound("Product not found"))
	}

	if replaced != nil && replaced.PublicID != "" {
		if err := s.media.Delete(ctx, replaced.PublicID); err != nil {
			logger.For(ctx, s.log).Warn("failed to delete replaced product image",
				zap.Uint64("product_id", id), zap.String("public_id", replaced.PublicID), zap.Error(err))
		}
	}

	s.invalidateDashboard(ctx)
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes the product's media first; if any object cannot be
// removed the product is kept. Historical orders keep their own snapshot.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint64) error {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	for _, img := range p.ImageRefs() {
		if err := s.media.Delete(ctx, img.PublicID); err != nil {
			return apperr.Upstream("Failed to delete product image", err)
		}
	}

	if err := s.store.Repos().Products.Delete(ctx, id); err != nil {
		return notFoundOr(err, apperr.NotFound("Product not found"))
	}
	logger.For(ctx, s.log).Info("product deleted", zap.Uint64("product_id", id), zap.String("sku", p.SKU))
	s.invalidateDashboard(ctx)
	return nil
}

func (s *CatalogService) discardUpload(ctx context.Context, imgs []domain.Image) {
	for _, img := range imgs {
		if err := s.media.Delete(ctx, img.PublicID); err != nil {
			logger.For(ctx, s.log).Warn("failed to discard uploaded image", zap.String("public_id", img.PublicID), zap.Error(err))
		}
	}
}

func (s *CatalogService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.DelPrefix(ctx, dashboardCachePrefix); err != nil {
		logger.For(ctx, s.log).Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

func uploadError(err error) error {
	if errors.Is(err, media.ErrDisabled) {
		return apperr.Validation("Image uploads are not enabled")
	}
	return apperr.Upstream("Failed to upload image", err)
}
