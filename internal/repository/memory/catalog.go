package memory

import (
	"context"
	"time"

	"adminhub/internal/domain"
	"adminhub/internal/repository"
)

type productRepo struct {
	a   access
	now func() time.Time
}

func cloneProduct(p domain.Product) domain.Product {
	p.Images = append(make([]domain.ProductImage, 0, len(p.Images)), p.Images...)
	p.Category = nil
	return p
}

func (st *state) skuTaken(sku string, except uint64) bool {
	for id, p := range st.products {
		if id != except && p.SKU == sku {
			return true
		}
	}
	return false
}

// hydrate attaches the category the way a preload would.
func (st *state) hydrate(p domain.Product) domain.Product {
	out := cloneProduct(p)
	if c, ok := st.categories[p.CategoryID]; ok {
		out.Category = &c
	}
	return out
}

func (r *productRepo) Create(_ context.Context, p *domain.Product) error {
	return r.a(func(st *state) error {
		if st.skuTaken(p.SKU, 0) {
			return repository.ErrDuplicate
		}
		p.ID = st.nextID("products")
		p.Status = domain.StockStatusFor(p.Stock)
		stamp(&p.CreatedAt, &p.UpdatedAt, r.now())
		for i := range p.Images {
			p.Images[i].ID = st.nextID("product_images")
			p.Images[i].ProductID = p.ID
			p.Images[i].Position = i
		}
		st.products[p.ID] = cloneProduct(*p)
		return nil
	})
}

func (r *productRepo) Update(_ context.Context, p *domain.Product) error {
	return r.a(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if st.skuTaken(p.SKU, p.ID) {
			return repository.ErrDuplicate
		}
		p.Status = domain.StockStatusFor(p.Stock)
		p.SKU = cur.SKU
		p.CreatedAt = cur.CreatedAt
		p.UpdatedAt = r.now()
		for i := range p.Images {
			p.Images[i].ID = st.nextID("product_images")
			p.Images[i].ProductID = p.ID
			p.Images[i].Position = i
		}
		st.products[p.ID] = cloneProduct(*p)
		return nil
	})
}

func (r *productRepo) Delete(_ context.Context, id uint64) error {
	return r.a(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.products, id)
		return nil
	})
}

func (r *productRepo) FindByID(_ context.Context, id uint64) (*domain.Product, error) {
	var out domain.Product
	err := r.a(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = st.hydrate(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *productRepo) List(_ context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	var page []domain.Product
	var total int64
	err := r.a(func(st *state) error {
		var all []domain.Product
		for _, p := range st.products {
			if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
				continue
			}
			if f.Status != "" && p.Status != f.Status {
				continue
			}
			if f.Search != "" && !contains(p.Name, f.Search) && !contains(p.SKU, f.Search) && !contains(p.Description, f.Search) {
				continue
			}
			all = append(all, st.hydrate(p))
		}
		newestFirst(all, func(p domain.Product) time.Time { return p.CreatedAt }, func(p domain.Product) uint64 { return p.ID })

		total = int64(len(all))
		start := min(f.Offset(), len(all))
		end := len(all)
		if f.Limit > 0 {
			end = min(start+f.Limit, len(all))
		}
		page = all[start:end]
		return nil
	})
	return page, total, err
}

func (r *productRepo) Count(_ context.Context) (int64, error) {
	var n int64
	err := r.a(func(st *state) error {
		n = int64(len(st.products))
		return nil
	})
	return n, err
}

func (r *productRepo) AdjustStock(_ context.Context, id uint64, delta int) (*domain.Product, error) {
	var out domain.Product
	err := r.a(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return repository.ErrNotFound
		}
		if p.Stock+delta < 0 {
			return repository.ErrInsufficientStock
		}
		p.SetStock(p.Stock + delta)
		p.UpdatedAt = r.now()
		st.products[id] = p
		out = cloneProduct(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type categoryRepo struct {
	a   access
	now func() time.Time
}

func (st *state) slugTaken(slug string, except uint64) bool {
	for id, c := range st.categories {
		if id != except && c.Slug == slug {
			return true
		}
	}
	return false
}

func (st *state) withParent(c domain.Category) domain.Category {
	c.Parent = nil
	if c.ParentID != nil {
		if parent, ok := st.categories[*c.ParentID]; ok {
			parent.Parent = nil
			c.Parent = &parent
		}
	}
	return c
}

func (r *categoryRepo) Create(_ context.Context, c *domain.Category) error {
	return r.a(func(st *state) error {
		if st.slugTaken(c.Slug, 0) {
			return repository.ErrDuplicate
		}
		c.ID = st.nextID("categories")
		stamp(&c.CreatedAt, &c.UpdatedAt, r.now())
		stored := *c
		stored.Parent = nil
		st.categories[c.ID] = stored
		return nil
	})
}

func (r *categoryRepo) Update(_ context.Context, c *domain.Category) error {
	return r.a(func(st *state) error {
		cur, ok := st.categories[c.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if st.slugTaken(c.Slug, c.ID) {
			return repository.ErrDuplicate
		}
		c.CreatedAt = cur.CreatedAt
		c.UpdatedAt = r.now()
		stored := *c
		stored.Parent = nil
		st.categories[c.ID] = stored
		return nil
	})
}

func (r *categoryRepo) Delete(_ context.Context, id uint64) error {
	return r.a(func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.categories, id)
		return nil
	})
}

func (r *categoryRepo) FindByID(_ context.Context, id uint64) (*domain.Category, error) {
	var out domain.Category
	err := r.a(func(st *state) error {
		c, ok := st.categories[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = st.withParent(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *categoryRepo) List(_ context.Context, f domain.CategoryFilter) ([]domain.Category, error) {
	var out []domain.Category
	err := r.a(func(st *state) error {
		for _, c := range st.categories {
			if f.Search != "" && !contains(c.Name, f.Search) && !contains(c.Description, f.Search) {
				continue
			}
			if f.TopLevel && c.ParentID != nil {
				continue
			}
			if !f.TopLevel && f.ParentID != nil && (c.ParentID == nil || *c.ParentID != *f.ParentID) {
				continue
			}
			if f.IsActive != nil && c.IsActive != *f.IsActive {
				continue
			}
			out = append(out, st.withParent(c))
		}
		newestFirst(out, func(c domain.Category) time.Time { return c.CreatedAt }, func(c domain.Category) uint64 { return c.ID })
		return nil
	})
	return out, err
}

func (r *categoryRepo) HasProducts(_ context.Context, id uint64) (bool, error) {
	found := false
	err := r.a(func(st *state) error {
		for _, p := range st.products {
			if p.CategoryID == id {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}
