package memory

import (
	"context"
	"sort"
	"time"

	"adminhub/internal/domain"
	"adminhub/internal/repository"

	"github.com/shopspring/decimal"
)

type orderRepo struct {
	a   access
	now func() time.Time
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o
}

func (r *orderRepo) Create(_ context.Context, o *domain.Order) error {
	return r.a(func(st *state) error {
		for _, existing := range st.orders {
			if existing.OrderNumber == o.OrderNumber {
				return repository.ErrDuplicate
			}
		}
		o.ID = st.nextID("orders")
		stamp(&o.CreatedAt, &o.UpdatedAt, r.now())
		for i := range o.Items {
			o.Items[i].ID = st.nextID("order_items")
			o.Items[i].OrderID = o.ID
		}
		st.orders[o.ID] = cloneOrder(*o)
		return nil
	})
}

func (r *orderRepo) UpdateStatus(_ context.Context, id uint64, status domain.OrderStatus, payment domain.PaymentStatus) error {
	return r.a(func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return repository.ErrNotFound
		}
		o = cloneOrder(o)
		o.Status = status
		o.PaymentStatus = payment
		o.UpdatedAt = r.now()
		st.orders[id] = o
		return nil
	})
}

func (r *orderRepo) FindByID(_ context.Context, id uint64) (*domain.Order, error) {
	var out domain.Order
	err := r.a(func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = cloneOrder(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *orderRepo) List(_ context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	err := r.a(func(st *state) error {
		for _, o := range st.orders {
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.Search != "" && !contains(o.OrderNumber, f.Search) && !contains(o.Customer.Name, f.Search) && !contains(o.Customer.Email, f.Search) {
				continue
			}
			out = append(out, cloneOrder(o))
		}
		newestFirst(out, func(o domain.Order) time.Time { return o.CreatedAt }, func(o domain.Order) uint64 { return o.ID })
		return nil
	})
	return out, err
}

func (r *orderRepo) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	all, err := r.List(ctx, domain.OrderFilter{})
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *orderRepo) Totals(_ context.Context, tr domain.TimeRange) (domain.PeriodTotals, error) {
	out := domain.PeriodTotals{Revenue: decimal.Zero}
	err := r.a(func(st *state) error {
		for _, o := range st.orders {
			if !tr.Contains(o.CreatedAt) {
				continue
			}
			out.Orders++
			out.Revenue = out.Revenue.Add(o.TotalAmount)
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) TopProducts(_ context.Context, limit int) ([]domain.TopProduct, error) {
	var out []domain.TopProduct
	err := r.a(func(st *state) error {
		byProduct := map[uint64]*domain.TopProduct{}
		for _, o := range st.orders {
			for _, it := range o.Items {
				tp, ok := byProduct[it.ProductID]
				if !ok {
					tp = &domain.TopProduct{ID: it.ProductID, Name: it.Name, Category: "Uncategorized", Revenue: decimal.Zero}
					if p, ok := st.products[it.ProductID]; ok {
						if c, ok := st.categories[p.CategoryID]; ok {
							tp.Category = c.Name
						}
					}
					byProduct[it.ProductID] = tp
				}
				tp.Sales += int64(it.Quantity)
				tp.Revenue = tp.Revenue.Add(it.Subtotal())
			}
		}
		for _, tp := range byProduct {
			out = append(out, *tp)
		}
		sort.Slice(out, func(i, j int) bool {
			if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
				return c > 0
			}
			return out[i].ID < out[j].ID
		})
		if len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

type transactionRepo struct {
	a   access
	now func() time.Time
}

func (r *transactionRepo) Create(_ context.Context, t *domain.Transaction) error {
	return r.a(func(st *state) error {
		for _, existing := range st.transactions {
			if existing.TransactionID == t.TransactionID {
				return repository.ErrDuplicate
			}
		}
		t.ID = st.nextID("transactions")
		stamp(&t.CreatedAt, &t.UpdatedAt, r.now())
		st.transactions[t.ID] = *t
		return nil
	})
}

func (r *transactionRepo) List(_ context.Context, f domain.TransactionFilter) ([]domain.Transaction, error) {
	var out []domain.Transaction
	err := r.a(func(st *state) error {
		for _, t := range st.transactions {
			if f.Type != "" && t.Type != f.Type {
				continue
			}
			if f.Status != "" && t.Status != f.Status {
				continue
			}
			if f.Search != "" && !contains(t.TransactionID, f.Search) && !contains(t.Description, f.Search) && !contains(t.Account, f.Search) {
				continue
			}
			out = append(out, t)
		}
		newestFirst(out, func(t domain.Transaction) time.Time { return t.CreatedAt }, func(t domain.Transaction) uint64 { return t.ID })
		return nil
	})
	return out, err
}

func (r *transactionRepo) Recent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	all, err := r.List(ctx, domain.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type sequenceRepo struct {
	a access
}

func (r *sequenceRepo) Next(_ context.Context, scope string) (int64, error) {
	var n int64
	err := r.a(func(st *state) error {
		v, ok := st.sequences[scope]
		if ok {
			v++
		}
		st.sequences[scope] = v
		n = v
		return nil
	})
	return n, err
}
