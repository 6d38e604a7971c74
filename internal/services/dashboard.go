package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"adminhub/internal/apperr"
	"adminhub/internal/domain"
	"adminhub/internal/infra/cache"
	"adminhub/internal/logger"
	"adminhub/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardCachePrefix = "dashboard:"
	defaultDashboardTTL  = 30 * time.Second
)

type DashboardService struct {
	store    repository.Store
	cache    *cache.Cache
	cacheTTL time.Duration
	now      func() time.Time
	log      *zap.Logger
}

func NewDashboardService(store repository.Store, log *zap.Logger) *DashboardService {
	return &DashboardService{store: store, log: log, cacheTTL: defaultDashboardTTL, now: time.Now}
}

func (s *DashboardService) SetCache(c *cache.Cache, ttl time.Duration) {
	s.cache = c
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// GetDashboard aggregates the headline numbers for period. The independent
// queries run concurrently and the first failure cancels the rest.
func (s *DashboardService) GetDashboard(ctx context.Context, period domain.Period) (*domain.Dashboard, error) {
	if period == "" {
		period = domain.PeriodMonth
	}
	if !period.Valid() {
		return nil, apperr.Validation("Invalid period: %s", period)
	}

	key := dashboardCachePrefix + string(period)
	var cached domain.Dashboard
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		logger.For(ctx, s.log).Warn("dashboard cache read failed", zap.Error(err))
	} else if found {
		return &cached, nil
	}

	current, previous := period.Ranges(s.now().UTC())
	repos := s.store.Repos()

	var (
		products     int64
		staff        int64
		cur, prev    domain.PeriodTotals
		orders       []domain.Order
		transactions []domain.Transaction
		top          []domain.TopProduct
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = repos.Products.Count(gctx)
		return wrapQuery("count products", err)
	})
	g.Go(func() (err error) {
		cur, err = repos.Orders.Totals(gctx, current)
		return wrapQuery("current totals", err)
	})
	g.Go(func() (err error) {
		prev, err = repos.Orders.Totals(gctx, previous)
		return wrapQuery("previous totals", err)
	})
	g.Go(func() (err error) {
		staff, err = repos.Users.CountByRole(gctx, domain.RoleEmployee)
		return wrapQuery("count staff", err)
	})
	g.Go(func() (err error) {
		orders, err = repos.Orders.Recent(gctx, domain.DashboardRecentLimit)
		return wrapQuery("recent orders", err)
	})
	g.Go(func() (err error) {
		transactions, err = repos.Transactions.Recent(gctx, domain.DashboardRecentLimit)
		return wrapQuery("recent transactions", err)
	})
	g.Go(func() (err error) {
		top, err = repos.Orders.TopProducts(gctx, domain.DashboardTopLimit)
		return wrapQuery("top products", err)
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal("Failed to fetch dashboard data", err)
	}

	if top == nil {
		top = []domain.TopProduct{}
	}
	out := &domain.Dashboard{
		TotalRevenue:     cur.Revenue,
		TotalOrders:      cur.Orders,
		TotalProducts:    products,
		TotalStaff:       staff,
		RevenueGrowth:    domain.Growth(cur.Revenue.InexactFloat64(), prev.Revenue.InexactFloat64()),
		OrdersGrowth:     domain.Growth(float64(cur.Orders), float64(prev.Orders)),
		RecentActivities: recentActivities(orders, transactions, domain.DashboardRecentLimit),
		TopProducts:      top,
	}

	if err := s.cache.Set(ctx, key, out, s.cacheTTL); err != nil {
		logger.For(ctx, s.log).Warn("dashboard cache write failed", zap.Error(err))
	}
	return out, nil
}

func wrapQuery(name string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// recentActivities merges orders and ledger entries newest first.
func recentActivities(orders []domain.Order, txs []domain.Transaction, limit int) []domain.Activity {
	out := make([]domain.Activity, 0, len(orders)+len(txs))
	for _, o := range orders {
		out = append(out, domain.Activity{
			ID:          fmt.Sprintf("order-%d", o.ID),
			Title:       "New order received",
			Description: fmt.Sprintf("Order %s from %s", o.OrderNumber, o.Customer.Name),
			Timestamp:   o.CreatedAt,
			Type:        "order",
		})
	}
	for _, t := range txs {
		title := "Payment made"
		if t.Type == domain.TxCredit {
			title = "Payment received"
		}
		out = append(out, domain.Activity{
			ID:          fmt.Sprintf("transaction-%d", t.ID),
			Title:       title,
			Description: t.Description,
			Timestamp:   t.CreatedAt,
			Type:        "payment",
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
