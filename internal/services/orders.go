package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"adminhub/internal/apperr"
	"adminhub/internal/domain"
	"adminhub/internal/infra/cache"
	rabbit "adminhub/internal/infra/rabbitmq"
	"adminhub/internal/logger"
	"adminhub/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderItemInput struct {
	ProductID uint64
	Quantity  int
}

type CreateOrderInput struct {
	Customer        domain.Customer
	Items           []OrderItemInput
	ShippingAddress *domain.ShippingAddress
	PaymentMethod   string
	Notes           string
}

type OrderService struct {
	store     repository.Store
	inventory InventoryReconciler
	publisher rabbit.PublisherInterface
	cache     *cache.Cache
	log       *zap.Logger
}

func NewOrderService(store repository.Store, pub rabbit.PublisherInterface, log *zap.Logger) *OrderService {
	return &OrderService{
		store:     store,
		publisher: pub,
		log:       log,
	}
}

func (u *OrderService) SetCache(c *cache.Cache) {
	u.cache = c
}

func validateOrderInput(in CreateOrderInput) error {
	if strings.TrimSpace(in.Customer.Name) == "" || strings.TrimSpace(in.Customer.Email) == "" {
		return apperr.Validation("Customer name and email are required")
	}
	if len(in.Items) == 0 {
		return apperr.Validation("Order must contain at least one item")
	}
	for _, it := range in.Items {
		if it.ProductID == 0 {
			return apperr.Validation("Every item needs a product")
		}
		if it.Quantity < 1 {
			return apperr.Validation("Quantity must be at least 1")
		}
	}
	return nil
}

// CreateOrder snapshots product names and prices, reserves stock and inserts
// the order in one unit of work: either all of it happens or none of it.
func (u *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	order := &domain.Order{
		Customer: domain.Customer{
			Name:  strings.TrimSpace(in.Customer.Name),
			Email: strings.ToLower(strings.TrimSpace(in.Customer.Email)),
			Phone: strings.TrimSpace(in.Customer.Phone),
		},
		Status:        domain.StatusProcessing,
		PaymentStatus: domain.PaymentPending,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = domain.DefaultPaymentMethod
	}
	if in.ShippingAddress != nil {
		order.ShippingAddress = *in.ShippingAddress
	}

	var touched []domain.Product
	err := u.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		total := decimal.Zero
		order.Items = make([]domain.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			p, err := r.Products.FindByID(ctx, it.ProductID)
			if err != nil {
				return notFoundOr(err, apperr.NotFound("Product with ID %d not found", it.ProductID))
			}
			item := domain.OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  it.Quantity,
			}
			order.Items = append(order.Items, item)
			total = total.Add(item.Subtotal())
		}
		order.TotalAmount = total

		var err error
		if touched, err = u.inventory.Reserve(ctx, r.Products, order.StockLines()); err != nil {
			return err
		}

		n, err := r.Sequences.Next(ctx, domain.SeqOrders)
		if err != nil {
			return apperr.Internal("failed to allocate order number", err)
		}
		order.OrderNumber = domain.OrderNumber(n)

		if err := r.Orders.Create(ctx, order); err != nil {
			return apperr.Internal("failed to save order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, u.log).Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)
	u.invalidateDashboard(ctx)
	publishAsync(ctx, u.log, u.publisher, domain.EventOrderCreated, domain.OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	})
	u.publishLowStock(ctx, touched)

	return order, nil
}

// UpdateOrderStatus applies a status and/or payment status change. Entering
// Cancelled releases the order's stock, leaving it consumes it again; the
// stock change and the order write commit together.
func (u *OrderService) UpdateOrderStatus(ctx context.Context, id uint64, status *domain.OrderStatus, payment *domain.PaymentStatus) (*domain.Order, error) {
	if status != nil && !status.Valid() {
		return nil, apperr.Validation("Invalid order status: %s", *status)
	}
	if payment != nil && !payment.Valid() {
		return nil, apperr.Validation("Invalid payment status: %s", *payment)
	}

	var (
		updated *domain.Order
		from    domain.OrderStatus
		touched []domain.Product
	)
	err := u.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		o, err := r.Orders.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, apperr.NotFound("Order not found"))
		}
		from = o.Status

		to := o.Status
		if status != nil {
			to = *status
		}
		pay := o.PaymentStatus
		if payment != nil {
			pay = *payment
		}

		if touched, err = u.inventory.Apply(ctx, r.Products, domain.TransitionEffect(from, to), o.StockLines()); err != nil {
			return err
		}

		if err := r.Orders.UpdateStatus(ctx, o.ID, to, pay); err != nil {
			return notFoundOr(err, apperr.NotFound("Order not found"))
		}
		o.Status = to
		o.PaymentStatus = pay
		o.UpdatedAt = time.Now()
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if from != updated.Status {
		logger.For(ctx, u.log).Info("order status changed",
			zap.String("order_number", updated.OrderNumber),
			zap.String("from", string(from)),
			zap.String("to", string(updated.Status)),
		)
		publishAsync(ctx, u.log, u.publisher, domain.EventOrderStatusChanged, domain.OrderStatusChangedEvent{
			OrderID:       updated.ID,
			OrderNumber:   updated.OrderNumber,
			From:          from,
			To:            updated.Status,
			PaymentStatus: updated.PaymentStatus,
			ChangedAt:     updated.UpdatedAt,
		})
		u.publishLowStock(ctx, touched)
	}
	u.invalidateDashboard(ctx)
	return updated, nil
}

func (u *OrderService) GetOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := u.store.Repos().Orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.NotFound("Order not found"))
	}
	return o, nil
}

func (u *OrderService) ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("Invalid order status: %s", f.Status)
	}
	orders, err := u.store.Repos().Orders.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal("failed to fetch orders", err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (u *OrderService) publishLowStock(ctx context.Context, products []domain.Product) {
	for _, p := range products {
		if p.Status == domain.StockInStock {
			continue
		}
		publishAsync(ctx, u.log, u.publisher, domain.EventLowStock, domain.LowStockEvent{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Stock:     p.Stock,
			Status:    p.Status,
		})
	}
}

func (u *OrderService) invalidateDashboard(ctx context.Context) {
	if err := u.cache.DelPrefix(ctx, dashboardCachePrefix); err != nil && !errors.Is(err, context.Canceled) {
		logger.For(ctx, u.log).Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
