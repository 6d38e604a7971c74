package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventLowStock           = "inventory.low_stock"
)

type OrderCreatedEvent struct {
	OrderID     uint64          `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID       uint64        `json:"orderId"`
	OrderNumber   string        `json:"orderNumber"`
	From          OrderStatus   `json:"from"`
	To            OrderStatus   `json:"to"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	ChangedAt     time.Time     `json:"changedAt"`
}

type LowStockEvent struct {
	ProductID uint64      `json:"productId"`
	SKU       string      `json:"sku"`
	Name      string      `json:"name"`
	Stock     int         `json:"stock"`
	Status    StockStatus `json:"status"`
}
