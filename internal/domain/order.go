package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusCompleted  OrderStatus = "Completed"
	StatusCancelled  OrderStatus = "Cancelled"
	StatusOnHold     OrderStatus = "On Hold"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusCompleted, StatusCancelled, StatusOnHold:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

const DefaultPaymentMethod = "Cash on Delivery"

// StockEffect is what a status transition does to the stock of every line item.
type StockEffect int

const (
	EffectNone StockEffect = iota
	EffectRelease
	EffectConsume
)

// TransitionEffect: any transition is allowed; only entering or leaving
// Cancelled touches stock.
func TransitionEffect(from, to OrderStatus) StockEffect {
	switch {
	case from == to:
		return EffectNone
	case to == StatusCancelled:
		return EffectRelease
	case from == StatusCancelled:
		return EffectConsume
	default:
		return EffectNone
	}
}

type Customer struct {
	Name  string `json:"name" gorm:"size:120;not null"`
	Email string `json:"email" gorm:"size:255;not null"`
	Phone string `json:"phone,omitempty" gorm:"size:32"`
}

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city" gorm:"size:120"`
	State      string `json:"state" gorm:"size:120"`
	PostalCode string `json:"postalCode" gorm:"size:32"`
	Country    string `json:"country" gorm:"size:120"`
}

type OrderItem struct {
	ID        uint64          `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64          `json:"-" gorm:"not null;index"`
	ProductID uint64          `json:"product" gorm:"not null;index"`
	Name      string          `json:"name" gorm:"size:100"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID              uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber     string          `json:"orderNumber" gorm:"size:32;not null;uniqueIndex"`
	Customer        Customer        `json:"customer" gorm:"embedded;embeddedPrefix:customer_"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount     decimal.Decimal `json:"totalAmount" gorm:"type:decimal(14,2);not null"`
	Status          OrderStatus     `json:"status" gorm:"size:16;not null;index"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" gorm:"size:16;not null"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod   string          `json:"paymentMethod" gorm:"size:64;not null"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (o *Order) StockLines() []StockLine {
	lines := make([]StockLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, StockLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}

type OrderFilter struct {
	Status OrderStatus
	Search string
}

// StockLine is one product/quantity pair handed to the inventory reconciler.
type StockLine struct {
	ProductID uint64
	Quantity  int
}
