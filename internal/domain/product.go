package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type StockStatus string

const (
	StockInStock    StockStatus = "In Stock"
	StockLowStock   StockStatus = "Low Stock"
	StockOutOfStock StockStatus = "Out of Stock"
)

// LowStockThreshold is the inclusive upper bound of the Low Stock band.
const LowStockThreshold = 10

// StockStatusFor is the only place a product status is derived from.
func StockStatusFor(stock int) StockStatus {
	switch {
	case stock <= 0:
		return StockOutOfStock
	case stock <= LowStockThreshold:
		return StockLowStock
	default:
		return StockInStock
	}
}

func (s StockStatus) Valid() bool {
	switch s {
	case StockInStock, StockLowStock, StockOutOfStock:
		return true
	}
	return false
}

// Image is a media-store object reference.
type Image struct {
	URL      string `json:"url" gorm:"size:512"`
	PublicID string `json:"publicId" gorm:"size:255"`
}

func (i Image) IsZero() bool {
	return i.URL == "" && i.PublicID == ""
}

type ProductImage struct {
	ID        uint64 `json:"-" gorm:"primaryKey;autoIncrement"`
	ProductID uint64 `json:"-" gorm:"not null;index"`
	Position  int    `json:"-" gorm:"not null"`
	Image     `gorm:"embedded"`
}

type Product struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"size:100;not null"`
	SKU         string          `json:"sku" gorm:"size:64;not null;uniqueIndex"`
	Description string          `json:"description" gorm:"size:1000"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	CategoryID  uint64          `json:"categoryId" gorm:"not null;index"`
	Category    *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Stock       int             `json:"stock" gorm:"not null"`
	Status      StockStatus     `json:"status" gorm:"size:16;not null;index"`
	Images      []ProductImage  `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// SetStock keeps Status in lockstep with Stock.
func (p *Product) SetStock(stock int) {
	p.Stock = stock
	p.Status = StockStatusFor(stock)
}

func (p *Product) ImageRefs() []Image {
	out := make([]Image, 0, len(p.Images))
	for _, img := range p.Images {
		out = append(out, img.Image)
	}
	return out
}

// ProductFilter drives product listing. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID uint64
	Status     StockStatus
	Search     string
	Page       int
	Limit      int
}

func (f ProductFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

func NewPagination(total int64, page, limit int) Pagination {
	p := Pagination{Total: total, Page: page, Limit: limit}
	if limit > 0 {
		p.Pages = (total + int64(limit) - 1) / int64(limit)
	}
	return p
}
