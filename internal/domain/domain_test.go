package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStockStatusFor(t *testing.T) {
	tests := []struct {
		stock    int
		expected StockStatus
	}{
		{-3, StockOutOfStock},
		{0, StockOutOfStock},
		{1, StockLowStock},
		{10, StockLowStock},
		{11, StockInStock},
		{500, StockInStock},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, StockStatusFor(tt.stock), "stock=%d", tt.stock)
	}
}

func TestProduct_SetStockKeepsStatusInLockstep(t *testing.T) {
	p := &Product{Status: StockInStock}
	p.SetStock(0)
	assert.Equal(t, StockOutOfStock, p.Status)
	p.SetStock(10)
	assert.Equal(t, StockLowStock, p.Status)
	p.SetStock(11)
	assert.Equal(t, StockInStock, p.Status)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Men's Shoes & Accessories!", "men-s-shoes-accessories"},
		{"Electronics", "electronics"},
		{"  --Home   & Garden--  ", "home-garden"},
		{"Über Café 2024", "ber-caf-2024"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.name))
		})
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	assert.Equal(t, Slugify("Kids / Toys"), Slugify("Kids / Toys"))
}

func TestTransitionEffect(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		expected StockEffect
	}{
		{StatusProcessing, StatusCancelled, EffectRelease},
		{StatusCompleted, StatusCancelled, EffectRelease},
		{StatusOnHold, StatusCancelled, EffectRelease},
		{StatusCancelled, StatusProcessing, EffectConsume},
		{StatusCancelled, StatusCompleted, EffectConsume},
		{StatusCancelled, StatusOnHold, EffectConsume},
		{StatusCancelled, StatusCancelled, EffectNone},
		{StatusCompleted, StatusCompleted, EffectNone},
		{StatusProcessing, StatusCompleted, EffectNone},
		{StatusOnHold, StatusProcessing, EffectNone},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expected, TransitionEffect(tt.from, tt.to))
		})
	}
}

func TestFormatSequence(t *testing.T) {
	assert.Equal(t, "#ORD-12345", OrderNumber(0))
	assert.Equal(t, "#ORD-12346", OrderNumber(1))
	assert.Equal(t, "TXN-12345", TransactionID(0))
	assert.Equal(t, "category-12350", FallbackSlug(5))
	assert.Equal(t, "#ORD-100000", OrderNumber(100000-SequenceOffset))
}

func TestOrder_StockLinesAndSubtotal(t *testing.T) {
	o := &Order{Items: []OrderItem{
		{ProductID: 1, Price: decimal.RequireFromString("2.50"), Quantity: 4},
		{ProductID: 2, Price: decimal.RequireFromString("10"), Quantity: 1},
	}}

	assert.Equal(t, []StockLine{{ProductID: 1, Quantity: 4}, {ProductID: 2, Quantity: 1}}, o.StockLines())
	assert.True(t, decimal.RequireFromString("10").Equal(o.Items[0].Subtotal()))
}

func TestGrowth(t *testing.T) {
	assert.Equal(t, 100.0, Growth(42, 0))
	assert.Equal(t, 50.0, Growth(150, 100))
	assert.Equal(t, -33.3, Growth(2, 3))
	assert.Equal(t, 0.0, Growth(7, 7))
}

func TestPeriodRanges(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	cur, prev := PeriodWeek.Ranges(now)
	assert.Equal(t, now.AddDate(0, 0, -7), cur.From)
	assert.Equal(t, now.AddDate(0, 0, -14), prev.From)
	assert.Equal(t, cur.From, prev.To)

	cur, _ = PeriodYear.Ranges(now)
	assert.Equal(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), cur.From)
}

func TestPeriodRanges_BoundaryBelongsToOneWindow(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	cur, prev := PeriodMonth.Ranges(now)
	boundary := now.AddDate(0, -1, 0)

	tests := []struct {
		name        string
		at          time.Time
		wantCurrent bool
		wantPrev    bool
	}{
		{name: "exactly at the boundary", at: boundary, wantCurrent: true, wantPrev: false},
		{name: "just before the boundary", at: boundary.Add(-time.Nanosecond), wantCurrent: false, wantPrev: true},
		{name: "exactly now", at: now, wantCurrent: true, wantPrev: false},
		{name: "after now", at: now.Add(time.Second), wantCurrent: false, wantPrev: false},
		{name: "start of previous window", at: prev.From, wantCurrent: false, wantPrev: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCurrent, cur.Contains(tt.at))
			assert.Equal(t, tt.wantPrev, prev.Contains(tt.at))
		})
	}
}

func TestSettingsApply(t *testing.T) {
	s := DefaultSettings()
	name := "Corner Shop"
	off := false
	s.Apply(SettingsPatch{
		StoreName:            &name,
		NotificationSettings: &NotificationSettingsPatch{Push: &off},
	})

	assert.Equal(t, "Corner Shop", s.StoreName)
	assert.Equal(t, "USD", s.Currency)
	assert.True(t, s.NotificationSettings.Email)
	assert.False(t, s.NotificationSettings.Push)
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Total: 21, Page: 2, Limit: 10, Pages: 3}, NewPagination(21, 2, 10))
	assert.Equal(t, int64(0), NewPagination(0, 1, 10).Pages)
	assert.Equal(t, 10, ProductFilter{Page: 2, Limit: 10}.Offset())
}
