package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return true
	}
	return false
}

// TimeRange is half-open: From is included, To is not, so adjacent
// windows never share an instant.
type TimeRange struct {
	From time.Time
	To   time.Time
}

func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// Ranges returns the reporting window ending at now and the window of the
// same length immediately before it. The current window runs one
// nanosecond past now so that a record stamped exactly now is counted.
func (p Period) Ranges(now time.Time) (current, previous TimeRange) {
	shift := func(t time.Time) time.Time {
		switch p {
		case PeriodWeek:
			return t.AddDate(0, 0, -7)
		case PeriodQuarter:
			return t.AddDate(0, -3, 0)
		case PeriodYear:
			return t.AddDate(-1, 0, 0)
		default:
			return t.AddDate(0, -1, 0)
		}
	}
	start := shift(now)
	return TimeRange{From: start, To: now.Add(time.Nanosecond)}, TimeRange{From: shift(start), To: start}
}

// Growth is the percentage change from previous to current rounded to one
// decimal; growth from nothing is reported as 100.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		return 100
	}
	return math.Round((current-previous)/previous*1000) / 10
}

type Activity struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Type        string    `json:"type"`
}

type TopProduct struct {
	ID       uint64          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Sales    int64           `json:"sales"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type PeriodTotals struct {
	Orders  int64
	Revenue decimal.Decimal
}

type Dashboard struct {
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalOrders      int64           `json:"totalOrders"`
	TotalProducts    int64           `json:"totalProducts"`
	TotalStaff       int64           `json:"totalStaff"`
	RevenueGrowth    float64         `json:"revenueGrowth"`
	OrdersGrowth     float64         `json:"ordersGrowth"`
	RecentActivities []Activity      `json:"recentActivities"`
	TopProducts      []TopProduct    `json:"topProducts"`
}

const (
	DashboardRecentLimit = 5
	DashboardTopLimit    = 5
)
