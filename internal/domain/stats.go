package domain

import (
	"context"
	"time"
)

// DashboardStats is the admin KPI snapshot.
type DashboardStats struct {
	TotalOrders      int64   `json:"totalOrders"`
	PendingOrders    int64   `json:"pendingOrders"`
	TotalRevenue     float64 `json:"totalRevenue"` // paid orders only
	TotalCustomers   int64   `json:"totalCustomers"`
	LowStockVariants int64   `json:"lowStockVariants"`
}

type DailyRevenue struct {
	Day     time.Time `json:"day"`
	Orders  int64     `json:"orders"`
	Revenue float64   `json:"revenue"`
}

type StatsRepository interface {
	GetDashboard(ctx context.Context) (*DashboardStats, error)
	GetDailyRevenue(ctx context.Context, days int) ([]DailyRevenue, error)
}
