package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lushlocks-backend/internal/domain"
)

type statsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) domain.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetDashboard(ctx context.Context) (*domain.DashboardStats, error) {
	q := querierFrom(ctx, r.db)
	var s domain.DashboardStats
	err := q.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM orders),
			(SELECT count(*) FROM orders WHERE status = $1),
			(SELECT COALESCE(sum(total), 0) FROM orders WHERE payment_status = $2),
			(SELECT count(*) FROM users WHERE role = 'customer'),
			(SELECT count(*) FROM product_variants WHERE is_active AND stock <= 5)`,
		domain.OrderStatusPending, domain.OrderPaymentPaid,
	).Scan(&s.TotalOrders, &s.PendingOrders, &s.TotalRevenue, &s.TotalCustomers, &s.LowStockVariants)
	if err != nil {
		return nil, storageErr("dashboard stats", err)
	}
	return &s, nil
}

func (r *statsRepository) GetDailyRevenue(ctx context.Context, days int) ([]domain.DailyRevenue, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT date_trunc('day', paid_at) AS day, count(*), COALESCE(sum(total), 0)
		FROM orders
		WHERE payment_status = $1 AND paid_at >= now() - ($2 || ' days')::interval
		GROUP BY day
		ORDER BY day`,
		domain.OrderPaymentPaid, days)
	if err != nil {
		return nil, storageErr("daily revenue", err)
	}
	defer rows.Close()

	var out []domain.DailyRevenue
	for rows.Next() {
		var d domain.DailyRevenue
		if err := rows.Scan(&d.Day, &d.Orders, &d.Revenue); err != nil {
			return nil, storageErr("scan daily revenue", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
