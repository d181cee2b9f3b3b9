package usecase

import (
	"context"

	"lushlocks-backend/internal/domain"
)

// StatsUsecase serves the admin dashboard KPIs.
type StatsUsecase struct {
	statsRepo domain.StatsRepository
}

func NewStatsUsecase(statsRepo domain.StatsRepository) *StatsUsecase {
	return &StatsUsecase{statsRepo: statsRepo}
}

func (uc *StatsUsecase) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	return uc.statsRepo.GetDashboard(ctx)
}

func (uc *StatsUsecase) DailyRevenue(ctx context.Context, days int) ([]domain.DailyRevenue, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	return uc.statsRepo.GetDailyRevenue(ctx, days)
}
