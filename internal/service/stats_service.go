package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
)

const (
	statsRecentOrders = 5
	statsMonths       = 6
	statsTopProducts  = 5
)

type StatsService struct {
	statsRepo StatsRepository
	orderRepo OrderRepository
	now       func() time.Time
}

func NewStatsService(u uow.UOW) (*StatsService, error) {
	statsRepo, statsRepoErr := uow.GetRepositoryAs[StatsRepository](u, uow.RepositoryName(repoargs.StatsRepoName))
	if statsRepoErr != nil {
		return nil, statsRepoErr //nolint:wrapcheck
	}
	orderRepo, orderRepoErr := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if orderRepoErr != nil {
		return nil, orderRepoErr //nolint:wrapcheck
	}
	return &StatsService{statsRepo: statsRepo, orderRepo: orderRepo, now: time.Now}, nil
}

// Admin собирает сводку для админской панели: итоги, последние заказы, продажи за последние
// месяцы и самые продаваемые продукты.
func (s *StatsService) Admin(ctx context.Context) (*domain.AdminStats, error) {
	now := s.now()
	stats, totalsErr := s.statsRepo.Totals(ctx, now)
	if totalsErr != nil {
		return nil, fmt.Errorf("admin stats: %w", totalsErr)
	}

	recent, _, recentErr := s.orderRepo.List(ctx, repoargs.OrderFilter{Page: repoargs.Page{Limit: statsRecentOrders}})
	if recentErr != nil {
		return nil, fmt.Errorf("admin stats: %w", recentErr)
	}
	stats.RecentOrders = recent

	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(statsMonths - 1), 0)
	sales, salesErr := s.statsRepo.SalesByMonth(ctx, since)
	if salesErr != nil {
		return nil, fmt.Errorf("admin stats: %w", salesErr)
	}
	stats.SalesByMonth = sales

	top, topErr := s.statsRepo.TopProducts(ctx, statsTopProducts)
	if topErr != nil {
		return nil, fmt.Errorf("admin stats: %w", topErr)
	}
	stats.TopProducts = top
	return stats, nil
}
