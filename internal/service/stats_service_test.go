package service

import (
	"testing"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StatsServiceTestSuite struct {
	serviceSuite
	statsService *StatsService
}

func TestStatsServiceSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceTestSuite))
}

func (s *StatsServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	statsService, err := NewStatsService(s.mockUOW)
	s.Require().NoError(err)
	s.statsService = statsService
}

func (s *StatsServiceTestSuite) TestAdmin() {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	s.statsService.now = func() time.Time { return now }

	s.mockStatsRepo.EXPECT().Totals(gomock.Any(), now).
		Return(&domain.AdminStats{TotalUsers: 4, TotalSales: decimal.NewFromInt(120)}, nil)
	s.mockOrderRepo.EXPECT().List(gomock.Any(), repoargs.OrderFilter{Page: repoargs.Page{Limit: 5}}).
		Return([]domain.Order{{ID: 1}}, int64(1), nil)
	s.mockStatsRepo.EXPECT().SalesByMonth(gomock.Any(), time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)).
		Return([]domain.MonthlySales{{Month: "2025-03", Total: decimal.NewFromInt(120)}}, nil)
	s.mockStatsRepo.EXPECT().TopProducts(gomock.Any(), 5).Return([]domain.TopProduct{{ID: 1, Sold: 3}}, nil)

	stats, err := s.statsService.Admin(s.T().Context())
	s.Require().NoError(err)
	s.Equal(int64(4), stats.TotalUsers)
	s.Len(stats.RecentOrders, 1)
	s.Len(stats.SalesByMonth, 1)
	s.Len(stats.TopProducts, 1)
}
