package api

import (
	"net/http"
	"testing"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AffiliatesHandlerTestSuite struct {
	handlerSuite
}

func TestAffiliatesHandlerSuite(t *testing.T) {
	suite.Run(t, new(AffiliatesHandlerTestSuite))
}

func testAffiliate(status domain.UserStatusType) *domain.User {
	code := "AFF001"
	return &domain.User{
		ID:                 affiliateID,
		Name:               "Afiliado",
		Email:              "aff@luffy.pe",
		Role:               domain.RoleAffiliate,
		Status:             status,
		ReferralCode:       &code,
		TotalCommissions:   decimal.RequireFromString("4.50"),
		PendingCommissions: decimal.RequireFromString("1.50"),
	}
}

func (s *AffiliatesHandlerTestSuite) TestIndex() {
	s.mockAffiliateService.EXPECT().
		List(gomock.Any(), match(func(f repoargs.UserFilter) bool {
			return f.Status != nil && *f.Status == domain.UserStatusPending
		})).
		Return([]domain.AffiliateSummary{{User: *testAffiliate(domain.UserStatusPending), ReferralCount: 3}}, int64(1), nil)

	status, body := s.send(http.MethodGet, AffiliatesRoute+"?status=PENDING", nil, s.adminToken)
	s.Require().Equal(http.StatusOK, status)
	affiliates, ok := body["affiliates"].([]any)
	s.Require().True(ok)
	s.Require().Len(affiliates, 1)
	s.InDelta(3, affiliates[0].(map[string]any)["referralCount"], 0)
}

func (s *AffiliatesHandlerTestSuite) TestShow() {
	s.mockAffiliateService.EXPECT().
		Details(gomock.Any(), affiliateID, gomock.Any()).
		Return(&service.AffiliateDetails{
			User:      testAffiliate(domain.UserStatusActive),
			Referrals: []domain.User{{ID: 30, Name: "Referido"}},
			Commissions: []domain.Commission{{
				ID: 1, AffiliateID: affiliateID, OrderID: 7, OrderNumber: "LFS-2025-0007",
				Amount: decimal.RequireFromString("1.50"), Status: domain.CommissionStatusPending,
			}},
		}, nil)

	status, body := s.send(http.MethodGet, "/affiliates/20", nil, s.adminToken)
	s.Require().Equal(http.StatusOK, status)
	affiliate, ok := body["affiliate"].(map[string]any)
	s.Require().True(ok)
	s.Equal("AFF001", affiliate["referralCode"])
	commissions, ok := affiliate["commissions"].([]any)
	s.Require().True(ok)
	s.Equal("LFS-2025-0007", commissions[0].(map[string]any)["orderNumber"])
}

func (s *AffiliatesHandlerTestSuite) TestDashboard() {
	s.mockAffiliateService.EXPECT().
		Dashboard(gomock.Any(), actorWith(affiliateID, domain.RoleAffiliate), gomock.Any()).
		Return(&service.AffiliateDetails{User: testAffiliate(domain.UserStatusActive)}, nil)

	status, _ := s.send(http.MethodGet, AffiliateMeRoute, nil, s.affiliateToken)
	s.Equal(http.StatusOK, status)

	status, _ = s.send(http.MethodGet, AffiliateMeRoute, nil, s.userToken)
	s.Equal(http.StatusForbidden, status)
}

func (s *AffiliatesHandlerTestSuite) TestApprove() {
	s.mockAffiliateService.EXPECT().
		Approve(gomock.Any(), gomock.Any(), affiliateID).
		Return(testAffiliate(domain.UserStatusActive), nil)
	s.mockAffiliateService.EXPECT().
		Approve(gomock.Any(), gomock.Any(), int64(21)).
		Return(nil, domain.NewInvalidStatusError("affiliate", "ACTIVE", "PENDING"))

	status, _ := s.send(http.MethodPut, "/affiliates/approve/20", nil, s.adminToken)
	s.Equal(http.StatusOK, status)

	status, _ = s.send(http.MethodPut, "/affiliates/approve/21", nil, s.adminToken)
	s.Equal(http.StatusConflict, status)
}

func (s *AffiliatesHandlerTestSuite) TestUpdate() {
	s.mockAffiliateService.EXPECT().
		UpdateStatus(gomock.Any(), gomock.Any(), affiliateID, domain.UserStatusSuspended).
		Return(testAffiliate(domain.UserStatusSuspended), nil)

	status, _ := s.send(http.MethodPut, "/affiliates/20", map[string]any{"status": "SUSPENDED"}, s.adminToken)
	s.Equal(http.StatusOK, status)

	status, _ = s.send(http.MethodPut, "/affiliates/20", map[string]any{"status": "PENDING"}, s.adminToken)
	s.Equal(http.StatusUnprocessableEntity, status)
}

func (s *AffiliatesHandlerTestSuite) TestPayCommission() {
	s.mockAffiliateService.EXPECT().
		PayCommission(gomock.Any(), actorWith(adminID, domain.RoleAdmin), int64(1)).
		Return(&domain.Commission{ID: 1, Amount: decimal.RequireFromString("1.50"), Status: domain.CommissionStatusPaid}, nil)
	s.mockAffiliateService.EXPECT().
		PayCommission(gomock.Any(), gomock.Any(), int64(2)).
		Return(nil, domain.NewInvalidStatusError("commission", "PAID", "PENDING"))

	status, body := s.send(http.MethodPut, "/affiliates/commissions/1/pay", nil, s.adminToken)
	s.Require().Equal(http.StatusOK, status)
	commission, ok := body["commission"].(map[string]any)
	s.Require().True(ok)
	s.Equal("PAID", commission["status"])

	status, _ = s.send(http.MethodPut, "/affiliates/commissions/2/pay", nil, s.adminToken)
	s.Equal(http.StatusConflict, status)
}
