package service

import (
	"testing"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/transport/events"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AffiliateServiceTestSuite struct {
	serviceSuite
	affiliateService *AffiliateService
	admin            domain.Actor
}

func TestAffiliateServiceSuite(t *testing.T) {
	suite.Run(t, new(AffiliateServiceTestSuite))
}

func (s *AffiliateServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	affiliateService, err := NewAffiliateService(s.mockUOW, s.mockEvents, nil)
	s.Require().NoError(err)
	s.affiliateService = affiliateService
	s.admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
}

func (s *AffiliateServiceTestSuite) TestApprove() {
	s.mockUserRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(7)).Return(&domain.User{
		ID:           7,
		Role:         domain.RoleAffiliate,
		Status:       domain.UserStatusPending,
		ReferralCode: ptr("AFF001"),
	}, nil)
	active := domain.UserStatusActive
	s.mockUserRepo.EXPECT().Update(gomock.Any(), int64(7), repoargs.UpdateUser{Status: &active}).
		Return(&domain.User{ID: 7, Role: domain.RoleAffiliate, Status: active, ReferralCode: ptr("AFF001")}, nil)
	s.expectAudit(domain.AuditAffiliateApproved)
	s.mockEvents.EXPECT().
		Publish(gomock.Any(), events.AffiliateApproved, "7", events.AffiliatePayload{UserID: 7, ReferralCode: "AFF001"}).
		Return(nil)

	user, err := s.affiliateService.Approve(s.T().Context(), s.admin, 7)
	s.Require().NoError(err)
	s.Equal(domain.UserStatusActive, user.Status)
}

func (s *AffiliateServiceTestSuite) TestApprove_NotPending() {
	s.mockUserRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(7)).
		Return(&domain.User{ID: 7, Role: domain.RoleAffiliate, Status: domain.UserStatusActive}, nil)

	_, err := s.affiliateService.Approve(s.T().Context(), s.admin, 7)
	var statusErr *domain.InvalidStatusError
	s.Require().ErrorAs(err, &statusErr)
}

func (s *AffiliateServiceTestSuite) TestApprove_NotAffiliate() {
	s.mockUserRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(8)).
		Return(&domain.User{ID: 8, Role: domain.RoleUser, Status: domain.UserStatusPending}, nil)

	_, err := s.affiliateService.Approve(s.T().Context(), s.admin, 8)
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *AffiliateServiceTestSuite) TestUpdateStatus_Validation() {
	_, err := s.affiliateService.UpdateStatus(s.T().Context(), s.admin, 7, domain.UserStatusPending)
	var vErr *domain.ValidationError
	s.Require().ErrorAs(err, &vErr)
}

func (s *AffiliateServiceTestSuite) TestPayCommission() {
	amount := decimal.RequireFromString("2.5")
	s.mockCommissionRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(3)).
		Return(&domain.Commission{ID: 3, AffiliateID: 7, OrderID: 100, Amount: amount,
			Status: domain.CommissionStatusPending}, nil)
	s.mockCommissionRepo.EXPECT().UpdateStatus(gomock.Any(), int64(3), domain.CommissionStatusPaid).
		Return(&domain.Commission{ID: 3, AffiliateID: 7, OrderID: 100, Amount: amount,
			Status: domain.CommissionStatusPaid}, nil)
	s.mockUserRepo.EXPECT().CreditWallet(gomock.Any(), int64(7), dec("2.5")).Return(decimal.RequireFromString("2.5"), nil)
	s.expectLedger(domain.WalletKindCommission, "2.5")
	s.mockUserRepo.EXPECT().AdjustCommissions(gomock.Any(), int64(7), dec("-2.5"), dec("0")).Return(nil)
	s.mockOrderRepo.EXPECT().MarkCommissionPaid(gomock.Any(), int64(100)).Return(nil)
	s.expectAudit(domain.AuditCommissionPaid)
	s.mockEvents.EXPECT().Publish(gomock.Any(), events.CommissionPaid, "7", gomock.Any()).Return(nil)

	commission, err := s.affiliateService.PayCommission(s.T().Context(), s.admin, 3)
	s.Require().NoError(err)
	s.Equal(domain.CommissionStatusPaid, commission.Status)
}

func (s *AffiliateServiceTestSuite) TestPayCommission_NotPending() {
	s.mockCommissionRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(3)).
		Return(&domain.Commission{ID: 3, Status: domain.CommissionStatusCancelled}, nil)

	_, err := s.affiliateService.PayCommission(s.T().Context(), s.admin, 3)
	var statusErr *domain.InvalidStatusError
	s.Require().ErrorAs(err, &statusErr)
	s.Equal(string(domain.CommissionStatusCancelled), statusErr.Status)
}

func (s *AffiliateServiceTestSuite) TestDashboard() {
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(7)).
		Return(&domain.User{ID: 7, Role: domain.RoleAffiliate, ReferralCode: ptr("AFF001")}, nil)
	s.mockUserRepo.EXPECT().ListReferrals(gomock.Any(), int64(7)).Return([]domain.User{{ID: 10}}, nil)
	s.mockCommissionRepo.EXPECT().ListByAffiliate(gomock.Any(), int64(7), repoargs.Page{}).
		Return([]domain.Commission{{ID: 3, OrderNumber: "LFS-2025-0003"}}, nil)

	dash, err := s.affiliateService.Dashboard(s.T().Context(), domain.Actor{UserID: 7, Role: domain.RoleAffiliate},
		repoargs.Page{})
	s.Require().NoError(err)
	s.Len(dash.Referrals, 1)
	s.Equal("LFS-2025-0003", dash.Commissions[0].OrderNumber)
}
