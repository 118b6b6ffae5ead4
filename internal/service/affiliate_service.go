package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/transport/events"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type AffiliateService struct {
	uow            uow.UOW
	userRepo       UserRepository
	commissionRepo CommissionRepository
	sink           eventSink
}

func NewAffiliateService(u uow.UOW, publisher EventPublisher, l *logrus.Logger) (*AffiliateService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr //nolint:wrapcheck
	}
	commissionRepo, commissionRepoErr := uow.GetRepositoryAs[CommissionRepository](
		u, uow.RepositoryName(repoargs.CommissionRepoName),
	)
	if commissionRepoErr != nil {
		return nil, commissionRepoErr //nolint:wrapcheck
	}
	return &AffiliateService{
		uow:            u,
		userRepo:       userRepo,
		commissionRepo: commissionRepo,
		sink:           newEventSink(publisher, l, "affiliate_service"),
	}, nil
}

func (s *AffiliateService) List(
	ctx context.Context,
	filter repoargs.UserFilter,
) ([]domain.AffiliateSummary, int64, error) {
	affiliates, total, err := s.userRepo.ListAffiliates(ctx, filter)
	if err != nil {
		return nil, 0, err //nolint:wrapcheck
	}
	return affiliates, total, nil
}

// AffiliateDetails аффилиат с приглашенными юзерами и комиссиями.
type AffiliateDetails struct {
	User        *domain.User
	Referrals   []domain.User
	Commissions []domain.Commission
}

// Details возвращает аффилиата с его рефералами и комиссиями. Юзер с другой ролью дает domain.ErrRecordNotFound.
func (s *AffiliateService) Details(ctx context.Context, id int64, page repoargs.Page) (*AffiliateDetails, error) {
	user, userErr := s.userRepo.FindByID(ctx, id)
	if userErr != nil {
		return nil, userErr //nolint:wrapcheck
	}
	if user.Role != domain.RoleAffiliate {
		return nil, domain.ErrRecordNotFound
	}
	return s.details(ctx, user, page)
}

// Dashboard возвращает данные кабинета текущего аффилиата.
func (s *AffiliateService) Dashboard(ctx context.Context, actor domain.Actor, page repoargs.Page) (*AffiliateDetails, error) {
	user, userErr := s.userRepo.FindByID(ctx, actor.UserID)
	if userErr != nil {
		return nil, userErr //nolint:wrapcheck
	}
	if user.Role != domain.RoleAffiliate {
		return nil, domain.ErrForbidden
	}
	return s.details(ctx, user, page)
}

func (s *AffiliateService) details(ctx context.Context, user *domain.User, page repoargs.Page) (*AffiliateDetails, error) {
	referrals, refErr := s.userRepo.ListReferrals(ctx, user.ID)
	if refErr != nil {
		return nil, refErr //nolint:wrapcheck
	}
	commissions, comErr := s.commissionRepo.ListByAffiliate(ctx, user.ID, page)
	if comErr != nil {
		return nil, comErr //nolint:wrapcheck
	}
	return &AffiliateDetails{User: user, Referrals: referrals, Commissions: commissions}, nil
}

// Approve активирует аффилиата в статусе PENDING. Если у него нет реферального кода, код выдается.
func (s *AffiliateService) Approve(ctx context.Context, actor domain.Actor, id int64) (*domain.User, error) {
	var user *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := repo[UserRepository](tx, repoargs.UserRepoName)
		if userRepoErr != nil {
			return userRepoErr
		}
		current, findErr := findAffiliateForUpdate(c, userRepo, id)
		if findErr != nil {
			return findErr
		}
		if current.Status != domain.UserStatusPending {
			return domain.NewInvalidStatusError("affiliate", string(current.Status), string(domain.UserStatusPending))
		}

		active := domain.UserStatusActive
		upd := repoargs.UpdateUser{Status: &active}
		if current.ReferralCode == nil {
			seq, seqErr := userRepo.NextReferralSeq(c)
			if seqErr != nil {
				return seqErr //nolint:wrapcheck
			}
			code := formatReferralCode(seq)
			upd.ReferralCode = &code
		}

		var updErr error
		user, updErr = userRepo.Update(c, id, upd)
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}
		return writeAudit(c, tx, actor, domain.AuditAffiliateApproved, "user", id, nil)
	})
	if txErr != nil {
		return nil, fmt.Errorf("approving affiliate %d: %w", id, txErr)
	}

	payload := events.AffiliatePayload{UserID: user.ID}
	if user.ReferralCode != nil {
		payload.ReferralCode = *user.ReferralCode
	}
	s.sink.publish(ctx, events.AffiliateApproved, user.ID, payload)
	return user, nil
}

// UpdateStatus меняет статус аффилиата на ACTIVE, INACTIVE или SUSPENDED.
func (s *AffiliateService) UpdateStatus(
	ctx context.Context,
	actor domain.Actor,
	id int64,
	status domain.UserStatusType,
) (*domain.User, error) {
	switch status {
	case domain.UserStatusActive, domain.UserStatusInactive, domain.UserStatusSuspended:
	default:
		return nil, domain.NewValidationError("status", "status must be ACTIVE, INACTIVE or SUSPENDED")
	}

	var user *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := repo[UserRepository](tx, repoargs.UserRepoName)
		if userRepoErr != nil {
			return userRepoErr
		}
		current, findErr := findAffiliateForUpdate(c, userRepo, id)
		if findErr != nil {
			return findErr
		}
		var updErr error
		user, updErr = userRepo.Update(c, id, repoargs.UpdateUser{Status: &status})
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}
		return writeAudit(c, tx, actor, domain.AuditAffiliateStatus, "user", id, map[string]any{
			"from": current.Status,
			"to":   status,
		})
	})
	if txErr != nil {
		return nil, fmt.Errorf("updating affiliate %d status: %w", id, txErr)
	}
	return user, nil
}

// PayCommission выплачивает PENDING комиссию на кошелек аффилиата.
func (s *AffiliateService) PayCommission(
	ctx context.Context,
	actor domain.Actor,
	commissionID int64,
) (*domain.Commission, error) {
	var commission *domain.Commission
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		commissionRepo, commissionRepoErr := repo[CommissionRepository](tx, repoargs.CommissionRepoName)
		if commissionRepoErr != nil {
			return commissionRepoErr
		}
		userRepo, userRepoErr := repo[UserRepository](tx, repoargs.UserRepoName)
		if userRepoErr != nil {
			return userRepoErr
		}
		orderRepo, orderRepoErr := repo[OrderRepository](tx, repoargs.OrderRepoName)
		if orderRepoErr != nil {
			return orderRepoErr
		}

		current, findErr := commissionRepo.FindByIDForUpdate(c, commissionID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if current.Status != domain.CommissionStatusPending {
			return domain.NewInvalidStatusError(
				"commission", string(current.Status), string(domain.CommissionStatusPending),
			)
		}

		var updErr error
		commission, updErr = commissionRepo.UpdateStatus(c, commissionID, domain.CommissionStatusPaid)
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}
		balance, creditErr := userRepo.CreditWallet(c, commission.AffiliateID, commission.Amount)
		if creditErr != nil {
			return creditErr //nolint:wrapcheck
		}
		if err := writeLedger(c, tx, repoargs.CreateWalletTransaction{
			UserID:       commission.AffiliateID,
			Direction:    domain.DirectionCredit,
			Kind:         domain.WalletKindCommission,
			Amount:       commission.Amount,
			BalanceAfter: balance,
			ReferenceID:  commission.ID,
		}); err != nil {
			return err
		}
		pending := commission.Amount.Neg()
		if err := userRepo.AdjustCommissions(c, commission.AffiliateID, pending, decimal.Zero); err != nil {
			return err //nolint:wrapcheck
		}
		if err := orderRepo.MarkCommissionPaid(c, commission.OrderID); err != nil {
			return err //nolint:wrapcheck
		}
		return writeAudit(c, tx, actor, domain.AuditCommissionPaid, "commission", commissionID, map[string]any{
			"affiliateId": commission.AffiliateID,
			"amount":      commission.Amount.StringFixed(moneyPlaces),
		})
	})
	if txErr != nil {
		return nil, fmt.Errorf("paying commission %d: %w", commissionID, txErr)
	}

	s.sink.publish(ctx, events.CommissionPaid, commission.AffiliateID, events.CommissionPayload{
		CommissionID: commission.ID,
		AffiliateID:  commission.AffiliateID,
		OrderID:      commission.OrderID,
		Amount:       commission.Amount,
	})
	return commission, nil
}

func findAffiliateForUpdate(ctx context.Context, userRepo UserRepository, id int64) (*domain.User, error) {
	user, err := userRepo.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if user.Role != domain.RoleAffiliate {
		return nil, domain.ErrRecordNotFound
	}
	return user, nil
}
