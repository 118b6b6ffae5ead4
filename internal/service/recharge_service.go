package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/transport/events"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type RechargeService struct {
	uow          uow.UOW
	rechargeRepo RechargeRepository
	configRepo   SystemConfigRepository
	notifier     Notifier
	sink         eventSink
}

func NewRechargeService(
	u uow.UOW,
	notifier Notifier,
	publisher EventPublisher,
	l *logrus.Logger,
) (*RechargeService, error) {
	rechargeRepo, rechargeRepoErr := uow.GetRepositoryAs[RechargeRepository](
		u, uow.RepositoryName(repoargs.RechargeRepoName),
	)
	if rechargeRepoErr != nil {
		return nil, rechargeRepoErr //nolint:wrapcheck
	}
	configRepo, configRepoErr := uow.GetRepositoryAs[SystemConfigRepository](
		u, uow.RepositoryName(repoargs.ConfigRepoName),
	)
	if configRepoErr != nil {
		return nil, configRepoErr //nolint:wrapcheck
	}
	return &RechargeService{
		uow:          u,
		rechargeRepo: rechargeRepo,
		configRepo:   configRepo,
		notifier:     notifier,
		sink:         newEventSink(publisher, l, "recharge_service"),
	}, nil
}

type CreateRechargeArgs struct {
	Amount           decimal.Decimal
	PaymentMethod    string
	PaymentReference string
	PaymentProof     *string
}

// Create регистрирует заявку на пополнение кошелька и уведомляет администраторов. Ошибка уведомления
// не отменяет заявку, в этом случае notification_sent остается false.
func (s *RechargeService) Create(
	ctx context.Context,
	actor domain.Actor,
	args CreateRechargeArgs,
) (*domain.Recharge, error) {
	amount := args.Amount.Round(moneyPlaces)
	if !amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "amount must be greater than zero")
	}
	if amount.GreaterThan(maxMoneyAmount) {
		return nil, domain.NewValidationError("amount", "amount is too large")
	}

	var recharge *domain.Recharge
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := repo[UserRepository](tx, repoargs.UserRepoName)
		if userRepoErr != nil {
			return userRepoErr
		}
		rechargeRepo, rechargeRepoErr := repo[RechargeRepository](tx, repoargs.RechargeRepoName)
		if rechargeRepoErr != nil {
			return rechargeRepoErr
		}

		user, userErr := userRepo.FindByID(c, actor.UserID)
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}
		if !user.IsActive() {
			return domain.ErrAccountInactive
		}

		var createErr error
		recharge, createErr = rechargeRepo.Create(c, repoargs.CreateRecharge{
			UserID:           user.ID,
			Amount:           amount,
			PaymentMethod:    strings.TrimSpace(args.PaymentMethod),
			PaymentReference: strings.TrimSpace(args.PaymentReference),
			PaymentProof:     args.PaymentProof,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}
		recharge.User = &domain.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email}
		return writeAudit(c, tx, actor, domain.AuditRechargeCreated, "recharge", recharge.ID, map[string]any{
			"amount": recharge.Amount.StringFixed(moneyPlaces),
			"method": recharge.PaymentMethod,
		})
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating recharge: %w", txErr)
	}

	s.notifyAdmins(ctx, recharge)
	s.sink.publish(ctx, events.RechargeCreated, recharge.ID, rechargePayload(recharge))
	return recharge, nil
}

func (s *RechargeService) notifyAdmins(ctx context.Context, recharge *domain.Recharge) {
	if s.notifier == nil {
		return
	}
	log := s.sink.log.WithField("recharge_id", recharge.ID)

	var to string
	if cfg, cfgErr := s.configRepo.Get(ctx, domain.ConfigWhatsAppNumber); cfgErr == nil {
		to = cfg.Value
	} else if !errors.Is(cfgErr, domain.ErrRecordNotFound) {
		log.WithError(cfgErr).Warn("reading notification number")
	}

	if err := s.notifier.NotifyRecharge(ctx, recharge, to); err != nil {
		log.WithError(err).Warn("recharge notification failed")
		return
	}
	if err := s.rechargeRepo.MarkNotified(ctx, recharge.ID); err != nil {
		log.WithError(err).Warn("marking recharge notified")
		return
	}
	recharge.NotificationSent = true
}

// List возвращает страницу пополнений. Не администратор видит только свои пополнения.
func (s *RechargeService) List(
	ctx context.Context,
	actor domain.Actor,
	filter repoargs.RechargeFilter,
) ([]domain.Recharge, int64, error) {
	if !actor.IsAdmin() {
		filter.UserID = &actor.UserID
	}
	recharges, total, err := s.rechargeRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err //nolint:wrapcheck
	}
	return recharges, total, nil
}

func (s *RechargeService) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Recharge, error) {
	recharge, err := s.rechargeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if !actor.IsAdmin() && recharge.UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return recharge, nil
}

// Approve одобряет PENDING пополнение и зачисляет сумму на кошелек. Повторное одобрение невозможно:
// для уже обработанного пополнения вернется *domain.InvalidStatusError.
func (s *RechargeService) Approve(ctx context.Context, actor domain.Actor, id int64) (*domain.Recharge, error) {
	var recharge *domain.Recharge
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		rechargeRepo, rechargeRepoErr := repo[RechargeRepository](tx, repoargs.RechargeRepoName)
		if rechargeRepoErr != nil {
			return rechargeRepoErr
		}
		userRepo, userRepoErr := repo[UserRepository](tx, repoargs.UserRepoName)
		if userRepoErr != nil {
			return userRepoErr
		}

		var approveErr error
		recharge, approveErr = rechargeRepo.Approve(c, id, actor.UserID)
		if approveErr != nil {
			return s.processedErr(c, rechargeRepo, id, approveErr)
		}

		balance, creditErr := userRepo.CreditWallet(c, recharge.UserID, recharge.Amount)
		if creditErr != nil {
			return creditErr //nolint:wrapcheck
		}
		if err := writeLedger(c, tx, repoargs.CreateWalletTransaction{
			UserID:       recharge.UserID,
			Direction:    domain.DirectionCredit,
			Kind:         domain.WalletKindRecharge,
			Amount:       recharge.Amount,
			BalanceAfter: balance,
			ReferenceID:  recharge.ID,
		}); err != nil {
			return err
		}
		return writeAudit(c, tx, actor, domain.AuditRechargeApproved, "recharge", id, map[string]any{
			"userId": recharge.UserID,
			"amount": recharge.Amount.StringFixed(moneyPlaces),
		})
	})
	if txErr != nil {
		return nil, fmt.Errorf("approving recharge %d: %w", id, txErr)
	}

	s.sink.publish(ctx, events.RechargeApproved, recharge.ID, rechargePayload(recharge))
	return recharge, nil
}

// Reject отклоняет PENDING пополнение с указанием причины.
func (s *RechargeService) Reject(
	ctx context.Context,
	actor domain.Actor,
	id int64,
	reason string,
) (*domain.Recharge, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "rejection reason is required")
	}

	var recharge *domain.Recharge
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		rechargeRepo, rechargeRepoErr := repo[RechargeRepository](tx, repoargs.RechargeRepoName)
		if rechargeRepoErr != nil {
			return rechargeRepoErr
		}
		var rejectErr error
		recharge, rejectErr = rechargeRepo.Reject(c, id, reason)
		if rejectErr != nil {
			return s.processedErr(c, rechargeRepo, id, rejectErr)
		}
		return writeAudit(c, tx, actor, domain.AuditRechargeRejected, "recharge", id, map[string]any{
			"reason": reason,
		})
	})
	if txErr != nil {
		return nil, fmt.Errorf("rejecting recharge %d: %w", id, txErr)
	}

	s.sink.publish(ctx, events.RechargeRejected, recharge.ID, rechargePayload(recharge))
	return recharge, nil
}

// processedErr различает отсутствующее и уже обработанное пополнение после неудачного условного обновления.
func (s *RechargeService) processedErr(ctx context.Context, r RechargeRepository, id int64, err error) error {
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return err
	}
	existing, findErr := r.FindByID(ctx, id)
	if findErr != nil {
		return findErr //nolint:wrapcheck
	}
	return domain.NewInvalidStatusError("recharge", string(existing.Status), string(domain.RechargeStatusPending))
}

func rechargePayload(r *domain.Recharge) events.RechargePayload {
	p := events.RechargePayload{
		RechargeID: r.ID,
		UserID:     r.UserID,
		Amount:     r.Amount,
		Status:     string(r.Status),
	}
	if r.RejectionReason != nil {
		p.Reason = *r.RejectionReason
	}
	return p
}
