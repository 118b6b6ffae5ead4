package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	defaultCommissionRate = decimal.RequireFromString("0.10")
	defaultUSDToPENRate   = decimal.RequireFromString("3.66")
	// максимум для колонок NUMERIC(12,2)
	maxMoneyAmount = decimal.RequireFromString("9999999999.99")
)

const (
	defaultMaxLoginAttempts   = 5
	defaultLoginLockMinutes   = 15
	moneyPlaces               = 2
	referralCodePrefix        = "AFF"
	orderNumberPrefix         = "LFS"
	recentOrdersInUserDetails = 10
)

// repo достает репозиторий из транзакции и приводит к нужному интерфейсу.
func repo[T any](tx uow.TX, name repoargs.RepositoryName) (T, error) {
	return uow.GetAs[T](tx, uow.RepositoryName(name)) //nolint:wrapcheck
}

// slugify превращает название в slug: латиница в нижнем регистре, диакритика удаляется,
// остальные символы схлопываются в одиночные дефисы.
func slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func formatReferralCode(seq int64) string {
	return fmt.Sprintf("%s%03d", referralCodePrefix, seq)
}

func formatOrderNumber(year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", orderNumberPrefix, year, seq)
}

// calcCommission возвращает комиссию с суммы заказа, округленную до центов.
func calcCommission(total, rate decimal.Decimal) decimal.Decimal {
	return total.Mul(rate).Round(moneyPlaces)
}

// configDecimal читает числовую системную настройку. Отсутствующий ключ заменяется fallback.
func configDecimal(
	ctx context.Context,
	r SystemConfigRepository,
	key string,
	fallback decimal.Decimal,
) (decimal.Decimal, error) {
	cfg, err := r.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fallback, nil
		}
		return decimal.Zero, fmt.Errorf("reading config %s: %w", key, err)
	}
	value, parseErr := decimal.NewFromString(strings.TrimSpace(cfg.Value))
	if parseErr != nil {
		return fallback, nil //nolint:nilerr
	}
	return value, nil
}

func configInt(ctx context.Context, r SystemConfigRepository, key string, fallback int64) (int64, error) {
	cfg, err := r.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fallback, nil
		}
		return 0, fmt.Errorf("reading config %s: %w", key, err)
	}
	value, parseErr := strconv.ParseInt(strings.TrimSpace(cfg.Value), 10, 64)
	if parseErr != nil || value <= 0 {
		return fallback, nil //nolint:nilerr
	}
	return value, nil
}

// writeAudit пишет запись журнала аудита в рамках транзакции tx.
func writeAudit(
	ctx context.Context,
	tx uow.TX,
	actor domain.Actor,
	action domain.AuditAction,
	entity string,
	entityID int64,
	details map[string]any,
) error {
	auditRepo, repoErr := repo[AuditLogRepository](tx, repoargs.AuditRepoName)
	if repoErr != nil {
		return repoErr
	}
	entry := repoargs.CreateAuditLog{
		Action:    action,
		Entity:    entity,
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
		Details:   details,
	}
	if actor.UserID != 0 {
		entry.UserID = &actor.UserID
	}
	if entityID != 0 {
		entry.EntityID = &entityID
	}
	return auditRepo.Create(ctx, entry) //nolint:wrapcheck
}

// writeLedger пишет строку журнала кошелька.
func writeLedger(ctx context.Context, tx uow.TX, args repoargs.CreateWalletTransaction) error {
	walletRepo, repoErr := repo[WalletTransactionRepository](tx, repoargs.WalletRepoName)
	if repoErr != nil {
		return repoErr
	}
	_, err := walletRepo.Create(ctx, args)
	return err //nolint:wrapcheck
}

// eventSink публикует доменные события после фиксации транзакции. Ошибки публикации только логируются.
type eventSink struct {
	events EventPublisher
	log    *logrus.Entry
}

func newEventSink(events EventPublisher, l *logrus.Logger, component string) eventSink {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return eventSink{events: events, log: l.WithField("component", component)}
}

func (e eventSink) publish(ctx context.Context, eventType string, key int64, payload any) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(ctx, eventType, strconv.FormatInt(key, 10), payload); err != nil {
		e.log.WithError(err).WithField("event", eventType).Warn("publish event failed")
	}
}
