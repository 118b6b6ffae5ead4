package service

import (
	"context"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/sirupsen/logrus"
)

// loginGuard ограничивает число неудачных попыток входа. Ошибки хранилища не блокируют вход,
// а только логируются.
type loginGuard struct {
	store      LoginAttemptStore
	configRepo SystemConfigRepository
	log        *logrus.Entry
}

func (g loginGuard) locked(ctx context.Context, email string) bool {
	if g.store == nil {
		return false
	}
	locked, err := g.store.IsLocked(ctx, email)
	if err != nil {
		g.log.WithError(err).Warn("login lock check failed")
		return false
	}
	return locked
}

func (g loginGuard) fail(ctx context.Context, email string) {
	if g.store == nil {
		return
	}
	maxAttempts, maxErr := configInt(ctx, g.configRepo, domain.ConfigMaxLoginAttempts, defaultMaxLoginAttempts)
	if maxErr != nil {
		g.log.WithError(maxErr).Warn("reading max login attempts")
		maxAttempts = defaultMaxLoginAttempts
	}
	lockMinutes, lockErr := configInt(ctx, g.configRepo, domain.ConfigLoginLockDuration, defaultLoginLockMinutes)
	if lockErr != nil {
		g.log.WithError(lockErr).Warn("reading login lock duration")
		lockMinutes = defaultLoginLockMinutes
	}

	locked, err := g.store.RegisterFailure(ctx, email, maxAttempts, time.Duration(lockMinutes)*time.Minute)
	if err != nil {
		g.log.WithError(err).Warn("register login failure")
		return
	}
	if locked {
		g.log.WithField("email", email).Warn("login locked after too many failures")
	}
}

func (g loginGuard) reset(ctx context.Context, email string) {
	if g.store == nil {
		return
	}
	if err := g.store.Reset(ctx, email); err != nil {
		g.log.WithError(err).Warn("reset login failures")
	}
}
