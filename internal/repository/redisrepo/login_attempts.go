package redisrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyLoginFailures = "login:fail:%s"
	keyLoginLock     = "login:lock:%s"
)

// LoginAttemptStore хранит счетчики неудачных входов и блокировки в redis.
type LoginAttemptStore struct {
	rdb *redis.Client
}

func NewLoginAttemptStore(rdb *redis.Client) *LoginAttemptStore {
	return &LoginAttemptStore{rdb: rdb}
}

// New создает клиента redis и проверяет соединение.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (s *LoginAttemptStore) IsLocked(ctx context.Context, email string) (bool, error) {
	n, err := s.rdb.Exists(ctx, lockKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("checking login lock: %w", err)
	}
	return n > 0, nil
}

// RegisterFailure увеличивает счетчик неудачных попыток. Счетчик живет lockFor с момента первой ошибки.
// Когда счетчик достигает maxAttempts, email блокируется на lockFor, а счетчик сбрасывается.
// Возвращает true, если блокировка была установлена.
func (s *LoginAttemptStore) RegisterFailure(
	ctx context.Context,
	email string,
	maxAttempts int64,
	lockFor time.Duration,
) (bool, error) {
	failKey := failuresKey(email)

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, failKey)
	pipe.ExpireNX(ctx, failKey, lockFor)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("registering login failure: %w", err)
	}

	if incr.Val() < maxAttempts {
		return false, nil
	}

	pipe = s.rdb.TxPipeline()
	pipe.Set(ctx, lockKey(email), incr.Val(), lockFor)
	pipe.Del(ctx, failKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("locking login: %w", err)
	}
	return true, nil
}

func (s *LoginAttemptStore) Reset(ctx context.Context, email string) error {
	if err := s.rdb.Del(ctx, failuresKey(email), lockKey(email)).Err(); err != nil {
		return fmt.Errorf("resetting login failures: %w", err)
	}
	return nil
}

func failuresKey(email string) string {
	return fmt.Sprintf(keyLoginFailures, strings.ToLower(email))
}

func lockKey(email string) string {
	return fmt.Sprintf(keyLoginLock, strings.ToLower(email))
}
