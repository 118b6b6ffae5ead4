package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
	"github.com/shopspring/decimal"
)

// numericConfigKeys ключи, значения которых обязаны быть положительными числами.
var numericConfigKeys = map[string]bool{
	domain.ConfigCommissionRate:    false,
	domain.ConfigUSDToPENRate:      false,
	domain.ConfigMaxLoginAttempts:  true,
	domain.ConfigLoginLockDuration: true,
}

type ConfigService struct {
	uow        uow.UOW
	configRepo SystemConfigRepository
	auditRepo  AuditLogRepository
}

func NewConfigService(u uow.UOW) (*ConfigService, error) {
	configRepo, configRepoErr := uow.GetRepositoryAs[SystemConfigRepository](
		u, uow.RepositoryName(repoargs.ConfigRepoName),
	)
	if configRepoErr != nil {
		return nil, configRepoErr //nolint:wrapcheck
	}
	auditRepo, auditRepoErr := uow.GetRepositoryAs[AuditLogRepository](u, uow.RepositoryName(repoargs.AuditRepoName))
	if auditRepoErr != nil {
		return nil, auditRepoErr //nolint:wrapcheck
	}
	return &ConfigService{uow: u, configRepo: configRepo, auditRepo: auditRepo}, nil
}

func (s *ConfigService) List(ctx context.Context) ([]domain.SystemConfig, error) {
	configs, err := s.configRepo.List(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return configs, nil
}

// Update меняет значение существующей настройки. Числовые настройки проверяются: ставки должны быть
// положительными десятичными числами, счетчики и длительности положительными целыми.
func (s *ConfigService) Update(ctx context.Context, actor domain.Actor, key, value string) (*domain.SystemConfig, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	if err := validateConfigValue(key, value); err != nil {
		return nil, err
	}

	var cfg *domain.SystemConfig
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		configRepo, configRepoErr := repo[SystemConfigRepository](tx, repoargs.ConfigRepoName)
		if configRepoErr != nil {
			return configRepoErr
		}
		previous, findErr := configRepo.Get(c, key)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		var updErr error
		cfg, updErr = configRepo.Update(c, key, value)
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}
		return writeAudit(c, tx, actor, domain.AuditConfigUpdated, "system_config", 0, map[string]any{
			"key":  key,
			"from": previous.Value,
			"to":   value,
		})
	})
	if txErr != nil {
		return nil, fmt.Errorf("updating config %s: %w", key, txErr)
	}
	return cfg, nil
}

func validateConfigValue(key, value string) error {
	if value == "" {
		return domain.NewValidationError("value", "value is required")
	}
	integer, numeric := numericConfigKeys[key]
	if !numeric {
		return nil
	}
	if integer {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return domain.NewValidationError("value", key+" must be a positive integer")
		}
		return nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil || !d.IsPositive() {
		return domain.NewValidationError("value", key+" must be a positive number")
	}
	if key == domain.ConfigCommissionRate && d.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return domain.NewValidationError("value", key+" must be less than 1")
	}
	return nil
}

// Audit возвращает страницу журнала аудита.
func (s *ConfigService) Audit(ctx context.Context, filter repoargs.AuditFilter) ([]domain.AuditLog, int64, error) {
	logs, total, err := s.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err //nolint:wrapcheck
	}
	return logs, total, nil
}
