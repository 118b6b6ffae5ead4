package pgrepo

import (
	"fmt"

	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
)

// NewUnitOfWork создает UnitOfWork поверх пула conn и регистрирует в нем все postgres репозитории.
func NewUnitOfWork(conn uow.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName:       func(dbtx uow.DBTX) uow.Repository { return NewUserRepository(dbtx) },
		repoargs.ProductRepoName:    func(dbtx uow.DBTX) uow.Repository { return NewProductRepository(dbtx) },
		repoargs.CredentialRepoName: func(dbtx uow.DBTX) uow.Repository { return NewCredentialRepository(dbtx) },
		repoargs.OrderRepoName:      func(dbtx uow.DBTX) uow.Repository { return NewOrderRepository(dbtx) },
		repoargs.RechargeRepoName:   func(dbtx uow.DBTX) uow.Repository { return NewRechargeRepository(dbtx) },
		repoargs.CommissionRepoName: func(dbtx uow.DBTX) uow.Repository { return NewCommissionRepository(dbtx) },
		repoargs.WalletRepoName:     func(dbtx uow.DBTX) uow.Repository { return NewWalletTransactionRepository(dbtx) },
		repoargs.AuditRepoName:      func(dbtx uow.DBTX) uow.Repository { return NewAuditLogRepository(dbtx) },
		repoargs.ConfigRepoName:     func(dbtx uow.DBTX) uow.Repository { return NewSystemConfigRepository(dbtx) },
		repoargs.StatsRepoName:      func(dbtx uow.DBTX) uow.Repository { return NewStatsRepository(dbtx) },
	}

	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: register %s: %w", name, regErr)
		}
	}
	return unitOfWork, nil
}
