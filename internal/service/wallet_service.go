package service

import (
	"context"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
	"github.com/shopspring/decimal"
)

type WalletService struct {
	userRepo   UserRepository
	walletRepo WalletTransactionRepository
}

func NewWalletService(u uow.UOW) (*WalletService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr //nolint:wrapcheck
	}
	walletRepo, walletRepoErr := uow.GetRepositoryAs[WalletTransactionRepository](
		u, uow.RepositoryName(repoargs.WalletRepoName),
	)
	if walletRepoErr != nil {
		return nil, walletRepoErr //nolint:wrapcheck
	}
	return &WalletService{userRepo: userRepo, walletRepo: walletRepo}, nil
}

type WalletStatement struct {
	Balance      decimal.Decimal
	Transactions []domain.WalletTransaction
	Total        int64
}

// Statement возвращает текущий баланс юзера и страницу журнала движений по кошельку.
func (s *WalletService) Statement(ctx context.Context, userID int64, page repoargs.Page) (*WalletStatement, error) {
	user, userErr := s.userRepo.FindByID(ctx, userID)
	if userErr != nil {
		return nil, userErr //nolint:wrapcheck
	}
	txs, total, txsErr := s.walletRepo.ListByUser(ctx, userID, page)
	if txsErr != nil {
		return nil, txsErr //nolint:wrapcheck
	}
	return &WalletStatement{Balance: user.Wallet, Transactions: txs, Total: total}, nil
}
