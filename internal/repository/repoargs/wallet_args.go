package repoargs

import (
	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateWalletTransaction struct {
	UserID       int64
	Direction    domain.DirectionType
	Kind         domain.WalletTransactionKind
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	ReferenceID  int64
}
