package repoargs

import (
	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateRecharge struct {
	UserID           int64
	Amount           decimal.Decimal
	PaymentMethod    string
	PaymentReference string
	PaymentProof     *string
}

type RechargeFilter struct {
	UserID *int64
	Status *domain.RechargeStatusType
	Page
}
