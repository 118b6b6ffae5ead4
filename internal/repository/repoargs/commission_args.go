package repoargs

import "github.com/shopspring/decimal"

type CreateCommission struct {
	AffiliateID    int64
	OrderID        int64
	OrderTotal     decimal.Decimal
	CommissionRate decimal.Decimal
	Amount         decimal.Decimal
}
