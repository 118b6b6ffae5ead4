package events

import "github.com/shopspring/decimal"

type OrderPayload struct {
	OrderID     int64           `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      int64           `json:"user_id"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
	AffiliateID *int64          `json:"affiliate_id,omitempty"`
}

type OrderStatusPayload struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	From        string `json:"from"`
	To          string `json:"to"`
	ChangedBy   int64  `json:"changed_by"`
}

type OrderDeliveryPayload struct {
	OrderID   int64   `json:"order_id"`
	ItemIDs   []int64 `json:"item_ids"`
	Completed bool    `json:"completed"`
}

type RechargePayload struct {
	RechargeID int64           `json:"recharge_id"`
	UserID     int64           `json:"user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	Reason     string          `json:"reason,omitempty"`
}

type AffiliatePayload struct {
	UserID       int64  `json:"user_id"`
	ReferralCode string `json:"referral_code"`
}

type CommissionPayload struct {
	CommissionID int64           `json:"commission_id"`
	AffiliateID  int64           `json:"affiliate_id"`
	OrderID      int64           `json:"order_id"`
	Amount       decimal.Decimal `json:"amount"`
}
