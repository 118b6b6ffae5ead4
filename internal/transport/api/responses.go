package api

import (
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/service"
)

type UserResponse struct {
	ID                 int64                 `json:"id"`
	Name               string                `json:"name"`
	Email              string                `json:"email"`
	Phone              *string               `json:"phone,omitempty"`
	Role               domain.RoleType       `json:"role"`
	Status             domain.UserStatusType `json:"status"`
	Wallet             float64               `json:"wallet"`
	ReferralCode       *string               `json:"referralCode"`
	ReferredBy         *int64                `json:"referredBy,omitempty"`
	TotalCommissions   float64               `json:"totalCommissions"`
	PendingCommissions float64               `json:"pendingCommissions"`
	LastLoginAt        *time.Time            `json:"lastLoginAt,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Phone:              u.Phone,
		Role:               u.Role,
		Status:             u.Status,
		Wallet:             u.Wallet.InexactFloat64(),
		ReferralCode:       u.ReferralCode,
		ReferredBy:         u.ReferredBy,
		TotalCommissions:   u.TotalCommissions.InexactFloat64(),
		PendingCommissions: u.PendingCommissions.InexactFloat64(),
		LastLoginAt:        u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
	}
}

func newUsersResponse(users []domain.User) []UserResponse {
	res := make([]UserResponse, len(users))
	for i := range users {
		res[i] = newUserResponse(&users[i])
	}
	return res
}

type UserSummaryResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newUserSummary(u *domain.UserSummary) *UserSummaryResponse {
	if u == nil {
		return nil
	}
	return &UserSummaryResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

type ProductResponse struct {
	ID                   int64                    `json:"id"`
	Name                 string                   `json:"name"`
	Slug                 string                   `json:"slug"`
	Description          string                   `json:"description"`
	Provider             string                   `json:"provider"`
	PriceUSD             float64                  `json:"priceUsd"`
	PricePEN             float64                  `json:"pricePen"`
	Stock                int                      `json:"stock"`
	Sold                 int                      `json:"sold"`
	Category             string                   `json:"category"`
	DeliveryType         domain.DeliveryType      `json:"deliveryType"`
	Status               domain.ProductStatusType `json:"status"`
	Featured             bool                     `json:"featured"`
	Image                string                   `json:"image"`
	MetaTitle            string                   `json:"metaTitle,omitempty"`
	MetaDescription      string                   `json:"metaDescription,omitempty"`
	AvailableCredentials *int64                   `json:"availableCredentials,omitempty"`
	CreatedAt            time.Time                `json:"createdAt"`
	UpdatedAt            time.Time                `json:"updatedAt"`
}

func newProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		Slug:                 p.Slug,
		Description:          p.Description,
		Provider:             p.Provider,
		PriceUSD:             p.PriceUSD.InexactFloat64(),
		PricePEN:             p.PricePEN.InexactFloat64(),
		Stock:                p.Stock,
		Sold:                 p.Sold,
		Category:             p.Category,
		DeliveryType:         p.DeliveryType,
		Status:               p.Status,
		Featured:             p.Featured,
		Image:                p.Image,
		MetaTitle:            p.MetaTitle,
		MetaDescription:      p.MetaDescription,
		AvailableCredentials: p.AvailableCredentials,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

type OrderItemResponse struct {
	ID           int64               `json:"id"`
	ProductID    int64               `json:"productId"`
	ProductName  string              `json:"productName"`
	Provider     string              `json:"provider"`
	Quantity     int                 `json:"quantity"`
	PriceUSD     float64             `json:"priceUsd"`
	PricePEN     float64             `json:"pricePen"`
	Subtotal     float64             `json:"subtotal"`
	DeliveryType domain.DeliveryType `json:"deliveryType"`
	Delivered    bool                `json:"delivered"`
	DeliveredAt  *time.Time          `json:"deliveredAt,omitempty"`
	Credentials  []string            `json:"credentials,omitempty"`
}

type OrderResponse struct {
	ID               int64                    `json:"id"`
	OrderNumber      string                   `json:"orderNumber"`
	UserID           int64                    `json:"userId"`
	User             *UserSummaryResponse     `json:"user,omitempty"`
	Subtotal         float64                  `json:"subtotal"`
	Discount         float64                  `json:"discount"`
	Total            float64                  `json:"total"`
	Status           domain.OrderStatusType   `json:"status"`
	PaymentStatus    domain.PaymentStatusType `json:"paymentStatus"`
	AffiliateID      *int64                   `json:"affiliateId,omitempty"`
	CommissionAmount float64                  `json:"commissionAmount"`
	CommissionPaid   bool                     `json:"commissionPaid"`
	PaidAt           *time.Time               `json:"paidAt,omitempty"`
	CompletedAt      *time.Time               `json:"completedAt,omitempty"`
	CancelledAt      *time.Time               `json:"cancelledAt,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	Items            []OrderItemResponse      `json:"items,omitempty"`
}

func newOrderResponse(o *domain.Order) OrderResponse {
	res := OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		UserID:           o.UserID,
		User:             newUserSummary(o.User),
		Subtotal:         o.Subtotal.InexactFloat64(),
		Discount:         o.Discount.InexactFloat64(),
		Total:            o.Total.InexactFloat64(),
		Status:           o.Status,
		PaymentStatus:    o.PaymentStatus,
		AffiliateID:      o.AffiliateID,
		CommissionAmount: o.CommissionAmount.InexactFloat64(),
		CommissionPaid:   o.CommissionPaid,
		PaidAt:           o.PaidAt,
		CompletedAt:      o.CompletedAt,
		CancelledAt:      o.CancelledAt,
		CreatedAt:        o.CreatedAt,
	}
	if len(o.Items) > 0 {
		res.Items = make([]OrderItemResponse, len(o.Items))
		for i, item := range o.Items {
			res.Items[i] = OrderItemResponse{
				ID:           item.ID,
				ProductID:    item.ProductID,
				ProductName:  item.ProductName,
				Provider:     item.ProductProvider,
				Quantity:     item.Quantity,
				PriceUSD:     item.PriceUSD.InexactFloat64(),
				PricePEN:     item.PricePEN.InexactFloat64(),
				Subtotal:     item.Subtotal.InexactFloat64(),
				DeliveryType: item.DeliveryType,
				Delivered:    item.Delivered,
				DeliveredAt:  item.DeliveredAt,
				Credentials:  item.Credentials,
			}
		}
	}
	return res
}

func newOrdersResponse(orders []domain.Order) []OrderResponse {
	res := make([]OrderResponse, len(orders))
	for i := range orders {
		res[i] = newOrderResponse(&orders[i])
	}
	return res
}

type RechargeResponse struct {
	ID               int64                     `json:"id"`
	UserID           int64                     `json:"userId"`
	User             *UserSummaryResponse      `json:"user,omitempty"`
	Amount           float64                   `json:"amount"`
	Status           domain.RechargeStatusType `json:"status"`
	PaymentMethod    string                    `json:"paymentMethod"`
	PaymentReference string                    `json:"paymentReference"`
	PaymentProof     *string                   `json:"paymentProof,omitempty"`
	ApprovedBy       *int64                    `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time                `json:"approvedAt,omitempty"`
	RejectedAt       *time.Time                `json:"rejectedAt,omitempty"`
	RejectionReason  *string                   `json:"rejectionReason,omitempty"`
	NotificationSent bool                      `json:"notificationSent"`
	CreatedAt        time.Time                 `json:"createdAt"`
}

func newRechargeResponse(r *domain.Recharge) RechargeResponse {
	return RechargeResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		User:             newUserSummary(r.User),
		Amount:           r.Amount.InexactFloat64(),
		Status:           r.Status,
		PaymentMethod:    r.PaymentMethod,
		PaymentReference: r.PaymentReference,
		PaymentProof:     r.PaymentProof,
		ApprovedBy:       r.ApprovedBy,
		ApprovedAt:       r.ApprovedAt,
		RejectedAt:       r.RejectedAt,
		RejectionReason:  r.RejectionReason,
		NotificationSent: r.NotificationSent,
		CreatedAt:        r.CreatedAt,
	}
}

type CommissionResponse struct {
	ID             int64                       `json:"id"`
	AffiliateID    int64                       `json:"affiliateId"`
	OrderID        int64                       `json:"orderId"`
	OrderNumber    string                      `json:"orderNumber,omitempty"`
	OrderTotal     float64                     `json:"orderTotal"`
	CommissionRate float64                     `json:"commissionRate"`
	Amount         float64                     `json:"amount"`
	Status         domain.CommissionStatusType `json:"status"`
	PaidAt         *time.Time                  `json:"paidAt,omitempty"`
	CreatedAt      time.Time                   `json:"createdAt"`
}

func newCommissionResponse(c *domain.Commission) CommissionResponse {
	return CommissionResponse{
		ID:             c.ID,
		AffiliateID:    c.AffiliateID,
		OrderID:        c.OrderID,
		OrderNumber:    c.OrderNumber,
		OrderTotal:     c.OrderTotal.InexactFloat64(),
		CommissionRate: c.CommissionRate.InexactFloat64(),
		Amount:         c.Amount.InexactFloat64(),
		Status:         c.Status,
		PaidAt:         c.PaidAt,
		CreatedAt:      c.CreatedAt,
	}
}

type AffiliateResponse struct {
	UserResponse
	ReferralCount int64                `json:"referralCount"`
	Referrals     []UserResponse       `json:"referrals,omitempty"`
	Commissions   []CommissionResponse `json:"commissions,omitempty"`
}

func newAffiliateDetails(d *service.AffiliateDetails) AffiliateResponse {
	res := AffiliateResponse{
		UserResponse:  newUserResponse(d.User),
		ReferralCount: int64(len(d.Referrals)),
		Referrals:     newUsersResponse(d.Referrals),
		Commissions:   make([]CommissionResponse, len(d.Commissions)),
	}
	for i := range d.Commissions {
		res.Commissions[i] = newCommissionResponse(&d.Commissions[i])
	}
	return res
}

type WalletTransactionResponse struct {
	ID           int64                        `json:"id"`
	Direction    domain.DirectionType         `json:"direction"`
	Kind         domain.WalletTransactionKind `json:"kind"`
	Amount       float64                      `json:"amount"`
	BalanceAfter float64                      `json:"balanceAfter"`
	ReferenceID  int64                        `json:"referenceId"`
	CreatedAt    time.Time                    `json:"createdAt"`
}

type AuditLogResponse struct {
	ID        int64              `json:"id"`
	UserID    *int64             `json:"userId,omitempty"`
	Action    domain.AuditAction `json:"action"`
	Entity    string             `json:"entity"`
	EntityID  *int64             `json:"entityId,omitempty"`
	IPAddress string             `json:"ipAddress,omitempty"`
	UserAgent string             `json:"userAgent,omitempty"`
	Details   map[string]any     `json:"details,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

type ConfigResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newConfigResponse(cfg *domain.SystemConfig) ConfigResponse {
	return ConfigResponse{
		Key:         cfg.Key,
		Value:       cfg.Value,
		Description: cfg.Description,
		UpdatedAt:   cfg.UpdatedAt,
	}
}
