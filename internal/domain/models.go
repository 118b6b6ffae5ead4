package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID                 int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Email              string
	EncryptedPassword  string
	Name               string
	Phone              *string
	Role               RoleType
	Status             UserStatusType
	Wallet             decimal.Decimal
	ReferralCode       *string
	ReferredBy         *int64
	TotalCommissions   decimal.Decimal
	PendingCommissions decimal.Decimal
	EmailVerifiedAt    *time.Time
	LastLoginAt        *time.Time
}

// IsActive сообщает, может ли юзер пользоваться системой.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// UserCounts агрегаты по юзеру для админки.
type UserCounts struct {
	Orders    int64
	Referrals int64
}

type Product struct {
	ID                   int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
	Name                 string
	Slug                 string
	Description          string
	Provider             string
	PriceUSD             decimal.Decimal
	PricePEN             decimal.Decimal
	Stock                int
	Sold                 int
	Category             string
	DeliveryType         DeliveryType
	Status               ProductStatusType
	Featured             bool
	Image                string
	MetaTitle            string
	MetaDescription      string
	// AvailableCredentials число свободных доступов в пуле. Заполняется только в ответах администратору.
	AvailableCredentials *int64
}

type ProductCredential struct {
	ID          int64
	CreatedAt   time.Time
	ProductID   int64
	Secret      string
	OrderItemID *int64
	AssignedAt  *time.Time
}

type Order struct {
	ID               int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	OrderNumber      string
	UserID           int64
	Subtotal         decimal.Decimal
	Discount         decimal.Decimal
	Total            decimal.Decimal
	Status           OrderStatusType
	PaymentStatus    PaymentStatusType
	AffiliateID      *int64
	CommissionAmount decimal.Decimal
	CommissionPaid   bool
	PaidAt           *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time

	// Заполняются только при детальном запросе.
	Items []OrderItem
	User  *UserSummary
}

// AllDelivered возвращает true, когда по всем позициям заказа выданы доступы.
func (o *Order) AllDelivered() bool {
	for _, item := range o.Items {
		if !item.Delivered {
			return false
		}
	}
	return true
}

type OrderItem struct {
	ID              int64
	OrderID         int64
	ProductID       int64
	Quantity        int
	PriceUSD        decimal.Decimal
	PricePEN        decimal.Decimal
	Subtotal        decimal.Decimal
	ProductName     string
	ProductProvider string
	DeliveryType    DeliveryType
	Delivered       bool
	DeliveredAt     *time.Time
	Credentials     []string
}

// UserSummary короткое представление юзера для вложенных ответов.
type UserSummary struct {
	ID    int64
	Name  string
	Email string
}

type Recharge struct {
	ID               int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	UserID           int64
	Amount           decimal.Decimal
	Status           RechargeStatusType
	PaymentMethod    string
	PaymentReference string
	PaymentProof     *string
	ApprovedBy       *int64
	ApprovedAt       *time.Time
	RejectedAt       *time.Time
	RejectionReason  *string
	NotificationSent bool
	NotificationAt   *time.Time

	User *UserSummary
}

type Commission struct {
	ID             int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AffiliateID    int64
	OrderID        int64
	OrderNumber    string
	OrderTotal     decimal.Decimal
	CommissionRate decimal.Decimal
	Amount         decimal.Decimal
	Status         CommissionStatusType
	PaidAt         *time.Time
}

type WalletTransaction struct {
	ID           int64
	CreatedAt    time.Time
	UserID       int64
	Direction    DirectionType
	Kind         WalletTransactionKind
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	ReferenceID  int64
}

type AuditLog struct {
	ID        int64
	CreatedAt time.Time
	UserID    *int64
	Action    AuditAction
	Entity    string
	EntityID  *int64
	IPAddress string
	UserAgent string
	Details   map[string]any
}

type SystemConfig struct {
	Key         string
	Value       string
	Description string
	UpdatedAt   time.Time
}

// Actor описывает инициатора действия для журнала аудита.
type Actor struct {
	UserID    int64
	Role      RoleType
	IPAddress string
	UserAgent string
}

// IsAdmin сообщает, обладает ли инициатор правами администратора.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// AffiliateSummary строка списка аффилиатов в админке.
type AffiliateSummary struct {
	User
	ReferralCount int64
}

type MonthlySales struct {
	Month  string
	Total  decimal.Decimal
	Orders int64
}

type TopProduct struct {
	ID       int64
	Name     string
	Provider string
	Sold     int
	Revenue  decimal.Decimal
}

// AdminStats сводка для админской панели.
type AdminStats struct {
	TotalUsers       int64
	TotalProducts    int64
	TotalOrders      int64
	TotalSales       decimal.Decimal
	PendingRecharges int64
	ActiveAffiliates int64
	TodaySales       decimal.Decimal
	MonthSales       decimal.Decimal
	RecentOrders     []Order
	SalesByMonth     []MonthlySales
	TopProducts      []TopProduct
}
