package service

import (
	"context"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

// LoginAttemptStore хранилище счетчиков неудачных входов.
type LoginAttemptStore interface {
	IsLocked(ctx context.Context, email string) (bool, error)
	RegisterFailure(ctx context.Context, email string, maxAttempts int64, lockFor time.Duration) (bool, error)
	Reset(ctx context.Context, email string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

type Notifier interface {
	NotifyRecharge(ctx context.Context, recharge *domain.Recharge, to string) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByReferralCode(ctx context.Context, code string) (*domain.User, error)
	NextReferralSeq(ctx context.Context) (int64, error)
	List(ctx context.Context, filter repoargs.UserFilter) ([]domain.User, int64, error)
	ListAffiliates(ctx context.Context, filter repoargs.UserFilter) ([]domain.AffiliateSummary, int64, error)
	ListReferrals(ctx context.Context, referrerID int64) ([]domain.User, error)
	Counts(ctx context.Context, id int64) (*domain.UserCounts, error)
	Update(ctx context.Context, id int64, upd repoargs.UpdateUser) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	TouchLastLogin(ctx context.Context, id int64) error
	SetPassword(ctx context.Context, id int64, encrypted string) error
	CreditWallet(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error)
	DebitWallet(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error)
	AdjustCommissions(ctx context.Context, id int64, pending, total decimal.Decimal) error
}

type ProductRepository interface {
	Create(ctx context.Context, args repoargs.CreateProduct) (*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filter repoargs.ProductFilter) ([]domain.Product, int64, error)
	Update(ctx context.Context, id int64, upd repoargs.UpdateProduct) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	ReserveStock(ctx context.Context, id int64, qty int) (*domain.Product, error)
	ReleaseStock(ctx context.Context, id int64, qty int) error
	IncreaseStock(ctx context.Context, id int64, qty int) (*domain.Product, error)
}

type CredentialRepository interface {
	BatchCreate(
		ctx context.Context,
		productID int64,
		secrets []string,
		orderItemID *int64,
		fn repoargs.BatchExecQueryRow,
	)
	ClaimAvailable(ctx context.Context, productID, orderItemID int64, limit int) ([]domain.ProductCredential, error)
	SecretsByItems(ctx context.Context, itemIDs []int64) (map[int64][]string, error)
	ReleaseByItems(ctx context.Context, itemIDs []int64) (int64, error)
	CountAvailable(ctx context.Context, productID int64) (int64, error)
}

type OrderRepository interface {
	NextNumberSeq(ctx context.Context, year int) (int, error)
	CreateOrder(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error)
	BatchCreateItems(
		ctx context.Context,
		orderID int64,
		items []repoargs.CreateOrderItem,
		fn repoargs.OrderBatchQueryRow,
	)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	Items(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	FindItemForUpdate(ctx context.Context, orderID, itemID int64) (*domain.OrderItem, error)
	MarkItemDelivered(ctx context.Context, itemID int64) error
	List(ctx context.Context, filter repoargs.OrderFilter) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, args repoargs.UpdateOrderStatus) error
	SetCommission(ctx context.Context, orderID, affiliateID int64, amount decimal.Decimal) error
	MarkCommissionPaid(ctx context.Context, orderID int64) error
	GetForAutoDelivery(ctx context.Context, limit uint) ([]int64, error)
}

type RechargeRepository interface {
	Create(ctx context.Context, args repoargs.CreateRecharge) (*domain.Recharge, error)
	FindByID(ctx context.Context, id int64) (*domain.Recharge, error)
	List(ctx context.Context, filter repoargs.RechargeFilter) ([]domain.Recharge, int64, error)
	Approve(ctx context.Context, id, adminID int64) (*domain.Recharge, error)
	Reject(ctx context.Context, id int64, reason string) (*domain.Recharge, error)
	MarkNotified(ctx context.Context, id int64) error
}

type CommissionRepository interface {
	Create(ctx context.Context, args repoargs.CreateCommission) (*domain.Commission, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Commission, error)
	FindByOrderIDForUpdate(ctx context.Context, orderID int64) (*domain.Commission, error)
	UpdateStatus(ctx context.Context, id int64, status domain.CommissionStatusType) (*domain.Commission, error)
	ListByAffiliate(ctx context.Context, affiliateID int64, page repoargs.Page) ([]domain.Commission, error)
}

type WalletTransactionRepository interface {
	Create(ctx context.Context, args repoargs.CreateWalletTransaction) (*domain.WalletTransaction, error)
	ListByUser(ctx context.Context, userID int64, page repoargs.Page) ([]domain.WalletTransaction, int64, error)
}

type AuditLogRepository interface {
	Create(ctx context.Context, args repoargs.CreateAuditLog) error
	List(ctx context.Context, filter repoargs.AuditFilter) ([]domain.AuditLog, int64, error)
}

type SystemConfigRepository interface {
	List(ctx context.Context) ([]domain.SystemConfig, error)
	Get(ctx context.Context, key string) (*domain.SystemConfig, error)
	Update(ctx context.Context, key, value string) (*domain.SystemConfig, error)
	Upsert(ctx context.Context, key, value, description string) error
}

type StatsRepository interface {
	Totals(ctx context.Context, now time.Time) (*domain.AdminStats, error)
	SalesByMonth(ctx context.Context, since time.Time) ([]domain.MonthlySales, error)
	TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)
}
