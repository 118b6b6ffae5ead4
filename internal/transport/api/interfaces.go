package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/service"
)

type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	TokenTTL() time.Duration
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, filter repoargs.UserFilter) ([]domain.User, int64, error)
	Details(ctx context.Context, id int64) (*service.UserDetails, error)
	Update(ctx context.Context, actor domain.Actor, id int64, args service.UpdateUserArgs) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}

type ProductServicer interface {
	List(ctx context.Context, filter repoargs.ProductFilter, includeInactive bool) ([]domain.Product, int64, error)
	Get(ctx context.Context, ref string, includeInactive bool) (*domain.Product, error)
	Create(ctx context.Context, actor domain.Actor, args service.CreateProductArgs) (*domain.Product, error)
	Update(ctx context.Context, actor domain.Actor, id int64, upd repoargs.UpdateProduct) (*domain.Product, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
	AddCredentials(ctx context.Context, actor domain.Actor, productID int64, secrets []string) (*domain.Product, error)
}

type OrderServicer interface {
	Create(ctx context.Context, actor domain.Actor, items []service.OrderItemArgs) (*domain.Order, error)
	List(ctx context.Context, actor domain.Actor, filter repoargs.OrderFilter) ([]domain.Order, int64, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id int64, next domain.OrderStatusType) (*domain.Order, error)
	DeliverItem(ctx context.Context, actor domain.Actor, orderID, itemID int64, secrets []string) (*domain.Order, error)
}

type RechargeServicer interface {
	Create(ctx context.Context, actor domain.Actor, args service.CreateRechargeArgs) (*domain.Recharge, error)
	List(ctx context.Context, actor domain.Actor, filter repoargs.RechargeFilter) ([]domain.Recharge, int64, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Recharge, error)
	Approve(ctx context.Context, actor domain.Actor, id int64) (*domain.Recharge, error)
	Reject(ctx context.Context, actor domain.Actor, id int64, reason string) (*domain.Recharge, error)
}

type AffiliateServicer interface {
	List(ctx context.Context, filter repoargs.UserFilter) ([]domain.AffiliateSummary, int64, error)
	Details(ctx context.Context, id int64, page repoargs.Page) (*service.AffiliateDetails, error)
	Dashboard(ctx context.Context, actor domain.Actor, page repoargs.Page) (*service.AffiliateDetails, error)
	Approve(ctx context.Context, actor domain.Actor, id int64) (*domain.User, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status domain.UserStatusType) (*domain.User, error)
	PayCommission(ctx context.Context, actor domain.Actor, commissionID int64) (*domain.Commission, error)
}

type WalletServicer interface {
	Statement(ctx context.Context, userID int64, page repoargs.Page) (*service.WalletStatement, error)
}

type StatsServicer interface {
	Admin(ctx context.Context) (*domain.AdminStats, error)
}

type ConfigServicer interface {
	List(ctx context.Context) ([]domain.SystemConfig, error)
	Update(ctx context.Context, actor domain.Actor, key, value string) (*domain.SystemConfig, error)
	Audit(ctx context.Context, filter repoargs.AuditFilter) ([]domain.AuditLog, int64, error)
}
