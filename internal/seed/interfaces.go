package seed

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/service"
)

type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, error)
	EnsureAdmin(ctx context.Context, args service.CreateAdminArgs) (*domain.User, error)
}

type AffiliateServicer interface {
	Approve(ctx context.Context, actor domain.Actor, id int64) (*domain.User, error)
}

type ProductServicer interface {
	List(ctx context.Context, filter repoargs.ProductFilter, includeInactive bool) ([]domain.Product, int64, error)
	Create(ctx context.Context, actor domain.Actor, args service.CreateProductArgs) (*domain.Product, error)
	AddCredentials(ctx context.Context, actor domain.Actor, productID int64, secrets []string) (*domain.Product, error)
}

type RechargeServicer interface {
	Create(ctx context.Context, actor domain.Actor, args service.CreateRechargeArgs) (*domain.Recharge, error)
	Approve(ctx context.Context, actor domain.Actor, id int64) (*domain.Recharge, error)
}

type OrderServicer interface {
	Create(ctx context.Context, actor domain.Actor, items []service.OrderItemArgs) (*domain.Order, error)
}

type ConfigServicer interface {
	Update(ctx context.Context, actor domain.Actor, key, value string) (*domain.SystemConfig, error)
}
