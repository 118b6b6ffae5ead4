package delivery

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/luffy-streaming/internal/service"
)

type Servicer interface {
	OrdersForAutoDelivery(ctx context.Context, limit uint) ([]int64, error)
	AutoDeliver(ctx context.Context, orderID int64) (*service.AutoDeliverResult, error)
}
