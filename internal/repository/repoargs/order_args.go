package repoargs

import (
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateOrder struct {
	OrderNumber   string
	UserID        int64
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	Status        domain.OrderStatusType
	PaymentStatus domain.PaymentStatusType
	PaidAt        *time.Time
}

type CreateOrderItem struct {
	ProductID       int64
	Quantity        int
	PriceUSD        decimal.Decimal
	PricePEN        decimal.Decimal
	Subtotal        decimal.Decimal
	ProductName     string
	ProductProvider string
	DeliveryType    domain.DeliveryType
}

// UpdateOrderStatus меняет статус заказа. Временные метки completed_at/cancelled_at выставляются
// репозиторием в зависимости от статуса.
type UpdateOrderStatus struct {
	ID            int64
	Status        domain.OrderStatusType
	PaymentStatus *domain.PaymentStatusType
}

type OrderFilter struct {
	UserID *int64
	Status *domain.OrderStatusType
	Search string
	Page
}

type OrderBatchQueryRow func(i int, item *domain.OrderItem, err error)
