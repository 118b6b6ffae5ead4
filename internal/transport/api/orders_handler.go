package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/gin-gonic/gin"
)

type OrdersHandler struct {
	orderSvs OrderServicer
}

func NewOrdersHandler(orderSvs OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
	}
}

type OrderItemParams struct {
	ProductID int64 `binding:"required,gt=0"         json:"productId"`
	Quantity  int   `binding:"required,min=1,max=50" json:"quantity"`
}

type CreateOrderParams struct {
	Items []OrderItemParams `binding:"required,min=1,max=50,dive" json:"items"`
}

// Create POST RouteGroup + OrdersRoute. Оформляет заказ с оплатой из кошелька.
func (o *OrdersHandler) Create(c *gin.Context) {
	var params CreateOrderParams
	if !bindJSON(c, &params) {
		return
	}

	items := make([]service.OrderItemArgs, len(params.Items))
	for i, item := range params.Items {
		items[i] = service.OrderItemArgs{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.Create(reqCtx, currentActor(c), items)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": newOrderResponse(order)})
}

type OrdersQuery struct {
	PageQuery
	Status domain.OrderStatusType `binding:"omitempty,oneof=PENDING PROCESSING COMPLETED CANCELLED" form:"status"`
	Search string                 `binding:"max=100"                                                 form:"search"`
}

// Index GET RouteGroup + OrdersRoute. Администратор видит все заказы, остальные только свои.
func (o *OrdersHandler) Index(c *gin.Context) {
	var query OrdersQuery
	if !bindQuery(c, &query) {
		return
	}
	filter := repoargs.OrderFilter{Search: strings.TrimSpace(query.Search), Page: query.toPage()}
	if query.Status != "" {
		filter.Status = &query.Status
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, total, err := o.orderSvs.List(reqCtx, currentActor(c), filter)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": newOrdersResponse(orders), "total": total})
}

// Show GET RouteGroup + OrderRoute.
func (o *OrdersHandler) Show(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.Get(reqCtx, currentActor(c), id)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": newOrderResponse(order)})
}

type UpdateOrderStatusParams struct {
	Status domain.OrderStatusType `binding:"required,oneof=PENDING PROCESSING COMPLETED CANCELLED" json:"status"`
}

// UpdateStatus PUT RouteGroup + OrderStatusRoute.
func (o *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var params UpdateOrderStatusParams
	if !bindJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.UpdateStatus(reqCtx, currentActor(c), id, params.Status)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": newOrderResponse(order)})
}

type DeliverItemParams struct {
	Credentials []string `binding:"required,min=1,max=50,dive,max_bytes=1000" json:"credentials"`
}

// DeliverItem PUT RouteGroup + OrderItemDeliverRoute. Ручная выдача доступов по позиции заказа.
func (o *OrdersHandler) DeliverItem(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := idParam(c, "itemId")
	if !ok {
		return
	}
	var params DeliverItemParams
	if !bindJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.DeliverItem(reqCtx, currentActor(c), orderID, itemID, params.Credentials)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": newOrderResponse(order)})
}
