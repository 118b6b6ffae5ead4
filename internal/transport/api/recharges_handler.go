package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RechargesHandler struct {
	svs RechargeServicer
}

func NewRechargesHandler(svs RechargeServicer) *RechargesHandler {
	return &RechargesHandler{svs: svs}
}

type CreateRechargeParams struct {
	Amount           decimal.Decimal `binding:"gt=0,lte=9999999999.99"         json:"amount"`
	PaymentMethod    string          `binding:"required,max=50"                json:"paymentMethod"`
	PaymentReference string          `binding:"required,max=100"               json:"paymentReference"`
	PaymentProof     *string         `binding:"omitempty,url,max_bytes=500"    json:"paymentProof"`
}

// Create POST RouteGroup + RechargesRoute. Заявка на пополнение кошелька.
func (h *RechargesHandler) Create(c *gin.Context) {
	var params CreateRechargeParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	recharge, err := h.svs.Create(ctx, currentActor(c), service.CreateRechargeArgs{
		Amount:           params.Amount,
		PaymentMethod:    strings.TrimSpace(params.PaymentMethod),
		PaymentReference: strings.TrimSpace(params.PaymentReference),
		PaymentProof:     params.PaymentProof,
	})
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recharge": newRechargeResponse(recharge)})
}

type RechargesQuery struct {
	PageQuery
	Status domain.RechargeStatusType `binding:"omitempty,oneof=PENDING APPROVED REJECTED" form:"status"`
}

func (h *RechargesHandler) Index(c *gin.Context) {
	var query RechargesQuery
	if !bindQuery(c, &query) {
		return
	}
	filter := repoargs.RechargeFilter{Page: query.toPage()}
	if query.Status != "" {
		filter.Status = &query.Status
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	recharges, total, err := h.svs.List(ctx, currentActor(c), filter)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}

	res := make([]RechargeResponse, len(recharges))
	for i := range recharges {
		res[i] = newRechargeResponse(&recharges[i])
	}
	c.JSON(http.StatusOK, gin.H{"recharges": res, "total": total})
}

func (h *RechargesHandler) Show(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	recharge, err := h.svs.Get(ctx, currentActor(c), id)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recharge": newRechargeResponse(recharge)})
}

// Approve PUT RouteGroup + RechargeApproveRoute. Зачисляет сумму заявки на кошелек.
func (h *RechargesHandler) Approve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	recharge, err := h.svs.Approve(ctx, currentActor(c), id)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recharge": newRechargeResponse(recharge)})
}

type RejectRechargeParams struct {
	Reason string `binding:"max=500" json:"reason"`
}

// Reject PUT RouteGroup + RechargeRejectRoute. Пустая причина отклоняется сервисом с 400.
func (h *RechargesHandler) Reject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var params RejectRechargeParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	recharge, err := h.svs.Reject(ctx, currentActor(c), id, strings.TrimSpace(params.Reason))
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recharge": newRechargeResponse(recharge)})
}
