package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/gin-gonic/gin"
)

type AffiliatesHandler struct {
	svs AffiliateServicer
}

func NewAffiliatesHandler(svs AffiliateServicer) *AffiliatesHandler {
	return &AffiliatesHandler{svs: svs}
}

type AffiliatesQuery struct {
	PageQuery
	Status domain.UserStatusType `binding:"omitempty,oneof=ACTIVE INACTIVE PENDING SUSPENDED" form:"status"`
	Search string                `binding:"max=100"                                             form:"search"`
}

func (h *AffiliatesHandler) Index(c *gin.Context) {
	var query AffiliatesQuery
	if !bindQuery(c, &query) {
		return
	}
	filter := repoargs.UserFilter{Search: strings.TrimSpace(query.Search), Page: query.toPage()}
	if query.Status != "" {
		filter.Status = &query.Status
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	affiliates, total, err := h.svs.List(ctx, filter)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}

	res := make([]AffiliateResponse, len(affiliates))
	for i := range affiliates {
		res[i] = AffiliateResponse{
			UserResponse:  newUserResponse(&affiliates[i].User),
			ReferralCount: affiliates[i].ReferralCount,
		}
	}
	c.JSON(http.StatusOK, gin.H{"affiliates": res, "total": total})
}

func (h *AffiliatesHandler) Show(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var query PageQuery
	if !bindQuery(c, &query) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	details, err := h.svs.Details(ctx, id, query.toPage())
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affiliate": newAffiliateDetails(details)})
}

// Dashboard GET RouteGroup + AffiliateMeRoute. Кабинет аффилиата.
func (h *AffiliatesHandler) Dashboard(c *gin.Context) {
	var query PageQuery
	if !bindQuery(c, &query) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	details, err := h.svs.Dashboard(ctx, currentActor(c), query.toPage())
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affiliate": newAffiliateDetails(details)})
}

func (h *AffiliatesHandler) Approve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.svs.Approve(ctx, currentActor(c), id)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affiliate": newUserResponse(user)})
}

type UpdateAffiliateParams struct {
	Status domain.UserStatusType `binding:"required,oneof=ACTIVE INACTIVE SUSPENDED" json:"status"`
}

func (h *AffiliatesHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var params UpdateAffiliateParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.svs.UpdateStatus(ctx, currentActor(c), id, params.Status)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affiliate": newUserResponse(user)})
}

// PayCommission PUT RouteGroup + CommissionPayRoute. Выплата комиссии на кошелек аффилиата.
func (h *AffiliatesHandler) PayCommission(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	commission, err := h.svs.PayCommission(ctx, currentActor(c), id)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commission": newCommissionResponse(commission)})
}
