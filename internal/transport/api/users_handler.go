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

// UsersHandler админские операции над юзерами.
type UsersHandler struct {
	svs UserServicer
}

func NewUsersHandler(svs UserServicer) *UsersHandler {
	return &UsersHandler{svs: svs}
}

type UsersQuery struct {
	PageQuery
	Role   domain.RoleType       `binding:"omitempty,oneof=USER ADMIN AFFILIATE"                 form:"role"`
	Status domain.UserStatusType `binding:"omitempty,oneof=ACTIVE INACTIVE PENDING SUSPENDED"  form:"status"`
	Search string                `binding:"max=100"                                              form:"search"`
}

func (q UsersQuery) toFilter() repoargs.UserFilter {
	filter := repoargs.UserFilter{Search: strings.TrimSpace(q.Search), Page: q.toPage()}
	if q.Role != "" {
		filter.Role = &q.Role
	}
	if q.Status != "" {
		filter.Status = &q.Status
	}
	return filter
}

func (h *UsersHandler) Index(c *gin.Context) {
	var query UsersQuery
	if !bindQuery(c, &query) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	users, total, err := h.svs.List(ctx, query.toFilter())
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": newUsersResponse(users), "total": total})
}

func (h *UsersHandler) Show(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	details, err := h.svs.Details(ctx, id)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":           newUserResponse(details.User),
		"orders":         newOrdersResponse(details.RecentOrders),
		"ordersCount":    details.Counts.Orders,
		"referralsCount": details.Counts.Referrals,
	})
}

type UpdateUserParams struct {
	Name   *string                `binding:"omitempty,min=2,max=100"                            json:"name"`
	Phone  *string                `binding:"omitempty,max=30"                                   json:"phone"`
	Role   *domain.RoleType       `binding:"omitempty,oneof=USER ADMIN AFFILIATE"               json:"role"`
	Status *domain.UserStatusType `binding:"omitempty,oneof=ACTIVE INACTIVE PENDING SUSPENDED" json:"status"`
}

func (h *UsersHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var params UpdateUserParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.svs.Update(ctx, currentActor(c), id, service.UpdateUserArgs{
		Name:   params.Name,
		Phone:  params.Phone,
		Role:   params.Role,
		Status: params.Status,
	})
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

func (h *UsersHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.Delete(ctx, currentActor(c), id); err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
