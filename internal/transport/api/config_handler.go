package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/gin-gonic/gin"
)

// ConfigHandler системные настройки и журнал аудита.
type ConfigHandler struct {
	svs ConfigServicer
}

func NewConfigHandler(svs ConfigServicer) *ConfigHandler {
	return &ConfigHandler{svs: svs}
}

func (h *ConfigHandler) Index(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	configs, err := h.svs.List(reqCtx)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	res := make([]ConfigResponse, len(configs))
	for i := range configs {
		res[i] = newConfigResponse(&configs[i])
	}
	c.JSON(http.StatusOK, gin.H{"configs": res})
}

type UpdateConfigParams struct {
	Value string `binding:"required,max=500" json:"value"`
}

func (h *ConfigHandler) Update(c *gin.Context) {
	var params UpdateConfigParams
	if !bindJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	cfg, err := h.svs.Update(reqCtx, currentActor(c), c.Param("key"), params.Value)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": newConfigResponse(cfg)})
}

type AuditQuery struct {
	PageQuery
	Action string `binding:"max=50"          form:"action"`
	Entity string `binding:"max=50"          form:"entity"`
	UserID *int64 `binding:"omitempty,gt=0"  form:"userId"`
}

// AuditLogs GET RouteGroup + AuditLogsRoute.
func (h *ConfigHandler) AuditLogs(c *gin.Context) {
	var query AuditQuery
	if !bindQuery(c, &query) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	logs, total, err := h.svs.Audit(reqCtx, repoargs.AuditFilter{
		Action: strings.ToUpper(strings.TrimSpace(query.Action)),
		Entity: strings.TrimSpace(query.Entity),
		UserID: query.UserID,
		Page:   query.toPage(),
	})
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}

	res := make([]AuditLogResponse, len(logs))
	for i, l := range logs {
		res[i] = AuditLogResponse{
			ID:        l.ID,
			UserID:    l.UserID,
			Action:    l.Action,
			Entity:    l.Entity,
			EntityID:  l.EntityID,
			IPAddress: l.IPAddress,
			UserAgent: l.UserAgent,
			Details:   l.Details,
			CreatedAt: l.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"logs": res, "total": total})
}
