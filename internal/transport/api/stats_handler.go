package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	svs StatsServicer
}

func NewStatsHandler(svs StatsServicer) *StatsHandler {
	return &StatsHandler{svs: svs}
}

type MonthlySalesResponse struct {
	Month  string  `json:"month"`
	Total  float64 `json:"total"`
	Orders int64   `json:"orders"`
}

type TopProductResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Provider string  `json:"provider"`
	Sold     int     `json:"sold"`
	Revenue  float64 `json:"revenue"`
}

type StatsResponse struct {
	TotalUsers       int64                  `json:"totalUsers"`
	TotalProducts    int64                  `json:"totalProducts"`
	TotalOrders      int64                  `json:"totalOrders"`
	TotalSales       float64                `json:"totalSales"`
	PendingRecharges int64                  `json:"pendingRecharges"`
	ActiveAffiliates int64                  `json:"activeAffiliates"`
	TodaySales       float64                `json:"todaySales"`
	MonthSales       float64                `json:"monthSales"`
	SalesByMonth     []MonthlySalesResponse `json:"salesByMonth"`
	TopProducts      []TopProductResponse   `json:"topProducts"`
}

// Admin GET RouteGroup + AdminStatsRoute. Сводка для админской панели.
func (h *StatsHandler) Admin(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	stats, err := h.svs.Admin(reqCtx)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}

	res := StatsResponse{
		TotalUsers:       stats.TotalUsers,
		TotalProducts:    stats.TotalProducts,
		TotalOrders:      stats.TotalOrders,
		TotalSales:       stats.TotalSales.InexactFloat64(),
		PendingRecharges: stats.PendingRecharges,
		ActiveAffiliates: stats.ActiveAffiliates,
		TodaySales:       stats.TodaySales.InexactFloat64(),
		MonthSales:       stats.MonthSales.InexactFloat64(),
		SalesByMonth:     make([]MonthlySalesResponse, len(stats.SalesByMonth)),
		TopProducts:      make([]TopProductResponse, len(stats.TopProducts)),
	}
	for i, m := range stats.SalesByMonth {
		res.SalesByMonth[i] = MonthlySalesResponse{Month: m.Month, Total: m.Total.InexactFloat64(), Orders: m.Orders}
	}
	for i, p := range stats.TopProducts {
		res.TopProducts[i] = TopProductResponse{
			ID:       p.ID,
			Name:     p.Name,
			Provider: p.Provider,
			Sold:     p.Sold,
			Revenue:  p.Revenue.InexactFloat64(),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":        res,
		"recentOrders": newOrdersResponse(stats.RecentOrders),
	})
}
