package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	svs WalletServicer
}

func NewWalletHandler(svs WalletServicer) *WalletHandler {
	return &WalletHandler{svs: svs}
}

type WalletResponse struct {
	Balance      float64                     `json:"balance"`
	Transactions []WalletTransactionResponse `json:"transactions"`
	Total        int64                       `json:"total"`
}

// Index GET RouteGroup + WalletRoute. Баланс и журнал движений по кошельку текущего юзера.
func (h *WalletHandler) Index(c *gin.Context) {
	var query PageQuery
	if !bindQuery(c, &query) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	statement, err := h.svs.Statement(reqCtx, getUserIDFromContext(c), query.toPage())
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}

	res := WalletResponse{
		Balance:      statement.Balance.InexactFloat64(),
		Transactions: make([]WalletTransactionResponse, len(statement.Transactions)),
		Total:        statement.Total,
	}
	for i, tr := range statement.Transactions {
		res.Transactions[i] = WalletTransactionResponse{
			ID:           tr.ID,
			Direction:    tr.Direction,
			Kind:         tr.Kind,
			Amount:       tr.Amount.InexactFloat64(),
			BalanceAfter: tr.BalanceAfter.InexactFloat64(),
			ReferenceID:  tr.ReferenceID,
			CreatedAt:    tr.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, res)
}
