package handler

import (
	appledger "github.com/eric6923/finTrack-sub000/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// BalanceHandler serves the tenant's cash, bank and outstanding balances
type BalanceHandler struct {
	BaseHandler
	transactions *appledger.TransactionService
}

// NewBalanceHandler creates a BalanceHandler
func NewBalanceHandler(transactions *appledger.TransactionService) *BalanceHandler {
	return &BalanceHandler{transactions: transactions}
}

// OpeningBalancesBody sets the balances a tenant starts with
//
//	@Description	Opening balances
type OpeningBalancesBody struct {
	CashBalance string `json:"cash_balance" binding:"money" example:"10000"`
	BankBalance string `json:"bank_balance" binding:"money" example:"250000"`
}

// Get godoc
//
//	@ID			getBalances
//	@Summary	Get balances
//	@Tags		balances
//	@Produce	json
//	@Success	200	{object}	APIResponse[appledger.BalancesResponse]
//	@Security	BearerAuth
//	@Router		/balances [get]
func (h *BalanceHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	b, err := h.transactions.GetBalances(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// SetOpening godoc
//
//	@ID				setOpeningBalances
//	@Summary		Set opening balances
//	@Description	Overwrites the cash and bank balances. The outstanding due is left alone.
//	@Tags			balances
//	@Accept			json
//	@Produce		json
//	@Param			request	body		OpeningBalancesBody	true	"Opening balances"
//	@Success		200		{object}	APIResponse[appledger.BalancesResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/balances [put]
func (h *BalanceHandler) SetOpening(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var body OpeningBalancesBody
	if !h.bind(c, &body) {
		return
	}
	b, err := h.transactions.SetOpeningBalances(c.Request.Context(), tenantID, appledger.OpeningBalancesRequest{
		CashBalance: body.CashBalance,
		BankBalance: body.BankBalance,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}
