package handler

import (
	appledger "github.com/eric6923/finTrack-sub000/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// ProfitHandler serves the two profit figures
type ProfitHandler struct {
	BaseHandler
	profits *appledger.ProfitService
}

// NewProfitHandler creates a ProfitHandler
func NewProfitHandler(profits *appledger.ProfitService) *ProfitHandler {
	return &ProfitHandler{profits: profits}
}

type monthQuery struct {
	Date string `form:"date"`
}

type rangeQuery struct {
	Date  string `form:"date"`
	Start string `form:"start" binding:"isodate"`
	End   string `form:"end" binding:"isodate"`
}

// Month godoc
//
//	@ID				profitByMonth
//	@Summary		Monthly booking profit
//	@Description	Profit of the month from fully settled pay later sales and regular bookings, before expenses. This is the figure shares are distributed from.
//	@Tags			profit
//	@Produce		json
//	@Param			date	query		string	true	"Month YYYY-MM"
//	@Success		200		{object}	APIResponse[appledger.ProfitResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/profit/month [get]
func (h *ProfitHandler) Month(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q monthQuery
	if !h.bindQuery(c, &q) {
		return
	}
	res, err := h.profits.ProfitByMonth(c.Request.Context(), tenantID, q.Date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// Range godoc
//
//	@ID				profitByRange
//	@Summary		Net profit for a period
//	@Description	Booking profit less every debit outside the BUS BOOKING category. Pass date (YYYY-MM or YYYY-MM-DD) or start and end; no period means all time.
//	@Tags			profit
//	@Produce		json
//	@Param			date	query		string	false	"YYYY-MM or YYYY-MM-DD"
//	@Param			start	query		string	false	"Range start YYYY-MM-DD"
//	@Param			end		query		string	false	"Range end YYYY-MM-DD"
//	@Success		200		{object}	APIResponse[appledger.ProfitResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/profit/range [get]
func (h *ProfitHandler) Range(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q rangeQuery
	if !h.bindQuery(c, &q) {
		return
	}
	res, err := h.profits.ProfitByDateRange(c.Request.Context(), tenantID, q.Date, q.Start, q.End)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}
