package handler

import (
	"context"
	"net/http"
	"time"

	appledger "github.com/eric6923/finTrack-sub000/internal/application/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/event"
	"github.com/eric6923/finTrack-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HistoryReader returns the recorded domain events of one aggregate
type HistoryReader interface {
	History(ctx context.Context, tenantID, aggregateID uuid.UUID) ([]event.HistoryItem, error)
}

// TransactionHandler serves ledger entries and their settlement
type TransactionHandler struct {
	BaseHandler
	transactions *appledger.TransactionService
	settlements  *appledger.SettlementService
	history      HistoryReader
}

// NewTransactionHandler creates a TransactionHandler. history may be nil,
// which disables the history endpoint.
func NewTransactionHandler(transactions *appledger.TransactionService, settlements *appledger.SettlementService, history HistoryReader) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, settlements: settlements, history: history}
}

// DeferredSaleBody is the pay-later part of a transaction
//
//	@Description	Pay later sale details
type DeferredSaleBody struct {
	From             string     `json:"from" example:"Bengaluru"`
	To               string     `json:"to" example:"Chennai"`
	TravelDate       string     `json:"travel_date" binding:"isodate" example:"2024-03-15"`
	BusID            uuid.UUID  `json:"bus_id"`
	OperatorID       uuid.UUID  `json:"operator_id"`
	CollectionAmount string     `json:"collection_amount" example:"300"`
	AgentID          *uuid.UUID `json:"agent_id,omitempty"`
	CommissionAmount string     `json:"commission_amount,omitempty" example:"50"`
}

// TransactionBody records or replaces a ledger entry
//
//	@Description	Transaction request
type TransactionBody struct {
	Direction       string            `json:"direction" binding:"required" example:"CREDIT"`
	Amount          string            `json:"amount" binding:"required" example:"500.00"`
	PaymentChannel  string            `json:"payment_channel" binding:"required" example:"CASH"`
	CategoryID      uuid.UUID         `json:"category_id"`
	Description     string            `json:"description" example:"Counter booking"`
	ReferenceNumber string            `json:"reference_number,omitempty"`
	IsDeferred      bool              `json:"is_deferred"`
	DeferredSale    *DeferredSaleBody `json:"deferred_sale,omitempty"`
}

func (b TransactionBody) toRequest() (appledger.TransactionRequest, error) {
	req := appledger.TransactionRequest{
		Direction:       b.Direction,
		Amount:          b.Amount,
		Channel:         b.PaymentChannel,
		CategoryID:      b.CategoryID,
		Description:     b.Description,
		ReferenceNumber: b.ReferenceNumber,
		IsDeferred:      b.IsDeferred,
	}
	if d := b.DeferredSale; d != nil {
		var travel time.Time
		if d.TravelDate != "" {
			t, err := time.Parse(time.DateOnly, d.TravelDate)
			if err != nil {
				return appledger.TransactionRequest{}, errInvalidTravelDate
			}
			travel = t
		}
		req.Deferred = &appledger.DeferredSaleRequest{
			From:             d.From,
			To:               d.To,
			TravelDate:       travel,
			BusID:            d.BusID,
			OperatorID:       d.OperatorID,
			CollectionAmount: d.CollectionAmount,
			AgentID:          d.AgentID,
			CommissionAmount: d.CommissionAmount,
		}
	}
	return req, nil
}

var errInvalidTravelDate = shared.NewDomainError("INVALID_TRAVEL_DATE", "Travel date must be a valid YYYY-MM-DD date")

// SettleBody pays down a pay-later sale
//
//	@Description	Settlement request
type SettleBody struct {
	PaymentType     string `json:"payment_type" binding:"required" example:"PARTIAL"`
	PaymentMode     string `json:"payment_mode" binding:"required" example:"UPI"`
	ReferenceNumber string `json:"reference_number,omitempty" example:"UPI-20240315-01"`
	OperatorPayment string `json:"operator_payment,omitempty" example:"100"`
	AgentPayment    string `json:"agent_payment,omitempty" example:"20"`
}

// ListTransactionsQuery filters the transaction listing
type ListTransactionsQuery struct {
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	Order        string     `form:"order" binding:"omitempty,oneof=asc desc"`
	Direction    string     `form:"direction"`
	Channel      string     `form:"channel"`
	CategoryID   *uuid.UUID `form:"category_id"`
	DeferredOnly bool       `form:"deferred"`
	PendingOnly  bool       `form:"pending"`
	Date         string     `form:"date"`
	Start        string     `form:"start" binding:"isodate"`
	End          string     `form:"end" binding:"isodate"`
}

// Record godoc
//
//	@ID				recordTransaction
//	@Summary		Record a transaction
//	@Description	Records a CREDIT or DEBIT entry and updates the tenant balances. Pay later credits open a collection and optional commission.
//	@Tags			transactions
//	@Accept			json
//	@Produce		json
//	@Param			Idempotency-Key	header		string			false	"Idempotency key"
//	@Param			request			body		TransactionBody	true	"Transaction"
//	@Success		201				{object}	APIResponse[appledger.TransactionResult]
//	@Failure		400				{object}	ErrorResponse
//	@Failure		404				{object}	ErrorResponse
//	@Failure		409				{object}	ErrorResponse
//	@Failure		422				{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions [post]
func (h *TransactionHandler) Record(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var body TransactionBody
	if !h.bind(c, &body) {
		return
	}
	req, err := body.toRequest()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	res, err := h.transactions.Record(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, res)
}

// List godoc
//
//	@ID				listTransactions
//	@Summary		List transactions
//	@Description	Pages through the tenant's ledger, newest first by default
//	@Tags			transactions
//	@Produce		json
//	@Param			page		query		int		false	"Page"
//	@Param			page_size	query		int		false	"Page size"
//	@Param			order		query		string	false	"asc or desc"
//	@Param			direction	query		string	false	"CREDIT or DEBIT"
//	@Param			channel		query		string	false	"CASH or BANK"
//	@Param			category_id	query		string	false	"Category"
//	@Param			deferred	query		bool	false	"Pay later entries only"
//	@Param			pending		query		bool	false	"Entries with an outstanding due only"
//	@Param			date		query		string	false	"YYYY-MM or YYYY-MM-DD"
//	@Param			start		query		string	false	"Range start YYYY-MM-DD"
//	@Param			end			query		string	false	"Range end YYYY-MM-DD"
//	@Success		200			{object}	APIResponse[[]appledger.EntryResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q ListTransactionsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.transactions.List(c.Request.Context(), tenantID, appledger.ListEntriesRequest{
		Page:         q.Page,
		PageSize:     q.PageSize,
		OrderDir:     q.Order,
		Direction:    q.Direction,
		Channel:      q.Channel,
		CategoryID:   q.CategoryID,
		DeferredOnly: q.DeferredOnly,
		PendingOnly:  q.PendingOnly,
		Date:         q.Date,
		Start:        q.Start,
		End:          q.End,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPagedResponse(*page))
}

// Get godoc
//
//	@ID			getTransaction
//	@Summary	Get a transaction
//	@Tags		transactions
//	@Produce	json
//	@Param		id	path		string	true	"Transaction ID"
//	@Success	200	{object}	APIResponse[appledger.EntryResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	entry, err := h.transactions.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Update godoc
//
//	@ID				updateTransaction
//	@Summary		Update a transaction
//	@Description	Replaces a transaction and rebalances the tenant balances by the difference
//	@Tags			transactions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Transaction ID"
//	@Param			request	body		TransactionBody	true	"Transaction"
//	@Success		200		{object}	APIResponse[appledger.TransactionResult]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var body TransactionBody
	if !h.bind(c, &body) {
		return
	}
	req, err := body.toRequest()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	res, err := h.transactions.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// Delete godoc
//
//	@ID				deleteTransaction
//	@Summary		Delete a transaction
//	@Description	Deletes a transaction and reverses its effect on the balances
//	@Tags			transactions
//	@Produce		json
//	@Param			id	path		string	true	"Transaction ID"
//	@Success		200	{object}	APIResponse[appledger.BalancesResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	balances, err := h.transactions.Delete(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balances)
}

// Settle godoc
//
//	@ID				settleTransaction
//	@Summary		Settle a pay later sale
//	@Description	Records a PARTIAL or FULL payment against the collection and commission of a pay later sale
//	@Tags			transactions
//	@Accept			json
//	@Produce		json
//	@Param			Idempotency-Key	header		string		false	"Idempotency key"
//	@Param			id				path		string		true	"Transaction ID"
//	@Param			request			body		SettleBody	true	"Settlement"
//	@Success		201				{object}	APIResponse[appledger.SettlementResult]
//	@Failure		400				{object}	ErrorResponse
//	@Failure		404				{object}	ErrorResponse
//	@Failure		409				{object}	ErrorResponse
//	@Failure		422				{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/{id}/settle [post]
func (h *TransactionHandler) Settle(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var body SettleBody
	if !h.bind(c, &body) {
		return
	}
	res, err := h.settlements.Settle(c.Request.Context(), tenantID, id, appledger.SettlementRequest{
		PaymentType:     body.PaymentType,
		PaymentMode:     body.PaymentMode,
		ReferenceNumber: body.ReferenceNumber,
		OperatorPayment: body.OperatorPayment,
		AgentPayment:    body.AgentPayment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, res)
}

// History godoc
//
//	@ID				transactionHistory
//	@Summary		Transaction history
//	@Description	Lists the recorded events of a transaction, oldest first
//	@Tags			transactions
//	@Produce		json
//	@Param			id	path		string	true	"Transaction ID"
//	@Success		200	{object}	APIResponse[[]event.HistoryItem]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/{id}/history [get]
func (h *TransactionHandler) History(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if h.history == nil {
		h.HandleError(c, shared.NewNotFoundError("Transaction history is not recorded"))
		return
	}
	items, err := h.history.History(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if items == nil {
		items = []event.HistoryItem{}
	}
	h.Success(c, items)
}
