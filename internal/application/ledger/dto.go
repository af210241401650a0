package ledger

import (
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeferredSaleRequest is the pay-later payload of a transaction request
type DeferredSaleRequest struct {
	From             string
	To               string
	TravelDate       time.Time
	BusID            uuid.UUID
	OperatorID       uuid.UUID
	CollectionAmount string
	AgentID          *uuid.UUID
	CommissionAmount string
}

// TransactionRequest is used for both recording and updating a transaction
type TransactionRequest struct {
	Direction       string
	Amount          string
	Channel         string
	CategoryID      uuid.UUID
	Description     string
	ReferenceNumber string
	IsDeferred      bool
	Deferred        *DeferredSaleRequest
}

func (r TransactionRequest) toInput() ledger.EntryInput {
	in := ledger.EntryInput{
		Direction:       r.Direction,
		Amount:          r.Amount,
		Channel:         r.Channel,
		CategoryID:      r.CategoryID,
		Description:     r.Description,
		ReferenceNumber: r.ReferenceNumber,
		IsDeferred:      r.IsDeferred,
	}
	if r.Deferred != nil {
		in.Deferred = &ledger.DeferredSaleInput{
			From:             r.Deferred.From,
			To:               r.Deferred.To,
			TravelDate:       r.Deferred.TravelDate,
			BusID:            r.Deferred.BusID,
			OperatorID:       r.Deferred.OperatorID,
			CollectionAmount: r.Deferred.CollectionAmount,
			AgentID:          r.Deferred.AgentID,
			CommissionAmount: r.Deferred.CommissionAmount,
		}
	}
	return in
}

// SettlementRequest is the payload of a pay-later settlement
type SettlementRequest struct {
	PaymentType     string
	PaymentMode     string
	ReferenceNumber string
	OperatorPayment string
	AgentPayment    string
}

// BalancesResponse is a snapshot of a tenant's balances
type BalancesResponse struct {
	CashBalance    valueobject.Money `json:"cash_balance"`
	BankBalance    valueobject.Money `json:"bank_balance"`
	OutstandingDue valueobject.Money `json:"outstanding_due"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ToBalancesResponse converts a domain AccountBalance
func ToBalancesResponse(b *ledger.AccountBalance) BalancesResponse {
	return BalancesResponse{
		CashBalance:    b.CashBalance,
		BankBalance:    b.BankBalance,
		OutstandingDue: b.OutstandingDue,
		UpdatedAt:      b.UpdatedAt,
	}
}

// SubLedgerResponse is a collection or commission in API responses
type SubLedgerResponse struct {
	PartyID      uuid.UUID         `json:"party_id"`
	Amount       valueobject.Money `json:"amount"`
	RemainingDue valueobject.Money `json:"remaining_due"`
}

// DeferredSaleResponse is the pay-later detail of an entry
type DeferredSaleResponse struct {
	From       string             `json:"from"`
	To         string             `json:"to"`
	TravelDate time.Time          `json:"travel_date"`
	BusID      uuid.UUID          `json:"bus_id"`
	Collection *SubLedgerResponse `json:"collection,omitempty"`
	Commission *SubLedgerResponse `json:"commission,omitempty"`
}

// SettlementLinkResponse describes what a settlement entry paid
type SettlementLinkResponse struct {
	SettledEntryID *uuid.UUID        `json:"settled_entry_id,omitempty"`
	PaymentType    string            `json:"payment_type"`
	OperatorAmount valueobject.Money `json:"operator_amount"`
	AgentAmount    valueobject.Money `json:"agent_amount"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID              uuid.UUID               `json:"id"`
	Direction       string                  `json:"direction"`
	Amount          valueobject.Money       `json:"amount"`
	Channel         string                  `json:"channel"`
	CategoryID      uuid.UUID               `json:"category_id"`
	Description     string                  `json:"description"`
	ReferenceNumber string                  `json:"reference_number,omitempty"`
	IsDeferred      bool                    `json:"is_deferred"`
	OutstandingDue  valueobject.Money       `json:"outstanding_due"`
	DeferredSale    *DeferredSaleResponse   `json:"deferred_sale,omitempty"`
	Settlement      *SettlementLinkResponse `json:"settlement,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ToEntryResponse converts a domain Entry to EntryResponse
func ToEntryResponse(e *ledger.Entry) EntryResponse {
	resp := EntryResponse{
		ID:              e.ID,
		Direction:       e.Direction.String(),
		Amount:          e.Amount,
		Channel:         e.Channel.String(),
		CategoryID:      e.CategoryID,
		Description:     e.Description,
		ReferenceNumber: e.ReferenceNumber,
		IsDeferred:      e.IsDeferred,
		OutstandingDue:  e.OutstandingDue,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if s := e.DeferredSale; s != nil {
		resp.DeferredSale = &DeferredSaleResponse{
			From:       s.From,
			To:         s.To,
			TravelDate: s.TravelDate,
			BusID:      s.BusID,
		}
		if c := s.Collection; c != nil {
			resp.DeferredSale.Collection = &SubLedgerResponse{PartyID: c.OperatorID, Amount: c.Amount, RemainingDue: c.RemainingDue}
		}
		if c := s.Commission; c != nil {
			resp.DeferredSale.Commission = &SubLedgerResponse{PartyID: c.AgentID, Amount: c.Amount, RemainingDue: c.RemainingDue}
		}
	}
	if l := e.Settlement; l != nil {
		resp.Settlement = &SettlementLinkResponse{
			SettledEntryID: l.SettledEntryID,
			PaymentType:    string(l.PaymentType),
			OperatorAmount: l.Allocation.Operator,
			AgentAmount:    l.Allocation.Agent,
		}
	}
	return resp
}

// ToEntryResponses converts a slice of domain entries
func ToEntryResponses(entries []ledger.Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i := range entries {
		out[i] = ToEntryResponse(&entries[i])
	}
	return out
}

// TransactionResult is returned by record and update
type TransactionResult struct {
	Entry    EntryResponse    `json:"transaction"`
	Balances BalancesResponse `json:"balances"`
}

// SettlementResult is returned by a settlement
type SettlementResult struct {
	SettledEntry    EntryResponse     `json:"settled_transaction"`
	SettlementEntry EntryResponse     `json:"settlement_transaction"`
	TotalPayment    valueobject.Money `json:"total_payment"`
	RemainingDue    valueobject.Money `json:"remaining_due"`
	Balances        BalancesResponse  `json:"balances"`
}

// ProfitResponse is a profit figure for a period
type ProfitResponse struct {
	Period         string            `json:"period"`
	Start          *time.Time        `json:"start,omitempty"`
	End            *time.Time        `json:"end,omitempty"`
	Revenue        valueobject.Money `json:"revenue"`
	PartyCuts      valueobject.Money `json:"party_cuts"`
	Expenses       valueobject.Money `json:"expenses"`
	Profit         valueobject.Money `json:"profit"`
	EntriesCounted int               `json:"entries_counted"`
}

// ShareResponse is one shareholder's line in a distribution
type ShareResponse struct {
	ShareholderID  uuid.UUID         `json:"shareholder_id"`
	Name           string            `json:"name"`
	Percentage     decimal.Decimal   `json:"percentage"`
	RawShare       valueobject.Money `json:"raw_share"`
	FinancedAmount valueobject.Money `json:"financed_amount"`
	FinalShare     valueobject.Money `json:"final_share"`
	AppliedNow     valueobject.Money `json:"applied_now"`
	Accumulated    valueobject.Money `json:"accumulated_share_profit"`
}

// DistributionResult is the outcome of a monthly distribution run
type DistributionResult struct {
	Period          string            `json:"period"`
	TotalProfit     valueobject.Money `json:"total_profit"`
	TotalRawShare   valueobject.Money `json:"total_raw_share"`
	TotalFinanced   valueobject.Money `json:"total_financed"`
	TotalFinalShare valueobject.Money `json:"total_final_share"`
	Shares          []ShareResponse   `json:"shares"`
}

func newShareResponse(h *shareholding.Shareholder, d *shareholding.Distribution, applied valueobject.Money) ShareResponse {
	return ShareResponse{
		ShareholderID:  h.ID,
		Name:           h.Name,
		Percentage:     h.SharePercentage,
		RawShare:       d.RawShare,
		FinancedAmount: d.FinancedAmount,
		FinalShare:     d.FinalShare,
		AppliedNow:     applied,
		Accumulated:    h.AccumulatedShareProfit,
	}
}

// ListEntriesRequest filters a transaction listing
type ListEntriesRequest struct {
	Page         int
	PageSize     int
	OrderDir     string
	Direction    string
	Channel      string
	CategoryID   *uuid.UUID
	DeferredOnly bool
	PendingOnly  bool
	Date         string
	Start        string
	End          string
}
