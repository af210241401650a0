package ledger

import (
	"fmt"
	"strings"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AggregateTypeEntry is the aggregate type for ledger entries
const AggregateTypeEntry = "LedgerEntry"

// EntryInput is the caller payload for recording or revising an entry
type EntryInput struct {
	Direction       string
	Amount          string
	Channel         string
	CategoryID      uuid.UUID
	Description     string
	ReferenceNumber string
	IsDeferred      bool
	Deferred        *DeferredSaleInput
}

type validatedInput struct {
	direction Direction
	amount    valueobject.Money
	channel   Channel
}

// validate runs the checks in the order callers observe them: direction,
// amount, deferred direction, description, then the remaining fields.
func (in EntryInput) validate() (validatedInput, error) {
	var v validatedInput

	direction, err := ParseDirection(in.Direction)
	if err != nil {
		return v, err
	}
	v.direction = direction

	amount, err := valueobject.NewMoneyFromString(in.Amount)
	if err != nil || !amount.IsPositive() || !amount.FitsScale() {
		return v, ErrInvalidAmount
	}
	v.amount = amount

	if in.IsDeferred && direction != DirectionCredit {
		return v, ErrInvalidDeferredDirection
	}

	deferredCredit := direction == DirectionCredit && in.IsDeferred
	if !deferredCredit && strings.TrimSpace(in.Description) == "" {
		return v, ErrDescriptionRequired
	}

	channel, err := ParseChannel(in.Channel)
	if err != nil {
		return v, err
	}
	v.channel = channel

	if in.CategoryID == uuid.Nil {
		return v, ErrCategoryRequired
	}

	if in.IsDeferred {
		if in.Deferred == nil {
			return v, ErrDeferredDetailsRequired
		}
		if _, _, err := in.Deferred.Validate(); err != nil {
			return v, err
		}
	}
	return v, nil
}

// SettlementLink marks an entry as the DEBIT side of a pay-later settlement.
// SettledEntryID is nil once the settled entry itself has been deleted.
type SettlementLink struct {
	SettledEntryID *uuid.UUID
	PaymentType    PaymentType
	Allocation     Allocation
}

// Entry is one CREDIT or DEBIT movement on a tenant's books
type Entry struct {
	shared.TenantAggregateRoot
	Direction       Direction
	Amount          valueobject.Money
	Channel         Channel
	CategoryID      uuid.UUID
	Description     string
	ReferenceNumber string
	IsDeferred      bool
	OutstandingDue  valueobject.Money
	DeferredSale    *DeferredSale
	Settlement      *SettlementLink
}

// NewEntry validates the input and builds a new entry. For pay-later entries
// the deferred sale is attached with OutstandingDue equal to the collection
// plus commission amounts.
func NewEntry(tenantID uuid.UUID, in EntryInput) (*Entry, error) {
	v, err := in.validate()
	if err != nil {
		return nil, err
	}

	e := &Entry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Direction:           v.direction,
		Amount:              v.amount,
		Channel:             v.channel,
		CategoryID:          in.CategoryID,
		Description:         strings.TrimSpace(in.Description),
		ReferenceNumber:     strings.TrimSpace(in.ReferenceNumber),
		IsDeferred:          in.IsDeferred,
		OutstandingDue:      valueobject.Zero(),
	}
	if in.IsDeferred {
		sale, err := NewDeferredSale(e.ID, *in.Deferred)
		if err != nil {
			return nil, err
		}
		e.DeferredSale = sale
		e.OutstandingDue = sale.TotalAmount()
		if e.Description == "" {
			e.Description = fmt.Sprintf("%s to %s", sale.From, sale.To)
		}
	}

	e.AddDomainEvent(NewEntryRecordedEvent(e))
	return e, nil
}

// NewSettlementEntry builds the DEBIT entry that records a pay-later payment
func NewSettlementEntry(target *Entry, paymentType PaymentType, mode PaymentMode, reference string, alloc Allocation) *Entry {
	settledID := target.ID
	return &Entry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(target.TenantID),
		Direction:           DirectionDebit,
		Amount:              alloc.Total(),
		Channel:             mode.Channel(),
		CategoryID:          target.CategoryID,
		Description:         SettlementDescription(paymentType),
		ReferenceNumber:     strings.TrimSpace(reference),
		OutstandingDue:      valueobject.Zero(),
		Settlement: &SettlementLink{
			SettledEntryID: &settledID,
			PaymentType:    paymentType,
			Allocation:     alloc,
		},
	}
}

// IsSettlement reports whether the entry records a pay-later payment
func (e *Entry) IsSettlement() bool {
	return e.Settlement != nil
}

// ApplyTo applies the entry's balance effect as of creation: CREDIT increases
// the channel, DEBIT decreases it with a sufficiency check, and a pay-later
// entry adds its outstanding due to the tenant aggregate.
func (e *Entry) ApplyTo(b *AccountBalance) error {
	switch e.Direction {
	case DirectionCredit:
		b.Credit(e.Channel, e.Amount)
	case DirectionDebit:
		if err := b.Debit(e.Channel, e.Amount); err != nil {
			return err
		}
	}
	if e.IsDeferred {
		b.AddDue(e.OutstandingDue)
	}
	return nil
}

// ReverseFrom undoes ApplyTo using the entry's current state: the stored
// outstanding due is removed, not the original one.
func (e *Entry) ReverseFrom(b *AccountBalance) {
	switch e.Direction {
	case DirectionCredit:
		b.ForceDebit(e.Channel, e.Amount)
	case DirectionDebit:
		b.Credit(e.Channel, e.Amount)
	}
	if e.IsDeferred {
		b.ReduceDue(e.OutstandingDue)
	}
}

// Revise replaces the entry's fields. Balance effects are not touched here;
// callers reverse the old effect before and apply the new one after.
func (e *Entry) Revise(in EntryInput) error {
	if e.IsSettlement() {
		return ErrSettlementImmutable
	}
	v, err := in.validate()
	if err != nil {
		return err
	}
	if e.IsDeferred && !in.IsDeferred && e.DeferredSale != nil && e.DeferredSale.HasPayments() {
		return ErrSettledSaleChange
	}

	if in.IsDeferred {
		if e.DeferredSale == nil {
			sale, err := NewDeferredSale(e.ID, *in.Deferred)
			if err != nil {
				return err
			}
			e.DeferredSale = sale
		} else if err := e.DeferredSale.revise(*in.Deferred); err != nil {
			return err
		}
		e.OutstandingDue = e.DeferredSale.TotalRemaining()
	} else {
		e.DeferredSale = nil
		e.OutstandingDue = valueobject.Zero()
	}

	e.Direction = v.direction
	e.Amount = v.amount
	e.Channel = v.channel
	e.CategoryID = in.CategoryID
	e.Description = strings.TrimSpace(in.Description)
	e.ReferenceNumber = strings.TrimSpace(in.ReferenceNumber)
	e.IsDeferred = in.IsDeferred
	if e.IsDeferred && e.Description == "" {
		e.Description = fmt.Sprintf("%s to %s", e.DeferredSale.From, e.DeferredSale.To)
	}
	e.Touch()
	e.IncrementVersion()

	e.AddDomainEvent(NewEntryRevisedEvent(e))
	return nil
}

// Settle applies a FULL or PARTIAL payment to the entry's deferred sale and
// returns the allocation actually applied. For FULL the allocation argument is
// ignored and each sub-ledger is decremented by its remaining due.
func (e *Entry) Settle(paymentType PaymentType, requested Allocation) (Allocation, error) {
	if !e.IsDeferred || e.DeferredSale == nil {
		return Allocation{}, ErrNotDeferred
	}
	sale := e.DeferredSale

	var alloc Allocation
	switch paymentType {
	case PaymentTypeFull:
		alloc = sale.FullAllocation()
		if !alloc.Total().IsPositive() {
			return Allocation{}, ErrAlreadySettled
		}
	case PaymentTypePartial:
		if err := sale.CheckAllocation(requested); err != nil {
			return Allocation{}, err
		}
		alloc = requested
		if !alloc.Total().IsPositive() {
			return Allocation{}, ErrInvalidAmount
		}
	default:
		return Allocation{}, ErrInvalidPaymentType
	}

	total := alloc.Total()
	if total.GreaterThan(e.OutstandingDue) {
		return Allocation{}, shared.NewConflictError("TOTAL_EXCEEDS_DUE",
			fmt.Sprintf("Total payment %s exceeds the outstanding due of %s", total, e.OutstandingDue))
	}

	sale.apply(alloc)
	e.OutstandingDue = e.OutstandingDue.Sub(total)
	e.Touch()
	e.IncrementVersion()

	e.AddDomainEvent(NewPayLaterSettledEvent(e, paymentType, alloc))
	return alloc, nil
}

// RestoreSettlement puts a previously applied settlement back onto the
// entry, used when the settlement DEBIT is deleted.
func (e *Entry) RestoreSettlement(alloc Allocation) {
	if e.DeferredSale == nil {
		return
	}
	e.DeferredSale.restore(alloc)
	e.OutstandingDue = e.OutstandingDue.Add(alloc.Total())
	e.Touch()
	e.IncrementVersion()
}

// MarkDeleted records the deletion event
func (e *Entry) MarkDeleted() {
	e.AddDomainEvent(NewEntryDeletedEvent(e))
}

// CountsTowardProfit reports whether the entry contributes to profit: a
// CREDIT that is either not pay-later or fully settled.
func (e *Entry) CountsTowardProfit() bool {
	if e.Direction != DirectionCredit {
		return false
	}
	return !e.IsDeferred || e.OutstandingDue.IsZero()
}

// Profit returns amount - commission amount - collection amount
func (e *Entry) Profit() valueobject.Money {
	profit := e.Amount
	if e.DeferredSale != nil {
		profit = profit.Sub(e.DeferredSale.TotalAmount())
	}
	return profit
}
