package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Collection tracks what is owed to the bus operator for a pay-later sale
type Collection struct {
	ID           uuid.UUID
	OperatorID   uuid.UUID
	Amount       valueobject.Money
	RemainingDue valueobject.Money
}

// Paid returns how much of the collection has been settled
func (c *Collection) Paid() valueobject.Money {
	return c.Amount.Sub(c.RemainingDue)
}

// Commission tracks what is owed to the booking agent for a pay-later sale
type Commission struct {
	ID           uuid.UUID
	AgentID      uuid.UUID
	Amount       valueobject.Money
	RemainingDue valueobject.Money
}

// Paid returns how much of the commission has been settled
func (c *Commission) Paid() valueobject.Money {
	return c.Amount.Sub(c.RemainingDue)
}

// DeferredSale is the booking detail behind a pay-later CREDIT entry
type DeferredSale struct {
	ID         uuid.UUID
	EntryID    uuid.UUID
	From       string
	To         string
	TravelDate time.Time
	BusID      uuid.UUID
	Collection *Collection
	Commission *Commission
}

// DeferredSaleInput carries the booking payload of a pay-later entry
type DeferredSaleInput struct {
	From             string
	To               string
	TravelDate       time.Time
	BusID            uuid.UUID
	OperatorID       uuid.UUID
	CollectionAmount string
	AgentID          *uuid.UUID
	CommissionAmount string
}

// Validate checks the payload shape. Existence of the referenced bus,
// operator and agent is checked by the caller against the store.
func (in DeferredSaleInput) Validate() (collection valueobject.Money, commission valueobject.Money, err error) {
	if strings.TrimSpace(in.From) == "" || strings.TrimSpace(in.To) == "" || in.BusID == uuid.Nil || in.OperatorID == uuid.Nil {
		return collection, commission, ErrDeferredDetailsRequired
	}
	collection, err = parseNonNegative(in.CollectionAmount, "collection")
	if err != nil {
		return collection, commission, err
	}
	commission = valueobject.Zero()
	if strings.TrimSpace(in.CommissionAmount) != "" {
		commission, err = parseNonNegative(in.CommissionAmount, "commission")
		if err != nil {
			return collection, commission, err
		}
	}
	if in.AgentID == nil && commission.IsPositive() {
		return collection, commission, ErrCommissionAgentRequired
	}
	return collection, commission, nil
}

func parseNonNegative(raw, field string) (valueobject.Money, error) {
	m, err := valueobject.NewMoneyFromString(raw)
	if err != nil || m.IsNegative() || !m.FitsScale() {
		return valueobject.Money{}, shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("The %s amount must be a non-negative number with at most two decimal places", field))
	}
	return m, nil
}

// NewDeferredSale builds the sale and both sub-ledgers with their remaining
// due equal to their amount.
func NewDeferredSale(entryID uuid.UUID, in DeferredSaleInput) (*DeferredSale, error) {
	collection, commission, err := in.Validate()
	if err != nil {
		return nil, err
	}
	sale := &DeferredSale{
		ID:         uuid.New(),
		EntryID:    entryID,
		From:       strings.TrimSpace(in.From),
		To:         strings.TrimSpace(in.To),
		TravelDate: in.TravelDate,
		BusID:      in.BusID,
		Collection: &Collection{
			ID:           uuid.New(),
			OperatorID:   in.OperatorID,
			Amount:       collection,
			RemainingDue: collection,
		},
	}
	if in.AgentID != nil {
		sale.Commission = &Commission{
			ID:           uuid.New(),
			AgentID:      *in.AgentID,
			Amount:       commission,
			RemainingDue: commission,
		}
	}
	return sale, nil
}

// TotalAmount is Collection.Amount + Commission.Amount
func (s *DeferredSale) TotalAmount() valueobject.Money {
	total := valueobject.Zero()
	if s.Collection != nil {
		total = total.Add(s.Collection.Amount)
	}
	if s.Commission != nil {
		total = total.Add(s.Commission.Amount)
	}
	return total
}

// TotalRemaining is the sum of both sub-ledger remaining dues
func (s *DeferredSale) TotalRemaining() valueobject.Money {
	total := valueobject.Zero()
	if s.Collection != nil {
		total = total.Add(s.Collection.RemainingDue)
	}
	if s.Commission != nil {
		total = total.Add(s.Commission.RemainingDue)
	}
	return total
}

// HasPayments reports whether any part of either sub-ledger was settled
func (s *DeferredSale) HasPayments() bool {
	if s.Collection != nil && s.Collection.Paid().IsPositive() {
		return true
	}
	return s.Commission != nil && s.Commission.Paid().IsPositive()
}

// Allocation is how a settlement payment splits across the two sub-ledgers
type Allocation struct {
	Operator valueobject.Money
	Agent    valueobject.Money
}

// Total returns Operator + Agent
func (a Allocation) Total() valueobject.Money {
	return a.Operator.Add(a.Agent)
}

// FullAllocation allocates exactly the remaining due of each sub-ledger
func (s *DeferredSale) FullAllocation() Allocation {
	alloc := Allocation{Operator: valueobject.Zero(), Agent: valueobject.Zero()}
	if s.Collection != nil {
		alloc.Operator = s.Collection.RemainingDue
	}
	if s.Commission != nil {
		alloc.Agent = s.Commission.RemainingDue
	}
	return alloc
}

// CheckAllocation rejects negative payments, payments above a sub-ledger's
// remaining due and positive payments against a sub-ledger the sale does not
// have. Nothing is capped.
func (s *DeferredSale) CheckAllocation(alloc Allocation) error {
	if alloc.Operator.IsNegative() || alloc.Agent.IsNegative() {
		return ErrInvalidAmount
	}
	if alloc.Operator.IsPositive() {
		if s.Collection == nil {
			return ErrSubLedgerAbsent
		}
		if alloc.Operator.GreaterThan(s.Collection.RemainingDue) {
			return shared.NewConflictError("PAYMENT_EXCEEDS_DUE",
				fmt.Sprintf("Operator payment exceeds remaining due of %s", s.Collection.RemainingDue))
		}
	}
	if alloc.Agent.IsPositive() {
		if s.Commission == nil {
			return ErrSubLedgerAbsent
		}
		if alloc.Agent.GreaterThan(s.Commission.RemainingDue) {
			return shared.NewConflictError("PAYMENT_EXCEEDS_DUE",
				fmt.Sprintf("Agent payment exceeds remaining due of %s", s.Commission.RemainingDue))
		}
	}
	return nil
}

// apply decrements each sub-ledger by its share of the allocation. Callers
// must run CheckAllocation first.
func (s *DeferredSale) apply(alloc Allocation) {
	if s.Collection != nil {
		s.Collection.RemainingDue = s.Collection.RemainingDue.Sub(alloc.Operator)
	}
	if s.Commission != nil {
		s.Commission.RemainingDue = s.Commission.RemainingDue.Sub(alloc.Agent)
	}
}

// restore adds a previously applied allocation back onto the sub-ledgers
func (s *DeferredSale) restore(alloc Allocation) {
	if s.Collection != nil {
		s.Collection.RemainingDue = s.Collection.RemainingDue.Add(alloc.Operator)
	}
	if s.Commission != nil {
		s.Commission.RemainingDue = s.Commission.RemainingDue.Add(alloc.Agent)
	}
}

// revise replaces the booking details and sub-ledger amounts while keeping
// the amounts already paid: newRemaining = newAmount - paid.
func (s *DeferredSale) revise(in DeferredSaleInput) error {
	collection, commission, err := in.Validate()
	if err != nil {
		return err
	}

	opPaid := valueobject.Zero()
	if s.Collection != nil {
		opPaid = s.Collection.Paid()
	}
	agentPaid := valueobject.Zero()
	if s.Commission != nil {
		agentPaid = s.Commission.Paid()
	}
	if collection.LessThan(opPaid) {
		return ErrAmountBelowSettled
	}
	if in.AgentID == nil && agentPaid.IsPositive() {
		return ErrAmountBelowSettled
	}
	if in.AgentID != nil && commission.LessThan(agentPaid) {
		return ErrAmountBelowSettled
	}

	s.From = strings.TrimSpace(in.From)
	s.To = strings.TrimSpace(in.To)
	s.TravelDate = in.TravelDate
	s.BusID = in.BusID

	if s.Collection == nil {
		s.Collection = &Collection{ID: uuid.New()}
	}
	s.Collection.OperatorID = in.OperatorID
	s.Collection.Amount = collection
	s.Collection.RemainingDue = collection.Sub(opPaid)

	if in.AgentID == nil {
		s.Commission = nil
		return nil
	}
	if s.Commission == nil {
		s.Commission = &Commission{ID: uuid.New()}
	}
	s.Commission.AgentID = *in.AgentID
	s.Commission.Amount = commission
	s.Commission.RemainingDue = commission.Sub(agentPaid)
	return nil
}
