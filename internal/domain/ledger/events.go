package ledger

import (
	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Event type names
const (
	EventTypeEntryRecorded   = "EntryRecorded"
	EventTypeEntryRevised    = "EntryRevised"
	EventTypeEntryDeleted    = "EntryDeleted"
	EventTypePayLaterSettled = "PayLaterSettled"
)

// EntryRecordedEvent is raised when a ledger entry is recorded
type EntryRecordedEvent struct {
	shared.BaseDomainEvent
	EntryID        uuid.UUID         `json:"entry_id"`
	Direction      Direction         `json:"direction"`
	Channel        Channel           `json:"channel"`
	Amount         valueobject.Money `json:"amount"`
	IsDeferred     bool              `json:"is_deferred"`
	OutstandingDue valueobject.Money `json:"outstanding_due"`
}

// NewEntryRecordedEvent creates a new EntryRecordedEvent
func NewEntryRecordedEvent(e *Entry) *EntryRecordedEvent {
	return &EntryRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntryRecorded, AggregateTypeEntry, e.ID, e.TenantID),
		EntryID:         e.ID,
		Direction:       e.Direction,
		Channel:         e.Channel,
		Amount:          e.Amount,
		IsDeferred:      e.IsDeferred,
		OutstandingDue:  e.OutstandingDue,
	}
}

// EntryRevisedEvent is raised when an entry is edited
type EntryRevisedEvent struct {
	shared.BaseDomainEvent
	EntryID   uuid.UUID         `json:"entry_id"`
	Direction Direction         `json:"direction"`
	Channel   Channel           `json:"channel"`
	Amount    valueobject.Money `json:"amount"`
}

// NewEntryRevisedEvent creates a new EntryRevisedEvent
func NewEntryRevisedEvent(e *Entry) *EntryRevisedEvent {
	return &EntryRevisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntryRevised, AggregateTypeEntry, e.ID, e.TenantID),
		EntryID:         e.ID,
		Direction:       e.Direction,
		Channel:         e.Channel,
		Amount:          e.Amount,
	}
}

// EntryDeletedEvent is raised when an entry is deleted and its effect reversed
type EntryDeletedEvent struct {
	shared.BaseDomainEvent
	EntryID   uuid.UUID         `json:"entry_id"`
	Direction Direction         `json:"direction"`
	Amount    valueobject.Money `json:"amount"`
}

// NewEntryDeletedEvent creates a new EntryDeletedEvent
func NewEntryDeletedEvent(e *Entry) *EntryDeletedEvent {
	return &EntryDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntryDeleted, AggregateTypeEntry, e.ID, e.TenantID),
		EntryID:         e.ID,
		Direction:       e.Direction,
		Amount:          e.Amount,
	}
}

// PayLaterSettledEvent is raised when a payment is applied to a pay-later sale
type PayLaterSettledEvent struct {
	shared.BaseDomainEvent
	EntryID        uuid.UUID         `json:"entry_id"`
	PaymentType    PaymentType       `json:"payment_type"`
	OperatorAmount valueobject.Money `json:"operator_amount"`
	AgentAmount    valueobject.Money `json:"agent_amount"`
	RemainingDue   valueobject.Money `json:"remaining_due"`
}

// NewPayLaterSettledEvent creates a new PayLaterSettledEvent
func NewPayLaterSettledEvent(e *Entry, paymentType PaymentType, alloc Allocation) *PayLaterSettledEvent {
	return &PayLaterSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayLaterSettled, AggregateTypeEntry, e.ID, e.TenantID),
		EntryID:         e.ID,
		PaymentType:     paymentType,
		OperatorAmount:  alloc.Operator,
		AgentAmount:     alloc.Agent,
		RemainingDue:    e.OutstandingDue,
	}
}
