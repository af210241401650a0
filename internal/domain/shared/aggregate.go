package shared

import (
	"github.com/google/uuid"
)

// TenantAggregateRoot is the root of every tenant-owned aggregate: ledger
// entries, balances and share profiles. Version backs optimistic locking and
// pending events are drained by the application layer after commit.
type TenantAggregateRoot struct {
	BaseEntity
	TenantID uuid.UUID
	Version  int
	events   []DomainEvent
}

// NewTenantAggregateRoot creates a version 1 aggregate owned by tenantID
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{BaseEntity: NewBaseEntity(), TenantID: tenantID, Version: 1}
}

func (a *TenantAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent queues event for publication
func (a *TenantAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// GetDomainEvents returns the queued events in the order they were raised
func (a *TenantAggregateRoot) GetDomainEvents() []DomainEvent { return a.events }

func (a *TenantAggregateRoot) ClearDomainEvents() { a.events = nil }

// EnsureOwnedBy returns ErrForbidden when the aggregate belongs to another tenant.
func (a *TenantAggregateRoot) EnsureOwnedBy(tenantID uuid.UUID) error {
	if a.TenantID != tenantID {
		return ErrForbidden
	}
	return nil
}
