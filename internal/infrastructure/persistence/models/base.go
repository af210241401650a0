package models

import (
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TenantModel is a BaseModel owned by a tenant
type TenantModel struct {
	BaseModel
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TenantAggregateModel provides common persistence fields for tenant-scoped aggregate roots.
// It extends TenantModel with version for optimistic locking.
type TenantAggregateModel struct {
	TenantModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainTenantAggregateRoot populates TenantAggregateModel from domain TenantAggregateRoot
func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.ID = t.ID
	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
	m.Version = t.Version
	m.TenantID = t.TenantID
}

// ToDomainTenantAggregateRoot builds the domain TenantAggregateRoot from persistence fields
func (m *TenantAggregateModel) ToDomainTenantAggregateRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		TenantID: m.TenantID,
		Version:  m.Version,
	}
}

// All returns every model of the ledger schema, parents first
func All() []any {
	return []any{
		&ShareProfileModel{},
		&ShareholderModel{},
		&DistributionModel{},
		&BusModel{},
		&OperatorModel{},
		&AgentModel{},
		&CategoryModel{},
		&LedgerEntryModel{},
		&DeferredSaleModel{},
		&CollectionModel{},
		&CommissionModel{},
		&AccountBalanceModel{},
	}
}
