package models

import (
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/reference"
	"github.com/google/uuid"
)

// ReferenceModel holds the columns every reference table shares. Names are
// unique per tenant.
type ReferenceModel struct {
	BaseModel
	TenantID uuid.UUID `gorm:"type:uuid;not null;index:,unique,composite:name_per_tenant,priority:1"`
	Name     string    `gorm:"type:varchar(100);not null;index:,unique,composite:name_per_tenant,priority:2"`
}

func refModel(id, tenantID uuid.UUID, name string, createdAt, updatedAt time.Time) ReferenceModel {
	return ReferenceModel{
		BaseModel: BaseModel{ID: id, CreatedAt: createdAt, UpdatedAt: updatedAt},
		TenantID:  tenantID,
		Name:      name,
	}
}

// BusModel is the persistence model for Bus
type BusModel struct {
	ReferenceModel
	RegistrationNumber string `gorm:"type:varchar(30);not null;default:''"`
}

// TableName returns the table name for GORM
func (BusModel) TableName() string {
	return "buses"
}

// OperatorModel is the persistence model for Operator
type OperatorModel struct {
	ReferenceModel
	Phone string `gorm:"type:varchar(20);not null;default:''"`
}

// TableName returns the table name for GORM
func (OperatorModel) TableName() string {
	return "operators"
}

// AgentModel is the persistence model for Agent
type AgentModel struct {
	ReferenceModel
	Phone string `gorm:"type:varchar(20);not null;default:''"`
}

// TableName returns the table name for GORM
func (AgentModel) TableName() string {
	return "agents"
}

// CategoryModel is the persistence model for Category
type CategoryModel struct {
	ReferenceModel
	ShareholderID *uuid.UUID        `gorm:"type:uuid;index"`
	Shareholder   *ShareholderModel `gorm:"foreignKey:ShareholderID"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ReferenceMapper converts between a reference entity and its model
type ReferenceMapper[T reference.Named, M any] struct {
	ToModel  func(*T) *M
	ToDomain func(*M) *T
}

// BusMapper maps buses
var BusMapper = ReferenceMapper[reference.Bus, BusModel]{
	ToModel: func(b *reference.Bus) *BusModel {
		return &BusModel{ReferenceModel: refModel(b.ID, b.TenantID, b.Name, b.CreatedAt, b.UpdatedAt), RegistrationNumber: b.RegistrationNumber}
	},
	ToDomain: func(m *BusModel) *reference.Bus {
		b := &reference.Bus{RegistrationNumber: m.RegistrationNumber}
		b.ID, b.TenantID, b.Name, b.CreatedAt, b.UpdatedAt = m.ID, m.TenantID, m.Name, m.CreatedAt, m.UpdatedAt
		return b
	},
}

// OperatorMapper maps operators
var OperatorMapper = ReferenceMapper[reference.Operator, OperatorModel]{
	ToModel: func(o *reference.Operator) *OperatorModel {
		return &OperatorModel{ReferenceModel: refModel(o.ID, o.TenantID, o.Name, o.CreatedAt, o.UpdatedAt), Phone: o.Phone}
	},
	ToDomain: func(m *OperatorModel) *reference.Operator {
		o := &reference.Operator{Phone: m.Phone}
		o.ID, o.TenantID, o.Name, o.CreatedAt, o.UpdatedAt = m.ID, m.TenantID, m.Name, m.CreatedAt, m.UpdatedAt
		return o
	},
}

// AgentMapper maps agents
var AgentMapper = ReferenceMapper[reference.Agent, AgentModel]{
	ToModel: func(a *reference.Agent) *AgentModel {
		return &AgentModel{ReferenceModel: refModel(a.ID, a.TenantID, a.Name, a.CreatedAt, a.UpdatedAt), Phone: a.Phone}
	},
	ToDomain: func(m *AgentModel) *reference.Agent {
		a := &reference.Agent{Phone: m.Phone}
		a.ID, a.TenantID, a.Name, a.CreatedAt, a.UpdatedAt = m.ID, m.TenantID, m.Name, m.CreatedAt, m.UpdatedAt
		return a
	},
}

// CategoryMapper maps categories
var CategoryMapper = ReferenceMapper[reference.Category, CategoryModel]{
	ToModel: func(c *reference.Category) *CategoryModel {
		return &CategoryModel{ReferenceModel: refModel(c.ID, c.TenantID, c.Name, c.CreatedAt, c.UpdatedAt), ShareholderID: c.ShareholderID}
	},
	ToDomain: func(m *CategoryModel) *reference.Category {
		c := &reference.Category{ShareholderID: m.ShareholderID}
		c.ID, c.TenantID, c.Name, c.CreatedAt, c.UpdatedAt = m.ID, m.TenantID, m.Name, m.CreatedAt, m.UpdatedAt
		return c
	},
}
