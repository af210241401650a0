// Package reference holds the tenant-scoped lookup data that ledger entries
// point at: buses, operators, agents and categories.
package reference

import (
	"context"
	"strings"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	ErrNameRequired = shared.NewDomainError("NAME_REQUIRED", "Name is required")
	ErrNameTaken    = shared.NewConflictError("ALREADY_EXISTS", "An item with this name already exists")
	ErrInUse        = shared.NewConflictError("IN_USE", "Item is referenced by transactions and cannot be deleted")
)

// Named is implemented by every reference entity
type Named interface {
	GetName() string
}

type base struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func newBase(tenantID uuid.UUID, name string) (base, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return base{}, ErrNameRequired
	}
	now := time.Now().UTC()
	return base{ID: uuid.New(), TenantID: tenantID, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// GetName returns the display name
func (b base) GetName() string {
	return b.Name
}

// Bus is a vehicle tickets are sold on
type Bus struct {
	base
	RegistrationNumber string
}

// NewBus creates a bus
func NewBus(tenantID uuid.UUID, name, registration string) (*Bus, error) {
	b, err := newBase(tenantID, name)
	if err != nil {
		return nil, err
	}
	return &Bus{base: b, RegistrationNumber: strings.TrimSpace(registration)}, nil
}

// Operator runs buses and is owed the collection on pay-later sales
type Operator struct {
	base
	Phone string
}

// NewOperator creates an operator
func NewOperator(tenantID uuid.UUID, name, phone string) (*Operator, error) {
	b, err := newBase(tenantID, name)
	if err != nil {
		return nil, err
	}
	return &Operator{base: b, Phone: strings.TrimSpace(phone)}, nil
}

// Agent books tickets and is owed a commission on pay-later sales
type Agent struct {
	base
	Phone string
}

// NewAgent creates an agent
func NewAgent(tenantID uuid.UUID, name, phone string) (*Agent, error) {
	b, err := newBase(tenantID, name)
	if err != nil {
		return nil, err
	}
	return &Agent{base: b, Phone: strings.TrimSpace(phone)}, nil
}

// Category labels entries. A category linked to a shareholder is that
// shareholder's finance category.
type Category struct {
	base
	ShareholderID *uuid.UUID
}

// NewCategory creates a category. Names are stored upper-cased so that
// "Bus Booking" and "BUS BOOKING" are the same category.
func NewCategory(tenantID uuid.UUID, name string, shareholderID *uuid.UUID) (*Category, error) {
	b, err := newBase(tenantID, strings.ToUpper(name))
	if err != nil {
		return nil, err
	}
	return &Category{base: b, ShareholderID: shareholderID}, nil
}

// Repository is the persistence contract shared by all reference entities
type Repository[T Named] interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]T, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type (
	BusRepository      = Repository[Bus]
	OperatorRepository = Repository[Operator]
	AgentRepository    = Repository[Agent]
	CategoryRepository = Repository[Category]
)
