package models

import (
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryModel is the persistence model for the Entry aggregate root.
// Settlement entries carry a non-empty SettlementType; SettledEntryID is
// cleared when the settled entry is deleted.
type LedgerEntryModel struct {
	TenantAggregateModel
	Direction       string             `gorm:"type:varchar(10);not null;index"`
	Amount          decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Channel         string             `gorm:"type:varchar(10);not null"`
	CategoryID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	Description     string             `gorm:"type:text;not null;default:''"`
	ReferenceNumber string             `gorm:"type:varchar(100);not null;default:''"`
	IsDeferred      bool               `gorm:"not null;default:false"`
	OutstandingDue  decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	SettlementType  string             `gorm:"type:varchar(10);not null;default:''"`
	SettledEntryID  *uuid.UUID         `gorm:"type:uuid;index"`
	SettledOperator decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	SettledAgent    decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	DeferredSale    *DeferredSaleModel `gorm:"foreignKey:EntryID;references:ID"`
	Category        *CategoryModel     `gorm:"foreignKey:CategoryID"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// DeferredSaleModel is the booking detail of a pay-later entry
type DeferredSaleModel struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	EntryID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	FromLocation string           `gorm:"type:varchar(100);not null"`
	ToLocation   string           `gorm:"type:varchar(100);not null"`
	TravelDate   time.Time        `gorm:"not null"`
	BusID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Collection   *CollectionModel `gorm:"foreignKey:DeferredSaleID;references:ID"`
	Commission   *CommissionModel `gorm:"foreignKey:DeferredSaleID;references:ID"`
	Bus          *BusModel        `gorm:"foreignKey:BusID"`
}

// TableName returns the table name for GORM
func (DeferredSaleModel) TableName() string {
	return "deferred_sales"
}

// CollectionModel is the operator sub-ledger of a deferred sale
type CollectionModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	DeferredSaleID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	OperatorID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	RemainingDue   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Operator       *OperatorModel  `gorm:"foreignKey:OperatorID"`
}

// TableName returns the table name for GORM
func (CollectionModel) TableName() string {
	return "collections"
}

// CommissionModel is the agent sub-ledger of a deferred sale
type CommissionModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	DeferredSaleID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	AgentID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	RemainingDue   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Agent          *AgentModel     `gorm:"foreignKey:AgentID"`
}

// TableName returns the table name for GORM
func (CommissionModel) TableName() string {
	return "commissions"
}

// ToDomain converts the persistence model to a domain Entry
func (m *LedgerEntryModel) ToDomain() *ledger.Entry {
	e := &ledger.Entry{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Direction:           ledger.Direction(m.Direction),
		Amount:              valueobject.NewMoney(m.Amount),
		Channel:             ledger.Channel(m.Channel),
		CategoryID:          m.CategoryID,
		Description:         m.Description,
		ReferenceNumber:     m.ReferenceNumber,
		IsDeferred:          m.IsDeferred,
		OutstandingDue:      valueobject.NewMoney(m.OutstandingDue),
	}
	if m.SettlementType != "" {
		e.Settlement = &ledger.SettlementLink{
			SettledEntryID: m.SettledEntryID,
			PaymentType:    ledger.PaymentType(m.SettlementType),
			Allocation: ledger.Allocation{
				Operator: valueobject.NewMoney(m.SettledOperator),
				Agent:    valueobject.NewMoney(m.SettledAgent),
			},
		}
	}
	if m.DeferredSale != nil {
		e.DeferredSale = m.DeferredSale.ToDomain()
	}
	return e
}

// ToDomain converts the persistence model to a domain DeferredSale
func (m *DeferredSaleModel) ToDomain() *ledger.DeferredSale {
	s := &ledger.DeferredSale{
		ID:         m.ID,
		EntryID:    m.EntryID,
		From:       m.FromLocation,
		To:         m.ToLocation,
		TravelDate: m.TravelDate,
		BusID:      m.BusID,
	}
	if m.Collection != nil {
		s.Collection = &ledger.Collection{
			ID:           m.Collection.ID,
			OperatorID:   m.Collection.OperatorID,
			Amount:       valueobject.NewMoney(m.Collection.Amount),
			RemainingDue: valueobject.NewMoney(m.Collection.RemainingDue),
		}
	}
	if m.Commission != nil {
		s.Commission = &ledger.Commission{
			ID:           m.Commission.ID,
			AgentID:      m.Commission.AgentID,
			Amount:       valueobject.NewMoney(m.Commission.Amount),
			RemainingDue: valueobject.NewMoney(m.Commission.RemainingDue),
		}
	}
	return s
}

// FromDomain populates the persistence model from a domain Entry. The
// deferred sale is mapped separately by DeferredSaleModelFromDomain.
func (m *LedgerEntryModel) FromDomain(e *ledger.Entry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.Direction = string(e.Direction)
	m.Amount = e.Amount.Amount()
	m.Channel = string(e.Channel)
	m.CategoryID = e.CategoryID
	m.Description = e.Description
	m.ReferenceNumber = e.ReferenceNumber
	m.IsDeferred = e.IsDeferred
	m.OutstandingDue = e.OutstandingDue.Amount()
	m.SettlementType = ""
	m.SettledEntryID = nil
	m.SettledOperator = decimal.Zero
	m.SettledAgent = decimal.Zero
	if e.Settlement != nil {
		m.SettlementType = string(e.Settlement.PaymentType)
		m.SettledEntryID = e.Settlement.SettledEntryID
		m.SettledOperator = e.Settlement.Allocation.Operator.Amount()
		m.SettledAgent = e.Settlement.Allocation.Agent.Amount()
	}
}

// LedgerEntryModelFromDomain creates a persistence model from a domain Entry
func LedgerEntryModelFromDomain(e *ledger.Entry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(e)
	return m
}

// DeferredSaleModelFromDomain creates the sale model with its sub-ledgers
func DeferredSaleModelFromDomain(tenantID uuid.UUID, s *ledger.DeferredSale) *DeferredSaleModel {
	m := &DeferredSaleModel{
		ID:           s.ID,
		TenantID:     tenantID,
		EntryID:      s.EntryID,
		FromLocation: s.From,
		ToLocation:   s.To,
		TravelDate:   s.TravelDate,
		BusID:        s.BusID,
	}
	if s.Collection != nil {
		m.Collection = &CollectionModel{
			ID:             s.Collection.ID,
			DeferredSaleID: s.ID,
			OperatorID:     s.Collection.OperatorID,
			Amount:         s.Collection.Amount.Amount(),
			RemainingDue:   s.Collection.RemainingDue.Amount(),
		}
	}
	if s.Commission != nil {
		m.Commission = &CommissionModel{
			ID:             s.Commission.ID,
			DeferredSaleID: s.ID,
			AgentID:        s.Commission.AgentID,
			Amount:         s.Commission.Amount.Amount(),
			RemainingDue:   s.Commission.RemainingDue.Amount(),
		}
	}
	return m
}

// AccountBalanceModel is the one balance row of a tenant
type AccountBalanceModel struct {
	TenantID       uuid.UUID       `gorm:"type:uuid;primary_key"`
	CashBalance    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	BankBalance    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	OutstandingDue decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Version        int             `gorm:"not null;default:1"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AccountBalanceModel) TableName() string {
	return "account_balances"
}

// ToDomain converts the persistence model to a domain AccountBalance
func (m *AccountBalanceModel) ToDomain() *ledger.AccountBalance {
	return &ledger.AccountBalance{
		TenantID:       m.TenantID,
		CashBalance:    valueobject.NewMoney(m.CashBalance),
		BankBalance:    valueobject.NewMoney(m.BankBalance),
		OutstandingDue: valueobject.NewMoney(m.OutstandingDue),
		Version:        m.Version,
		UpdatedAt:      m.UpdatedAt,
	}
}

// AccountBalanceModelFromDomain creates a persistence model from a domain AccountBalance
func AccountBalanceModelFromDomain(b *ledger.AccountBalance) *AccountBalanceModel {
	return &AccountBalanceModel{
		TenantID:       b.TenantID,
		CashBalance:    b.CashBalance.Amount(),
		BankBalance:    b.BankBalance.Amount(),
		OutstandingDue: b.OutstandingDue.Amount(),
		Version:        b.Version,
		UpdatedAt:      b.UpdatedAt,
	}
}
