package models

import (
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShareProfileModel is the persistence model for CompanyShareProfile
type ShareProfileModel struct {
	TenantAggregateModel
	CompanyName  string             `gorm:"type:varchar(200);not null"`
	Shareholders []ShareholderModel `gorm:"foreignKey:ProfileID;references:ID"`
}

// TableName returns the table name for GORM
func (ShareProfileModel) TableName() string {
	return "share_profiles"
}

// ShareholderModel is a shareholder row
type ShareholderModel struct {
	TenantModel
	ProfileID              uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_shareholders_profile_name,priority:1"`
	Name                   string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_shareholders_profile_name,priority:2"`
	SharePercentage        decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	FinancedAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AccumulatedShareProfit decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ShareholderModel) TableName() string {
	return "shareholders"
}

// ToDomain converts the persistence model to a domain Shareholder
func (m *ShareholderModel) ToDomain() *shareholding.Shareholder {
	return &shareholding.Shareholder{
		ID:                     m.ID,
		TenantID:               m.TenantID,
		ProfileID:              m.ProfileID,
		Name:                   m.Name,
		SharePercentage:        m.SharePercentage,
		FinancedAmount:         valueobject.NewMoney(m.FinancedAmount),
		AccumulatedShareProfit: valueobject.NewMoney(m.AccumulatedShareProfit),
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

// ShareholderModelFromDomain creates a persistence model from a domain Shareholder
func ShareholderModelFromDomain(h *shareholding.Shareholder) *ShareholderModel {
	return &ShareholderModel{
		TenantModel: TenantModel{
			BaseModel: BaseModel{ID: h.ID, CreatedAt: h.CreatedAt, UpdatedAt: h.UpdatedAt},
			TenantID:  h.TenantID,
		},
		ProfileID:              h.ProfileID,
		Name:                   h.Name,
		SharePercentage:        h.SharePercentage,
		FinancedAmount:         h.FinancedAmount.Amount(),
		AccumulatedShareProfit: h.AccumulatedShareProfit.Amount(),
	}
}

// ToDomain converts the persistence model to a domain CompanyShareProfile
func (m *ShareProfileModel) ToDomain() *shareholding.CompanyShareProfile {
	p := &shareholding.CompanyShareProfile{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		CompanyName:         m.CompanyName,
		Shareholders:        make([]shareholding.Shareholder, len(m.Shareholders)),
	}
	for i := range m.Shareholders {
		p.Shareholders[i] = *m.Shareholders[i].ToDomain()
	}
	return p
}

// ShareProfileModelFromDomain creates the profile model without its shareholders
func ShareProfileModelFromDomain(p *shareholding.CompanyShareProfile) *ShareProfileModel {
	m := &ShareProfileModel{CompanyName: p.CompanyName}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// DistributionModel is one (shareholder, period) distribution record
type DistributionModel struct {
	TenantModel
	ShareholderID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_distributions_holder_period,priority:1"`
	Period          string            `gorm:"type:varchar(7);not null;uniqueIndex:idx_distributions_holder_period,priority:2"`
	TotalProfit     decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	SharePercentage decimal.Decimal   `gorm:"type:decimal(5,2);not null"`
	RawShare        decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	FinancedAmount  decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	FinalShare      decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	AppliedAmount   decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	RunCount        int               `gorm:"not null;default:1"`
	Shareholder     *ShareholderModel `gorm:"foreignKey:ShareholderID"`
}

// TableName returns the table name for GORM
func (DistributionModel) TableName() string {
	return "share_distributions"
}

// ToDomain converts the persistence model to a domain Distribution
func (m *DistributionModel) ToDomain() *shareholding.Distribution {
	return &shareholding.Distribution{
		ID:              m.ID,
		TenantID:        m.TenantID,
		ShareholderID:   m.ShareholderID,
		Period:          m.Period,
		TotalProfit:     valueobject.NewMoney(m.TotalProfit),
		SharePercentage: m.SharePercentage,
		RawShare:        valueobject.NewMoney(m.RawShare),
		FinancedAmount:  valueobject.NewMoney(m.FinancedAmount),
		FinalShare:      valueobject.NewMoney(m.FinalShare),
		AppliedAmount:   valueobject.NewMoney(m.AppliedAmount),
		RunCount:        m.RunCount,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// DistributionModelFromDomain creates a persistence model from a domain Distribution
func DistributionModelFromDomain(d *shareholding.Distribution) *DistributionModel {
	return &DistributionModel{
		TenantModel: TenantModel{
			BaseModel: BaseModel{ID: d.ID, CreatedAt: d.CreatedAt, UpdatedAt: nonZero(d.UpdatedAt)},
			TenantID:  d.TenantID,
		},
		ShareholderID:   d.ShareholderID,
		Period:          d.Period,
		TotalProfit:     d.TotalProfit.Amount(),
		SharePercentage: d.SharePercentage,
		RawShare:        d.RawShare.Amount(),
		FinancedAmount:  d.FinancedAmount.Amount(),
		FinalShare:      d.FinalShare.Amount(),
		AppliedAmount:   d.AppliedAmount.Amount(),
		RunCount:        d.RunCount,
	}
}

func nonZero(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
