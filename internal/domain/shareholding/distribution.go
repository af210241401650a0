package shareholding

import (
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Distribution is the record of a shareholder's share for one month. There is
// at most one per (shareholder, period); AppliedAmount is what has been added
// to the shareholder's accumulated profit so far.
type Distribution struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	ShareholderID   uuid.UUID
	Period          string
	TotalProfit     valueobject.Money
	SharePercentage decimal.Decimal
	RawShare        valueobject.Money
	FinancedAmount  valueobject.Money
	FinalShare      valueobject.Money
	AppliedAmount   valueobject.Money
	RunCount        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ShareComputation is the per-shareholder arithmetic of a distribution run
type ShareComputation struct {
	RawShare       valueobject.Money
	FinancedAmount valueobject.Money
	FinalShare     valueobject.Money
}

// ComputeShare returns rawShare = profit * pct / 100 and
// finalShare = rawShare - financedAmount.
func (s *Shareholder) ComputeShare(totalProfit valueobject.Money) ShareComputation {
	raw := totalProfit.Percent(s.SharePercentage)
	return ShareComputation{
		RawShare:       raw,
		FinancedAmount: s.FinancedAmount,
		FinalShare:     raw.Sub(s.FinancedAmount),
	}
}

// Distribute applies the shareholder's share for a period. With no prior
// record the whole final share is added to AccumulatedShareProfit. With a
// prior record only the difference to what was already applied is added, so
// a rerun over unchanged books adds nothing. Returns the record and the delta
// that was applied.
func (s *Shareholder) Distribute(period string, totalProfit valueobject.Money, prior *Distribution) (*Distribution, valueobject.Money) {
	comp := s.ComputeShare(totalProfit)
	now := time.Now().UTC()

	d := prior
	if d == nil {
		d = &Distribution{
			ID:            uuid.New(),
			TenantID:      s.TenantID,
			ShareholderID: s.ID,
			Period:        period,
			AppliedAmount: valueobject.Zero(),
			CreatedAt:     now,
		}
	}

	delta := comp.FinalShare.Sub(d.AppliedAmount)

	d.TotalProfit = totalProfit
	d.SharePercentage = s.SharePercentage
	d.RawShare = comp.RawShare
	d.FinancedAmount = comp.FinancedAmount
	d.FinalShare = comp.FinalShare
	d.AppliedAmount = comp.FinalShare
	d.RunCount++
	d.UpdatedAt = now

	s.AccumulatedShareProfit = s.AccumulatedShareProfit.Add(delta)
	s.UpdatedAt = now
	return d, delta
}

// ProfitDistributedEvent is raised after a monthly distribution run
type ProfitDistributedEvent struct {
	shared.BaseDomainEvent
	Period       string            `json:"period"`
	TotalProfit  valueobject.Money `json:"total_profit"`
	Shareholders int               `json:"shareholders"`
	Applied      valueobject.Money `json:"applied"`
}

// EventTypeProfitDistributed is the event type name
const EventTypeProfitDistributed = "ProfitDistributed"

// RecordDistribution raises the distribution event on the profile
func (p *CompanyShareProfile) RecordDistribution(period string, totalProfit, applied valueobject.Money) {
	p.AddDomainEvent(&ProfitDistributedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProfitDistributed, AggregateTypeProfile, p.ID, p.TenantID),
		Period:          period,
		TotalProfit:     totalProfit,
		Shareholders:    len(p.Shareholders),
		Applied:         applied,
	})
}
