package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DistributionService splits a month's booking profit across shareholders
type DistributionService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewDistributionService creates a new DistributionService
func NewDistributionService(scope TransactionScope) *DistributionService {
	return &DistributionService{scope: scope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DistributionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// DistributeMonthly credits every shareholder with
// profit × percentage / 100 − financedAmount for the month. Each
// (shareholder, month) pair has one distribution record, so running the same
// month again only applies the change since the last run.
func (s *DistributionService) DistributeMonthly(ctx context.Context, tenantID uuid.UUID, month string) (*DistributionResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "distribution", "distribute_monthly")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrPeriod, month,
	)

	var (
		profile *shareholding.CompanyShareProfile
		result  *DistributionResult
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := lockBalances(ctx, repos, tenantID); err != nil {
			return err
		}
		p, err := repos.Profiles().FindByTenantForUpdate(ctx, tenantID)
		if err != nil {
			if isNotFound(err) {
				return shareholding.ErrNoShareholders
			}
			return fmt.Errorf("failed to load share profile: %w", err)
		}
		if !p.HasShareholders() {
			return shareholding.ErrNoShareholders
		}

		period, err := ledger.ParseMonth(month)
		if err != nil {
			return err
		}
		bp, err := computeBookingProfit(ctx, repos, tenantID, period)
		if err != nil {
			return err
		}

		res := &DistributionResult{
			Period:          period.Label,
			TotalProfit:     bp.profit,
			TotalRawShare:   valueobject.Zero(),
			TotalFinanced:   valueobject.Zero(),
			TotalFinalShare: valueobject.Zero(),
			Shares:          make([]ShareResponse, 0, len(p.Shareholders)),
		}
		applied := valueobject.Zero()
		for i := range p.Shareholders {
			holder := &p.Shareholders[i]

			prior, err := repos.Distributions().FindForUpdate(ctx, holder.ID, period.Label)
			switch {
			case isNotFound(err):
				prior = nil
			case err != nil:
				return fmt.Errorf("failed to load distribution: %w", err)
			}

			d, delta := holder.Distribute(period.Label, bp.profit, prior)
			if err := repos.Distributions().Save(ctx, d); err != nil {
				return fmt.Errorf("failed to save distribution: %w", err)
			}
			if err := repos.Profiles().SaveShareholder(ctx, holder); err != nil {
				return fmt.Errorf("failed to save shareholder: %w", err)
			}

			applied = applied.Add(delta)
			res.TotalRawShare = res.TotalRawShare.Add(d.RawShare)
			res.TotalFinanced = res.TotalFinanced.Add(d.FinancedAmount)
			res.TotalFinalShare = res.TotalFinalShare.Add(d.FinalShare)
			res.Shares = append(res.Shares, newShareResponse(holder, d, delta))
		}

		p.RecordDistribution(period.Label, bp.profit, applied)
		profile, result = p, res
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrHolders, len(result.Shares))
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, profile.GetDomainEvents()...)
		profile.ClearDomainEvents()
	}
	return result, nil
}

// DistributionResponse is one row of the distribution ledger
type DistributionResponse struct {
	ID              uuid.UUID         `json:"id"`
	ShareholderID   uuid.UUID         `json:"shareholder_id"`
	Period          string            `json:"period"`
	TotalProfit     valueobject.Money `json:"total_profit"`
	SharePercentage decimal.Decimal   `json:"share_percentage"`
	RawShare        valueobject.Money `json:"raw_share"`
	FinancedAmount  valueobject.Money `json:"financed_amount"`
	FinalShare      valueobject.Money `json:"final_share"`
	RunCount        int               `json:"run_count"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// ListDistributions returns the tenant's distribution records, optionally
// for one YYYY-MM period
func (s *DistributionService) ListDistributions(ctx context.Context, tenantID uuid.UUID, period string) ([]DistributionResponse, error) {
	if period != "" {
		if _, err := ledger.ParseMonth(period); err != nil {
			return nil, err
		}
	}
	var out []DistributionResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		records, err := repos.Distributions().FindByTenant(ctx, tenantID, period)
		if err != nil {
			return fmt.Errorf("failed to list distributions: %w", err)
		}
		out = make([]DistributionResponse, len(records))
		for i, d := range records {
			out[i] = DistributionResponse{
				ID:              d.ID,
				ShareholderID:   d.ShareholderID,
				Period:          d.Period,
				TotalProfit:     d.TotalProfit,
				SharePercentage: d.SharePercentage,
				RawShare:        d.RawShare,
				FinancedAmount:  d.FinancedAmount,
				FinalShare:      d.FinalShare,
				RunCount:        d.RunCount,
				UpdatedAt:       d.UpdatedAt,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DistributeAllTenants runs DistributeMonthly for every tenant with a share
// profile. Tenants without shareholders are skipped; other failures are
// collected and returned together after every tenant was attempted.
func (s *DistributionService) DistributeAllTenants(ctx context.Context, month string) (int, error) {
	var tenantIDs []uuid.UUID
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ids, err := repos.Profiles().ListTenantIDs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tenants: %w", err)
		}
		tenantIDs = ids
		return nil
	})
	if err != nil {
		return 0, err
	}

	var (
		done int
		errs []error
	)
	for _, tenantID := range tenantIDs {
		if _, err := s.DistributeMonthly(ctx, tenantID, month); err != nil {
			if errors.Is(err, shareholding.ErrNoShareholders) {
				continue
			}
			errs = append(errs, fmt.Errorf("tenant %s: %w", tenantID, err))
			continue
		}
		done++
	}
	return done, errors.Join(errs...)
}
