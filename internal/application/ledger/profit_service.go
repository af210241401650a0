package ledger

import (
	"context"
	"fmt"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// ProfitService computes profit over a period. Two figures exist:
// ProfitByMonth is the booking profit that share distribution uses, and
// ProfitByDateRange additionally subtracts expenses for the dashboard.
type ProfitService struct {
	scope TransactionScope
}

// NewProfitService creates a new ProfitService
func NewProfitService(scope TransactionScope) *ProfitService {
	return &ProfitService{scope: scope}
}

// bookingProfit is the plain profit figure for a period
type bookingProfit struct {
	revenue   valueobject.Money
	partyCuts valueobject.Money
	profit    valueobject.Money
	counted   int
}

// computeBookingProfit sums amount - collection - commission over CREDIT
// entries that are not pay-later or are fully settled.
func computeBookingProfit(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, period ledger.Period) (bookingProfit, error) {
	entries, err := repos.Entries().FindProfitCandidates(ctx, tenantID, period)
	if err != nil {
		return bookingProfit{}, fmt.Errorf("failed to load profit entries: %w", err)
	}
	result := bookingProfit{revenue: valueobject.Zero(), partyCuts: valueobject.Zero(), profit: valueobject.Zero()}
	for i := range entries {
		e := &entries[i]
		if !e.CountsTowardProfit() {
			continue
		}
		result.revenue = result.revenue.Add(e.Amount)
		result.profit = result.profit.Add(e.Profit())
		result.counted++
	}
	result.partyCuts = result.revenue.Sub(result.profit)
	return result, nil
}

// ProfitByMonth returns the booking profit of a YYYY-MM month
func (s *ProfitService) ProfitByMonth(ctx context.Context, tenantID uuid.UUID, month string) (*ProfitResponse, error) {
	period, err := ledger.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	return s.profit(ctx, tenantID, period, false)
}

// ProfitByDateRange returns booking profit minus every DEBIT outside the
// BUS BOOKING category, for a day, a month, an inclusive range or all time.
func (s *ProfitService) ProfitByDateRange(ctx context.Context, tenantID uuid.UUID, date, start, end string) (*ProfitResponse, error) {
	period, err := ledger.ParsePeriod(date, start, end)
	if err != nil {
		return nil, err
	}
	return s.profit(ctx, tenantID, period, true)
}

func (s *ProfitService) profit(ctx context.Context, tenantID uuid.UUID, period ledger.Period, withExpenses bool) (*ProfitResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "profit", "compute")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrPeriod, period.Label,
		"with_expenses", withExpenses,
	)

	var resp ProfitResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		bp, err := computeBookingProfit(ctx, repos, tenantID, period)
		if err != nil {
			return err
		}
		expenses := valueobject.Zero()
		if withExpenses {
			expenses, err = repos.Entries().SumDebitsExcludingCategory(ctx, tenantID, period, ledger.BusBookingCategory)
			if err != nil {
				return fmt.Errorf("failed to sum expenses: %w", err)
			}
		}
		resp = ProfitResponse{
			Period:         period.Label,
			Revenue:        bp.revenue,
			PartyCuts:      bp.partyCuts,
			Expenses:       expenses,
			Profit:         bp.profit.Sub(expenses),
			EntriesCounted: bp.counted,
		}
		if !period.IsAllTime() {
			start, end := period.Start, period.End
			resp.Start, resp.End = &start, &end
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &resp, nil
}
