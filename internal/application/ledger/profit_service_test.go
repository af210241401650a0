package ledger

import (
	"testing"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thisMonth() string {
	return ledger.MonthOf(time.Now()).Label
}

// seedProfitBooks records a plain sale, a settled pay-later sale, a pending
// pay-later sale, a fuel expense and a bus booking payout.
func seedProfitBooks(f *fixture) {
	f.t.Helper()
	f.record(f.credit("1000", "CASH"))

	settled := f.record(f.payLater("500", "300", "50"))
	_, err := f.settle.Settle(f.ctx, f.tenantID, settled.Entry.ID, SettlementRequest{PaymentType: "FULL", PaymentMode: "CASH"})
	require.NoError(f.t, err)

	f.record(f.payLater("800", "600", ""))
	f.record(f.debit("120", "CASH", f.fuelCat))
	f.record(f.debit("75", "CASH", f.bookingCat))
}

func TestProfitService_ProfitByMonth(t *testing.T) {
	f := newFixture(t)
	seedProfitBooks(f)

	res, err := f.profit.ProfitByMonth(f.ctx, f.tenantID, thisMonth())
	require.NoError(t, err)

	// 1000 + (500 - 300 - 50); the pending sale does not count yet
	assertMoney(t, "1150", res.Profit)
	assertMoney(t, "1500", res.Revenue)
	assertMoney(t, "350", res.PartyCuts)
	assertMoney(t, "0", res.Expenses)
	assert.Equal(t, 2, res.EntriesCounted)
	require.NotNil(t, res.Start)
	assert.Equal(t, thisMonth(), res.Period)
}

func TestProfitService_ProfitByMonth_StrictMonth(t *testing.T) {
	f := newFixture(t)

	for _, bad := range []string{"2024-3", "2024-03-01", "March", ""} {
		_, err := f.profit.ProfitByMonth(f.ctx, f.tenantID, bad)
		assert.ErrorIs(t, err, ledger.ErrInvalidPeriod, bad)
	}
}

func TestProfitService_ProfitByMonth_Empty(t *testing.T) {
	f := newFixture(t)

	res, err := f.profit.ProfitByMonth(f.ctx, f.tenantID, "2020-01")

	require.NoError(t, err)
	assertMoney(t, "0", res.Profit)
	assert.Equal(t, 0, res.EntriesCounted)
}

func TestProfitService_ProfitByDateRange(t *testing.T) {
	f := newFixture(t)
	seedProfitBooks(f)
	today := time.Now().UTC().Format("2006-01-02")

	tests := []struct {
		name             string
		date, start, end string
	}{
		{name: "all time"},
		{name: "month", date: thisMonth()},
		{name: "day", date: today},
		{name: "range", start: today, end: today},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.profit.ProfitByDateRange(f.ctx, f.tenantID, tt.date, tt.start, tt.end)
			require.NoError(t, err)

			// The settlement DEBIT is booked under BUS BOOKING like its sale,
			// so only the fuel expense is subtracted
			assertMoney(t, "120", res.Expenses)
			assertMoney(t, "1030", res.Profit)
		})
	}
}

func TestProfitService_ProfitByDateRange_BadRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.profit.ProfitByDateRange(f.ctx, f.tenantID, "", "2024-03-10", "2024-03-01")
	assert.ErrorIs(t, err, ledger.ErrInvalidPeriod)

	_, err = f.profit.ProfitByDateRange(f.ctx, f.tenantID, "", "2024-03-10", "")
	assert.ErrorIs(t, err, ledger.ErrInvalidPeriod)
}

func TestDistributionService_DistributeMonthly(t *testing.T) {
	f := newFixture(t)
	p := f.profile(
		shareholding.ShareholderInput{Name: "Ravi", SharePercentage: "50"},
		shareholding.ShareholderInput{Name: "Asha", SharePercentage: "30"},
	)
	ravi := p.FindShareholderByName("Ravi").ID
	asha := p.FindShareholderByName("Asha").ID
	f.record(f.credit("1020", "CASH"))
	f.record(f.debit("20", "CASH", f.category("Ravi FINANCE", nil)))

	res, err := f.shares.DistributeMonthly(f.ctx, f.tenantID, thisMonth())
	require.NoError(t, err)

	assertMoney(t, "1020", res.TotalProfit)
	require.Len(t, res.Shares, 2)
	byName := map[string]ShareResponse{}
	for _, s := range res.Shares {
		byName[s.Name] = s
	}
	assertMoney(t, "510", byName["Ravi"].RawShare)
	assertMoney(t, "20", byName["Ravi"].FinancedAmount)
	assertMoney(t, "490", byName["Ravi"].FinalShare)
	assertMoney(t, "306", byName["Asha"].FinalShare)
	assertMoney(t, "796", res.TotalFinalShare)
	assertMoney(t, "816", res.TotalRawShare)
	assertMoney(t, "20", res.TotalFinanced)

	assertMoney(t, "490", f.holder(ravi).AccumulatedShareProfit)
	assertMoney(t, "306", f.holder(asha).AccumulatedShareProfit)
	assert.Contains(t, f.pub.types(), shareholding.EventTypeProfitDistributed)
}

func TestDistributionService_Scenario(t *testing.T) {
	f := newFixture(t)
	p := f.profile(shareholding.ShareholderInput{Name: "Ravi", SharePercentage: "50"})
	holderID := p.Shareholders[0].ID
	f.record(f.credit("1000", "CASH"))
	f.record(f.debit("20", "CASH", f.category("Ravi FINANCE", nil)))

	res, err := f.shares.DistributeMonthly(f.ctx, f.tenantID, thisMonth())
	require.NoError(t, err)

	share := res.Shares[0]
	assertMoney(t, "500", share.RawShare)
	assertMoney(t, "480", share.FinalShare)
	assertMoney(t, "480", share.AppliedNow)
	assertMoney(t, "480", f.holder(holderID).AccumulatedShareProfit)
}

func TestDistributionService_Idempotent(t *testing.T) {
	f := newFixture(t)
	p := f.profile(shareholding.ShareholderInput{Name: "Ravi", SharePercentage: "50"})
	holderID := p.Shareholders[0].ID
	f.record(f.credit("1000", "CASH"))

	_, err := f.shares.DistributeMonthly(f.ctx, f.tenantID, thisMonth())
	require.NoError(t, err)
	again, err := f.shares.DistributeMonthly(f.ctx, f.tenantID, thisMonth())
	require.NoError(t, err)

	assertMoney(t, "0", again.Shares[0].AppliedNow)
	assertMoney(t, "500", f.holder(holderID).AccumulatedShareProfit)

	f.record(f.credit("200", "CASH"))
	third, err := f.shares.DistributeMonthly(f.ctx, f.tenantID, thisMonth())
	require.NoError(t, err)

	assertMoney(t, "100", third.Shares[0].AppliedNow)
	assertMoney(t, "600", f.holder(holderID).AccumulatedShareProfit)

	rows, err := f.shares.ListDistributions(f.ctx, f.tenantID, thisMonth())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].RunCount)
	assertMoney(t, "600", rows[0].FinalShare)
}

func TestDistributionService_ZeroProfit(t *testing.T) {
	f := newFixture(t)
	f.profile(shareholding.ShareholderInput{Name: "Ravi", SharePercentage: "50"})

	res, err := f.shares.DistributeMonthly(f.ctx, f.tenantID, "2020-01")

	require.NoError(t, err)
	assertMoney(t, "0", res.TotalProfit)
	require.Len(t, res.Shares, 1)
	assertMoney(t, "0", res.Shares[0].FinalShare)
}

func TestDistributionService_Failures(t *testing.T) {
	t.Run("no profile", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.shares.DistributeMonthly(f.ctx, f.tenantID, thisMonth())
		assert.ErrorIs(t, err, shareholding.ErrNoShareholders)
	})

	t.Run("profile without shareholders", func(t *testing.T) {
		f := newFixture(t)
		f.profile()
		_, err := f.shares.DistributeMonthly(f.ctx, f.tenantID, thisMonth())
		assert.ErrorIs(t, err, shareholding.ErrNoShareholders)
	})

	t.Run("month must be YYYY-MM", func(t *testing.T) {
		f := newFixture(t)
		f.profile(shareholding.ShareholderInput{Name: "Ravi", SharePercentage: "50"})
		_, err := f.shares.DistributeMonthly(f.ctx, f.tenantID, "2024-03-01")
		assert.ErrorIs(t, err, ledger.ErrInvalidPeriod)
		assert.Empty(t, f.scope.store.distributions)
	})
}

func TestDistributionService_DistributeAllTenants(t *testing.T) {
	f := newFixture(t)
	f.profile(shareholding.ShareholderInput{Name: "Ravi", SharePercentage: "50"})
	f.record(f.credit("1000", "CASH"))

	n, err := f.shares.DistributeAllTenants(f.ctx, thisMonth())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, f.scope.store.distributions, 1)
}
