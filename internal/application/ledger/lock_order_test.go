package ledger

import (
	"testing"

	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitsOfWork_LockBalancesFirst(t *testing.T) {
	f := newFixture(t)
	p := f.profile(
		shareholding.ShareholderInput{Name: "Ravi", SharePercentage: "50"},
		shareholding.ShareholderInput{Name: "Asha", SharePercentage: "30"},
	)
	ravi := p.FindShareholderByName("Ravi").ID
	asha := p.FindShareholderByName("Asha").ID
	raviLoan := f.category("Ravi loan", &ravi)
	ashaLoan := f.category("Asha loan", &asha)

	f.record(f.credit("1000", "CASH"))
	sale := f.record(f.payLater("500", "300", "50"))
	debit := f.record(f.debit("100", "CASH", raviLoan))

	assertLocks := func(t *testing.T, want ...string) {
		t.Helper()
		assert.Equal(t, want, f.scope.locks)
	}

	t.Run("record", func(t *testing.T) {
		f.record(f.debit("10", "CASH", raviLoan))
		assertLocks(t, "balances", "shareholder")
	})

	t.Run("update", func(t *testing.T) {
		_, err := f.txs.Update(f.ctx, f.tenantID, debit.Entry.ID, f.debit("120", "CASH", ashaLoan))
		require.NoError(t, err)
		assertLocks(t, "balances", "entry", "shareholder", "shareholder")
	})

	t.Run("settle then delete the settlement", func(t *testing.T) {
		res, err := f.settle.Settle(f.ctx, f.tenantID, sale.Entry.ID,
			SettlementRequest{PaymentType: "PARTIAL", PaymentMode: "CASH", OperatorPayment: "100"})
		require.NoError(t, err)
		assertLocks(t, "balances", "entry")

		_, err = f.txs.Delete(f.ctx, f.tenantID, res.SettlementEntry.ID)
		require.NoError(t, err)
		assertLocks(t, "balances", "entry", "entry")
	})

	t.Run("distribution", func(t *testing.T) {
		_, err := f.shares.DistributeMonthly(f.ctx, f.tenantID, thisMonth())
		require.NoError(t, err)
		assertLocks(t, "balances", "shareholders", "distribution", "distribution")
	})
}
