package shareholding

import (
	"testing"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func holder(t *testing.T, pct string, financed string) *Shareholder {
	t.Helper()
	p, err := NewCompanyShareProfile(uuid.New(), "Co", []ShareholderInput{{Name: "Ravi", SharePercentage: pct}})
	require.NoError(t, err)
	h := &p.Shareholders[0]
	h.AddFinanced(valueobject.MustMoney(financed))
	return h
}

func TestShareholder_ComputeShare(t *testing.T) {
	h := holder(t, "50", "20")

	comp := h.ComputeShare(valueobject.MustMoney("1000"))

	assert.True(t, comp.RawShare.Equals(valueobject.MustMoney("500")))
	assert.True(t, comp.FinancedAmount.Equals(valueobject.MustMoney("20")))
	assert.True(t, comp.FinalShare.Equals(valueobject.MustMoney("480")))
}

func TestShareholder_ComputeShare_ZeroProfit(t *testing.T) {
	h := holder(t, "25", "0")

	comp := h.ComputeShare(valueobject.Zero())

	assert.True(t, comp.RawShare.IsZero())
	assert.True(t, comp.FinalShare.IsZero())
}

func TestShareholder_Distribute(t *testing.T) {
	t.Run("first run applies the whole final share", func(t *testing.T) {
		h := holder(t, "50", "20")

		d, delta := h.Distribute("2024-03", valueobject.MustMoney("1000"), nil)

		assert.True(t, delta.Equals(valueobject.MustMoney("480")))
		assert.True(t, h.AccumulatedShareProfit.Equals(valueobject.MustMoney("480")))
		assert.Equal(t, "2024-03", d.Period)
		assert.Equal(t, h.ID, d.ShareholderID)
		assert.Equal(t, 1, d.RunCount)
		assert.True(t, d.AppliedAmount.Equals(valueobject.MustMoney("480")))
	})

	t.Run("rerun over unchanged books adds nothing", func(t *testing.T) {
		h := holder(t, "50", "20")
		d, _ := h.Distribute("2024-03", valueobject.MustMoney("1000"), nil)

		d, delta := h.Distribute("2024-03", valueobject.MustMoney("1000"), d)

		assert.True(t, delta.IsZero())
		assert.True(t, h.AccumulatedShareProfit.Equals(valueobject.MustMoney("480")))
		assert.Equal(t, 2, d.RunCount)
	})

	t.Run("rerun after profit changed applies only the difference", func(t *testing.T) {
		h := holder(t, "50", "20")
		d, _ := h.Distribute("2024-03", valueobject.MustMoney("1000"), nil)

		_, delta := h.Distribute("2024-03", valueobject.MustMoney("1200"), d)

		assert.True(t, delta.Equals(valueobject.MustMoney("100")))
		assert.True(t, h.AccumulatedShareProfit.Equals(valueobject.MustMoney("580")))
	})

	t.Run("financed amount above share gives negative final share", func(t *testing.T) {
		h := holder(t, "10", "150")

		d, delta := h.Distribute("2024-04", valueobject.MustMoney("1000"), nil)

		assert.True(t, d.FinalShare.Equals(valueobject.MustMoney("-50")))
		assert.True(t, delta.Equals(valueobject.MustMoney("-50")))
	})
}

func TestCompanyShareProfile_RecordDistribution(t *testing.T) {
	p, err := NewCompanyShareProfile(uuid.New(), "Co", []ShareholderInput{{Name: "A", SharePercentage: "100"}})
	require.NoError(t, err)

	p.RecordDistribution("2024-03", valueobject.MustMoney("10"), valueobject.MustMoney("10"))

	require.Len(t, p.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeProfitDistributed, p.GetDomainEvents()[0].EventType())
}
