package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestGormAccountBalanceRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAccountBalanceRepository(newTestDB(t))
	tenantID := uuid.New()

	t.Run("missing row reads as zero", func(t *testing.T) {
		b, err := repo.Find(ctx, tenantID)
		require.NoError(t, err)
		assert.True(t, b.CashBalance.IsZero())
		assert.True(t, b.BankBalance.IsZero())
		assert.True(t, b.OutstandingDue.IsZero())
	})

	t.Run("lock creates the row once", func(t *testing.T) {
		first, err := repo.FindForUpdate(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Version)

		first.Credit(ledger.ChannelCash, valueobject.MustMoney("150"))
		first.AddDue(valueobject.MustMoney("40"))
		require.NoError(t, repo.Save(ctx, first))
		assert.Equal(t, 2, first.Version)

		again, err := repo.FindForUpdate(ctx, tenantID)
		require.NoError(t, err)
		assertMoney(t, "150", again.CashBalance)
		assertMoney(t, "40", again.OutstandingDue)
		assert.Equal(t, 2, again.Version)
	})

	t.Run("tenants are isolated", func(t *testing.T) {
		b, err := repo.Find(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, b.CashBalance.IsZero())
	})
}

func TestGormAccountBalanceRepository_FindQuery(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	repo := NewGormAccountBalanceRepository(gormDB)
	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "account_balances" WHERE tenant_id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(tenantID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "cash_balance", "bank_balance", "outstanding_due", "version"}).
			AddRow(tenantID, "75.50", "10", "0", 3))

	b, err := repo.Find(context.Background(), tenantID)

	require.NoError(t, err)
	assertMoney(t, "75.50", b.CashBalance)
	assertMoney(t, "10", b.BankBalance)
	assert.Equal(t, 3, b.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
