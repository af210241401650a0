package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/reference"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// books is a migrated in-memory database with one tenant's reference data
type books struct {
	t        *testing.T
	ctx      context.Context
	db       *gorm.DB
	tenantID uuid.UUID

	busID      uuid.UUID
	operatorID uuid.UUID
	agentID    uuid.UUID
	bookingCat uuid.UUID
	fuelCat    uuid.UUID
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := NewSQLiteDatabase("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database.DB
}

func newBooks(t *testing.T) *books {
	t.Helper()
	b := &books{t: t, ctx: context.Background(), db: newTestDB(t), tenantID: uuid.New()}

	bus, err := reference.NewBus(b.tenantID, "Volvo 9400", "KA01AB1234")
	require.NoError(t, err)
	require.NoError(t, NewGormBusRepository(b.db).Save(b.ctx, bus))
	op, err := reference.NewOperator(b.tenantID, "Sharma Travels", "")
	require.NoError(t, err)
	require.NoError(t, NewGormOperatorRepository(b.db).Save(b.ctx, op))
	agent, err := reference.NewAgent(b.tenantID, "Raju", "")
	require.NoError(t, err)
	require.NoError(t, NewGormAgentRepository(b.db).Save(b.ctx, agent))

	b.busID, b.operatorID, b.agentID = bus.ID, op.ID, agent.ID
	b.bookingCat = b.category(ledger.BusBookingCategory)
	b.fuelCat = b.category("Fuel")
	return b
}

func (b *books) category(name string) uuid.UUID {
	b.t.Helper()
	c, err := reference.NewCategory(b.tenantID, name, nil)
	require.NoError(b.t, err)
	require.NoError(b.t, NewGormCategoryRepository(b.db).Save(b.ctx, c))
	return c.ID
}

func (b *books) newEntry(in ledger.EntryInput) *ledger.Entry {
	b.t.Helper()
	e, err := ledger.NewEntry(b.tenantID, in)
	require.NoError(b.t, err)
	return e
}

func (b *books) saveEntry(in ledger.EntryInput) *ledger.Entry {
	b.t.Helper()
	e := b.newEntry(in)
	require.NoError(b.t, NewGormEntryRepository(b.db).Save(b.ctx, e))
	return e
}

func (b *books) cash(direction, amount string, categoryID uuid.UUID) ledger.EntryInput {
	return ledger.EntryInput{
		Direction:   direction,
		Amount:      amount,
		Channel:     "CASH",
		CategoryID:  categoryID,
		Description: "counter",
	}
}

func (b *books) payLater(amount, collection, commission string) ledger.EntryInput {
	in := ledger.EntryInput{
		Direction:  "CREDIT",
		Amount:     amount,
		Channel:    "CASH",
		CategoryID: b.bookingCat,
		IsDeferred: true,
		Deferred: &ledger.DeferredSaleInput{
			From:             "Bengaluru",
			To:               "Mysuru",
			TravelDate:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			BusID:            b.busID,
			OperatorID:       b.operatorID,
			CollectionAmount: collection,
		},
	}
	if commission != "" {
		agent := b.agentID
		in.Deferred.AgentID = &agent
		in.Deferred.CommissionAmount = commission
	}
	return in
}
