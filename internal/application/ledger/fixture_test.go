package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/reference"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t        *testing.T
	ctx      context.Context
	scope    *memScope
	pub      *recordingPublisher
	tenantID uuid.UUID

	txs     *TransactionService
	settle  *SettlementService
	profit  *ProfitService
	shares  *DistributionService
	exports *StatementService

	busID      uuid.UUID
	operatorID uuid.UUID
	agentID    uuid.UUID
	bookingCat uuid.UUID
	fuelCat    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	scope := newMemScope()
	pub := &recordingPublisher{}
	f := &fixture{
		t:        t,
		ctx:      context.Background(),
		scope:    scope,
		pub:      pub,
		tenantID: uuid.New(),
		txs:      NewTransactionService(scope),
		settle:   NewSettlementService(scope),
		profit:   NewProfitService(scope),
		shares:   NewDistributionService(scope),
		exports:  NewStatementService(scope, nil, time.Minute),
	}
	f.txs.SetEventPublisher(pub)
	f.settle.SetEventPublisher(pub)
	f.shares.SetEventPublisher(pub)

	bus, err := reference.NewBus(f.tenantID, "Volvo 9400", "KA01AB1234")
	require.NoError(t, err)
	op, err := reference.NewOperator(f.tenantID, "Sharma Travels", "")
	require.NoError(t, err)
	agent, err := reference.NewAgent(f.tenantID, "Raju", "")
	require.NoError(t, err)
	scope.store.buses[bus.ID] = *bus
	scope.store.operators[op.ID] = *op
	scope.store.agents[agent.ID] = *agent
	f.busID, f.operatorID, f.agentID = bus.ID, op.ID, agent.ID

	f.bookingCat = f.category(ledger.BusBookingCategory, nil)
	f.fuelCat = f.category("Fuel", nil)
	return f
}

func (f *fixture) category(name string, holderID *uuid.UUID) uuid.UUID {
	f.t.Helper()
	c, err := reference.NewCategory(f.tenantID, name, holderID)
	require.NoError(f.t, err)
	f.scope.store.categories[c.ID] = *c
	return c.ID
}

func (f *fixture) profile(holders ...shareholding.ShareholderInput) *shareholding.CompanyShareProfile {
	f.t.Helper()
	p, err := shareholding.NewCompanyShareProfile(f.tenantID, "Sharma Travels", holders)
	require.NoError(f.t, err)
	require.NoError(f.t, memProfiles{f.scope.store}.Save(f.ctx, p))
	return p
}

func (f *fixture) holder(id uuid.UUID) shareholding.Shareholder {
	return f.scope.store.holders[id]
}

func (f *fixture) balance() ledger.AccountBalance {
	b, ok := f.scope.store.balances[f.tenantID]
	if !ok {
		return *ledger.NewAccountBalance(f.tenantID)
	}
	return b
}

func (f *fixture) entry(id uuid.UUID) ledger.Entry {
	f.t.Helper()
	e, ok := f.scope.store.entries[id]
	require.True(f.t, ok, "entry %s not stored", id)
	return e
}

func (f *fixture) record(req TransactionRequest) *TransactionResult {
	f.t.Helper()
	res, err := f.txs.Record(f.ctx, f.tenantID, req)
	require.NoError(f.t, err)
	return res
}

func (f *fixture) credit(amount, channel string) TransactionRequest {
	return TransactionRequest{
		Direction:   "CREDIT",
		Amount:      amount,
		Channel:     channel,
		CategoryID:  f.bookingCat,
		Description: "Walk-in ticket",
	}
}

func (f *fixture) debit(amount, channel string, categoryID uuid.UUID) TransactionRequest {
	return TransactionRequest{
		Direction:   "DEBIT",
		Amount:      amount,
		Channel:     channel,
		CategoryID:  categoryID,
		Description: "Expense",
	}
}

func (f *fixture) payLater(amount, collection, commission string) TransactionRequest {
	req := TransactionRequest{
		Direction:  "CREDIT",
		Amount:     amount,
		Channel:    "CASH",
		CategoryID: f.bookingCat,
		IsDeferred: true,
		Deferred: &DeferredSaleRequest{
			From:             "Bengaluru",
			To:               "Mysuru",
			TravelDate:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			BusID:            f.busID,
			OperatorID:       f.operatorID,
			CollectionAmount: collection,
		},
	}
	if commission != "" {
		agent := f.agentID
		req.Deferred.AgentID = &agent
		req.Deferred.CommissionAmount = commission
	}
	return req
}

func money(s string) valueobject.Money {
	return valueobject.MustMoney(s)
}

func assertMoney(t *testing.T, want string, got valueobject.Money) {
	t.Helper()
	assert.Truef(t, got.Equals(money(want)), "want %s, got %s", want, got)
}
