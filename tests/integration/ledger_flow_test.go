//go:build integration

package integration

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	appledger "github.com/eric6923/finTrack-sub000/internal/application/ledger"
	appref "github.com/eric6923/finTrack-sub000/internal/application/reference"
	appshare "github.com/eric6923/finTrack-sub000/internal/application/shareholding"
	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/event"
	"github.com/eric6923/finTrack-sub000/internal/interfaces/http/handler"
	"github.com/eric6923/finTrack-sub000/internal/interfaces/http/middleware"
	"github.com/eric6923/finTrack-sub000/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refs struct {
	bus, operator, agent, booking, fuel uuid.UUID
}

func seedRefs(t *testing.T, c *testutil.Client) refs {
	t.Helper()
	create := func(path string, body any) uuid.UUID {
		var item appref.ItemResponse
		c.Expect(t, http.StatusCreated, http.MethodPost, "/api/v1"+path, body, &item)
		return item.ID
	}
	return refs{
		bus:      create("/buses", gin.H{"name": "Volvo 9400"}),
		operator: create("/operators", gin.H{"name": "Sharma Travels"}),
		agent:    create("/agents", gin.H{"name": "Raju"}),
		booking:  create("/categories", gin.H{"name": ledger.BusBookingCategory}),
		fuel:     create("/categories", gin.H{"name": "Fuel"}),
	}
}

func payLaterBody(r refs, amount, collection, commission string) handler.TransactionBody {
	return handler.TransactionBody{
		Direction:      "CREDIT",
		Amount:         amount,
		PaymentChannel: "CASH",
		CategoryID:     r.booking,
		IsDeferred:     true,
		DeferredSale: &handler.DeferredSaleBody{
			From:             "Pune",
			To:               "Goa",
			TravelDate:       time.Now().Format(time.DateOnly),
			BusID:            r.bus,
			OperatorID:       r.operator,
			CollectionAmount: collection,
			AgentID:          &r.agent,
			CommissionAmount: commission,
		},
	}
}

func TestLedgerFlow_PayLater(t *testing.T) {
	srv := newTestServer(t)
	c, tenantID := srv.tenant(t)
	r := seedRefs(t, c)
	month := ledger.MonthOf(time.Now()).Label

	c.Expect(t, http.StatusOK, http.MethodPut, "/api/v1/balances", handler.OpeningBalancesBody{BankBalance: "1000"}, nil)

	var sale appledger.TransactionResult
	c.Expect(t, http.StatusCreated, http.MethodPost, "/api/v1/transactions", payLaterBody(r, "500", "300", "50"), &sale)
	testutil.AssertMoney(t, "350", sale.Entry.OutstandingDue)
	testutil.AssertMoney(t, "500", sale.Balances.CashBalance)
	settleURL := "/api/v1/transactions/" + sale.Entry.ID.String() + "/settle"

	t.Run("replayed settlement is refused", func(t *testing.T) {
		keyed := c.WithHeader(middleware.IdempotencyKeyHeader, "settle-1")
		body := handler.SettleBody{PaymentType: "PARTIAL", PaymentMode: "UPI", ReferenceNumber: "UPI-1", OperatorPayment: "100", AgentPayment: "50"}

		var first appledger.SettlementResult
		keyed.Expect(t, http.StatusCreated, http.MethodPost, settleURL, body, &first)
		testutil.AssertMoney(t, "200", first.RemainingDue)
		testutil.AssertMoney(t, "850", first.Balances.BankBalance)

		replay := keyed.Do(t, http.MethodPost, settleURL, body)
		assert.Equal(t, http.StatusConflict, replay.Code)
		assert.Equal(t, "DUPLICATE_REQUEST", replay.ErrorCode())
		assert.Equal(t, "true", replay.Header().Get(middleware.IdempotencyReplayHeader))
	})

	t.Run("full settlement clears the due", func(t *testing.T) {
		var full appledger.SettlementResult
		c.Expect(t, http.StatusCreated, http.MethodPost, settleURL,
			handler.SettleBody{PaymentType: "FULL", PaymentMode: "CASH"}, &full)
		testutil.AssertMoney(t, "200", full.TotalPayment)
		testutil.AssertMoney(t, "300", full.Balances.CashBalance)
		testutil.AssertMoney(t, "0", full.Balances.OutstandingDue)
		assert.Equal(t, "PayLater FULL payment", full.SettlementEntry.Description)
	})

	t.Run("profit", func(t *testing.T) {
		c.Expect(t, http.StatusCreated, http.MethodPost, "/api/v1/transactions", handler.TransactionBody{
			Direction: "DEBIT", Amount: "30", PaymentChannel: "BANK", ReferenceNumber: "NEFT-9", CategoryID: r.fuel, Description: "diesel",
		}, nil)

		var month1 appledger.ProfitResponse
		c.Expect(t, http.StatusOK, http.MethodGet, "/api/v1/profit/month?date="+month, nil, &month1)
		testutil.AssertMoney(t, "150", month1.Profit)

		var net appledger.ProfitResponse
		c.Expect(t, http.StatusOK, http.MethodGet, "/api/v1/profit/range", nil, &net)
		testutil.AssertMoney(t, "120", net.Profit)
		assert.Nil(t, net.Start, "no period means all time")
	})

	t.Run("history and events", func(t *testing.T) {
		var items []event.HistoryItem
		c.Expect(t, http.StatusOK, http.MethodGet, "/api/v1/transactions/"+sale.Entry.ID.String()+"/history", nil, &items)
		require.Len(t, items, 3)
		assert.Equal(t, ledger.EventTypeEntryRecorded, items[0].EventType)
		assert.Equal(t, ledger.EventTypePayLaterSettled, items[2].EventType)

		for _, e := range srv.events.Handled() {
			assert.Equal(t, tenantID, e.TenantID())
		}
	})

	t.Run("statement is uploaded", func(t *testing.T) {
		var st appledger.Statement
		c.Expect(t, http.StatusOK, http.MethodGet, "/api/v1/statements?date="+month, nil, &st)
		assert.Equal(t, 4, st.Rows)
		assert.True(t, strings.HasPrefix(st.DownloadURL, "https://files.test/"), st.DownloadURL)
		require.NotNil(t, st.ExpiresAt)
	})

	t.Run("deleting the sale reverses its credit only", func(t *testing.T) {
		var after appledger.BalancesResponse
		c.Expect(t, http.StatusOK, http.MethodDelete, "/api/v1/transactions/"+sale.Entry.ID.String(), nil, &after)
		testutil.AssertMoney(t, "0", after.OutstandingDue)
		testutil.AssertMoney(t, "-200", after.CashBalance)
		testutil.AssertMoney(t, "820", after.BankBalance)
	})
}

func TestLedgerFlow_TenantIsolation(t *testing.T) {
	srv := newTestServer(t)
	a, _ := srv.tenant(t)
	b, _ := srv.tenant(t)
	r := seedRefs(t, a)

	var sale appledger.TransactionResult
	a.Expect(t, http.StatusCreated, http.MethodPost, "/api/v1/transactions", payLaterBody(r, "100", "60", ""), &sale)

	resp := b.Do(t, http.MethodGet, "/api/v1/transactions/"+sale.Entry.ID.String(), nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "FORBIDDEN", resp.ErrorCode())

	listing := b.Expect(t, http.StatusOK, http.MethodGet, "/api/v1/transactions", nil, nil)
	require.NotNil(t, listing.Envelope.Meta)
	assert.Zero(t, listing.Envelope.Meta.Total)

	// B cannot book against A's categories
	resp = b.Do(t, http.MethodPost, "/api/v1/transactions", handler.TransactionBody{
		Direction: "CREDIT", Amount: "10", PaymentChannel: "CASH", CategoryID: r.booking, Description: "x",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	anonymous := testutil.NewClient(srv.engine)
	assert.Equal(t, http.StatusUnauthorized, anonymous.Do(t, http.MethodGet, "/api/v1/balances", nil).Code)
	assert.Equal(t, http.StatusOK, anonymous.Do(t, http.MethodGet, "/api/v1/health", nil).Code)
}

func TestLedgerFlow_ConcurrentSettlements(t *testing.T) {
	srv := newTestServer(t)
	c, _ := srv.tenant(t)
	r := seedRefs(t, c)

	var sale appledger.TransactionResult
	c.Expect(t, http.StatusCreated, http.MethodPost, "/api/v1/transactions", payLaterBody(r, "100", "50", ""), &sale)
	settleURL := "/api/v1/transactions/" + sale.Entry.ID.String() + "/settle"

	const workers = 10
	codes := make([]int, workers)
	errorCodes := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := c.Do(t, http.MethodPost, settleURL,
				handler.SettleBody{PaymentType: "PARTIAL", PaymentMode: "CASH", OperatorPayment: "10"})
			codes[i] = resp.Code
			errorCodes[i] = resp.ErrorCode()
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i, code := range codes {
		if code == http.StatusCreated {
			succeeded++
			continue
		}
		assert.Equal(t, http.StatusConflict, code)
		assert.Contains(t, []string{"PAYMENT_EXCEEDS_DUE", "ALREADY_SETTLED"}, errorCodes[i])
	}
	assert.Equal(t, 5, succeeded)

	var bal appledger.BalancesResponse
	c.Expect(t, http.StatusOK, http.MethodGet, "/api/v1/balances", nil, &bal)
	testutil.AssertMoney(t, "0", bal.OutstandingDue)
	testutil.AssertMoney(t, "50", bal.CashBalance)
}

func TestLedgerFlow_ConcurrentSettleAndDeleteSettlement(t *testing.T) {
	srv := newTestServer(t)
	c, _ := srv.tenant(t)
	r := seedRefs(t, c)

	// each round pays 20 and deletes an earlier 10 payment, a net 10
	net := valueobject.MustMoney("10")
	const rounds = 5
	for i := 0; i < rounds; i++ {
		var sale appledger.TransactionResult
		c.Expect(t, http.StatusCreated, http.MethodPost, "/api/v1/transactions", payLaterBody(r, "100", "50", ""), &sale)
		settleURL := "/api/v1/transactions/" + sale.Entry.ID.String() + "/settle"

		var first appledger.SettlementResult
		c.Expect(t, http.StatusCreated, http.MethodPost, settleURL,
			handler.SettleBody{PaymentType: "PARTIAL", PaymentMode: "CASH", OperatorPayment: "10"}, &first)
		before := first.Balances

		var settleCode, deleteCode int
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			settleCode = c.Do(t, http.MethodPost, settleURL,
				handler.SettleBody{PaymentType: "PARTIAL", PaymentMode: "CASH", OperatorPayment: "20"}).Code
		}()
		go func() {
			defer wg.Done()
			deleteCode = c.Do(t, http.MethodDelete, "/api/v1/transactions/"+first.SettlementEntry.ID.String(), nil).Code
		}()
		wg.Wait()

		require.Equal(t, http.StatusCreated, settleCode, "round %d", i)
		require.Equal(t, http.StatusOK, deleteCode, "round %d", i)

		var got appledger.EntryResponse
		c.Expect(t, http.StatusOK, http.MethodGet, "/api/v1/transactions/"+sale.Entry.ID.String(), nil, &got)
		testutil.AssertMoney(t, "30", got.OutstandingDue)
		require.NotNil(t, got.DeferredSale)
		require.NotNil(t, got.DeferredSale.Collection)
		testutil.AssertMoney(t, "30", got.DeferredSale.Collection.RemainingDue)

		var bal appledger.BalancesResponse
		c.Expect(t, http.StatusOK, http.MethodGet, "/api/v1/balances", nil, &bal)
		testutil.AssertMoney(t, before.OutstandingDue.Sub(net).String(), bal.OutstandingDue)
		testutil.AssertMoney(t, before.CashBalance.Sub(net).String(), bal.CashBalance)
	}
}

func TestLedgerFlow_ConcurrentDebits(t *testing.T) {
	srv := newTestServer(t)
	c, _ := srv.tenant(t)
	r := seedRefs(t, c)
	c.Expect(t, http.StatusOK, http.MethodPut, "/api/v1/balances", handler.OpeningBalancesBody{CashBalance: "100"}, nil)

	const workers = 10
	codes := make([]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = c.Do(t, http.MethodPost, "/api/v1/transactions", handler.TransactionBody{
				Direction: "DEBIT", Amount: "15", PaymentChannel: "CASH", CategoryID: r.fuel, Description: "diesel",
			}).Code
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, code := range codes {
		if code == http.StatusCreated {
			succeeded++
		} else {
			assert.Equal(t, http.StatusUnprocessableEntity, code)
		}
	}
	assert.Equal(t, 6, succeeded)

	var bal appledger.BalancesResponse
	c.Expect(t, http.StatusOK, http.MethodGet, "/api/v1/balances", nil, &bal)
	testutil.AssertMoney(t, "10", bal.CashBalance)
}

func TestLedgerFlow_Distribution(t *testing.T) {
	srv := newTestServer(t)
	month := ledger.MonthOf(time.Now()).Label

	setup := func(amount string) *testutil.Client {
		c, _ := srv.tenant(t)
		r := seedRefs(t, c)
		c.Expect(t, http.StatusCreated, http.MethodPost, "/api/v1/shares/profile", appshare.CreateProfileRequest{
			CompanyName:  "Sharma Bus Co",
			Shareholders: []appshare.ShareholderRequest{{Name: "Ravi", SharePercentage: "50"}, {Name: "Asha", SharePercentage: "50"}},
		}, nil)
		c.Expect(t, http.StatusCreated, http.MethodPost, "/api/v1/transactions", handler.TransactionBody{
			Direction: "CREDIT", Amount: amount, PaymentChannel: "CASH", CategoryID: r.booking, Description: "charter",
		}, nil)
		return c
	}
	first := setup("1000")
	second := setup("400")

	tenants, err := srv.distribution.DistributeAllTenants(context.Background(), month)
	require.NoError(t, err)
	assert.Equal(t, 2, tenants)

	var rows []appledger.DistributionResponse
	first.Expect(t, http.StatusOK, http.MethodGet, "/api/v1/shares/distributions?period="+month, nil, &rows)
	require.Len(t, rows, 2)
	for _, row := range rows {
		testutil.AssertMoney(t, "500", row.FinalShare)
	}

	t.Run("a rerun after new profit applies only the delta", func(t *testing.T) {
		var booking []appref.ItemResponse
		second.Expect(t, http.StatusOK, http.MethodGet, "/api/v1/categories", nil, &booking)
		var bookingID uuid.UUID
		for _, item := range booking {
			if item.Name == ledger.BusBookingCategory {
				bookingID = item.ID
			}
		}
		second.Expect(t, http.StatusCreated, http.MethodPost, "/api/v1/transactions", handler.TransactionBody{
			Direction: "CREDIT", Amount: "100", PaymentChannel: "CASH", CategoryID: bookingID, Description: "late booking",
		}, nil)

		var res appledger.DistributionResult
		second.Expect(t, http.StatusOK, http.MethodPost, "/api/v1/shares/distribute", handler.DistributeBody{Date: month}, &res)
		testutil.AssertMoney(t, "500", res.TotalProfit)
		for _, share := range res.Shares {
			testutil.AssertMoney(t, "50", share.AppliedNow)
			testutil.AssertMoney(t, "250", share.Accumulated)
		}
	})
}
