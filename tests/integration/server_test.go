//go:build integration

package integration

import (
	"testing"
	"time"

	appledger "github.com/eric6923/finTrack-sub000/internal/application/ledger"
	appref "github.com/eric6923/finTrack-sub000/internal/application/reference"
	appshare "github.com/eric6923/finTrack-sub000/internal/application/shareholding"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/auth"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/cache"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/event"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/persistence"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/storage"
	"github.com/eric6923/finTrack-sub000/internal/interfaces/http/handler"
	"github.com/eric6923/finTrack-sub000/internal/interfaces/http/middleware"
	"github.com/eric6923/finTrack-sub000/internal/interfaces/http/router"
	"github.com/eric6923/finTrack-sub000/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// testServer is the full API over a migrated PostgreSQL database
type testServer struct {
	db           *TestDB
	engine       *gin.Engine
	events       *testutil.RecordingHandler
	distribution *appledger.DistributionService
	statements   *storage.MemoryStatementStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	tdb := NewTestDB(t)
	db := tdb.DB

	scope := persistence.NewGormTransactionScope(db)
	profiles := persistence.NewGormProfileRepository(db)
	audit := event.NewGormAuditLog(db)

	recorder := testutil.NewRecordingHandler()
	bus := event.NewInMemoryEventBus(nil)
	bus.Subscribe(event.NewAuditLogHandler(audit, event.NewLedgerEventSerializer(), nil))
	bus.Subscribe(recorder)

	transactions := appledger.NewTransactionService(scope)
	transactions.SetEventPublisher(bus)
	settlements := appledger.NewSettlementService(scope)
	settlements.SetEventPublisher(bus)
	distributions := appledger.NewDistributionService(scope)
	distributions.SetEventPublisher(bus)
	files := storage.NewMemoryStatementStorage("https://files.test")

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())

	health := handler.NewHealthHandler(&persistence.Database{DB: db}, "test")
	r := router.NewRouter(engine, router.WithMiddleware(
		middleware.JWTAuth(middleware.DefaultJWTConfig(auth.NewJWTService(testutil.TestJWTConfig()))),
	))
	router.LedgerRoutes(r, router.Handlers{
		Health:       health,
		Balances:     handler.NewBalanceHandler(transactions),
		Transactions: handler.NewTransactionHandler(transactions, settlements, audit),
		Profit:       handler.NewProfitHandler(appledger.NewProfitService(scope)),
		Shares:       handler.NewShareHandler(appshare.NewProfileService(profiles), distributions),
		Reference: handler.NewReferenceHandler(appref.NewService(
			persistence.NewGormBusRepository(db),
			persistence.NewGormOperatorRepository(db),
			persistence.NewGormAgentRepository(db),
			persistence.NewGormCategoryRepository(db),
			profiles,
		)),
		Statements: handler.NewStatementHandler(appledger.NewStatementService(scope, files, 10*time.Minute)),
	}, middleware.Idempotency(middleware.IdempotencyConfig{Store: cache.NewInMemoryIdempotencyStore()}))
	r.Setup()

	return &testServer{db: tdb, engine: engine, events: recorder, distribution: distributions, statements: files}
}

// tenant returns a client authenticated as a brand new tenant
func (s *testServer) tenant(t *testing.T) (*testutil.Client, uuid.UUID) {
	t.Helper()
	tenantID := uuid.New()
	return testutil.NewClient(s.engine).WithBearer(testutil.TenantToken(t, tenantID)), tenantID
}
