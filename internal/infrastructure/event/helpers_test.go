package event

import (
	"context"
	"sync"
	"testing"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type recordingHandler struct {
	types []string
	err   error
	panic bool

	mu   sync.Mutex
	seen []shared.DomainEvent
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.seen = append(h.seen, event)
	h.mu.Unlock()
	if h.panic {
		panic("boom")
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func recorded(tenantID uuid.UUID, amount string) *ledger.EntryRecordedEvent {
	return &ledger.EntryRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ledger.EventTypeEntryRecorded, ledger.AggregateTypeEntry, uuid.New(), tenantID),
		Direction:       ledger.DirectionCredit,
		Channel:         ledger.ChannelCash,
		Amount:          valueobject.MustMoney(amount),
	}
}

func newAuditDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&AuditRecord{}))
	return db
}
