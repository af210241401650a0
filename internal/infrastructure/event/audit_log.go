package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuditRecord is one persisted domain event
type AuditRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	TenantID      uuid.UUID `gorm:"type:uuid;not null;index:idx_ledger_events_aggregate,priority:1"`
	AggregateType string    `gorm:"type:varchar(64);not null"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null;index:idx_ledger_events_aggregate,priority:2"`
	EventType     string    `gorm:"type:varchar(64);not null"`
	Payload       string    `gorm:"type:text;not null"`
	OccurredAt    time.Time `gorm:"not null"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (AuditRecord) TableName() string {
	return "ledger_events"
}

// HistoryItem is the read model returned to API callers
type HistoryItem struct {
	EventID    uuid.UUID       `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// GormAuditLog stores domain events in the ledger_events table
type GormAuditLog struct {
	db *gorm.DB
}

// NewGormAuditLog creates a new audit log over db
func NewGormAuditLog(db *gorm.DB) *GormAuditLog {
	return &GormAuditLog{db: db}
}

// Append stores records, ignoring events that were already stored
func (l *GormAuditLog) Append(ctx context.Context, records ...*AuditRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(records).Error
	if err != nil {
		return fmt.Errorf("failed to append audit records: %w", err)
	}
	return nil
}

// History lists the events of one aggregate in the order they occurred
func (l *GormAuditLog) History(ctx context.Context, tenantID, aggregateID uuid.UUID) ([]HistoryItem, error) {
	var rows []AuditRecord
	err := l.db.WithContext(ctx).
		Where("tenant_id = ? AND aggregate_id = ?", tenantID, aggregateID).
		Order("occurred_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	items := make([]HistoryItem, len(rows))
	for i, r := range rows {
		items[i] = HistoryItem{
			EventID:    r.EventID,
			EventType:  r.EventType,
			OccurredAt: r.OccurredAt,
			Payload:    json.RawMessage(r.Payload),
		}
	}
	return items, nil
}

// AuditLogHandler persists every published event
type AuditLogHandler struct {
	log        *GormAuditLog
	serializer *EventSerializer
	logger     *zap.Logger
}

// NewAuditLogHandler creates a handler writing to log
func NewAuditLogHandler(log *GormAuditLog, serializer *EventSerializer, logger *zap.Logger) *AuditLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogHandler{log: log, serializer: serializer, logger: logger}
}

// EventTypes is empty: the audit log receives every event
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle serializes and stores the event
func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, err := h.serializer.Serialize(event)
	if err != nil {
		return err
	}
	record := &AuditRecord{
		ID:            uuid.New(),
		EventID:       event.EventID(),
		TenantID:      event.TenantID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		EventType:     event.EventType(),
		Payload:       string(payload),
		OccurredAt:    event.OccurredAt(),
	}
	if err := h.log.Append(ctx, record); err != nil {
		return err
	}
	h.logger.Debug("event recorded",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
	)
	return nil
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
