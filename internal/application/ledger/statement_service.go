package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// StatementStorage stores exported statements and hands out download links
type StatementStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// Statement is an exported CSV statement. DownloadURL is set when the file
// was uploaded to object storage; otherwise Data carries the file.
type Statement struct {
	FileName    string     `json:"file_name"`
	Rows        int        `json:"rows"`
	DownloadURL string     `json:"download_url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Data        []byte     `json:"-"`
}

// StatementContentType is the MIME type of exported statements
const StatementContentType = "text/csv"

var statementHeader = []string{
	"date", "id", "direction", "channel", "amount", "category_id",
	"description", "reference_number", "pay_later", "outstanding_due", "settles",
}

// StatementService exports a tenant's entries for a period as CSV
type StatementService struct {
	scope   TransactionScope
	storage StatementStorage
	linkTTL time.Duration
}

// NewStatementService creates a StatementService. storage may be nil, in
// which case statements are returned inline.
func NewStatementService(scope TransactionScope, storage StatementStorage, linkTTL time.Duration) *StatementService {
	return &StatementService{scope: scope, storage: storage, linkTTL: linkTTL}
}

// Export renders every entry of the period, oldest first
func (s *StatementService) Export(ctx context.Context, tenantID uuid.UUID, date, start, end string) (*Statement, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "statement", "export")
	defer span.End()

	period, err := ledger.ParsePeriod(date, start, end)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrPeriod, period.Label,
	)

	var entries []ledger.Entry
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.Entries().FindByPeriod(ctx, tenantID, period)
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		entries = found
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	data, err := renderStatement(entries)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	stmt := &Statement{
		FileName: fmt.Sprintf("statement-%s.csv", period.Label),
		Rows:     len(entries),
		Data:     data,
	}
	if s.storage == nil {
		return stmt, nil
	}

	key := fmt.Sprintf("statements/%s/%s-%d.csv", tenantID, period.Label, time.Now().UTC().Unix())
	if err := s.storage.Upload(ctx, key, data, StatementContentType); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to upload statement: %w", err)
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.linkTTL)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to sign statement url: %w", err)
	}
	stmt.DownloadURL = url
	stmt.ExpiresAt = &expiresAt
	stmt.Data = nil
	return stmt, nil
}

func renderStatement(entries []ledger.Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(statementHeader); err != nil {
		return nil, fmt.Errorf("failed to write statement: %w", err)
	}
	for i := range entries {
		e := &entries[i]
		settles := ""
		if e.Settlement != nil && e.Settlement.SettledEntryID != nil {
			settles = e.Settlement.SettledEntryID.String()
		}
		record := []string{
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.ID.String(),
			e.Direction.String(),
			e.Channel.String(),
			e.Amount.String(),
			e.CategoryID.String(),
			e.Description,
			e.ReferenceNumber,
			strconv.FormatBool(e.IsDeferred),
			e.OutstandingDue.String(),
			settles,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write statement: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write statement: %w", err)
	}
	return buf.Bytes(), nil
}
