package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStatementStorage struct {
	mock.Mock
}

func (m *mockStatementStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

func (m *mockStatementStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func TestStatementService_Export_Inline(t *testing.T) {
	f := newFixture(t)
	f.record(f.credit("500", "CASH"))
	sale := f.record(f.payLater("400", "250", ""))
	_, err := f.settle.Settle(f.ctx, f.tenantID, sale.Entry.ID, SettlementRequest{
		PaymentType: "PARTIAL", PaymentMode: "BANK", ReferenceNumber: "NEFT-9", OperatorPayment: "100",
	})
	require.NoError(t, err)

	stmt, err := f.exports.Export(f.ctx, f.tenantID, "", "", "")
	require.NoError(t, err)

	assert.Equal(t, "statement-all.csv", stmt.FileName)
	assert.Equal(t, 3, stmt.Rows)
	assert.Empty(t, stmt.DownloadURL)
	assert.Nil(t, stmt.ExpiresAt)

	rows, err := csv.NewReader(bytes.NewReader(stmt.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, statementHeader, rows[0])

	var settlementRow []string
	for _, r := range rows[1:] {
		if r[10] != "" {
			settlementRow = r
		}
	}
	require.NotNil(t, settlementRow)
	assert.Equal(t, "DEBIT", settlementRow[2])
	assert.Equal(t, "BANK", settlementRow[3])
	assert.Equal(t, "100.00", settlementRow[4])
	assert.Equal(t, "NEFT-9", settlementRow[7])
	assert.Equal(t, sale.Entry.ID.String(), settlementRow[10])
}

func TestStatementService_Export_EmptyPeriod(t *testing.T) {
	f := newFixture(t)
	f.record(f.credit("500", "CASH"))

	stmt, err := f.exports.Export(f.ctx, f.tenantID, "2020-01", "", "")

	require.NoError(t, err)
	assert.Equal(t, 0, stmt.Rows)
	assert.Equal(t, "statement-2020-01.csv", stmt.FileName)
	assert.True(t, strings.HasPrefix(string(stmt.Data), "date,id,direction"))
}

func TestStatementService_Export_InvalidPeriod(t *testing.T) {
	f := newFixture(t)

	_, err := f.exports.Export(f.ctx, f.tenantID, "2024-13", "", "")

	assert.Error(t, err)
	assert.Zero(t, f.scope.calls)
}

func TestStatementService_Export_Uploads(t *testing.T) {
	f := newFixture(t)
	f.record(f.credit("500", "CASH"))
	storage := new(mockStatementStorage)
	svc := NewStatementService(f.scope, storage, 15*time.Minute)
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	prefix := "statements/" + f.tenantID.String() + "/" + thisMonth() + "-"
	keyMatch := mock.MatchedBy(func(key string) bool { return strings.HasPrefix(key, prefix) })
	storage.On("Upload", mock.Anything, keyMatch, mock.AnythingOfType("[]uint8"), StatementContentType).Return(nil)
	storage.On("GenerateDownloadURL", mock.Anything, keyMatch, 15*time.Minute).
		Return("https://files.example.com/statement.csv", expires, nil)

	stmt, err := svc.Export(f.ctx, f.tenantID, thisMonth(), "", "")

	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/statement.csv", stmt.DownloadURL)
	require.NotNil(t, stmt.ExpiresAt)
	assert.Equal(t, expires, *stmt.ExpiresAt)
	assert.Nil(t, stmt.Data)
	assert.Equal(t, 1, stmt.Rows)
	storage.AssertExpectations(t)
}

func TestStatementService_Export_UploadFails(t *testing.T) {
	f := newFixture(t)
	storage := new(mockStatementStorage)
	svc := NewStatementService(f.scope, storage, time.Minute)
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket gone"))

	_, err := svc.Export(f.ctx, f.tenantID, "", "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
	storage.AssertNotCalled(t, "GenerateDownloadURL", mock.Anything, mock.Anything, mock.Anything)
}
