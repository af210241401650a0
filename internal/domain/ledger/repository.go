package ledger

import (
	"context"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// EntryFilter defines filtering options for entry listings
type EntryFilter struct {
	shared.Filter
	Direction    *Direction
	Channel      *Channel
	CategoryID   *uuid.UUID
	DeferredOnly bool
	PendingOnly  bool // pay-later entries with a due left
	Period       Period
}

// EntryRepository defines persistence for ledger entries and their deferred
// sales. Deferred sale and sub-ledger rows are saved and loaded with the entry.
type EntryRepository interface {
	// FindByID loads an entry regardless of tenant so ownership can be checked
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)

	// FindByIDForUpdate loads an entry and locks its row for the transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Entry, error)

	// FindAllForTenant returns a page of entries and the total match count
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter EntryFilter) ([]Entry, int64, error)

	// FindByPeriod returns every entry of a tenant in a period, oldest first
	FindByPeriod(ctx context.Context, tenantID uuid.UUID, period Period) ([]Entry, error)

	// FindProfitCandidates returns CREDIT entries in the period that are not
	// pay-later or are fully settled, with their deferred sales loaded
	FindProfitCandidates(ctx context.Context, tenantID uuid.UUID, period Period) ([]Entry, error)

	// SumDebitsExcludingCategory totals DEBIT entries in the period whose
	// category name is not the given one
	SumDebitsExcludingCategory(ctx context.Context, tenantID uuid.UUID, period Period, categoryName string) (valueobject.Money, error)

	// Save creates or updates an entry together with its deferred sale
	Save(ctx context.Context, entry *Entry) error

	// Delete removes an entry and its deferred sale
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// DetachSettlements clears the settled entry link on settlement entries
	// that point at a deleted entry
	DetachSettlements(ctx context.Context, tenantID, settledEntryID uuid.UUID) error
}

// AccountBalanceRepository defines persistence for tenant balances
type AccountBalanceRepository interface {
	// Find returns the tenant's balances, or zero balances if none exist yet
	Find(ctx context.Context, tenantID uuid.UUID) (*AccountBalance, error)

	// FindForUpdate returns the tenant's balances locked for the transaction,
	// creating the row if it does not exist
	FindForUpdate(ctx context.Context, tenantID uuid.UUID) (*AccountBalance, error)

	// Save persists balances
	Save(ctx context.Context, balance *AccountBalance) error
}
