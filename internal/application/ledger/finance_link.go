package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/reference"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"github.com/google/uuid"
)

// notFound turns the repository-level ErrNotFound into a message naming the
// missing resource. Other errors are wrapped as store failures.
func notFound(err error, what string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(what + " not found")
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

// holderSet resolves finance shareholders once per unit of work, so that an
// update moving a DEBIT between two categories of the same shareholder
// mutates a single locked copy.
type holderSet struct {
	repos    TransactionalRepositories
	tenantID uuid.UUID
	byID     map[uuid.UUID]*shareholding.Shareholder
}

func newHolderSet(repos TransactionalRepositories, tenantID uuid.UUID) *holderSet {
	return &holderSet{repos: repos, tenantID: tenantID, byID: make(map[uuid.UUID]*shareholding.Shareholder)}
}

// resolve returns the shareholder a DEBIT to category finances, or nil when
// the category is an ordinary expense. The explicit link wins; a category
// named "<Name> FINANCE" is matched by name otherwise.
func (h *holderSet) resolve(ctx context.Context, category *reference.Category) (*shareholding.Shareholder, error) {
	var (
		holder *shareholding.Shareholder
		err    error
	)
	switch {
	case category.ShareholderID != nil:
		if cached, ok := h.byID[*category.ShareholderID]; ok {
			return cached, nil
		}
		holder, err = h.repos.Profiles().FindShareholderForUpdate(ctx, h.tenantID, *category.ShareholderID)
	default:
		name, ok := shareholding.HolderNameFromCategory(category.Name)
		if !ok {
			return nil, nil
		}
		for _, cached := range h.byID {
			if strings.EqualFold(cached.Name, name) {
				return cached, nil
			}
		}
		holder, err = h.repos.Profiles().FindShareholderByNameForUpdate(ctx, h.tenantID, name)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shareholding.ErrShareholderMissing
		}
		return nil, fmt.Errorf("failed to load shareholder: %w", err)
	}
	h.byID[holder.ID] = holder
	return holder, nil
}

func (h *holderSet) save(ctx context.Context) error {
	for _, holder := range h.byID {
		if err := h.repos.Profiles().SaveShareholder(ctx, holder); err != nil {
			return fmt.Errorf("failed to save shareholder: %w", err)
		}
	}
	return nil
}

// applyFinance adds a DEBIT's amount to its finance shareholder, if any
func (h *holderSet) applyFinance(ctx context.Context, entry *ledger.Entry, category *reference.Category) error {
	if entry.Direction != ledger.DirectionDebit || entry.IsSettlement() {
		return nil
	}
	holder, err := h.resolve(ctx, category)
	if err != nil || holder == nil {
		return err
	}
	holder.AddFinanced(entry.Amount)
	return nil
}

// reverseFinance removes a DEBIT's amount from its finance shareholder. A
// shareholder that can no longer be resolved has nothing to reverse.
func (h *holderSet) reverseFinance(ctx context.Context, entry *ledger.Entry, category *reference.Category) error {
	if entry.Direction != ledger.DirectionDebit || entry.IsSettlement() {
		return nil
	}
	holder, err := h.resolve(ctx, category)
	if errors.Is(err, shareholding.ErrShareholderMissing) {
		return nil
	}
	if err != nil || holder == nil {
		return err
	}
	holder.ReduceFinanced(entry.Amount)
	return nil
}

func loadCategory(ctx context.Context, repos TransactionalRepositories, tenantID, id uuid.UUID) (*reference.Category, error) {
	category, err := repos.Categories().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Category")
	}
	return category, nil
}

// verifyParties checks that the bus, operator and optional agent of a
// deferred sale exist for the tenant.
func verifyParties(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, sale *ledger.DeferredSale) error {
	if _, err := repos.Buses().FindByID(ctx, tenantID, sale.BusID); err != nil {
		return notFound(err, "Bus")
	}
	if sale.Collection != nil {
		if _, err := repos.Operators().FindByID(ctx, tenantID, sale.Collection.OperatorID); err != nil {
			return notFound(err, "Operator")
		}
	}
	if sale.Commission != nil {
		if _, err := repos.Agents().FindByID(ctx, tenantID, sale.Commission.AgentID); err != nil {
			return notFound(err, "Agent")
		}
	}
	return nil
}

// lockBalances takes the tenant's balance row lock. Every unit of work that
// writes entries or shareholders calls it before locking any other row, so
// the balance row serializes them per tenant.
func lockBalances(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID) (*ledger.AccountBalance, error) {
	b, err := repos.Balances().FindForUpdate(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load balances: %w", err)
	}
	return b, nil
}

// loadOwnedEntry locks an entry and checks the caller owns it
func loadOwnedEntry(ctx context.Context, repos TransactionalRepositories, tenantID, id uuid.UUID) (*ledger.Entry, error) {
	entry, err := repos.Entries().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, notFound(err, "Transaction")
	}
	if err := entry.EnsureOwnedBy(tenantID); err != nil {
		return nil, err
	}
	return entry, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
