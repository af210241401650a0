// Package ledger implements the ledger use cases: recording, editing and
// deleting transactions, settling pay-later sales, computing profit and
// distributing it to shareholders.
package ledger

import (
	"context"
	"fmt"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// TransactionService records, edits and deletes ledger entries while keeping
// the tenant's balances in step
type TransactionService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(scope TransactionScope) *TransactionService {
	return &TransactionService{scope: scope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TransactionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Record validates and books a transaction. Checks run in this order:
// direction, amount, deferred direction, description, category, finance
// shareholder, channel balance, then the pay-later parties.
func (s *TransactionService) Record(ctx context.Context, tenantID uuid.UUID, req TransactionRequest) (*TransactionResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "record_transaction")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrDirection, req.Direction,
		telemetry.SpanAttrAmount, req.Amount,
		telemetry.SpanAttrIsDeferred, req.IsDeferred,
	)

	var (
		entry   *ledger.Entry
		balance *ledger.AccountBalance
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		e, err := ledger.NewEntry(tenantID, req.toInput())
		if err != nil {
			return err
		}
		b, err := lockBalances(ctx, repos, tenantID)
		if err != nil {
			return err
		}
		category, err := loadCategory(ctx, repos, tenantID, e.CategoryID)
		if err != nil {
			return err
		}

		holders := newHolderSet(repos, tenantID)
		if err := holders.applyFinance(ctx, e, category); err != nil {
			return err
		}
		if err := e.ApplyTo(b); err != nil {
			return err
		}

		if e.IsDeferred {
			if err := verifyParties(ctx, repos, tenantID, e.DeferredSale); err != nil {
				return err
			}
		}

		if err := repos.Entries().Save(ctx, e); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}
		if err := repos.Balances().Save(ctx, b); err != nil {
			return fmt.Errorf("failed to save balances: %w", err)
		}
		if err := holders.save(ctx); err != nil {
			return err
		}
		entry, balance = e, b
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrEntryID, entry.ID.String())
	s.publish(ctx, entry)
	return &TransactionResult{Entry: ToEntryResponse(entry), Balances: ToBalancesResponse(balance)}, nil
}

// Get returns one transaction of the tenant
func (s *TransactionService) Get(ctx context.Context, tenantID, id uuid.UUID) (*EntryResponse, error) {
	var resp EntryResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entry, err := repos.Entries().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "Transaction")
		}
		if err := entry.EnsureOwnedBy(tenantID); err != nil {
			return err
		}
		resp = ToEntryResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns a page of the tenant's transactions
func (s *TransactionService) List(ctx context.Context, tenantID uuid.UUID, req ListEntriesRequest) (*shared.Paginated[EntryResponse], error) {
	filter, err := req.toFilter()
	if err != nil {
		return nil, err
	}

	var page shared.Paginated[EntryResponse]
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entries, total, err := repos.Entries().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return fmt.Errorf("failed to list transactions: %w", err)
		}
		page = shared.NewPaginated(ToEntryResponses(entries), total, filter.Page, filter.PageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r ListEntriesRequest) toFilter() (ledger.EntryFilter, error) {
	base := shared.DefaultFilter()
	base.Page = r.Page
	base.PageSize = r.PageSize
	if r.OrderDir != "" {
		base.OrderDir = r.OrderDir
	}

	filter := ledger.EntryFilter{
		Filter:       base.Normalize(),
		CategoryID:   r.CategoryID,
		DeferredOnly: r.DeferredOnly,
		PendingOnly:  r.PendingOnly,
	}
	if r.Direction != "" {
		d, err := ledger.ParseDirection(r.Direction)
		if err != nil {
			return filter, err
		}
		filter.Direction = &d
	}
	if r.Channel != "" {
		c, err := ledger.ParseChannel(r.Channel)
		if err != nil {
			return filter, err
		}
		filter.Channel = &c
	}
	period, err := ledger.ParsePeriod(r.Date, r.Start, r.End)
	if err != nil {
		return filter, err
	}
	filter.Period = period
	return filter, nil
}

// Update replaces a transaction and rebalances: the old effect on channel,
// due and financed amount is reversed, then the new one is applied with the
// same rules as Record.
func (s *TransactionService) Update(ctx context.Context, tenantID, id uuid.UUID, req TransactionRequest) (*TransactionResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "update_transaction")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrEntryID, id.String(),
	)

	var (
		entry   *ledger.Entry
		balance *ledger.AccountBalance
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := lockBalances(ctx, repos, tenantID)
		if err != nil {
			return err
		}
		e, err := loadOwnedEntry(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if e.IsSettlement() {
			return ledger.ErrSettlementImmutable
		}
		oldCategory, err := loadCategory(ctx, repos, tenantID, e.CategoryID)
		if err != nil {
			return err
		}

		holders := newHolderSet(repos, tenantID)
		e.ReverseFrom(b)
		if err := holders.reverseFinance(ctx, e, oldCategory); err != nil {
			return err
		}

		if err := e.Revise(req.toInput()); err != nil {
			return err
		}
		newCategory, err := loadCategory(ctx, repos, tenantID, e.CategoryID)
		if err != nil {
			return err
		}
		if err := holders.applyFinance(ctx, e, newCategory); err != nil {
			return err
		}
		if err := e.ApplyTo(b); err != nil {
			return err
		}
		if e.IsDeferred {
			if err := verifyParties(ctx, repos, tenantID, e.DeferredSale); err != nil {
				return err
			}
		}

		if err := repos.Entries().Save(ctx, e); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}
		if err := repos.Balances().Save(ctx, b); err != nil {
			return fmt.Errorf("failed to save balances: %w", err)
		}
		if err := holders.save(ctx); err != nil {
			return err
		}
		entry, balance = e, b
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, entry)
	return &TransactionResult{Entry: ToEntryResponse(entry), Balances: ToBalancesResponse(balance)}, nil
}

// Delete removes a transaction and reverses its effect. Deleting a
// settlement puts the paid amount back on the settled sale; deleting a
// pay-later sale leaves its settlements in place, detached.
func (s *TransactionService) Delete(ctx context.Context, tenantID, id uuid.UUID) (*BalancesResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "delete_transaction")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrEntryID, id.String(),
	)

	var (
		entry   *ledger.Entry
		balance *ledger.AccountBalance
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := lockBalances(ctx, repos, tenantID)
		if err != nil {
			return err
		}
		e, err := loadOwnedEntry(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}

		e.ReverseFrom(b)

		holders := newHolderSet(repos, tenantID)
		if e.Direction == ledger.DirectionDebit && !e.IsSettlement() {
			category, err := loadCategory(ctx, repos, tenantID, e.CategoryID)
			if err != nil {
				return err
			}
			if err := holders.reverseFinance(ctx, e, category); err != nil {
				return err
			}
		}

		if link := e.Settlement; link != nil && link.SettledEntryID != nil {
			if err := restoreSettled(ctx, repos, tenantID, *link.SettledEntryID, link.Allocation, b); err != nil {
				return err
			}
		}
		if e.IsDeferred {
			if err := repos.Entries().DetachSettlements(ctx, tenantID, e.ID); err != nil {
				return fmt.Errorf("failed to detach settlements: %w", err)
			}
		}

		e.MarkDeleted()
		if err := repos.Entries().Delete(ctx, tenantID, e.ID); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		if err := repos.Balances().Save(ctx, b); err != nil {
			return fmt.Errorf("failed to save balances: %w", err)
		}
		if err := holders.save(ctx); err != nil {
			return err
		}
		entry, balance = e, b
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, entry)
	resp := ToBalancesResponse(balance)
	return &resp, nil
}

func restoreSettled(ctx context.Context, repos TransactionalRepositories, tenantID, settledID uuid.UUID, alloc ledger.Allocation, b *ledger.AccountBalance) error {
	settled, err := repos.Entries().FindByIDForUpdate(ctx, settledID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to load settled transaction: %w", err)
	}
	if err := settled.EnsureOwnedBy(tenantID); err != nil {
		return err
	}
	settled.RestoreSettlement(alloc)
	b.AddDue(alloc.Total())
	if err := repos.Entries().Save(ctx, settled); err != nil {
		return fmt.Errorf("failed to save settled transaction: %w", err)
	}
	return nil
}

// GetBalances returns the tenant's current balances
func (s *TransactionService) GetBalances(ctx context.Context, tenantID uuid.UUID) (*BalancesResponse, error) {
	var resp BalancesResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := repos.Balances().Find(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("failed to load balances: %w", err)
		}
		resp = ToBalancesResponse(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// OpeningBalancesRequest sets the cash and bank balances a tenant starts with
type OpeningBalancesRequest struct {
	CashBalance string
	BankBalance string
}

// SetOpeningBalances overwrites the cash and bank balances. The outstanding
// due is derived from pay-later entries and is not touched.
func (s *TransactionService) SetOpeningBalances(ctx context.Context, tenantID uuid.UUID, req OpeningBalancesRequest) (*BalancesResponse, error) {
	cash, err := parseOptionalMoney(req.CashBalance)
	if err != nil {
		return nil, err
	}
	bank, err := parseOptionalMoney(req.BankBalance)
	if err != nil {
		return nil, err
	}

	var resp BalancesResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := lockBalances(ctx, repos, tenantID)
		if err != nil {
			return err
		}
		b.SetOpening(cash, bank)
		if err := repos.Balances().Save(ctx, b); err != nil {
			return fmt.Errorf("failed to save balances: %w", err)
		}
		resp = ToBalancesResponse(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// parseOptionalMoney treats an empty string as zero
func parseOptionalMoney(raw string) (valueobject.Money, error) {
	if raw == "" {
		return valueobject.Zero(), nil
	}
	m, err := valueobject.NewMoneyFromString(raw)
	if err != nil || !m.FitsScale() {
		return valueobject.Money{}, ledger.ErrInvalidAmount
	}
	return m, nil
}

func (s *TransactionService) publish(ctx context.Context, entry *ledger.Entry) {
	if s.eventPublisher == nil || entry == nil {
		return
	}
	events := entry.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
	entry.ClearDomainEvents()
}
