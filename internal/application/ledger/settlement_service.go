package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// SettlementService applies pay-later payments to deferred sales
type SettlementService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(scope TransactionScope) *SettlementService {
	return &SettlementService{scope: scope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SettlementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

type settlementCommand struct {
	paymentType ledger.PaymentType
	mode        ledger.PaymentMode
	reference   string
	allocation  ledger.Allocation
}

func (r SettlementRequest) parse() (settlementCommand, error) {
	var cmd settlementCommand
	paymentType, err := ledger.ParsePaymentType(r.PaymentType)
	if err != nil {
		return cmd, err
	}
	mode, err := ledger.ParsePaymentMode(r.PaymentMode)
	if err != nil {
		return cmd, err
	}
	reference := strings.TrimSpace(r.ReferenceNumber)
	if mode.RequiresReference() && reference == "" {
		return cmd, ledger.ErrReferenceRequired
	}
	cmd = settlementCommand{paymentType: paymentType, mode: mode, reference: reference}

	if paymentType == ledger.PaymentTypePartial {
		// An omitted payment is zero; it is only legal for a party the sale
		// has nothing outstanding with.
		op, err := parsePayment(r.OperatorPayment)
		if err != nil {
			return cmd, err
		}
		agent, err := parsePayment(r.AgentPayment)
		if err != nil {
			return cmd, err
		}
		cmd.allocation = ledger.Allocation{Operator: op, Agent: agent}
	}
	return cmd, nil
}

func parsePayment(raw string) (valueobject.Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return valueobject.Zero(), nil
	}
	m, err := valueobject.NewMoneyFromString(raw)
	if err != nil || m.IsNegative() || !m.FitsScale() {
		return valueobject.Money{}, ledger.ErrInvalidAmount
	}
	return m, nil
}

// Settle pays part or all of a pay-later sale's due from the chosen channel.
// The channel is debited without a sufficiency check and a DEBIT entry
// recording the payment is appended.
func (s *SettlementService) Settle(ctx context.Context, tenantID, entryID uuid.UUID, req SettlementRequest) (*SettlementResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "settlement", "settle")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrEntryID, entryID.String(),
		telemetry.SpanAttrPaymentType, req.PaymentType,
		telemetry.SpanAttrPaymentMode, req.PaymentMode,
	)

	cmd, err := req.parse()
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var (
		target  *ledger.Entry
		payment *ledger.Entry
		balance *ledger.AccountBalance
		applied ledger.Allocation
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := lockBalances(ctx, repos, tenantID)
		if err != nil {
			return err
		}
		e, err := loadOwnedEntry(ctx, repos, tenantID, entryID)
		if err != nil {
			return err
		}
		alloc, err := e.Settle(cmd.paymentType, cmd.allocation)
		if err != nil {
			return err
		}

		p := ledger.NewSettlementEntry(e, cmd.paymentType, cmd.mode, cmd.reference, alloc)
		b.ForceDebit(p.Channel, p.Amount)
		b.ReduceDue(alloc.Total())

		if err := repos.Entries().Save(ctx, e); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}
		if err := repos.Entries().Save(ctx, p); err != nil {
			return fmt.Errorf("failed to save settlement: %w", err)
		}
		if err := repos.Balances().Save(ctx, b); err != nil {
			return fmt.Errorf("failed to save balances: %w", err)
		}
		target, payment, balance, applied = e, p, b, alloc
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "paylater_settled",
		telemetry.SpanAttrAmount, applied.Total().String(),
		"remaining_due", target.OutstandingDue.String(),
	)
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, target.GetDomainEvents()...)
		target.ClearDomainEvents()
	}

	return &SettlementResult{
		SettledEntry:    ToEntryResponse(target),
		SettlementEntry: ToEntryResponse(payment),
		TotalPayment:    applied.Total(),
		RemainingDue:    target.OutstandingDue,
		Balances:        ToBalancesResponse(balance),
	}, nil
}
