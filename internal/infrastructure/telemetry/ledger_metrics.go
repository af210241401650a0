package telemetry

import (
	"context"
	"strconv"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"go.opentelemetry.io/otel/metric"
)

// LedgerMetrics turns domain events into business counters. It is registered
// on the event bus as a shared.EventHandler.
type LedgerMetrics struct {
	entriesRecorded   *Counter
	entryAmount       *FloatCounter
	entriesRevised    *Counter
	entriesDeleted    *Counter
	settlements       *Counter
	settledAmount     *FloatCounter
	distributions     *Counter
	distributedAmount *FloatCounter
}

var _ shared.EventHandler = (*LedgerMetrics)(nil)

// NewLedgerMetrics creates the ledger instruments on meter.
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	var (
		m   LedgerMetrics
		err error
	)
	if m.entriesRecorded, err = NewCounter(meter, "fintrack_entries_recorded_total",
		"Ledger entries recorded by direction, channel and deferral", "{entry}"); err != nil {
		return nil, err
	}
	if m.entryAmount, err = NewFloatCounter(meter, "fintrack_entry_amount_total",
		"Sum of recorded entry amounts by direction", "{currency}"); err != nil {
		return nil, err
	}
	if m.entriesRevised, err = NewCounter(meter, "fintrack_entries_revised_total",
		"Ledger entries edited", "{entry}"); err != nil {
		return nil, err
	}
	if m.entriesDeleted, err = NewCounter(meter, "fintrack_entries_deleted_total",
		"Ledger entries deleted by direction", "{entry}"); err != nil {
		return nil, err
	}
	if m.settlements, err = NewCounter(meter, "fintrack_paylater_settlements_total",
		"Pay-later settlements by payment type", "{settlement}"); err != nil {
		return nil, err
	}
	if m.settledAmount, err = NewFloatCounter(meter, "fintrack_paylater_settled_amount_total",
		"Amount collected through pay-later settlements", "{currency}"); err != nil {
		return nil, err
	}
	if m.distributions, err = NewCounter(meter, "fintrack_profit_distributions_total",
		"Monthly distribution runs", "{run}"); err != nil {
		return nil, err
	}
	if m.distributedAmount, err = NewFloatCounter(meter, "fintrack_profit_distributed_amount_total",
		"Share profit newly applied by distribution runs", "{currency}"); err != nil {
		return nil, err
	}
	return &m, nil
}

// EventTypes lists the events that feed the counters.
func (m *LedgerMetrics) EventTypes() []string {
	return []string{
		ledger.EventTypeEntryRecorded,
		ledger.EventTypeEntryRevised,
		ledger.EventTypeEntryDeleted,
		ledger.EventTypePayLaterSettled,
		shareholding.EventTypeProfitDistributed,
	}
}

// Handle records one event. Unknown events are ignored.
func (m *LedgerMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenant := AttrTenantID.String(event.TenantID().String())

	switch e := event.(type) {
	case *ledger.EntryRecordedEvent:
		m.entriesRecorded.Inc(ctx, tenant,
			AttrDirection.String(string(e.Direction)),
			AttrChannel.String(string(e.Channel)),
			AttrDeferred.String(strconv.FormatBool(e.IsDeferred)),
		)
		m.entryAmount.Add(ctx, amount(e.Amount), tenant, AttrDirection.String(string(e.Direction)))
	case *ledger.EntryRevisedEvent:
		m.entriesRevised.Inc(ctx, tenant, AttrDirection.String(string(e.Direction)))
	case *ledger.EntryDeletedEvent:
		m.entriesDeleted.Inc(ctx, tenant, AttrDirection.String(string(e.Direction)))
	case *ledger.PayLaterSettledEvent:
		m.settlements.Inc(ctx, tenant, AttrPaymentType.String(string(e.PaymentType)))
		m.settledAmount.Add(ctx, amount(e.OperatorAmount.Add(e.AgentAmount)), tenant,
			AttrPaymentType.String(string(e.PaymentType)))
	case *shareholding.ProfitDistributedEvent:
		m.distributions.Inc(ctx, tenant)
		m.distributedAmount.Add(ctx, amount(e.Applied), tenant)
	}
	return nil
}

func amount(m valueobject.Money) float64 {
	f, _ := m.Amount().Float64()
	return f
}
