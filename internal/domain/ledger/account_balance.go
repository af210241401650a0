package ledger

import (
	"fmt"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AccountBalance holds a tenant's running cash, bank and pay-later due
// balances. The engine does not forbid negative values; only the DEBIT path of
// Debit enforces sufficiency.
type AccountBalance struct {
	TenantID       uuid.UUID
	CashBalance    valueobject.Money
	BankBalance    valueobject.Money
	OutstandingDue valueobject.Money
	Version        int
	UpdatedAt      time.Time
}

// NewAccountBalance creates an all-zero balance for a tenant
func NewAccountBalance(tenantID uuid.UUID) *AccountBalance {
	return &AccountBalance{
		TenantID:       tenantID,
		CashBalance:    valueobject.Zero(),
		BankBalance:    valueobject.Zero(),
		OutstandingDue: valueobject.Zero(),
		Version:        1,
		UpdatedAt:      time.Now().UTC(),
	}
}

// Balance returns the balance of a channel
func (b *AccountBalance) Balance(ch Channel) valueobject.Money {
	if ch == ChannelCash {
		return b.CashBalance
	}
	return b.BankBalance
}

func (b *AccountBalance) set(ch Channel, m valueobject.Money) {
	if ch == ChannelCash {
		b.CashBalance = m
	} else {
		b.BankBalance = m
	}
	b.UpdatedAt = time.Now().UTC()
}

// Credit increases a channel balance
func (b *AccountBalance) Credit(ch Channel, amount valueobject.Money) {
	b.set(ch, b.Balance(ch).Add(amount))
}

// Debit decreases a channel balance, failing with INSUFFICIENT_FUNDS when the
// amount exceeds what the channel holds.
func (b *AccountBalance) Debit(ch Channel, amount valueobject.Money) error {
	current := b.Balance(ch)
	if amount.GreaterThan(current) {
		return shared.NewDomainErrorWithKind(shared.KindInsufficientFunds, "INSUFFICIENT_FUNDS",
			fmt.Sprintf("Insufficient %s balance: available %s, required %s", ch, current, amount))
	}
	b.set(ch, current.Sub(amount))
	return nil
}

// ForceDebit decreases a channel balance without a sufficiency check. Used by
// settlements and by reversals of credits.
func (b *AccountBalance) ForceDebit(ch Channel, amount valueobject.Money) {
	b.set(ch, b.Balance(ch).Sub(amount))
}

// AddDue increases the aggregate pay-later due
func (b *AccountBalance) AddDue(amount valueobject.Money) {
	b.OutstandingDue = b.OutstandingDue.Add(amount)
	b.UpdatedAt = time.Now().UTC()
}

// ReduceDue decreases the aggregate pay-later due
func (b *AccountBalance) ReduceDue(amount valueobject.Money) {
	b.OutstandingDue = b.OutstandingDue.Sub(amount)
	b.UpdatedAt = time.Now().UTC()
}

// SetOpening overwrites the cash and bank balances. The due is derived from
// entries and is left untouched.
func (b *AccountBalance) SetOpening(cash, bank valueobject.Money) {
	b.CashBalance = cash
	b.BankBalance = bank
	b.UpdatedAt = time.Now().UTC()
}
