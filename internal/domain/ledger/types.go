package ledger

import (
	"strings"
)

// Direction is the side of the books an entry lands on
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// IsValid checks if the direction is CREDIT or DEBIT
func (d Direction) IsValid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// String returns the string representation of Direction
func (d Direction) String() string {
	return string(d)
}

// ParseDirection normalizes and validates a direction
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", ErrInvalidDirection
	}
	return d, nil
}

// Channel is the sub-balance an entry moves money through
type Channel string

const (
	ChannelCash Channel = "CASH"
	ChannelBank Channel = "BANK"
)

// IsValid checks if the channel is CASH or BANK
func (c Channel) IsValid() bool {
	return c == ChannelCash || c == ChannelBank
}

// String returns the string representation of Channel
func (c Channel) String() string {
	return string(c)
}

// ParseChannel normalizes a channel. UPI transfers land in the bank balance,
// so "UPI" is accepted as an alias for BANK.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CASH":
		return ChannelCash, nil
	case "BANK", "UPI":
		return ChannelBank, nil
	default:
		return "", ErrInvalidChannel
	}
}

// PaymentMode is how a pay-later settlement is paid out
type PaymentMode string

const (
	PaymentModeCash PaymentMode = "CASH"
	PaymentModeBank PaymentMode = "BANK"
	PaymentModeUPI  PaymentMode = "UPI"
)

// ParsePaymentMode normalizes and validates a payment mode
func ParsePaymentMode(s string) (PaymentMode, error) {
	m := PaymentMode(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case PaymentModeCash, PaymentModeBank, PaymentModeUPI:
		return m, nil
	default:
		return "", ErrInvalidChannel
	}
}

// Channel returns the balance the payment is drawn from
func (m PaymentMode) Channel() Channel {
	if m == PaymentModeCash {
		return ChannelCash
	}
	return ChannelBank
}

// RequiresReference reports whether a transfer reference number is mandatory
func (m PaymentMode) RequiresReference() bool {
	return m == PaymentModeBank || m == PaymentModeUPI
}

// PaymentType selects between settling part of a due or all of it
type PaymentType string

const (
	PaymentTypeFull    PaymentType = "FULL"
	PaymentTypePartial PaymentType = "PARTIAL"
)

// ParsePaymentType normalizes and validates a payment type
func ParsePaymentType(s string) (PaymentType, error) {
	p := PaymentType(strings.ToUpper(strings.TrimSpace(s)))
	if p != PaymentTypeFull && p != PaymentTypePartial {
		return "", ErrInvalidPaymentType
	}
	return p, nil
}

// SettlementDescription is the description written on the DEBIT entry a
// settlement appends.
func SettlementDescription(p PaymentType) string {
	return "PayLater " + string(p) + " payment"
}

// BusBookingCategory is excluded from the expense side of the dashboard
// profit, since bus payouts are already netted out per booking.
const BusBookingCategory = "BUS BOOKING"
