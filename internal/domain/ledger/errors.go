package ledger

import "github.com/eric6923/finTrack-sub000/internal/domain/shared"

var (
	ErrInvalidDirection         = shared.NewDomainError("INVALID_DIRECTION", "Direction must be CREDIT or DEBIT")
	ErrInvalidAmount            = shared.NewDomainError("INVALID_AMOUNT", "Amount must be a positive number with at most two decimal places")
	ErrInvalidDeferredDirection = shared.NewDomainError("INVALID_DEFERRED_DIRECTION", "Only CREDIT transactions can be pay later")
	ErrDescriptionRequired      = shared.NewDomainError("DESCRIPTION_REQUIRED", "Description is required")
	ErrInvalidChannel           = shared.NewDomainError("INVALID_CHANNEL", "Payment channel must be CASH, BANK or UPI")
	ErrCategoryRequired         = shared.NewDomainError("CATEGORY_REQUIRED", "Category is required")
	ErrDeferredDetailsRequired  = shared.NewDomainError("DEFERRED_DETAILS_REQUIRED", "Pay later transactions need route, bus and collection details")
	ErrCommissionAgentRequired  = shared.NewDomainError("COMMISSION_AGENT_REQUIRED", "A commission amount needs an agent")
	ErrInvalidPaymentType       = shared.NewDomainError("INVALID_PAYMENT_TYPE", "Payment type must be FULL or PARTIAL")
	ErrReferenceRequired        = shared.NewDomainError("REFERENCE_REQUIRED", "Reference number is required for BANK and UPI payments")
	ErrInvalidPeriod            = shared.NewDomainError("INVALID_PERIOD", "Period must be YYYY-MM-DD, YYYY-MM or a start and end date")
	ErrNotDeferred              = shared.NewDomainError("NOT_DEFERRED", "Transaction is not a pay later transaction")
	ErrSubLedgerAbsent          = shared.NewDomainError("SUBLEDGER_ABSENT", "Payment given for a party that is not part of this sale")
	ErrAmountBelowSettled       = shared.NewDomainError("AMOUNT_BELOW_SETTLED", "New amount is below what has already been settled")

	ErrPaymentExceedsDue   = shared.NewConflictError("PAYMENT_EXCEEDS_DUE", "Payment exceeds the remaining due")
	ErrTotalExceedsDue     = shared.NewConflictError("TOTAL_EXCEEDS_DUE", "Total payment exceeds the outstanding due")
	ErrAlreadySettled      = shared.NewConflictError("ALREADY_SETTLED", "Nothing is left to settle on this transaction")
	ErrSettledSaleChange   = shared.NewConflictError("SETTLED_SALE_CHANGE", "A pay later sale with payments cannot be turned into a regular transaction")
	ErrSettlementImmutable = shared.NewConflictError("SETTLEMENT_IMMUTABLE", "Settlement transactions cannot be edited, delete them instead")
)
