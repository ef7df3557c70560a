package bank

import "errors"

// Validation failures of the ledger engine. They are synchronous and
// non-retryable; the HTTP layer decides how to present them.
var (
	ErrInvalidAmount         = errors.New("amount must be more than 0")
	ErrAccountNotFound       = errors.New("can't find this account id info")
	ErrTargetAccountNotFound = errors.New("can't find this target account id info")
	ErrInsufficientFunds     = errors.New("account balance must be more than or equal to the amount")
	ErrNoChangesProvided     = errors.New("no updates were provided")
	ErrTransactionNotFound   = errors.New("can't find this transaction id info")
	ErrNotATransfer          = errors.New("can only generate a slip for a transfer transaction")
)

var domainErrors = []error{
	ErrInvalidAmount,
	ErrAccountNotFound,
	ErrTargetAccountNotFound,
	ErrInsufficientFunds,
	ErrNoChangesProvided,
	ErrTransactionNotFound,
	ErrNotATransfer,
}

// IsDomain reports whether err is one of the engine's validation
// failures, as opposed to a store or system error.
func IsDomain(err error) bool {
	for _, domainErr := range domainErrors {
		if errors.Is(err, domainErr) {
			return true
		}
	}
	return false
}
