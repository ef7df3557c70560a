package db

// Account is a bank account record. Balance is stored in the smallest
// currency unit and is never negative once committed.
type Account struct {
	AccountID int64  `json:"account_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Balance   int64  `json:"balance"`
}

// Transaction is one committed ledger entry. Deposits and withdrawals
// carry AccountID; transfers carry the deducted/received pair instead.
// Records are append-only: once written they are never changed.
type Transaction struct {
	TransactionID     string `json:"transaction_id"`
	Action            string `json:"action"`
	AccountID         int64  `json:"account_id,omitempty"`
	DeductedAccountID int64  `json:"deducted_account_id,omitempty"`
	ReceivedAccountID int64  `json:"received_account_id,omitempty"`
	Amount            int64  `json:"amount"`
	Timestamp         string `json:"timestamp"`
}

const (
	ActionDeposit  = "deposit"
	ActionWithdraw = "withdraw"
	ActionTransfer = "transfer"
)

// TimestampLayout is the format transaction timestamps are stored in.
const TimestampLayout = "2006-01-02 15:04:05.000000"
