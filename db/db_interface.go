package db

import "errors"

// ErrNotFound is returned by lookups when no record matches.
var ErrNotFound = errors.New("record not found")

type Store interface {
	CreateAccount(account Account) error
	GetAccount(accountID int64) (Account, error)
	UpdateAccount(account Account) error
	UpdateBalance(accountID int64, balance int64) error
	DeleteAccount(accountID int64) (bool, error)
	ListAccounts() ([]Account, error)
	// AccountIDUsed reports whether an account id was ever issued,
	// including ids of accounts that have since been deleted.
	AccountIDUsed(accountID int64) (bool, error)

	AppendTransaction(transaction Transaction) error
	GetTransaction(transactionID string) (Transaction, error)
	TransactionIDUsed(transactionID string) (bool, error)
	FindTransactionsByAccount(accountID int64) ([]Transaction, error)
}
