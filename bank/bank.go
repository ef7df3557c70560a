// Package bank is the ledger engine: account lifecycle, deposits,
// withdrawals and transfers over a db.Store, serialized per account by a
// lock registry. Every balance mutation follows the same shape: validate
// the input, take the account lock(s), re-read the authoritative state,
// validate the business rule, write, append the transaction record.
package bank

import (
	"errors"
	"time"

	"github.com/jumpogpo/bank-manager-api/db"
)

type Bank struct {
	store db.Store
	locks *lockRegistry
}

func NewBank(store db.Store) *Bank {
	return &Bank{store: store, locks: newLockRegistry()}
}

func timestamp() string {
	return time.Now().Format(db.TimestampLayout)
}

// CreateAccount opens an account with a freshly issued checksummed id.
// The opening deposit becomes the starting balance without a transaction
// record of its own.
func (b *Bank) CreateAccount(firstName, lastName string, depositAmount int64) (db.Account, error) {
	if depositAmount < 0 {
		return db.Account{}, ErrInvalidAmount
	}

	accountID, err := NewAccountID(b.store)
	if err != nil {
		return db.Account{}, err
	}

	account := db.Account{
		AccountID: accountID,
		FirstName: firstName,
		LastName:  lastName,
		Balance:   depositAmount,
	}
	if err := b.store.CreateAccount(account); err != nil {
		return db.Account{}, err
	}
	return account, nil
}

// DeleteAccount hard-deletes the account. The returned bool reports
// whether it existed. Its transaction records stay in the log.
func (b *Bank) DeleteAccount(accountID int64) (bool, error) {
	return b.store.DeleteAccount(accountID)
}

func (b *Bank) GetAccount(accountID int64) (db.Account, error) {
	account, err := b.store.GetAccount(accountID)
	if errors.Is(err, db.ErrNotFound) {
		return account, ErrAccountNotFound
	}
	return account, err
}

func (b *Bank) ListAccounts() ([]db.Account, error) {
	return b.store.ListAccounts()
}

// EditAccount overwrites the fields that are non-nil and leaves the rest
// alone. It runs inside the account's critical section so an edit cannot
// interleave with a concurrent deposit, withdrawal or transfer.
func (b *Bank) EditAccount(accountID int64, firstName, lastName *string, balance *int64) (db.Account, error) {
	if firstName == nil && lastName == nil && balance == nil {
		return db.Account{}, ErrNoChangesProvided
	}
	if balance != nil && *balance < 0 {
		return db.Account{}, ErrInvalidAmount
	}

	lock := b.locks.acquire(accountID)
	defer lock.Unlock()

	account, err := b.store.GetAccount(accountID)
	if errors.Is(err, db.ErrNotFound) {
		return db.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return db.Account{}, err
	}

	if firstName != nil {
		account.FirstName = *firstName
	}
	if lastName != nil {
		account.LastName = *lastName
	}
	if balance != nil {
		account.Balance = *balance
	}

	if err := b.store.UpdateAccount(account); err != nil {
		return db.Account{}, err
	}
	return account, nil
}

// Deposit credits the account and appends a deposit record. It returns
// the account after the credit plus the new transaction id.
func (b *Bank) Deposit(accountID, amount int64) (db.Account, string, error) {
	if amount <= 0 {
		return db.Account{}, "", ErrInvalidAmount
	}

	lock := b.locks.acquire(accountID)
	defer lock.Unlock()

	account, err := b.store.GetAccount(accountID)
	if errors.Is(err, db.ErrNotFound) {
		return db.Account{}, "", ErrAccountNotFound
	}
	if err != nil {
		return db.Account{}, "", err
	}

	transactionID, err := NewTransactionID(b.store)
	if err != nil {
		return db.Account{}, "", err
	}

	account.Balance += amount
	if err := b.store.UpdateBalance(accountID, account.Balance); err != nil {
		return db.Account{}, "", err
	}

	record := db.Transaction{
		TransactionID: transactionID,
		Action:        db.ActionDeposit,
		AccountID:     accountID,
		Amount:        amount,
		Timestamp:     timestamp(),
	}
	if err := b.store.AppendTransaction(record); err != nil {
		return db.Account{}, "", err
	}

	return account, transactionID, nil
}

// Withdraw debits the account, rejecting any amount above the current
// balance so the balance never goes negative.
func (b *Bank) Withdraw(accountID, amount int64) (db.Account, string, error) {
	if amount <= 0 {
		return db.Account{}, "", ErrInvalidAmount
	}

	lock := b.locks.acquire(accountID)
	defer lock.Unlock()

	account, err := b.store.GetAccount(accountID)
	if errors.Is(err, db.ErrNotFound) {
		return db.Account{}, "", ErrAccountNotFound
	}
	if err != nil {
		return db.Account{}, "", err
	}
	if account.Balance < amount {
		return db.Account{}, "", ErrInsufficientFunds
	}

	transactionID, err := NewTransactionID(b.store)
	if err != nil {
		return db.Account{}, "", err
	}

	account.Balance -= amount
	if err := b.store.UpdateBalance(accountID, account.Balance); err != nil {
		return db.Account{}, "", err
	}

	record := db.Transaction{
		TransactionID: transactionID,
		Action:        db.ActionWithdraw,
		AccountID:     accountID,
		Amount:        amount,
		Timestamp:     timestamp(),
	}
	if err := b.store.AppendTransaction(record); err != nil {
		return db.Account{}, "", err
	}

	return account, transactionID, nil
}

// Transfer moves amount from accountID to targetAccountID under both
// account locks and appends a single transfer record. All validation
// happens before either balance is touched. The returned account is the
// source after the debit.
func (b *Bank) Transfer(accountID, targetAccountID, amount int64) (db.Account, string, error) {
	if amount <= 0 {
		return db.Account{}, "", ErrInvalidAmount
	}

	unlock := b.locks.acquirePair(accountID, targetAccountID)
	defer unlock()

	source, err := b.store.GetAccount(accountID)
	if errors.Is(err, db.ErrNotFound) {
		return db.Account{}, "", ErrAccountNotFound
	}
	if err != nil {
		return db.Account{}, "", err
	}
	if source.Balance < amount {
		return db.Account{}, "", ErrInsufficientFunds
	}
	if _, err := b.store.GetAccount(targetAccountID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return db.Account{}, "", ErrTargetAccountNotFound
		}
		return db.Account{}, "", err
	}

	transactionID, err := NewTransactionID(b.store)
	if err != nil {
		return db.Account{}, "", err
	}

	source.Balance -= amount
	if err := b.store.UpdateBalance(accountID, source.Balance); err != nil {
		return db.Account{}, "", err
	}

	// re-read after the debit so a self-transfer nets to zero
	target, err := b.store.GetAccount(targetAccountID)
	if err != nil {
		return db.Account{}, "", err
	}
	if err := b.store.UpdateBalance(targetAccountID, target.Balance+amount); err != nil {
		return db.Account{}, "", err
	}

	record := db.Transaction{
		TransactionID:     transactionID,
		Action:            db.ActionTransfer,
		DeductedAccountID: accountID,
		ReceivedAccountID: targetAccountID,
		Amount:            amount,
		Timestamp:         timestamp(),
	}
	if err := b.store.AppendTransaction(record); err != nil {
		return db.Account{}, "", err
	}

	if accountID == targetAccountID {
		source.Balance = target.Balance + amount
	}
	return source, transactionID, nil
}

func (b *Bank) GetTransaction(transactionID string) (db.Transaction, error) {
	transaction, err := b.store.GetTransaction(transactionID)
	if errors.Is(err, db.ErrNotFound) {
		return transaction, ErrTransactionNotFound
	}
	return transaction, err
}

// AccountTransactions lists every transaction the account took part in,
// on either side of a transfer. The account itself must exist.
func (b *Bank) AccountTransactions(accountID int64) ([]db.Transaction, error) {
	if _, err := b.GetAccount(accountID); err != nil {
		return nil, err
	}
	return b.store.FindTransactionsByAccount(accountID)
}

// TransferSlip returns the transfer record and both participant
// accounts. A participant deleted since the transfer comes back as a
// zero account, so the slip renders a blank name for it.
func (b *Bank) TransferSlip(transactionID string) (db.Transaction, db.Account, db.Account, error) {
	transaction, err := b.GetTransaction(transactionID)
	if err != nil {
		return db.Transaction{}, db.Account{}, db.Account{}, err
	}
	if transaction.Action != db.ActionTransfer {
		return db.Transaction{}, db.Account{}, db.Account{}, ErrNotATransfer
	}

	deducted, err := b.store.GetAccount(transaction.DeductedAccountID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return db.Transaction{}, db.Account{}, db.Account{}, err
	}
	received, err := b.store.GetAccount(transaction.ReceivedAccountID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return db.Transaction{}, db.Account{}, db.Account{}, err
	}

	return transaction, deducted, received, nil
}
