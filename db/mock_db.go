package db

import "sync"

// MockDb is the in-memory Store used by tests. It carries its own mutex
// because the engine treats the store like a transactional database that
// is safe for atomic single-record updates.
type MockDb struct {
	mu           sync.Mutex
	accounts     map[int64]Account
	usedIDs      map[int64]bool
	transactions []Transaction
	byID         map[string]int
}

func NewMockDb() (*MockDb, error) {
	db := &MockDb{
		accounts: map[int64]Account{},
		usedIDs:  map[int64]bool{},
		byID:     map[string]int{},
	}

	return db, nil
}

func (mock *MockDb) CreateAccount(account Account) error {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	mock.usedIDs[account.AccountID] = true
	mock.accounts[account.AccountID] = account
	return nil
}

func (mock *MockDb) GetAccount(accountID int64) (Account, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	account, ok := mock.accounts[accountID]
	if !ok {
		return Account{}, ErrNotFound
	}
	return account, nil
}

func (mock *MockDb) UpdateAccount(account Account) error {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	if _, ok := mock.accounts[account.AccountID]; !ok {
		return ErrNotFound
	}
	mock.accounts[account.AccountID] = account
	return nil
}

func (mock *MockDb) UpdateBalance(accountID int64, balance int64) error {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	account, ok := mock.accounts[accountID]
	if !ok {
		return ErrNotFound
	}
	account.Balance = balance
	mock.accounts[accountID] = account
	return nil
}

func (mock *MockDb) DeleteAccount(accountID int64) (bool, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	if _, ok := mock.accounts[accountID]; !ok {
		return false, nil
	}
	delete(mock.accounts, accountID)
	return true, nil
}

func (mock *MockDb) ListAccounts() ([]Account, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	accounts := []Account{}
	for _, account := range mock.accounts {
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (mock *MockDb) AccountIDUsed(accountID int64) (bool, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	return mock.usedIDs[accountID], nil
}

func (mock *MockDb) AppendTransaction(transaction Transaction) error {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	mock.byID[transaction.TransactionID] = len(mock.transactions)
	mock.transactions = append(mock.transactions, transaction)
	return nil
}

func (mock *MockDb) GetTransaction(transactionID string) (Transaction, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	i, ok := mock.byID[transactionID]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return mock.transactions[i], nil
}

func (mock *MockDb) TransactionIDUsed(transactionID string) (bool, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	_, ok := mock.byID[transactionID]
	return ok, nil
}

func (mock *MockDb) FindTransactionsByAccount(accountID int64) ([]Transaction, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	transactions := []Transaction{}
	for _, transaction := range mock.transactions {
		if transaction.AccountID == accountID ||
			transaction.DeductedAccountID == accountID ||
			transaction.ReceivedAccountID == accountID {
			transactions = append(transactions, transaction)
		}
	}
	return transactions, nil
}
