package db

import (
	"database/sql"
	"errors"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteDb struct {
	client *sql.DB
	path   string
}

func NewSQLiteDb(path string) (SQLiteDb, error) {
	db := SQLiteDb{path: path}
	if err := db.InitDatabase(); err != nil {
		return db, err
	}

	return db, nil
}

func (sqlite *SQLiteDb) InitDatabase() error {
	if sqlite.client == nil {
		var err error
		sqlite.client, err = sql.Open("sqlite3", sqlite.path)
		if err != nil {
			return err
		}
		sqlite.createTables()
	}

	return nil
}

func (sqlite *SQLiteDb) createTables() {
	createAccountsTable := `CREATE TABLE IF NOT EXISTS accounts (
        account_id INTEGER PRIMARY KEY,
        first_name TEXT,
        last_name TEXT,
        balance INTEGER
    );`

	// every id ever issued, kept across deletes so numbers are not reissued
	createAccountIdsTable := `CREATE TABLE IF NOT EXISTS account_ids (
        account_id INTEGER PRIMARY KEY
    );`

	createTransactionsTable := `CREATE TABLE IF NOT EXISTS transactions (
        transaction_id TEXT PRIMARY KEY,
        action TEXT,
        account_id INTEGER,
        deducted_account_id INTEGER,
        received_account_id INTEGER,
        amount INTEGER,
        timestamp TEXT
    );`

	for _, query := range []string{createAccountsTable, createAccountIdsTable, createTransactionsTable} {
		if _, err := sqlite.client.Exec(query); err != nil {
			log.Fatal(err)
		}
	}
}

func (sqlite *SQLiteDb) CreateAccount(account Account) error {
	sqlite.InitDatabase()

	_, err := sqlite.client.Exec("INSERT INTO account_ids (account_id) VALUES (?)", account.AccountID)
	if err != nil {
		return err
	}

	_, err = sqlite.client.Exec(
		"INSERT INTO accounts (account_id, first_name, last_name, balance) VALUES (?, ?, ?, ?)",
		account.AccountID, account.FirstName, account.LastName, account.Balance)
	return err
}

func (sqlite *SQLiteDb) GetAccount(accountID int64) (Account, error) {
	sqlite.InitDatabase()
	var account Account

	err := sqlite.client.QueryRow(
		"SELECT account_id, first_name, last_name, balance FROM accounts WHERE account_id = ?",
		accountID).Scan(&account.AccountID, &account.FirstName, &account.LastName, &account.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return account, ErrNotFound
	}

	return account, err
}

func (sqlite *SQLiteDb) UpdateAccount(account Account) error {
	sqlite.InitDatabase()

	result, err := sqlite.client.Exec(
		"UPDATE accounts SET first_name = ?, last_name = ?, balance = ? WHERE account_id = ?",
		account.FirstName, account.LastName, account.Balance, account.AccountID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (sqlite *SQLiteDb) UpdateBalance(accountID int64, balance int64) error {
	sqlite.InitDatabase()

	result, err := sqlite.client.Exec(
		"UPDATE accounts SET balance = ? WHERE account_id = ?", balance, accountID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (sqlite *SQLiteDb) DeleteAccount(accountID int64) (bool, error) {
	sqlite.InitDatabase()

	result, err := sqlite.client.Exec("DELETE FROM accounts WHERE account_id = ?", accountID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (sqlite *SQLiteDb) ListAccounts() ([]Account, error) {
	sqlite.InitDatabase()
	accounts := []Account{}

	rows, err := sqlite.client.Query("SELECT account_id, first_name, last_name, balance FROM accounts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var account Account
		if err := rows.Scan(&account.AccountID, &account.FirstName, &account.LastName, &account.Balance); err != nil {
			return accounts, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func (sqlite *SQLiteDb) AccountIDUsed(accountID int64) (bool, error) {
	sqlite.InitDatabase()

	var one int
	err := sqlite.client.QueryRow("SELECT 1 FROM account_ids WHERE account_id = ?", accountID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// nullableID maps the zero id to NULL so deposit/withdraw rows leave the
// transfer columns empty and vice versa.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func (sqlite *SQLiteDb) AppendTransaction(transaction Transaction) error {
	sqlite.InitDatabase()

	_, err := sqlite.client.Exec(
		`INSERT INTO transactions (transaction_id, action, account_id, deducted_account_id, received_account_id, amount, timestamp)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		transaction.TransactionID, transaction.Action,
		nullableID(transaction.AccountID), nullableID(transaction.DeductedAccountID), nullableID(transaction.ReceivedAccountID),
		transaction.Amount, transaction.Timestamp)
	return err
}

func (sqlite *SQLiteDb) GetTransaction(transactionID string) (Transaction, error) {
	sqlite.InitDatabase()

	row := sqlite.client.QueryRow(
		`SELECT transaction_id, action, account_id, deducted_account_id, received_account_id, amount, timestamp
         FROM transactions WHERE transaction_id = ?`, transactionID)

	transaction, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return transaction, ErrNotFound
	}

	return transaction, err
}

func (sqlite *SQLiteDb) TransactionIDUsed(transactionID string) (bool, error) {
	sqlite.InitDatabase()

	var one int
	err := sqlite.client.QueryRow("SELECT 1 FROM transactions WHERE transaction_id = ?", transactionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (sqlite *SQLiteDb) FindTransactionsByAccount(accountID int64) ([]Transaction, error) {
	sqlite.InitDatabase()
	transactions := []Transaction{}

	rows, err := sqlite.client.Query(
		`SELECT transaction_id, action, account_id, deducted_account_id, received_account_id, amount, timestamp
         FROM transactions
         WHERE account_id = ? OR deducted_account_id = ? OR received_account_id = ?
         ORDER BY timestamp`,
		accountID, accountID, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, transaction)
	}

	return transactions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var transaction Transaction
	var accountID, deductedID, receivedID sql.NullInt64

	err := row.Scan(&transaction.TransactionID, &transaction.Action,
		&accountID, &deductedID, &receivedID,
		&transaction.Amount, &transaction.Timestamp)
	if err != nil {
		return transaction, err
	}

	transaction.AccountID = accountID.Int64
	transaction.DeductedAccountID = deductedID.Int64
	transaction.ReceivedAccountID = receivedID.Int64

	return transaction, nil
}
