package bank

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jumpogpo/bank-manager-api/db"
)

func newTestBank(t *testing.T) *Bank {
	t.Helper()
	store, err := db.NewMockDb()
	if err != nil {
		t.Fatal(err)
	}
	return NewBank(store)
}

func validChecksum(accountID int64) bool {
	digits := fmt.Sprintf("%010d", accountID)
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(digits[i] - '0')
	}
	return sum%10 == int(digits[9]-'0')
}

func TestCreateAccount(t *testing.T) {
	b := newTestBank(t)

	account, err := b.CreateAccount("Somchai", "Kaew", 1000)
	if err != nil {
		t.Fatal(err)
	}
	if account.Balance != 1000 || account.FirstName != "Somchai" || account.LastName != "Kaew" {
		t.Fatalf("unexpected account: %+v", account)
	}
	if !validChecksum(account.AccountID) {
		t.Fatalf("account id %d fails checksum", account.AccountID)
	}

	got, err := b.GetAccount(account.AccountID)
	if err != nil {
		t.Fatal(err)
	}
	if got != account {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, account)
	}
}

func TestCreateAccountNegativeDeposit(t *testing.T) {
	b := newTestBank(t)

	if _, err := b.CreateAccount("A", "B", -1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
}

func TestDeposit(t *testing.T) {
	b := newTestBank(t)
	account, _ := b.CreateAccount("A", "B", 0)

	updated, transactionID, err := b.Deposit(account.AccountID, 500)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Balance != 500 {
		t.Fatalf("balance=%d want=500", updated.Balance)
	}
	if len(transactionID) != 20 {
		t.Fatalf("transaction id %q has wrong length", transactionID)
	}

	record, err := b.GetTransaction(transactionID)
	if err != nil {
		t.Fatal(err)
	}
	if record.Action != db.ActionDeposit || record.AccountID != account.AccountID || record.Amount != 500 {
		t.Fatalf("unexpected record: %+v", record)
	}
	if _, err := time.Parse(db.TimestampLayout, record.Timestamp); err != nil {
		t.Fatalf("timestamp %q does not parse: %v", record.Timestamp, err)
	}
}

func TestDepositInvalidAmount(t *testing.T) {
	b := newTestBank(t)
	account, _ := b.CreateAccount("A", "B", 100)

	for _, amount := range []int64{0, -5} {
		if _, _, err := b.Deposit(account.AccountID, amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount=%d want ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestDepositUnknownAccount(t *testing.T) {
	b := newTestBank(t)

	if _, _, err := b.Deposit(1234567895, 10); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}

func TestWithdraw(t *testing.T) {
	b := newTestBank(t)
	account, _ := b.CreateAccount("A", "B", 1000)

	updated, transactionID, err := b.Withdraw(account.AccountID, 300)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Balance != 700 {
		t.Fatalf("balance=%d want=700", updated.Balance)
	}

	record, _ := b.GetTransaction(transactionID)
	if record.Action != db.ActionWithdraw || record.Amount != 300 {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	b := newTestBank(t)
	account, _ := b.CreateAccount("A", "B", 1000)

	if _, _, err := b.Withdraw(account.AccountID, 1500); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}

	// the failed withdrawal must leave no trace
	got, _ := b.GetAccount(account.AccountID)
	if got.Balance != 1000 {
		t.Fatalf("balance=%d want=1000", got.Balance)
	}
	records, err := b.AccountTransactions(account.AccountID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty log, got %+v", records)
	}
}

func TestTransfer(t *testing.T) {
	b := newTestBank(t)
	source, _ := b.CreateAccount("A", "B", 1000)
	target, _ := b.CreateAccount("C", "D", 0)

	updated, transactionID, err := b.Transfer(source.AccountID, target.AccountID, 500)
	if err != nil {
		t.Fatal(err)
	}
	if updated.AccountID != source.AccountID || updated.Balance != 500 {
		t.Fatalf("unexpected source after transfer: %+v", updated)
	}

	gotTarget, _ := b.GetAccount(target.AccountID)
	if gotTarget.Balance != 500 {
		t.Fatalf("target balance=%d want=500", gotTarget.Balance)
	}

	record, err := b.GetTransaction(transactionID)
	if err != nil {
		t.Fatal(err)
	}
	if record.Action != db.ActionTransfer ||
		record.DeductedAccountID != source.AccountID ||
		record.ReceivedAccountID != target.AccountID ||
		record.Amount != 500 {
		t.Fatalf("unexpected record: %+v", record)
	}

	records, _ := b.AccountTransactions(source.AccountID)
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
}

func TestTransferValidation(t *testing.T) {
	b := newTestBank(t)
	source, _ := b.CreateAccount("A", "B", 1000)

	if _, _, err := b.Transfer(source.AccountID, source.AccountID, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
	if _, _, err := b.Transfer(1234567895, source.AccountID, 10); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
	if _, _, err := b.Transfer(source.AccountID, 1234567895, 5000); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if _, _, err := b.Transfer(source.AccountID, 1234567895, 10); !errors.Is(err, ErrTargetAccountNotFound) {
		t.Fatalf("want ErrTargetAccountNotFound, got %v", err)
	}

	// nothing above may have touched the balance
	got, _ := b.GetAccount(source.AccountID)
	if got.Balance != 1000 {
		t.Fatalf("balance=%d want=1000", got.Balance)
	}
}

func TestSelfTransferConservesBalance(t *testing.T) {
	b := newTestBank(t)
	account, _ := b.CreateAccount("A", "B", 1000)

	updated, transactionID, err := b.Transfer(account.AccountID, account.AccountID, 300)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Balance != 1000 {
		t.Fatalf("balance=%d want=1000", updated.Balance)
	}

	got, _ := b.GetAccount(account.AccountID)
	if got.Balance != 1000 {
		t.Fatalf("stored balance=%d want=1000", got.Balance)
	}

	record, _ := b.GetTransaction(transactionID)
	if record.DeductedAccountID != account.AccountID || record.ReceivedAccountID != account.AccountID {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestEditAccount(t *testing.T) {
	b := newTestBank(t)
	account, _ := b.CreateAccount("Somchai", "Kaew", 1000)

	if _, err := b.EditAccount(account.AccountID, nil, nil, nil); !errors.Is(err, ErrNoChangesProvided) {
		t.Fatalf("want ErrNoChangesProvided, got %v", err)
	}

	first := "Somsak"
	updated, err := b.EditAccount(account.AccountID, &first, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if updated.FirstName != "Somsak" || updated.LastName != "Kaew" || updated.Balance != 1000 {
		t.Fatalf("partial edit went wrong: %+v", updated)
	}

	balance := int64(50)
	updated, err = b.EditAccount(account.AccountID, nil, nil, &balance)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Balance != 50 {
		t.Fatalf("balance=%d want=50", updated.Balance)
	}

	negative := int64(-1)
	if _, err := b.EditAccount(account.AccountID, nil, nil, &negative); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}

	if _, err := b.EditAccount(1234567895, &first, nil, nil); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	b := newTestBank(t)
	account, _ := b.CreateAccount("A", "B", 100)
	_, transactionID, _ := b.Deposit(account.AccountID, 50)

	deleted, err := b.DeleteAccount(account.AccountID)
	if err != nil || !deleted {
		t.Fatalf("deleted=%v err=%v", deleted, err)
	}
	deleted, err = b.DeleteAccount(account.AccountID)
	if err != nil || deleted {
		t.Fatalf("second delete: deleted=%v err=%v", deleted, err)
	}

	if _, err := b.GetAccount(account.AccountID); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}

	// the ledger keeps the deleted account's transactions
	if _, err := b.GetTransaction(transactionID); err != nil {
		t.Fatalf("transaction lost after delete: %v", err)
	}
}

func TestAccountTransactionsMatchesAllRoles(t *testing.T) {
	b := newTestBank(t)
	a, _ := b.CreateAccount("A", "B", 1000)
	c, _ := b.CreateAccount("C", "D", 1000)

	_, _, _ = b.Deposit(a.AccountID, 10)
	_, _, _ = b.Transfer(a.AccountID, c.AccountID, 20)
	_, _, _ = b.Transfer(c.AccountID, a.AccountID, 30)

	records, err := b.AccountTransactions(a.AccountID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("len=%d want=3", len(records))
	}

	if _, err := b.AccountTransactions(1234567895); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}

func TestGetTransactionNotFound(t *testing.T) {
	b := newTestBank(t)

	if _, err := b.GetTransaction("AAAAAAAAAAAAAAAAAAAA"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("want ErrTransactionNotFound, got %v", err)
	}
}

func TestTransferSlip(t *testing.T) {
	b := newTestBank(t)
	source, _ := b.CreateAccount("Somchai", "Kaew", 1000)
	target, _ := b.CreateAccount("Malee", "Thong", 0)
	_, transferID, _ := b.Transfer(source.AccountID, target.AccountID, 500)
	_, depositID, _ := b.Deposit(target.AccountID, 100)

	record, deducted, received, err := b.TransferSlip(transferID)
	if err != nil {
		t.Fatal(err)
	}
	if record.TransactionID != transferID || deducted.FirstName != "Somchai" || received.FirstName != "Malee" {
		t.Fatalf("unexpected slip data: %+v %+v %+v", record, deducted, received)
	}

	if _, _, _, err := b.TransferSlip(depositID); !errors.Is(err, ErrNotATransfer) {
		t.Fatalf("want ErrNotATransfer, got %v", err)
	}
	if _, _, _, err := b.TransferSlip("AAAAAAAAAAAAAAAAAAAA"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("want ErrTransactionNotFound, got %v", err)
	}

	// deleted participant comes back blank, the slip still resolves
	_, _ = b.DeleteAccount(source.AccountID)
	_, deducted, _, err = b.TransferSlip(transferID)
	if err != nil {
		t.Fatal(err)
	}
	if deducted.FirstName != "" || deducted.LastName != "" {
		t.Fatalf("expected blank deducted participant, got %+v", deducted)
	}
}

func TestConcurrentDeposits(t *testing.T) {
	b := newTestBank(t)
	account, _ := b.CreateAccount("A", "B", 0)

	const workers = 100
	const amount = int64(1)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, _, err := b.Deposit(account.AccountID, amount); err != nil {
				t.Errorf("deposit err: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := b.GetAccount(account.AccountID)
	if got.Balance != workers*amount {
		t.Fatalf("balance=%d want=%d", got.Balance, workers*amount)
	}

	records, _ := b.AccountTransactions(account.AccountID)
	if len(records) != workers {
		t.Fatalf("records=%d want=%d", len(records), workers)
	}
}

func TestOpposingTransfersNoDeadlock(t *testing.T) {
	b := newTestBank(t)
	a, _ := b.CreateAccount("A", "B", 1000)
	c, _ := b.CreateAccount("C", "D", 1000)

	const n = 200
	var wg sync.WaitGroup
	wg.Add(2 * n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, _, err := b.Transfer(a.AccountID, c.AccountID, 1); err != nil {
				t.Errorf("a->c: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, _, err := b.Transfer(c.AccountID, a.AccountID, 1); err != nil {
				t.Errorf("c->a: %v", err)
			}
		}()
	}
	wg.Wait()

	gotA, _ := b.GetAccount(a.AccountID)
	gotC, _ := b.GetAccount(c.AccountID)
	if gotA.Balance != 1000 || gotC.Balance != 1000 {
		t.Fatalf("balances after opposing transfers: a=%d c=%d", gotA.Balance, gotC.Balance)
	}
}

func TestTotalBalanceConservation(t *testing.T) {
	b := newTestBank(t)
	a, _ := b.CreateAccount("A", "B", 1000)
	c, _ := b.CreateAccount("C", "D", 500)

	_, _, _ = b.Deposit(a.AccountID, 200)    // +200
	_, _, _ = b.Withdraw(c.AccountID, 100)   // -100
	_, _, _ = b.Transfer(a.AccountID, c.AccountID, 800)
	_, _, _ = b.Transfer(c.AccountID, a.AccountID, 50)

	accounts, _ := b.ListAccounts()
	var total int64
	for _, account := range accounts {
		total += account.Balance
	}
	if total != 1000+500+200-100 {
		t.Fatalf("total=%d want=%d", total, 1000+500+200-100)
	}
}
