package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"log"
	"net/http"
	"strconv"

	"github.com/jumpogpo/bank-manager-api/bank"
	"github.com/jumpogpo/bank-manager-api/db"
)

type accountCreateRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	DepositAmount int64  `json:"deposit_amount"`
}

// nil pointer means the field was omitted and stays unchanged
type editAccountRequest struct {
	AccountID int64   `json:"account_id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Balance   *int64  `json:"balance"`
}

type transactionRequest struct {
	AccountID int64 `json:"account_id"`
	Amount    int64 `json:"amount"`
}

type transferRequest struct {
	AccountID       int64 `json:"account_id"`
	TargetAccountID int64 `json:"target_account_id"`
	Amount          int64 `json:"amount"`
}

// transactionResponse is the account state after a mutation plus the id
// of the transaction that recorded it.
type transactionResponse struct {
	db.Account
	TransactionID string `json:"transaction_id"`
}

// writeBankError maps the engine's validation failures to 400 with the
// message as body; anything else is a store/system error and maps to 500.
func writeBankError(w http.ResponseWriter, err error) {
	if bank.IsDomain(err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Println("[ERROR] " + err.Error())
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func pathAccountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	accountID, err := strconv.ParseInt(r.PathValue("accountId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return 0, false
	}
	return accountID, true
}

func (app *App) GetAllAccounts() http.HandlerFunc {
	handler := func(w http.ResponseWriter, r *http.Request) {
		accounts, err := app.Bank.ListAccounts()
		if err != nil {
			writeBankError(w, err)
			return
		}

		json.NewEncoder(w).Encode(accounts)
	}

	return app.RateLimit(RequestID(handler), "ip")
}

func (app *App) CreateAccount() http.HandlerFunc {
	handler := func(w http.ResponseWriter, r *http.Request) {
		var req accountCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		account, err := app.Bank.CreateAccount(req.FirstName, req.LastName, req.DepositAmount)
		if err != nil {
			writeBankError(w, err)
			return
		}

		json.NewEncoder(w).Encode(account)

		log.Printf("created account %d", account.AccountID)
	}

	return app.RateLimit(RequestID(handler), "ip")
}

func (app *App) EditAccount() http.HandlerFunc {
	handler := func(w http.ResponseWriter, r *http.Request) {
		var req editAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		account, err := app.Bank.EditAccount(req.AccountID, req.FirstName, req.LastName, req.Balance)
		if err != nil {
			writeBankError(w, err)
			return
		}

		json.NewEncoder(w).Encode(account)

		log.Printf("edited account %d", account.AccountID)
	}

	return app.RateLimit(RequestID(handler), "ip")
}

func (app *App) DeleteAccount() http.HandlerFunc {
	handler := func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathAccountID(w, r)
		if !ok {
			return
		}

		deleted, err := app.Bank.DeleteAccount(accountID)
		if err != nil {
			writeBankError(w, err)
			return
		}
		if !deleted {
			http.Error(w, "can't find this account id", http.StatusBadRequest)
			return
		}

		json.NewEncoder(w).Encode(map[string]string{"message": "Delete account successful"})

		log.Printf("deleted account %d", accountID)
	}

	return app.RateLimit(RequestID(handler), "ip")
}

func (app *App) GetAccountInfo() http.HandlerFunc {
	handler := func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathAccountID(w, r)
		if !ok {
			return
		}

		account, err := app.Bank.GetAccount(accountID)
		if err != nil {
			writeBankError(w, err)
			return
		}

		json.NewEncoder(w).Encode(account)
	}

	return app.RateLimit(app.RateLimit(RequestID(handler), "ip"), "account")
}

func (app *App) GetTransactionInfo() http.HandlerFunc {
	handler := func(w http.ResponseWriter, r *http.Request) {
		transaction, err := app.Bank.GetTransaction(r.PathValue("transactionId"))
		if err != nil {
			writeBankError(w, err)
			return
		}

		json.NewEncoder(w).Encode(transaction)
	}

	return app.RateLimit(RequestID(handler), "ip")
}

func (app *App) GetAccountTransactions() http.HandlerFunc {
	handler := func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathAccountID(w, r)
		if !ok {
			return
		}

		transactions, err := app.Bank.AccountTransactions(accountID)
		if err != nil {
			writeBankError(w, err)
			return
		}

		json.NewEncoder(w).Encode(transactions)
	}

	return app.RateLimit(app.RateLimit(RequestID(handler), "ip"), "account")
}

func (app *App) GenerateSlip() http.HandlerFunc {
	handler := func(w http.ResponseWriter, r *http.Request) {
		transactionID := r.PathValue("transactionId")

		transaction, deducted, received, err := app.Bank.TransferSlip(transactionID)
		if err != nil {
			writeBankError(w, err)
			return
		}

		img, err := app.Slip.Render(transaction, deducted, received)
		if err != nil {
			writeBankError(w, err)
			return
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			writeBankError(w, err)
			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", transactionID+".jpg"))
		w.Write(buf.Bytes())

		log.Printf("generated slip for transaction %s", transactionID)
	}

	return app.RateLimit(RequestID(handler), "ip")
}

func (app *App) Deposit() http.HandlerFunc {
	handler := func(w http.ResponseWriter, r *http.Request) {
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		account, transactionID, err := app.Bank.Deposit(req.AccountID, req.Amount)
		if err != nil {
			writeBankError(w, err)
			return
		}

		json.NewEncoder(w).Encode(transactionResponse{Account: account, TransactionID: transactionID})

		log.Printf("deposit of %d to account %d (%s)", req.Amount, req.AccountID, transactionID)
	}

	return app.RateLimit(RequestID(handler), "ip")
}

func (app *App) Withdraw() http.HandlerFunc {
	handler := func(w http.ResponseWriter, r *http.Request) {
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		account, transactionID, err := app.Bank.Withdraw(req.AccountID, req.Amount)
		if err != nil {
			writeBankError(w, err)
			return
		}

		json.NewEncoder(w).Encode(transactionResponse{Account: account, TransactionID: transactionID})

		log.Printf("withdrawal of %d from account %d (%s)", req.Amount, req.AccountID, transactionID)
	}

	return app.RateLimit(RequestID(handler), "ip")
}

func (app *App) Transfer() http.HandlerFunc {
	handler := func(w http.ResponseWriter, r *http.Request) {
		var req transferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		account, transactionID, err := app.Bank.Transfer(req.AccountID, req.TargetAccountID, req.Amount)
		if err != nil {
			writeBankError(w, err)
			return
		}

		json.NewEncoder(w).Encode(transactionResponse{Account: account, TransactionID: transactionID})

		log.Printf("transfer of %d from account %d to %d (%s)", req.Amount, req.AccountID, req.TargetAccountID, transactionID)
	}

	return app.RateLimit(RequestID(handler), "ip")
}
