package main

import (
	"log"
	"net/http"
	"os"

	"github.com/jumpogpo/bank-manager-api/router"
)

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	port := envOr("PORT", "8000")
	dbPath := envOr("BANK_DB", "./bank.db")
	baseURL := envOr("BASE_URL", "http://localhost:"+port)

	app := router.NewApp(dbPath, "KPang", baseURL)

	http.HandleFunc("GET /accounts", app.GetAllAccounts())
	http.HandleFunc("POST /account", app.CreateAccount())
	http.HandleFunc("POST /account/edit", app.EditAccount())
	http.HandleFunc("DELETE /delete/{accountId}", app.DeleteAccount())

	http.HandleFunc("GET /info/{accountId}", app.GetAccountInfo())
	http.HandleFunc("GET /transaction/{transactionId}", app.GetTransactionInfo())
	http.HandleFunc("GET /account/transaction/{accountId}", app.GetAccountTransactions())
	http.HandleFunc("GET /slip/{transactionId}", app.GenerateSlip())

	http.HandleFunc("POST /deposit", app.Deposit())
	http.HandleFunc("POST /withdraw", app.Withdraw())
	http.HandleFunc("POST /transfer", app.Transfer())

	log.Printf("Bank manager API started at http://localhost:%s", port)

	err := http.ListenAndServe(":"+port, nil)
	if err != nil {
		if err == http.ErrServerClosed {
			log.Println("Server closed")
		} else {
			log.Fatal(err)
		}
	}
}
