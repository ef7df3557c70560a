package bank

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/jumpogpo/bank-manager-api/db"
)

const (
	transactionIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	transactionIDLength   = 20
)

// newAccountNumber builds a 10-digit account number: nine random digits
// followed by a checksum digit equal to their sum mod 10.
func newAccountNumber() int64 {
	var sb strings.Builder
	sum := 0
	for i := 0; i < 9; i++ {
		digit := rand.Intn(10)
		sum += digit
		sb.WriteByte(byte('0' + digit))
	}
	sb.WriteByte(byte('0' + sum%10))

	number, _ := strconv.ParseInt(sb.String(), 10, 64)
	return number
}

// NewAccountID rolls account numbers until one has never been issued by
// the store. The probe covers deleted accounts too, so a number is never
// reused after its account is gone.
func NewAccountID(store db.Store) (int64, error) {
	for {
		accountID := newAccountNumber()
		used, err := store.AccountIDUsed(accountID)
		if err != nil {
			return 0, err
		}
		if !used {
			return accountID, nil
		}
	}
}

func newTransactionCode() string {
	code := make([]byte, transactionIDLength)
	for i := range code {
		code[i] = transactionIDAlphabet[rand.Intn(len(transactionIDAlphabet))]
	}
	return string(code)
}

// NewTransactionID rolls 20-character codes until one is absent from the
// transaction log.
func NewTransactionID(store db.Store) (string, error) {
	for {
		transactionID := newTransactionCode()
		used, err := store.TransactionIDUsed(transactionID)
		if err != nil {
			return "", err
		}
		if !used {
			return transactionID, nil
		}
	}
}
