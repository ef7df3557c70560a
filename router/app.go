package router

import (
	"log"
	"net/http"
	"strings"

	"github.com/jumpogpo/bank-manager-api/bank"
	"github.com/jumpogpo/bank-manager-api/db"
	"github.com/jumpogpo/bank-manager-api/slip"
)

type App struct {
	Bank     *bank.Bank
	Slip     slip.Renderer
	Limiters map[string]*Limiter
}

func NewApp(dbPath, bankName, baseURL string) App {
	app := App{}
	store, err := db.NewSQLiteDb(dbPath)
	if err != nil {
		log.Fatal("[ERROR] " + err.Error())
	}
	app.Bank = bank.NewBank(&store)
	app.Slip = slip.Renderer{BankName: bankName, BaseURL: baseURL}
	app.Limiters = DefaultLimiters()

	return app
}

// DefaultLimiters builds the two buckets every handler draws from: a
// per-ip bucket on all routes and a per-account bucket on the
// account-scoped reads.
func DefaultLimiters() map[string]*Limiter {
	accountLimiter := NewLimiter(5, func(r *http.Request) string { return r.PathValue("accountId") })
	ipLimiter := NewLimiter(166, func(r *http.Request) string { // 10.000 requests per minute = 166 requests per second
		fullAddress := r.RemoteAddr
		lastIndex := strings.LastIndex(fullAddress, ":")
		return fullAddress[:lastIndex] // only look at IP, remove port
	})

	return map[string]*Limiter{
		"ip":      ipLimiter,
		"account": accountLimiter,
	}
}

func (app *App) RateLimit(handler http.HandlerFunc, name string) http.HandlerFunc {
	limiter, ok := app.Limiters[name]
	if !ok {
		log.Fatalf("limiter %s does not exist", name)
	}
	return RateLimit(handler, limiter)
}
