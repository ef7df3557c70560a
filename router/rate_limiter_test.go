package router

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAccountRateLimiting(t *testing.T) {
	log.SetOutput(io.Discard)
	app := newMockApp()

	account := createAccount(t, &app, "Somchai", "Kaew", 100)
	accountID := fmt.Sprint(account.AccountID)

	handler := http.HandlerFunc(app.GetAccountInfo())
	req := httptest.NewRequest("GET", "/info/"+accountID, nil)
	req.SetPathValue("accountId", accountID)
	req.RemoteAddr = "127.0.0.1:8080"

	// the account bucket holds 5 tokens
	for range 5 {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("code=%d want 200", rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("6th request code=%d want 429", rr.Code)
	}

	// a different account is unaffected
	other := createAccount(t, &app, "Malee", "Thong", 0)
	otherID := fmt.Sprint(other.AccountID)
	otherReq := httptest.NewRequest("GET", "/info/"+otherID, nil)
	otherReq.SetPathValue("accountId", otherID)
	otherReq.RemoteAddr = "127.0.0.1:8080"

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, otherReq)
	if rr.Code != http.StatusOK {
		t.Fatalf("other account code=%d want 200", rr.Code)
	}
}

func TestIpRateLimiting(t *testing.T) {
	log.SetOutput(io.Discard)
	app := newMockApp()
	// shrink the ip bucket so the test stays fast
	app.Limiters["ip"] = NewLimiter(3, app.Limiters["ip"].getId)

	handler := http.HandlerFunc(app.GetAllAccounts())

	for range 3 {
		rr := doRequest(t, handler, "GET", "/accounts", "", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("code=%d want 200", rr.Code)
		}
	}

	rr := doRequest(t, handler, "GET", "/accounts", "", nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("4th request code=%d want 429", rr.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	log.SetOutput(io.Discard)

	handler := RequestID(func(w http.ResponseWriter, r *http.Request) {})

	rr := doRequest(t, handler, "GET", "/accounts", "", nil)
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatal("missing generated X-Request-Id")
	}

	req := httptest.NewRequest("GET", "/accounts", nil)
	req.Header.Set("X-Request-Id", "caller-supplied")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-Id"); got != "caller-supplied" {
		t.Fatalf("X-Request-Id=%q want caller-supplied", got)
	}
}
