package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"anita/internal/chart"
	"anita/internal/core"
	"anita/internal/dataset/memory"
	"anita/internal/services"
)

func seedTransactions() []core.Transaction {
	return []core.Transaction{
		{Date: core.NewDate(2025, 3, 2), Description: "Rent", Amount: core.Money{Cents: 6000}, Category: "Housing"},
		{Date: core.NewDate(2025, 3, 9), Description: "Groceries", Amount: core.Money{Cents: 4000}, Category: "Food"},
	}
}

func newTestServer() *Server {
	store := memory.New(seedTransactions())
	analytics := services.NewAnalyticsService(store, nil, chart.DefaultLayout(), nil)
	ingest := services.NewIngestService(store, nil, nil, analytics)
	return NewServer(":0", analytics, ingest, store, store)
}

func TestDashboardAndHealth(t *testing.T) {
	srv := newTestServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("dashboard status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Spending") {
		t.Fatalf("dashboard body missing heading")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestDashboardUnknownPathIs404(t *testing.T) {
	srv := newTestServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCreateTransactionValidationAndSuccess(t *testing.T) {
	srv := newTestServer()

	// Wrong method
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/transactions", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Invalid amount
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/transactions",
		strings.NewReader(`{"date":"2025-03-10","description":"x","amount":"abc","category":"Food"}`))
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	// Missing description
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/transactions",
		strings.NewReader(`{"date":"2025-03-10","description":"","amount":"1.23","category":"Food"}`))
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	// Malformed JSON
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader("{"))
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	// Success
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/transactions",
		strings.NewReader(`{"date":"2025-03-10","description":"Coffee","amount":"1.23","category":"Food"}`))
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp createTransactionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Ref == "" || resp.AmountCents != 123 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestListTransactions(t *testing.T) {
	srv := newTestServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/transactions?year=2025&month=3", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("list status=%d", rr.Code)
	}

	var resp struct {
		Year         int               `json:"year"`
		Month        int               `json:"month"`
		Transactions []json.RawMessage `json:"transactions"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Year != 2025 || resp.Month != 3 || len(resp.Transactions) != 2 {
		t.Fatalf("unexpected list response: %+v", resp)
	}
}

func TestDeleteTransactionUnsupportedBackend(t *testing.T) {
	// The memory backend has no remover wired, so deletes are rejected.
	srv := newTestServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/transactions/1?year=2025&month=3", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	// Bad id is rejected before touching the service.
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/transactions/zero", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestDashboardPartials(t *testing.T) {
	srv := newTestServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/categories?year=2025&month=3", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("categories status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Housing") || !strings.Contains(body, "Food") {
		t.Fatalf("categories partial missing rows: %s", body)
	}
	if !strings.Contains(body, "60.00") {
		t.Fatalf("categories partial missing percent: %s", body)
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/dashboard/stats?year=2025&month=3", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("stats status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "€100,00") {
		t.Fatalf("stats partial missing total: %s", rr.Body.String())
	}
}

func TestRateLimiterAllows(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d unexpectedly limited", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Fatalf("61st request should be limited")
	}
	// Other clients are unaffected.
	if !rl.allow("10.0.0.2") {
		t.Fatalf("different client should not be limited")
	}
}

func TestExtractClientIP(t *testing.T) {
	// Direct peer outside trusted ranges: forwarding headers are ignored.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	if ip := extractClientIP(req); ip != "203.0.113.7" {
		t.Fatalf("expected direct IP, got %s", ip)
	}

	// Trusted proxy: first X-Forwarded-For entry wins.
	req.RemoteAddr = "127.0.0.1:1234"
	if ip := extractClientIP(req); ip != "198.51.100.1" {
		t.Fatalf("expected forwarded IP, got %s", ip)
	}
}
