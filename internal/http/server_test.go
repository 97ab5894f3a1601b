package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budget/internal/ledger"
	applog "budget/internal/log"
	"budget/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *ledger.Store) {
	t.Helper()
	store := ledger.NewStore(storage.NewMemoryRepository(), nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return NewServer(":0", store, nil), store
}

func do(t *testing.T, srv *Server, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

const form = "application/x-www-form-urlencoded"

func TestHealthAndHeaders(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := do(t, srv, http.MethodGet, "/healthz", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", rr.Code)
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing security headers")
	}
}

func TestCreateTransactionSections(t *testing.T) {
	srv, store := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/transactions/expenses", form, "date=10%2F16%2F26&amount=12%2C50&category=Rent&notes=oct")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created transactionView
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Type != "Expenses" || created.Amount != 12.5 || created.Category != "Rent" || created.Position != 0 || created.ID == "" {
		t.Fatalf("unexpected created row: %+v", created)
	}

	// Category ignored outside the expenses section
	rr = do(t, srv, http.MethodPost, "/api/transactions/income", "application/json", `{"date": "10/17/26", "amount": 1500, "category": "Rent"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := store.All()[1]; got.Category != "" || got.Amount.Cents != 150000 {
		t.Fatalf("unexpected income record: %+v", got)
	}

	rr = do(t, srv, http.MethodPost, "/api/transactions/transfers", form, "date=d&amount=1")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown section, got %d", rr.Code)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv, store := newTestServer(t)

	for _, body := range []string{"date=d&amount=abc", "date=&amount=5", "date=d&amount=-5"} {
		rr := do(t, srv, http.MethodPost, "/api/transactions/savings", form, body)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%q: expected 422, got %d", body, rr.Code)
		}
	}
	rr := do(t, srv, http.MethodPost, "/api/transactions/savings", "application/json", `{"date": `)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed json, got %d", rr.Code)
	}
	rr = do(t, srv, http.MethodPost, "/api/transactions/savings", form, "date=d&amount=1&notes="+strings.Repeat("x", maxBodyBytes))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized body, got %d", rr.Code)
	}
	if store.Len() != 0 {
		t.Fatalf("rejected input created records")
	}
}

func TestListUpdateDelete(t *testing.T) {
	srv, store := newTestServer(t)
	for _, body := range []string{"date=a&amount=1", "date=b&amount=2", "date=c&amount=3"} {
		if rr := do(t, srv, http.MethodPost, "/api/transactions/income", form, body); rr.Code != http.StatusCreated {
			t.Fatalf("seed failed: %d", rr.Code)
		}
	}

	rr := do(t, srv, http.MethodGet, "/api/transactions", "", "")
	var rows []transactionView
	if err := json.Unmarshal(rr.Body.Bytes(), &rows); err != nil || len(rows) != 3 {
		t.Fatalf("unexpected list: %s (err=%v)", rr.Body.String(), err)
	}
	if rows[2].Position != 2 || rows[2].AmountDisplay != "3.00" {
		t.Fatalf("unexpected row: %+v", rows[2])
	}

	// Edit by position
	rr = do(t, srv, http.MethodPut, "/api/positions/1", form, "date=b2&amount=2000.5&notes=bonus")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var edited transactionView
	_ = json.Unmarshal(rr.Body.Bytes(), &edited)
	if edited.AmountDisplay != "2,000.50" || edited.Notes != "bonus" {
		t.Fatalf("unexpected edit: %+v", edited)
	}

	// Rejected edit keeps the record
	rr = do(t, srv, http.MethodPut, "/api/transactions/"+rows[0].ID, form, "date=a&amount=nope")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if store.All()[0].Amount.Cents != 100 {
		t.Fatalf("rejected edit mutated record")
	}

	// Delete by id shifts the rest
	rr = do(t, srv, http.MethodDelete, "/api/transactions/"+rows[0].ID, "", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if store.Len() != 2 || store.All()[0].Date != "b2" {
		t.Fatalf("unexpected collection after delete: %+v", store.All())
	}

	for _, tc := range []struct {
		method, path string
		want         int
	}{
		{http.MethodDelete, "/api/transactions/" + rows[0].ID, http.StatusNotFound},
		{http.MethodDelete, "/api/positions/5", http.StatusNotFound},
		{http.MethodDelete, "/api/positions/x", http.StatusBadRequest},
		{http.MethodDelete, "/api/positions/1", http.StatusNoContent},
	} {
		if rr := do(t, srv, tc.method, tc.path, "", ""); rr.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, rr.Code)
		}
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 record left, got %d", store.Len())
	}
}

func TestSummaryAndChart(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/summary", "", "")
	var empty summaryView
	if err := json.Unmarshal(rr.Body.Bytes(), &empty); err != nil || !empty.NoData || len(empty.Slices) != 0 {
		t.Fatalf("expected no data, got %s", rr.Body.String())
	}
	rr = do(t, srv, http.MethodGet, "/chart.svg", "", "")
	if rr.Code != http.StatusOK || strings.Contains(rr.Body.String(), "<path") {
		t.Fatalf("expected empty chart, got %d: %s", rr.Code, rr.Body.String())
	}

	do(t, srv, http.MethodPost, "/api/transactions/income", form, "date=d&amount=500")
	do(t, srv, http.MethodPost, "/api/transactions/expenses", form, "date=d&amount=300&category=Rent")
	do(t, srv, http.MethodPost, "/api/transactions/savings", form, "date=d&amount=40")

	rr = do(t, srv, http.MethodGet, "/api/summary", "", "")
	var got summaryView
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Income != 500 || got.Expenses != 300 || got.Savings != 200 || got.RecordedSavings != 40 || got.NoData {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if len(got.Slices) != 3 || got.Slices[0].Percent != "50.0%" {
		t.Fatalf("unexpected slices: %+v", got.Slices)
	}

	rr = do(t, srv, http.MethodGet, "/chart.svg", "", "")
	if rr.Header().Get("Content-Type") != "image/svg+xml" || strings.Count(rr.Body.String(), "<path") != 3 {
		t.Fatalf("unexpected chart: %s", rr.Body.String())
	}
}

func TestCategories(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := do(t, srv, http.MethodGet, "/api/categories", "", "")
	var cats []string
	if err := json.Unmarshal(rr.Body.Bytes(), &cats); err != nil || len(cats) != 5 || cats[0] != "Rent" {
		t.Fatalf("unexpected categories: %s", rr.Body.String())
	}
}

func TestRejectedRequestsLogErrorType(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: -4, Output: &buf, Component: applog.ComponentApp})
	store := ledger.NewStore(storage.NewMemoryRepository(), nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	srv := NewServer(":0", store, logger)

	do(t, srv, http.MethodPost, "/api/transactions/income", form, "date=d&amount=x")
	if !strings.Contains(buf.String(), "error_type="+applog.ErrorTypeValidation) {
		t.Fatalf("expected validation error type in log, got:\n%s", buf.String())
	}
	do(t, srv, http.MethodDelete, "/api/positions/3", "", "")
	if !strings.Contains(buf.String(), "error_type="+applog.ErrorTypeNotFound) {
		t.Fatalf("expected not-found error type in log, got:\n%s", buf.String())
	}
}
