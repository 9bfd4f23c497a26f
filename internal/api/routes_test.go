package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kurpanel/kurpanel-backend/internal/dashboard"
	"github.com/kurpanel/kurpanel-backend/internal/models"
	"github.com/kurpanel/kurpanel-backend/internal/notifications"
)

type stubCurrency struct {
	table map[string]float64
}

func (s *stubCurrency) FetchLatest(ctx context.Context) (*models.Snapshot, error) {
	return stubSnap(map[string]float64{"USD": 40, "EUR": 50}), nil
}

func (s *stubCurrency) FetchTable(ctx context.Context, base string) (map[string]float64, error) {
	return s.table, nil
}

type stubGold struct{}

func (s *stubGold) FetchLatest(ctx context.Context) (*models.Snapshot, error) {
	return stubSnap(map[string]float64{"Gram": 5000}), nil
}

type stubHistory struct {
	atDate map[string]float64
	latest map[string]float64
}

func (s *stubHistory) FetchAtDate(ctx context.Context, date string, symbols ...string) (*models.Snapshot, error) {
	return stubSnap(s.atDate), nil
}

func (s *stubHistory) FetchLatest(ctx context.Context, symbols ...string) (*models.Snapshot, error) {
	return stubSnap(s.latest), nil
}

func stubSnap(quotes map[string]float64) *models.Snapshot {
	now := time.Now()
	snap := &models.Snapshot{Quotes: make(map[string]models.InstrumentQuote), AsOf: now}
	for code, selling := range quotes {
		snap.Quotes[code] = models.InstrumentQuote{Code: code, Selling: selling, AsOf: now}
	}
	return snap
}

func testServer() *Server {
	dash := dashboard.NewService(dashboard.Options{
		Currency: &stubCurrency{table: map[string]float64{"TRY": 40, "EUR": 0.9}},
		Gold:     &stubGold{},
		History: &stubHistory{
			atDate: map[string]float64{"USD": 1, "TRY": 30},
			latest: map[string]float64{"USD": 1, "TRY": 33},
		},
		Notify:                notifications.NewSender("", "test"),
		CurrencyInterval:      time.Hour,
		GoldInterval:          time.Hour,
		AlertThresholdPercent: 0.1,
	})
	return NewServer(dash, 0, "", "*")
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthRoute(t *testing.T) {
	rr := do(t, testServer(), http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("health = %d", rr.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("status = %s", resp.Status)
	}
}

func TestRatesLatest_EmptyBeforeFirstPoll(t *testing.T) {
	rr := do(t, testServer(), http.MethodGet, "/v1/rates/latest", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("rates = %d", rr.Code)
	}

	var resp ratesResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if len(resp.Quotes) != 0 {
		t.Fatalf("expected no quotes before polling starts, got %d", len(resp.Quotes))
	}
}

func TestConvertRoute(t *testing.T) {
	s := testServer()

	rr := do(t, s, http.MethodGet, "/v1/rates/convert?from=USD&to=TRY&amount=10", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("convert = %d: %s", rr.Code, rr.Body.String())
	}
	var resp convertResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.Converted != 400 {
		t.Fatalf("converted = %v, want 400", resp.Converted)
	}

	if rr := do(t, s, http.MethodGet, "/v1/rates/convert?from=USD&to=TRY&amount=abc", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad amount = %d", rr.Code)
	}
	if rr := do(t, s, http.MethodGet, "/v1/rates/convert?to=TRY&amount=1", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("missing from = %d", rr.Code)
	}
	if rr := do(t, s, http.MethodGet, "/v1/rates/convert?from=USD&to=XXX&amount=1", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown target = %d", rr.Code)
	}
}

func TestPortfolioRoutes(t *testing.T) {
	s := testServer()

	// Starter entries are present.
	rr := do(t, s, http.MethodGet, "/v1/portfolio/currency", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list = %d", rr.Code)
	}
	var list portfolioListResponse
	json.Unmarshal(rr.Body.Bytes(), &list)
	if len(list.Entries) != 2 {
		t.Fatalf("starter entries = %d, want USD and EUR", len(list.Entries))
	}

	// Add, duplicate add, set amount, remove.
	if rr := do(t, s, http.MethodPost, "/v1/portfolio/currency", `{"code":"GBP"}`); rr.Code != http.StatusCreated {
		t.Fatalf("add = %d: %s", rr.Code, rr.Body.String())
	}
	if rr := do(t, s, http.MethodPost, "/v1/portfolio/currency", `{"code":"GBP"}`); rr.Code != http.StatusConflict {
		t.Fatalf("duplicate add = %d", rr.Code)
	}
	if rr := do(t, s, http.MethodPost, "/v1/portfolio/currency", `{"code":"ZZZ"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown code = %d", rr.Code)
	}

	if rr := do(t, s, http.MethodPut, "/v1/portfolio/currency/GBP/amount", `{"amount":"12.5"}`); rr.Code != http.StatusOK {
		t.Fatalf("set amount = %d", rr.Code)
	}
	if rr := do(t, s, http.MethodPut, "/v1/portfolio/currency/JPY/amount", `{"amount":"1"}`); rr.Code != http.StatusNotFound {
		t.Fatalf("set amount on absent entry = %d", rr.Code)
	}

	if rr := do(t, s, http.MethodDelete, "/v1/portfolio/currency/GBP", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("remove = %d", rr.Code)
	}

	// Gold category and unknown category.
	if rr := do(t, s, http.MethodPost, "/v1/portfolio/gold", `{"code":"Tam"}`); rr.Code != http.StatusCreated {
		t.Fatalf("gold add = %d: %s", rr.Code, rr.Body.String())
	}
	if rr := do(t, s, http.MethodGet, "/v1/portfolio/stocks", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown category = %d", rr.Code)
	}

	// Summary shape.
	rr = do(t, s, http.MethodGet, "/v1/portfolio/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("summary = %d", rr.Code)
	}
	var totals models.PortfolioTotals
	if err := json.Unmarshal(rr.Body.Bytes(), &totals); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
}

func TestSimulateRoute(t *testing.T) {
	s := testServer()

	buyDate := time.Now().AddDate(0, -3, 0).Format("2006-01-02")
	body := `{"amount":100,"instrument":"USD","buyDate":"` + buyDate + `"}`
	rr := do(t, s, http.MethodPost, "/v1/simulate", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("simulate = %d: %s", rr.Code, rr.Body.String())
	}

	var res models.SimulationResult
	json.Unmarshal(rr.Body.Bytes(), &res)
	if res.ProfitLossPercent != 10 {
		t.Fatalf("profit = %v%%, want 10", res.ProfitLossPercent)
	}

	if rr := do(t, s, http.MethodPost, "/v1/simulate", `{"amount":-1,"instrument":"USD","buyDate":"`+buyDate+`"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("negative amount = %d", rr.Code)
	}
	if rr := do(t, s, http.MethodPost, "/v1/simulate", `{"amount":1,"instrument":"USD","buyDate":"15-01-2024"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad date = %d", rr.Code)
	}
	future := time.Now().AddDate(0, 0, 5).Format("2006-01-02")
	if rr := do(t, s, http.MethodPost, "/v1/simulate", `{"amount":1,"instrument":"USD","buyDate":"`+future+`"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("future date = %d", rr.Code)
	}
}

func TestNotificationRoutes(t *testing.T) {
	s := testServer()

	rr := do(t, s, http.MethodGet, "/v1/notifications", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list = %d", rr.Code)
	}
	var resp notificationsResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if len(resp.Items) != 2 || resp.Unread != 2 {
		t.Fatalf("expected the two standing disclaimers, got %d items %d unread", len(resp.Items), resp.Unread)
	}

	id := resp.Items[0].ID
	if rr := do(t, s, http.MethodPost, "/v1/notifications/"+id+"/read", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("mark read = %d", rr.Code)
	}
	if rr := do(t, s, http.MethodPost, "/v1/notifications/bogus/read", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("mark unknown = %d", rr.Code)
	}
	if rr := do(t, s, http.MethodDelete, "/v1/notifications", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("clear = %d", rr.Code)
	}

	rr = do(t, s, http.MethodGet, "/v1/notifications", "")
	json.Unmarshal(rr.Body.Bytes(), &resp)
	for _, it := range resp.Items {
		if !it.Permanent {
			t.Fatalf("non-permanent notification survived clear: %s", it.ID)
		}
	}
}

func TestPortfolioSparklineRoute(t *testing.T) {
	s := testServer()

	// No polling has run, so the starter entries carry no rate yet.
	if rr := do(t, s, http.MethodGet, "/v1/portfolio/currency/USD/history", ""); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("sparkline without rates = %d", rr.Code)
	}
	if rr := do(t, s, http.MethodGet, "/v1/portfolio/currency/ZZZ/history", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("sparkline for absent entry = %d", rr.Code)
	}
}

func TestGoldHistoryRoute_NoSnapshot(t *testing.T) {
	s := testServer()

	if rr := do(t, s, http.MethodGet, "/v1/gold/Gram/history", ""); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("history without snapshot = %d", rr.Code)
	}
	if rr := do(t, s, http.MethodGet, "/v1/gold/Nugget/history", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown instrument = %d", rr.Code)
	}
}
