package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nowmarket/internal/market"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*Server, *market.Market) {
	t.Helper()
	m := market.New(market.Config{Seed: 1}, nil)
	return New(nil, m), m
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestMarketSnapshotEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/v1/market", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var snap market.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Companies) == 0 || len(snap.Indices) == 0 {
		t.Fatalf("empty snapshot: %s", rec.Body)
	}
	if snap.Balance <= 0 {
		t.Fatalf("balance %v", snap.Balance)
	}
}

func TestStockDetailEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/v1/stocks/NOVA", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, s.Handler(), http.MethodGet, "/v1/stocks/NOPE", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown company: status %d", rec.Code)
	}
}

func TestOrderEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/orders",
		map[string]any{"company_id": "NOVA", "side": "buy", "shares": 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("buy status %d: %s", rec.Code, rec.Body)
	}
	var receipt market.Receipt
	if err := json.Unmarshal(rec.Body.Bytes(), &receipt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if receipt.Shares != 5 || receipt.Side != "buy" {
		t.Fatalf("receipt %+v", receipt)
	}

	rec = doJSON(t, s.Handler(), http.MethodPost, "/v1/orders",
		map[string]any{"company_id": "NOVA", "side": "hold", "shares": 5})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad side: status %d", rec.Code)
	}

	rec = doJSON(t, s.Handler(), http.MethodPost, "/v1/orders",
		map[string]any{"company_id": "NOVA", "side": "sell", "shares": 50})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("oversell: status %d: %s", rec.Code, rec.Body)
	}
}

func TestBetEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/bets",
		map[string]any{"company_id": "BYTE", "direction": "UP", "stake": 50})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var out struct {
		BetID   string  `json:"bet_id"`
		Balance float64 `json:"balance"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.BetID == "" {
		t.Fatalf("missing bet id")
	}

	rec = doJSON(t, s.Handler(), http.MethodPost, "/v1/bets",
		map[string]any{"company_id": "BYTE", "direction": "sideways", "stake": 50})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad direction: status %d", rec.Code)
	}
}

func TestCompanyActionRequiresControl(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/stocks/NOVA/actions", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
}

func TestWatchlistEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/watchlist/FZZY", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "true") {
		t.Fatalf("expected watching=true: %s", rec.Body)
	}
}

func TestNewsStream(t *testing.T) {
	s, m := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/news/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Give the handler a moment to subscribe, then tick long enough to
	// guarantee at least one headline.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5000; i++ {
		m.Tick()
	}

	var item market.NewsItem
	if err := conn.ReadJSON(&item); err != nil {
		t.Fatalf("read: %v", err)
	}
	if item.Headline == "" {
		t.Fatalf("empty headline: %+v", item)
	}
}
