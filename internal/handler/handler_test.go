package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Reece236/StockMarketSim/internal/domain"
	"github.com/Reece236/StockMarketSim/internal/service"
	"github.com/Reece236/StockMarketSim/internal/store"
)

func newTestRouter(t *testing.T) (http.Handler, *store.Registry) {
	t.Helper()
	reg := store.NewRegistry()
	traders := store.NewTraderStore()
	fills := store.NewFillStore()

	_ = reg.Add(domain.NewInstrument("RC-01", 100, 1000, domain.SectorTech, 0.2))
	tr := domain.NewTrader("t1", 500, 0.4)
	tr.Positions["RC-01"] = 2
	_ = traders.Add(tr)

	query := service.NewQueryService(reg, traders, fills)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(query, nil, logger), reg
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := get(t, router, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestListInstruments(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := get(t, router, "/instruments")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body[0]["id"] != "RC-01" {
		t.Fatalf("body = %v", body)
	}
	if body[0]["price"].(float64) != 100 {
		t.Errorf("price = %v, want 100", body[0]["price"])
	}
}

func TestGetInstrument_UndefinedPriceEncodesAsNull(t *testing.T) {
	router, reg := newTestRouter(t)
	inst, _ := reg.Get("RC-01")
	inst.Price = math.NaN()

	rec := get(t, router, "/instruments/RC-01")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["price"] != nil {
		t.Errorf("price = %v, want null", body["price"])
	}
}

func TestGetInstrument_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := get(t, router, "/instruments/RC-99")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "instrument_not_found" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestGetHistory(t *testing.T) {
	router, reg := newTestRouter(t)
	inst, _ := reg.Get("RC-01")
	inst.RecordPrice(101)

	rec := get(t, router, "/instruments/RC-01/history")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		InstrumentID string     `json:"instrument_id"`
		History      []*float64 `json:"history"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.InstrumentID != "RC-01" || len(body.History) != 2 {
		t.Fatalf("body = %+v", body)
	}
}

func TestListTraders(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := get(t, router, "/traders")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body[0]["id"] != "t1" {
		t.Fatalf("body = %v", body)
	}
	positions := body[0]["positions"].(map[string]any)
	if positions["RC-01"].(float64) != 2 {
		t.Errorf("positions = %v", positions)
	}
}

func TestListSectors(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := get(t, router, "/sectors")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := body["tech"]; len(got) != 1 || got[0] != "RC-01" {
		t.Errorf("sectors = %v", body)
	}
}

func TestNoStreamRouteWithoutHub(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := get(t, router, "/ws")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when no hub attached", rec.Code)
	}
}
