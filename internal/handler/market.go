package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Reece236/StockMarketSim/internal/domain"
	"github.com/Reece236/StockMarketSim/internal/service"
)

// MarketHandler serves read-only views of the simulation for presentation
// collaborators. It never mutates market state.
type MarketHandler struct {
	query *service.QueryService
}

// NewMarketHandler creates a MarketHandler over the given query service.
func NewMarketHandler(query *service.QueryService) *MarketHandler {
	return &MarketHandler{query: query}
}

// instrumentResponse is the JSON view of one instrument.
type instrumentResponse struct {
	ID          string   `json:"id"`
	Price       *float64 `json:"price"`
	LastTrade   *float64 `json:"last_trade"`
	Sector      string   `json:"sector"`
	Risk        float64  `json:"risk"`
	Outstanding int64    `json:"outstanding"`
	Available   int64    `json:"available"`
	Periods     int      `json:"periods"`
}

// traderResponse is the JSON view of one trader's standing.
type traderResponse struct {
	ID             string           `json:"id"`
	Cash           float64          `json:"cash"`
	PortfolioValue float64          `json:"portfolio_value"`
	RiskTolerance  float64          `json:"risk_tolerance"`
	Age            int              `json:"age"`
	Positions      map[string]int64 `json:"positions"`
}

// fillResponse is the JSON view of one fill, dropped fills included.
type fillResponse struct {
	FillID   string  `json:"fill_id"`
	BuyerID  string  `json:"buyer_id"`
	SellerID string  `json:"seller_id"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Period   int     `json:"period"`
	Applied  bool    `json:"applied"`
	Reason   string  `json:"reason,omitempty"`
}

// ListInstruments handles GET /instruments.
func (h *MarketHandler) ListInstruments(w http.ResponseWriter, r *http.Request) {
	summaries := h.query.Instruments()
	out := make([]instrumentResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, toInstrumentResponse(s))
	}
	WriteJSON(w, http.StatusOK, out)
}

// GetInstrument handles GET /instruments/{instrument_id}.
func (h *MarketHandler) GetInstrument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "instrument_id")
	summary, err := h.query.Instrument(id)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toInstrumentResponse(summary))
}

// GetHistory handles GET /instruments/{instrument_id}/history.
func (h *MarketHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "instrument_id")
	history, err := h.query.History(id)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"instrument_id": id,
		"history":       history,
	})
}

// GetFills handles GET /instruments/{instrument_id}/fills.
func (h *MarketHandler) GetFills(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "instrument_id")
	fills, err := h.query.Fills(id)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	out := make([]fillResponse, 0, len(fills))
	for _, f := range fills {
		out = append(out, fillResponse{
			FillID:   f.FillID,
			BuyerID:  f.BuyerID,
			SellerID: f.SellerID,
			Price:    f.Price,
			Quantity: f.Quantity,
			Period:   f.Period,
			Applied:  f.Applied,
			Reason:   f.Reason,
		})
	}
	WriteJSON(w, http.StatusOK, out)
}

// ListTraders handles GET /traders.
func (h *MarketHandler) ListTraders(w http.ResponseWriter, r *http.Request) {
	standings := h.query.Standings()
	out := make([]traderResponse, 0, len(standings))
	for _, s := range standings {
		out = append(out, traderResponse{
			ID:             s.ID,
			Cash:           s.Cash,
			PortfolioValue: s.PortfolioValue,
			RiskTolerance:  s.RiskTolerance,
			Age:            s.Age,
			Positions:      s.Positions,
		})
	}
	WriteJSON(w, http.StatusOK, out)
}

// ListSectors handles GET /sectors.
func (h *MarketHandler) ListSectors(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.query.Sectors())
}

func toInstrumentResponse(s service.InstrumentSummary) instrumentResponse {
	return instrumentResponse{
		ID:          s.ID,
		Price:       s.Price,
		LastTrade:   s.LastTrade,
		Sector:      string(s.Sector),
		Risk:        s.Risk,
		Outstanding: s.Outstanding,
		Available:   s.Available,
		Periods:     s.Periods,
	}
}

func writeQueryError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInstrumentNotFound) {
		WriteError(w, http.StatusNotFound, domain.ErrInstrumentNotFound.Error(), "instrument not found")
		return
	}
	WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
}
