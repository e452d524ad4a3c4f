package service

import (
	"sort"

	"github.com/Reece236/StockMarketSim/internal/domain"
	"github.com/Reece236/StockMarketSim/internal/store"
)

// InstrumentSummary is a read-only view of one instrument. Price pointers
// are nil when the underlying price is undefined, so summaries stay
// JSON-encodable (NaN has no JSON representation).
type InstrumentSummary struct {
	ID          string
	Price       *float64
	LastTrade   *float64
	Sector      domain.Sector
	Risk        float64
	Outstanding int64
	Available   int64
	Periods     int
}

// TraderStanding is a read-only view of one trader's final state.
type TraderStanding struct {
	ID             string
	Cash           float64
	PortfolioValue float64
	RiskTolerance  float64
	Age            int
	Positions      map[string]int64
}

// FillView is a read-only view of one fill.
type FillView struct {
	FillID   string
	BuyerID  string
	SellerID string
	Price    float64
	Quantity int64
	Period   int
	Applied  bool
	Reason   string
}

// QueryService exposes the simulation's state to presentation
// collaborators: instrument summaries and price histories, trader
// standings, sector groupings, and fill audit trails. All views are
// copies; nothing handed out aliases live simulation state.
type QueryService struct {
	instruments *store.Registry
	traders     *store.TraderStore
	fills       *store.FillStore
}

// NewQueryService creates a QueryService over the given stores.
func NewQueryService(instruments *store.Registry, traders *store.TraderStore, fills *store.FillStore) *QueryService {
	return &QueryService{instruments: instruments, traders: traders, fills: fills}
}

// Instruments returns summaries for every listed instrument, sorted by ID.
func (s *QueryService) Instruments() []InstrumentSummary {
	listed := s.instruments.List()
	out := make([]InstrumentSummary, 0, len(listed))
	for _, inst := range listed {
		out = append(out, summarize(inst))
	}
	return out
}

// Instrument returns the summary for one instrument.
func (s *QueryService) Instrument(id string) (InstrumentSummary, error) {
	inst, ok := s.instruments.Get(id)
	if !ok {
		return InstrumentSummary{}, domain.ErrInstrumentNotFound
	}
	return summarize(inst), nil
}

// History returns a copy of an instrument's full price series, first entry
// the initial price, one entry per period thereafter. Undefined prices
// appear as nil.
func (s *QueryService) History(id string) ([]*float64, error) {
	inst, ok := s.instruments.Get(id)
	if !ok {
		return nil, domain.ErrInstrumentNotFound
	}
	out := make([]*float64, len(inst.History))
	for i, p := range inst.History {
		out[i] = priceOut(p)
	}
	return out, nil
}

// Fills returns an instrument's fill history, dropped fills included.
func (s *QueryService) Fills(id string) ([]FillView, error) {
	if _, ok := s.instruments.Get(id); !ok {
		return nil, domain.ErrInstrumentNotFound
	}
	fills := s.fills.ByInstrument(id)
	out := make([]FillView, 0, len(fills))
	for _, f := range fills {
		out = append(out, FillView{
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
	return out, nil
}

// Standings returns every trader's current state, sorted by ID.
func (s *QueryService) Standings() []TraderStanding {
	traders := s.traders.List()
	out := make([]TraderStanding, 0, len(traders))
	for _, t := range traders {
		t.Mu.Lock()
		positions := make(map[string]int64, len(t.Positions))
		for id, quantity := range t.Positions {
			positions[id] = quantity
		}
		out = append(out, TraderStanding{
			ID:             t.ID,
			Cash:           t.Cash,
			PortfolioValue: t.PortfolioValue,
			RiskTolerance:  t.RiskTolerance,
			Age:            t.Age,
			Positions:      positions,
		})
		t.Mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sectors returns the sector → instrument-ID grouping.
func (s *QueryService) Sectors() map[domain.Sector][]string {
	return s.instruments.BySector()
}

func summarize(inst *domain.Instrument) InstrumentSummary {
	return InstrumentSummary{
		ID:          inst.ID,
		Price:       priceOut(inst.Price),
		LastTrade:   priceOut(inst.LastTrade),
		Sector:      inst.Sector,
		Risk:        inst.Risk,
		Outstanding: inst.Outstanding,
		Available:   inst.Available,
		Periods:     inst.Periods(),
	}
}

// priceOut maps an undefined price to nil for presentation.
func priceOut(p float64) *float64 {
	if !domain.ValidPrice(p) {
		return nil
	}
	v := p
	return &v
}
