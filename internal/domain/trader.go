package domain

import (
	"math"
	"math/rand"
	"sort"
	"sync"
)

// riskUpdateWeight scales realized net portfolio performance when it is
// folded into the risk-tolerance running average.
const riskUpdateWeight = 0.1

// InstrumentLookup resolves instruments during trader decision making.
// List must return instruments in a deterministic (ID-sorted) order.
type InstrumentLookup interface {
	Get(id string) (*Instrument, bool)
	List() []*Instrument
}

// Trader is an autonomous market participant with a cash and position
// ledger. Cash and positions are mutated only through Settle; valuation
// noise is seeded once at bootstrap and never changes during a run.
type Trader struct {
	ID             string
	Cash           float64
	Positions      map[string]int64   // instrument id → held quantity, no zero entries
	Noise          map[string]float64 // instrument id → private valuation noise term
	RiskTolerance  float64
	PortfolioValue float64
	Age            int

	// Mu serializes ledger mutations. The period cycle is sequential, but
	// the presentation layer may read standings while a run is in flight.
	Mu sync.Mutex
}

// NewTrader creates a trader with an initial cash endowment and a
// bootstrap-seeded risk tolerance.
func NewTrader(id string, cash, riskTolerance float64) *Trader {
	return &Trader{
		ID:            id,
		Cash:          cash,
		Positions:     make(map[string]int64),
		Noise:         make(map[string]float64),
		RiskTolerance: riskTolerance,
	}
}

// SeedNoise stores the trader's private valuation noise term for one
// instrument. Called once per instrument at bootstrap.
func (t *Trader) SeedNoise(instrumentID string, noise float64) {
	t.Noise[instrumentID] = noise
}

// Valuation is the trader's subjective fair-value estimate for an
// instrument: the public price blended toward the private noise term,
// weighted by the instrument's risk coefficient. An undefined public price
// yields exactly 0 so downstream bid/ask computations stay well-defined.
func (t *Trader) Valuation(inst *Instrument) float64 {
	if !ValidPrice(inst.Price) {
		return 0
	}
	noise := t.Noise[inst.ID]
	return (inst.Price*(1-inst.Risk) + noise*inst.Risk) / (1 + inst.Risk)
}

// Offers emits one sell order per held instrument, at the trader's
// valuation for the full current holding. Holdings whose ask would be
// non-positive or undefined are skipped.
func (t *Trader) Offers(instruments InstrumentLookup) []*Order {
	ids := t.heldIDs()
	orders := make([]*Order, 0, len(ids))
	for _, id := range ids {
		inst, ok := instruments.Get(id)
		if !ok {
			continue
		}
		ask := t.Valuation(inst)
		if math.IsNaN(ask) || ask <= 0 {
			continue
		}
		orders = append(orders, &Order{
			Side:       SideSell,
			Instrument: id,
			Quantity:   t.Positions[id],
			Price:      ask,
			TraderID:   t.ID,
		})
	}
	return orders
}

// Bid picks one listed instrument uniformly at random and emits a buy
// order priced at the trader's private valuation but sized by the public
// price: quantity = floor(cash / public price). The asymmetry is
// deliberate — the trader may be willing to pay more or less than market,
// but affordability is constrained by what shares currently cost. Returns
// nil when the valuation or public price is unusable or nothing is
// affordable.
func (t *Trader) Bid(instruments InstrumentLookup, rng *rand.Rand) *Order {
	listed := instruments.List()
	if len(listed) == 0 {
		return nil
	}
	inst := listed[rng.Intn(len(listed))]

	bid := t.Valuation(inst)
	if math.IsNaN(bid) || bid <= 0 {
		return nil
	}
	if !ValidPrice(inst.Price) || t.Cash < inst.Price {
		return nil
	}
	quantity := int64(math.Floor(t.Cash / inst.Price))
	if quantity <= 0 {
		return nil
	}
	return &Order{
		Side:       SideBuy,
		Instrument: inst.ID,
		Quantity:   quantity,
		Price:      bid,
		TraderID:   t.ID,
	}
}

// CanBuy reports whether the trader can pay for quantity shares at price.
func (t *Trader) CanBuy(quantity int64, price float64) bool {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.Cash >= price*float64(quantity)
}

// CanSell reports whether the trader holds at least quantity shares of the
// instrument.
func (t *Trader) CanSell(instrumentID string, quantity int64) bool {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.Positions[instrumentID] >= quantity
}

// Settle applies one leg of a fill to the ledger. A buy the trader cannot
// pay for, or a sell of more shares than the trader holds, is rejected
// without any partial application — cash is never left partially deducted.
// A position decremented to exactly 0 is removed from the ledger.
func (t *Trader) Settle(side Side, instrumentID string, quantity int64, price float64) error {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	switch side {
	case SideBuy:
		cost := price * float64(quantity)
		if t.Cash < cost {
			return ErrInsufficientCash
		}
		t.Cash -= cost
		t.Positions[instrumentID] += quantity
	case SideSell:
		if t.Positions[instrumentID] < quantity {
			return ErrInsufficientHoldings
		}
		t.Cash += price * float64(quantity)
		t.Positions[instrumentID] -= quantity
		if t.Positions[instrumentID] == 0 {
			delete(t.Positions, instrumentID)
		}
	}
	return nil
}

// UpdateState recomputes portfolio value from current public prices and
// folds realized performance into the risk-tolerance running average:
//
//	risk = (risk·age + (portfolio − cash)·k) / (age + 1)
//
// The update is O(1) per period; the first period keeps the
// bootstrap-seeded tolerance. Positions in instruments whose price is
// undefined contribute 0.
func (t *Trader) UpdateState(instruments InstrumentLookup) {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	value := 0.0
	for id, quantity := range t.Positions {
		inst, ok := instruments.Get(id)
		if !ok || !ValidPrice(inst.Price) {
			continue
		}
		value += inst.Price * float64(quantity)
	}
	t.PortfolioValue = value

	if t.Age > 0 {
		age := float64(t.Age)
		t.RiskTolerance = (t.RiskTolerance*age + (value-t.Cash)*riskUpdateWeight) / (age + 1)
	}
	t.Age++
}

// heldIDs returns the trader's position instrument IDs in sorted order so
// order placement is deterministic.
func (t *Trader) heldIDs() []string {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	ids := make([]string, 0, len(t.Positions))
	for id := range t.Positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
