package market

import (
	"log/slog"
	"math/rand"
	"sort"
	"sync"

	"github.com/Reece236/StockMarketSim/internal/domain"
	"github.com/Reece236/StockMarketSim/internal/engine"
	"github.com/Reece236/StockMarketSim/internal/store"
)

// Action is an interactive decision for one held instrument.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionHold Action = "hold"
	ActionSell Action = "sell"
)

// Advisor supplies interactive decisions for a designated trader, invoked
// once per period per held instrument after the matching pass. It must
// return promptly; no other agent's matching ever waits on it. Decisions
// execute at the instrument's public price through the same settle
// contract as automated orders.
type Advisor interface {
	Decide(trader *domain.Trader, inst *domain.Instrument) (Action, int64)
}

// Publisher receives one report per simulated period, for streaming or
// logging collaborators. Implementations must not block.
type Publisher interface {
	Publish(v any)
}

// PeriodReport summarizes one simulated trading day.
type PeriodReport struct {
	Period  int   `json:"period"`
	Fills   int   `json:"fills"`
	Dropped int   `json:"dropped"`
	Volume  int64 `json:"volume"`
}

// Market owns the instrument registry, the traders, and the per-period
// order book, and drives the daily cycle: collect orders, match, settle,
// update trader state. A single open/closed flag gates whether a period
// may run. The entire cycle is one deterministic sequential pass; the
// matcher and traders operate on borrowed references and retain nothing
// across periods.
type Market struct {
	mu          sync.Mutex
	open        bool
	period      int
	instruments *store.Registry
	traders     *store.TraderStore
	fills       *store.FillStore
	book        *engine.PeriodBook
	matcher     *engine.Matcher
	rng         *rand.Rand
	logger      *slog.Logger

	advisor  Advisor
	advisee  string
	reporter Publisher
}

// Option configures optional market collaborators.
type Option func(*Market)

// WithAdvisor attaches an interactive decision hook for the trader with
// the given ID.
func WithAdvisor(a Advisor, traderID string) Option {
	return func(m *Market) {
		m.advisor = a
		m.advisee = traderID
	}
}

// WithPublisher attaches a per-period report publisher.
func WithPublisher(p Publisher) Option {
	return func(m *Market) {
		m.reporter = p
	}
}

// New creates a Market over an already-bootstrapped universe and
// population. An empty instrument universe or a zero-trader population is
// a configuration error the run cannot recover from.
func New(
	instruments *store.Registry,
	traders *store.TraderStore,
	fills *store.FillStore,
	rng *rand.Rand,
	logger *slog.Logger,
	opts ...Option,
) (*Market, error) {
	if instruments.Count() == 0 {
		return nil, domain.ErrEmptyUniverse
	}
	if traders.Count() == 0 {
		return nil, domain.ErrNoTraders
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Market{
		instruments: instruments,
		traders:     traders,
		fills:       fills,
		book:        engine.NewPeriodBook(),
		matcher:     engine.NewMatcher(traders, fills, rng),
		rng:         rng,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Open opens the market for trading.
func (m *Market) Open() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
}

// Close closes the market. Subsequent periods are reported no-ops.
func (m *Market) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
}

// IsOpen reports whether the market is open.
func (m *Market) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Period returns the number of periods simulated so far.
func (m *Market) Period() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.period
}

// SimulatePeriod runs one trading day. While closed it alters nothing and
// returns domain.ErrMarketClosed, which callers treat as a status rather
// than a fault.
//
// The cycle: clear the book, collect every trader's sell offers and at
// most one bid, clear each instrument's queues through the matching
// engine (instruments with no orders still take their random-walk price
// step), run the interactive hook if one is attached, recompute every
// trader's derived state, and clear the book again.
func (m *Market) SimulatePeriod() (*PeriodReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		m.logger.Warn("period skipped", slog.String("reason", domain.ErrMarketClosed.Error()))
		return nil, domain.ErrMarketClosed
	}

	m.book.Reset()

	for _, t := range m.traders.List() {
		for _, o := range t.Offers(m.instruments) {
			m.book.Add(o)
		}
		if o := t.Bid(m.instruments, m.rng); o != nil {
			m.book.Add(o)
		}
	}

	report := &PeriodReport{Period: m.period}
	for _, inst := range m.instruments.List() {
		for _, f := range m.matcher.Clear(inst, m.book.Get(inst.ID), m.period) {
			report.Fills++
			report.Volume += f.Quantity
			if !f.Applied {
				report.Dropped++
				m.logger.Debug("fill dropped",
					slog.String("instrument", f.Instrument),
					slog.String("reason", f.Reason),
				)
			}
		}
	}

	m.applyDecisions()

	for _, t := range m.traders.List() {
		t.UpdateState(m.instruments)
	}

	m.book.Reset()
	m.period++

	m.logger.Info("period complete",
		slog.Int("period", report.Period),
		slog.Int("fills", report.Fills),
		slog.Int("dropped", report.Dropped),
		slog.Int64("volume", report.Volume),
	)
	if m.reporter != nil {
		m.reporter.Publish(*report)
	}
	return report, nil
}

// SimulateHorizon runs n consecutive periods (a 252-period horizon is one
// trading year) and returns their reports. A closed market stops the
// horizon immediately with domain.ErrMarketClosed.
func (m *Market) SimulateHorizon(n int) ([]PeriodReport, error) {
	reports := make([]PeriodReport, 0, n)
	for i := 0; i < n; i++ {
		report, err := m.SimulatePeriod()
		if err != nil {
			return reports, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

// applyDecisions runs the interactive hook for the designated trader, one
// decision per held instrument, executed at the public price through the
// same settle contract as automated orders. Buys draw shares from the
// instrument's unallocated float and sells return them, so total shares in
// existence stay constant. Decisions that fail a ledger or float check are
// dropped, matching the engine's silent-drop settlement policy.
func (m *Market) applyDecisions() {
	if m.advisor == nil {
		return
	}
	trader, err := m.traders.Get(m.advisee)
	if err != nil {
		return
	}

	held := make([]string, 0, len(trader.Positions))
	for id := range trader.Positions {
		held = append(held, id)
	}
	sort.Strings(held)

	for _, id := range held {
		inst, ok := m.instruments.Get(id)
		if !ok {
			continue
		}
		action, quantity := m.advisor.Decide(trader, inst)
		if quantity <= 0 || !domain.ValidPrice(inst.Price) {
			continue
		}
		switch action {
		case ActionBuy:
			if inst.Available < quantity {
				continue
			}
			if trader.Settle(domain.SideBuy, id, quantity, inst.Price) == nil {
				inst.Available -= quantity
			}
		case ActionSell:
			if trader.Settle(domain.SideSell, id, quantity, inst.Price) == nil {
				inst.Available += quantity
			}
		}
	}
}
