package engine

import (
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/Reece236/StockMarketSim/internal/domain"
	"github.com/Reece236/StockMarketSim/internal/store"
)

// walkBand bounds the random-walk step applied to an instrument's price in
// a period with no fills: price moves by a uniform factor in ±walkBand.
const walkBand = 0.01

// Matcher clears one instrument's period book at a time: price-time
// priority matching with partial fills, mid-price execution, settlement
// against both counterparties' ledgers, and price formation from the VWAP
// of the period's fills.
type Matcher struct {
	traders *store.TraderStore
	fills   *store.FillStore
	rng     *rand.Rand
}

// NewMatcher creates a Matcher. The rand source is owned by the market
// orchestrator so runs are deterministic given a seed.
func NewMatcher(traders *store.TraderStore, fills *store.FillStore, rng *rand.Rand) *Matcher {
	return &Matcher{traders: traders, fills: fills, rng: rng}
}

// leg is the active order on one side of the match loop. Remaining
// quantity lives here, not on the order, so resting orders are never
// mutated in place; a partially consumed leg stays active and therefore
// keeps front-of-queue priority.
type leg struct {
	entry     BookEntry
	remaining int64
}

// Clear runs the double-auction pass for one instrument and forms its new
// reference price. It is called exactly once per instrument per period,
// including for instruments with an empty book, so the price history grows
// by exactly one entry either way.
//
// Matching repeats while both queues are non-empty: if the best buy's
// limit is at or above the best sell's, they trade at the mid of the two
// limits for the smaller remaining quantity; otherwise no further match is
// possible and the pass stops. Every fill is settled immediately against
// both ledgers; a fill either applies to both counterparties or to
// neither.
func (m *Matcher) Clear(inst *domain.Instrument, book *Book, period int) []*domain.Fill {
	var fills []*domain.Fill

	buy, okBuy := nextLeg(book.PopBestBuy)
	sell, okSell := nextLeg(book.PopBestSell)
	for okBuy && okSell {
		if buy.entry.Price < sell.entry.Price {
			break
		}

		price := (buy.entry.Price + sell.entry.Price) / 2
		quantity := min(buy.remaining, sell.remaining)

		fill := &domain.Fill{
			FillID:     uuid.New().String(),
			Instrument: inst.ID,
			BuyerID:    buy.entry.Order.TraderID,
			SellerID:   sell.entry.Order.TraderID,
			Price:      price,
			Quantity:   quantity,
			Period:     period,
		}
		m.settle(fill)
		fills = append(fills, fill)
		m.fills.Append(inst.ID, fill)

		buy.remaining -= quantity
		sell.remaining -= quantity
		if buy.remaining == 0 {
			buy, okBuy = nextLeg(book.PopBestBuy)
		}
		if sell.remaining == 0 {
			sell, okSell = nextLeg(book.PopBestSell)
		}
	}

	m.reprice(inst, fills)
	return fills
}

// nextLeg pops the next entry from one side of the book and wraps it with
// its full quantity remaining.
func nextLeg(pop func() (BookEntry, bool)) (leg, bool) {
	entry, ok := pop()
	if !ok {
		return leg{}, false
	}
	return leg{entry: entry, remaining: entry.Order.Quantity}, true
}

// settle applies a fill to both counterparties, or to neither. Both legs
// are pre-checked so a buyer who cannot pay, or a seller who no longer
// holds the shares, drops the whole fill rather than leaving one ledger
// half-updated. The dropped fill stays in the fill history with the
// rejection reason. Shares move seller → buyer; the buy and sell legs move
// the instrument's unallocated float inversely, so a two-sided fill nets
// it to zero and total shares in existence are conserved.
func (m *Matcher) settle(fill *domain.Fill) {
	buyer, err := m.traders.Get(fill.BuyerID)
	if err != nil {
		fill.Reason = domain.ErrTraderNotFound.Error()
		return
	}
	seller, err := m.traders.Get(fill.SellerID)
	if err != nil {
		fill.Reason = domain.ErrTraderNotFound.Error()
		return
	}

	if !buyer.CanBuy(fill.Quantity, fill.Price) {
		fill.Reason = domain.ErrInsufficientCash.Error()
		return
	}
	if !seller.CanSell(fill.Instrument, fill.Quantity) {
		fill.Reason = domain.ErrInsufficientHoldings.Error()
		return
	}

	if err := seller.Settle(domain.SideSell, fill.Instrument, fill.Quantity, fill.Price); err != nil {
		fill.Reason = err.Error()
		return
	}
	if err := buyer.Settle(domain.SideBuy, fill.Instrument, fill.Quantity, fill.Price); err != nil {
		// Unreachable after CanBuy, but an insolvent buyer at this point
		// must hand the shares straight back rather than strand them.
		_ = seller.Settle(domain.SideBuy, fill.Instrument, fill.Quantity, fill.Price)
		fill.Reason = err.Error()
		return
	}
	fill.Applied = true
}

// reprice forms the instrument's new reference price and appends it to the
// history. With fills, the price is the volume-weighted average of the
// period's fill prices (a NaN VWAP retains the previous price). With no
// fills, the price takes a bounded random-walk step, recovering from a NaN
// previous price via the last known good trade price.
func (m *Matcher) reprice(inst *domain.Instrument, fills []*domain.Fill) {
	var notional float64
	var volume int64
	for _, f := range fills {
		notional += f.Notional()
		volume += f.Quantity
	}

	switch {
	case len(fills) > 0:
		vwap := notional / float64(volume)
		if math.IsNaN(vwap) {
			inst.RecordPrice(inst.Price)
			return
		}
		inst.LastTrade = vwap
		inst.RecordPrice(vwap)
	case domain.ValidPrice(inst.Price):
		step := 1 + (m.rng.Float64()*2-1)*walkBand
		inst.RecordPrice(inst.Price * step)
	default:
		inst.RecordPrice(inst.LastTrade)
	}
}
