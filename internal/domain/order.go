package domain

// Side indicates whether an order is a buy or a sell.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Order is a single-period intent to trade: quantity at a limit price for
// one instrument, owned by one trader. Orders are created fresh by traders
// each period, consumed by the matching engine within the same period, and
// never carried forward. The engine tracks remaining quantity in its own
// accounting; the order itself is never mutated after placement.
type Order struct {
	Side       Side
	Instrument string
	Quantity   int64
	Price      float64 // limit price from the owner's valuation; may be invalid
	TraderID   string
}
