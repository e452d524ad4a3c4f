package domain

// Sector tags an instrument for presentation grouping.
type Sector string

const (
	SectorTech    Sector = "tech"
	SectorEnergy  Sector = "energy"
	SectorFinance Sector = "finance"
	SectorHealth  Sector = "health"
	SectorRetail  Sector = "retail"
)

// Sectors lists all known sector tags in a fixed order.
var Sectors = []Sector{SectorTech, SectorEnergy, SectorFinance, SectorHealth, SectorRetail}

// Instrument is one listed security. Price and the share counters are
// mutated only by the matching engine during settlement; History grows by
// exactly one entry per simulated period.
type Instrument struct {
	ID          string
	Price       float64 // NaN when undefined
	LastTrade   float64 // most recent trade-formed price, used to recover from NaN
	Outstanding int64   // total shares in existence, constant after creation
	Available   int64   // unallocated float, moves inversely with net buy/sell pressure
	Sector      Sector
	Risk        float64 // risk coefficient in [0,1]
	History     []float64
}

// NewInstrument creates an instrument with its initial price as the first
// history entry and the full share count sitting in the unallocated float.
func NewInstrument(id string, price float64, quantity int64, sector Sector, risk float64) *Instrument {
	return &Instrument{
		ID:          id,
		Price:       price,
		LastTrade:   price,
		Outstanding: quantity,
		Available:   quantity,
		Sector:      sector,
		Risk:        risk,
		History:     []float64{price},
	}
}

// RecordPrice sets the current price and appends it to the history. Called
// exactly once per instrument per period, whichever pricing branch ran.
func (i *Instrument) RecordPrice(p float64) {
	i.Price = p
	i.History = append(i.History, p)
}

// Periods returns the number of periods the instrument has been through.
func (i *Instrument) Periods() int {
	return len(i.History) - 1
}
