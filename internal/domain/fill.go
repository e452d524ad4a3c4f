package domain

// Fill is one matched quantity between a buy and a sell order at an agreed
// trade price. Applied records whether settlement actually moved cash and
// shares; a fill dropped at settlement keeps Applied false and carries the
// reason so callers can audit why an order's match vanished.
type Fill struct {
	FillID     string
	Instrument string
	BuyerID    string
	SellerID   string
	Price      float64
	Quantity   int64
	Period     int
	Applied    bool
	Reason     string // empty when applied
}

// Notional returns price × quantity for the fill.
func (f *Fill) Notional() float64 {
	return f.Price * float64(f.Quantity)
}
