package domain

import "errors"

// Sentinel errors for domain-level error handling. Recoverable numeric
// conditions (NaN or negative prices) are never surfaced as errors; they
// are absorbed in place by the valuation and pricing code.
var (
	ErrMarketClosed         = errors.New("market_closed")
	ErrInsufficientCash     = errors.New("insufficient_cash")
	ErrInsufficientHoldings = errors.New("insufficient_holdings")
	ErrInsufficientFloat    = errors.New("insufficient_float")
	ErrInstrumentNotFound   = errors.New("instrument_not_found")
	ErrInstrumentExists     = errors.New("instrument_already_exists")
	ErrTraderNotFound       = errors.New("trader_not_found")
	ErrTraderExists         = errors.New("trader_already_exists")
	ErrEmptyUniverse        = errors.New("empty_instrument_universe")
	ErrNoTraders            = errors.New("no_traders")
)
