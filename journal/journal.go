// Package journal records the two append-only output logs of a
// simulation run: executed trades and per-candle equity samples.
package journal

import "time"

// Order kinds as stored in trade records.
const (
	KindOpenLong   = "OPEN_LONG"
	KindCloseLong  = "CLOSE_LONG"
	KindOpenShort  = "OPEN_SHORT"
	KindCloseShort = "CLOSE_SHORT"
)

// IsClose reports whether kind books realized PnL.
func IsClose(kind string) bool {
	return kind == KindCloseLong || kind == KindCloseShort
}

// IsOpen reports whether kind starts a new position.
func IsOpen(kind string) bool {
	return kind == KindOpenLong || kind == KindOpenShort
}

// TradeRecord is one executed order. Records are immutable once
// written; CashFlow is signed from the account's point of view
// (negative = cash out).
type TradeRecord struct {
	ID            string
	Time          time.Time
	Kind          string
	Price         float64
	Coins         float64 // signed base units acquired; zero for closes
	CashFlow      float64
	BalanceAfter  float64
	PositionAfter float64
	PnL           float64 // realized; zero for opens
}

// EquitySample is one mark-to-market point, taken once per candle at
// its close price.
type EquitySample struct {
	Time    time.Time
	Balance float64
	Equity  float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySample) error
	Close() error
}
