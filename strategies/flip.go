package strategies

import (
	"context"

	"github.com/Xyxl1kalgo/Backtester-engine/market"
	"github.com/Xyxl1kalgo/Backtester-engine/sim"
)

// Flip is the reference policy: from flat, open long on a bullish
// candle and short on a bearish one; close a long on the first bearish
// candle and a short on the first bullish one. A reversal therefore
// takes two candles: close on this one, reopen on a later one.
type Flip struct {
	Fraction float64 // sizing fraction per open
}

func NewFlip(fraction float64) *Flip {
	if fraction <= 0 || fraction > 1 {
		fraction = 1.0
	}
	return &Flip{Fraction: fraction}
}

func (s *Flip) OnCandle(ctx context.Context, t Trader, c market.Candle) error {
	_ = ctx

	switch t.Side() {
	case sim.Flat:
		switch {
		case c.Bullish():
			_, err := t.OpenLong(c.Time, c.Close, s.Fraction)
			return err
		case c.Bearish():
			_, err := t.OpenShort(c.Time, c.Close, s.Fraction)
			return err
		}

	case sim.Long:
		if c.Bearish() {
			_, err := t.CloseLong(c.Time, c.Close)
			return err
		}

	case sim.Short:
		if c.Bullish() {
			_, err := t.CloseShort(c.Time, c.Close)
			return err
		}
	}
	return nil
}
