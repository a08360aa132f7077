package strategies

import (
	"context"

	"github.com/Xyxl1kalgo/Backtester-engine/indicators"
	"github.com/Xyxl1kalgo/Backtester-engine/market"
	"github.com/Xyxl1kalgo/Backtester-engine/sim"
)

// EmaCross trades a fast/slow EMA crossover over candle closes.
// - Enters only on a cross
// - Reverses on the opposite cross (close, then open while flat)
type EmaCross struct {
	Fraction float64

	fast *indicators.ExponentialMA
	slow *indicators.ExponentialMA

	lastDiff     float64
	haveLastDiff bool
}

func NewEmaCross(fast, slow int, fraction float64) *EmaCross {
	if fast <= 0 {
		fast = 10
	}
	if slow <= fast {
		slow = fast * 3
	}
	if fraction <= 0 || fraction > 1 {
		fraction = 1.0
	}

	return &EmaCross{
		Fraction: fraction,
		fast:     indicators.NewEMA(fast),
		slow:     indicators.NewEMA(slow),
	}
}

func (s *EmaCross) OnCandle(ctx context.Context, t Trader, c market.Candle) error {
	_ = ctx

	s.fast.Update(c)
	s.slow.Update(c)

	// Wait until both EMAs are warmed up.
	if !s.fast.Ready() || !s.slow.Ready() {
		return nil
	}

	diff := s.fast.Value() - s.slow.Value()

	// Need a previous diff to detect a cross.
	if !s.haveLastDiff {
		s.lastDiff = diff
		s.haveLastDiff = true
		return nil
	}

	bullCross := diff > 0 && s.lastDiff <= 0
	bearCross := diff < 0 && s.lastDiff >= 0
	s.lastDiff = diff

	switch {
	case bullCross:
		if t.Side() == sim.Short {
			if _, err := t.CloseShort(c.Time, c.Close); err != nil {
				return err
			}
		}
		if t.Side() == sim.Flat {
			_, err := t.OpenLong(c.Time, c.Close, s.Fraction)
			return err
		}

	case bearCross:
		if t.Side() == sim.Long {
			if _, err := t.CloseLong(c.Time, c.Close); err != nil {
				return err
			}
		}
		if t.Side() == sim.Flat {
			_, err := t.OpenShort(c.Time, c.Close, s.Fraction)
			return err
		}
	}
	return nil
}
