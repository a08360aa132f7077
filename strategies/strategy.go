package strategies

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Xyxl1kalgo/Backtester-engine/market"
	"github.com/Xyxl1kalgo/Backtester-engine/sim"
)

// Trader is the restricted engine view handed to a strategy inside
// OnCandle: read accessors plus the four order operations, all dated
// at the current candle's timestamp. Order operations signal an
// ordinary rejection as (false, nil); strategies must treat that as
// "order rejected" and carry on. A non-nil error ends the run.
type Trader interface {
	Balance() float64
	PositionSize() float64
	EntryPrice() float64
	Side() sim.Side

	OpenLong(ts time.Time, price, fraction float64) (bool, error)
	CloseLong(ts time.Time, price float64) (bool, error)
	OpenShort(ts time.Time, price, fraction float64) (bool, error)
	CloseShort(ts time.Time, price float64) (bool, error)
}

// CandleStrategy is the capability a pluggable decision policy must
// implement. It is called once per candle in replay order.
type CandleStrategy interface {
	OnCandle(ctx context.Context, t Trader, c market.Candle) error
}

// StrategyByName builds a strategy from its CLI/config name.
func StrategyByName(name string, fraction float64, fast, slow int) (CandleStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return NoopStrategy{}, nil

	case "flip", "candle-flip":
		return NewFlip(fraction), nil

	case "ema-cross", "emacross":
		return NewEmaCross(fast, slow, fraction), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, flip, ema-cross)", name)
	}
}
