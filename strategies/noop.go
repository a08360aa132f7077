package strategies

import (
	"context"

	"github.com/Xyxl1kalgo/Backtester-engine/market"
)

// NoopStrategy does nothing.
type NoopStrategy struct{}

func (NoopStrategy) OnCandle(ctx context.Context, t Trader, c market.Candle) error {
	_ = ctx
	_ = t
	_ = c
	return nil
}
