// Package backtest drives the candle-by-candle replay: each candle is
// handed to the strategy, then exactly one equity sample is taken at
// the candle's close.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/Xyxl1kalgo/Backtester-engine/market"
	"github.com/Xyxl1kalgo/Backtester-engine/sim"
	"github.com/Xyxl1kalgo/Backtester-engine/strategies"
)

// Compile-time check: the engine satisfies the capability interface
// handed to strategies.
var _ strategies.Trader = (*sim.Engine)(nil)

// Result is a lightweight summary of one replay.
type Result struct {
	Candles int
	Start   time.Time
	End     time.Time

	FinalBalance float64
	FinalEquity  float64 // marked at the last candle's close

	// Open position at end of feed, if any. The engine never
	// auto-closes; the position's value is reported here, separate
	// from realized PnL in the trade log.
	OpenPosition float64
	EntryPrice   float64
	OpenValue    float64 // OpenPosition x last close
	LastClose    float64
}

// Runner owns the engine and the strategy for one run and replays the
// feed through them.
type Runner struct {
	Engine   *sim.Engine
	Feed     CandleFeed
	Strategy strategies.CandleStrategy
}

// Run executes the replay loop:
//  1. read the next candle, enforcing strictly increasing timestamps
//  2. strategy.OnCandle(ctx, engine, candle)
//  3. engine.MarkToMarket at the candle's close
//
// The run ends at EOF, or early with an error when the strategy or an
// order operation fails fatally (sim.ErrShortCloseShortfall).
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Engine == nil {
		return Result{}, fmt.Errorf("backtest: Engine is required")
	}
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	if r.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: Strategy is required")
	}
	defer r.Feed.Close()

	var res Result
	var prev time.Time

	for {
		c, ok, err := r.Feed.Next()
		if err != nil {
			return res, err
		}
		if !ok {
			break
		}

		if !prev.IsZero() && !c.Time.After(prev) {
			return res, fmt.Errorf("backtest: candle at %s out of order (previous %s)",
				c.Time.Format(time.RFC3339), prev.Format(time.RFC3339))
		}
		prev = c.Time

		if res.Candles == 0 {
			res.Start = c.Time
		}
		res.Candles++
		res.End = c.Time

		if err := r.Strategy.OnCandle(ctx, r.Engine, c); err != nil {
			return res, fmt.Errorf("strategy at %s: %w", c.Time.Format(time.RFC3339), err)
		}

		equity, err := r.Engine.MarkToMarket(c.Time, c.Close)
		if err != nil {
			return res, err
		}
		res.FinalEquity = equity
		res.LastClose = c.Close
	}

	res.FinalBalance = r.Engine.Balance()
	res.OpenPosition = r.Engine.PositionSize()
	res.EntryPrice = r.Engine.EntryPrice()
	res.OpenValue = res.OpenPosition * res.LastClose

	if res.Candles == 0 {
		res.FinalEquity = r.Engine.Balance()
	}
	return res, nil
}

// RunSeries is a convenience wrapper that validates a candle slice and
// replays it.
func (r *Runner) RunSeries(ctx context.Context, candles []market.Candle) (Result, error) {
	if err := market.ValidateSeries(candles); err != nil {
		return Result{}, fmt.Errorf("backtest: %w", err)
	}
	r.Feed = NewSliceFeed(candles)
	return r.Run(ctx)
}
