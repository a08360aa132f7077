package backtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xyxl1kalgo/Backtester-engine/journal"
	"github.com/Xyxl1kalgo/Backtester-engine/market"
	"github.com/Xyxl1kalgo/Backtester-engine/sim"
	"github.com/Xyxl1kalgo/Backtester-engine/strategies"
)

// errorFeed returns an error on Next()
type errorFeed struct{}

func (e *errorFeed) Next() (market.Candle, bool, error) {
	return market.Candle{}, false, errors.New("mock error")
}

func (e *errorFeed) Close() error { return nil }

// countingStrategy tracks OnCandle calls
type countingStrategy struct {
	candles int
	fail    bool
}

func (s *countingStrategy) OnCandle(ctx context.Context, t strategies.Trader, c market.Candle) error {
	s.candles++
	if s.fail {
		return errors.New("strategy failed")
	}
	return nil
}

func newRunEngine(t *testing.T, balance, fee float64) (*sim.Engine, *journal.Memory) {
	t.Helper()
	j := journal.NewMemory()
	e, err := sim.NewEngine(sim.Config{
		InitialBalance: balance,
		Fee:            fee,
		MinOrder:       sim.DefaultMinOrder,
	}, j, nil)
	require.NoError(t, err)
	return e, j
}

func candleSeries(n int, start time.Time, closes ...float64) []market.Candle {
	out := make([]market.Candle, n)
	for i := range out {
		c := 100.0
		if i < len(closes) {
			c = closes[i]
		}
		out[i] = market.Candle{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return out
}

func TestRunnerOneEquitySamplePerCandle(t *testing.T) {
	engine, j := newRunEngine(t, 10000, 0)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := candleSeries(5, start, 100, 101, 102, 103, 104)

	strat := &countingStrategy{}
	r := &Runner{Engine: engine, Feed: NewSliceFeed(candles), Strategy: strat}

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, res.Candles)
	assert.Equal(t, 5, strat.candles)
	assert.Len(t, j.Equity(), 5)
	assert.Equal(t, candles[0].Time, res.Start)
	assert.Equal(t, candles[4].Time, res.End)
	assert.Equal(t, 104.0, res.LastClose)

	// No trades executed: equity flat at initial balance.
	for _, s := range j.Equity() {
		assert.Equal(t, 10000.0, s.Equity)
	}

	// Samples carry the candle timestamps in order.
	for i, s := range j.Equity() {
		assert.Equal(t, candles[i].Time, s.Time)
	}
}

func TestRunnerRejectsOutOfOrderCandles(t *testing.T) {
	engine, _ := newRunEngine(t, 10000, 0)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	candles := candleSeries(3, start)
	candles[2].Time = candles[0].Time // duplicate timestamp

	r := &Runner{Engine: engine, Feed: NewSliceFeed(candles), Strategy: &countingStrategy{}}
	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of order")
}

func TestRunnerPropagatesFeedError(t *testing.T) {
	engine, _ := newRunEngine(t, 10000, 0)
	r := &Runner{Engine: engine, Feed: &errorFeed{}, Strategy: &countingStrategy{}}
	_, err := r.Run(context.Background())
	require.Error(t, err)
}

func TestRunnerPropagatesStrategyError(t *testing.T) {
	engine, _ := newRunEngine(t, 10000, 0)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := candleSeries(3, start)

	r := &Runner{Engine: engine, Feed: NewSliceFeed(candles), Strategy: &countingStrategy{fail: true}}
	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy failed")
}

func TestRunnerHaltsOnShortCloseShortfall(t *testing.T) {
	engine, j := newRunEngine(t, 1000, 0)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Short everything at 100, then the price quintuples: the flip
	// strategy tries to buy back and cannot afford it.
	candles := []market.Candle{
		{Time: start, Open: 110, High: 111, Low: 99, Close: 100, Volume: 1},             // bearish: open short
		{Time: start.Add(time.Hour), Open: 100, High: 501, Low: 99, Close: 500, Volume: 1}, // bullish: close short
	}

	r := &Runner{Engine: engine, Feed: NewSliceFeed(candles), Strategy: strategies.NewFlip(1.0)}
	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sim.ErrShortCloseShortfall)

	// The position stays open; only the first candle got sampled.
	assert.Negative(t, engine.PositionSize())
	assert.Len(t, j.Equity(), 1)
}

func TestRunnerReportsOpenPositionAtEndOfFeed(t *testing.T) {
	engine, j := newRunEngine(t, 10000, 0)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Two bullish candles: flip opens a long on the first and holds.
	candles := []market.Candle{
		{Time: start, Open: 100, High: 111, Low: 99, Close: 110, Volume: 1},
		{Time: start.Add(time.Hour), Open: 110, High: 121, Low: 109, Close: 120, Volume: 1},
	}

	r := &Runner{Engine: engine, Feed: NewSliceFeed(candles), Strategy: strategies.NewFlip(1.0)}
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	// Position is not auto-closed, but the final equity marks it at
	// the last close.
	require.Positive(t, res.OpenPosition)
	assert.Equal(t, engine.PositionSize(), res.OpenPosition)
	assert.Equal(t, 110.0, res.EntryPrice)
	assert.InDelta(t, res.OpenPosition*120, res.OpenValue, 1e-9)
	assert.InDelta(t, res.FinalBalance+res.OpenValue, res.FinalEquity, 1e-9)

	// Equity identity holds for every sample, marked at that
	// candle's close.
	samples := j.Equity()
	require.Len(t, samples, 2)
	assert.InDelta(t, samples[0].Balance+engine.PositionSize()*110, samples[0].Equity, 1e-9)
	assert.InDelta(t, samples[1].Balance+engine.PositionSize()*120, samples[1].Equity, 1e-9)

	// Trade log holds the single open, no synthetic close.
	trades := j.Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, journal.KindOpenLong, trades[0].Kind)
}

func TestRunSeriesValidatesInput(t *testing.T) {
	engine, _ := newRunEngine(t, 10000, 0)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	candles := candleSeries(3, start)
	candles[1].Close = -5 // invalid price

	r := &Runner{Engine: engine, Strategy: &countingStrategy{}}
	_, err := r.RunSeries(context.Background(), candles)
	require.Error(t, err)
}

func TestRunnerRequiresCollaborators(t *testing.T) {
	engine, _ := newRunEngine(t, 10000, 0)

	_, err := (&Runner{}).Run(context.Background())
	require.Error(t, err)

	_, err = (&Runner{Engine: engine}).Run(context.Background())
	require.Error(t, err)

	_, err = (&Runner{Engine: engine, Feed: NewSliceFeed(nil)}).Run(context.Background())
	require.Error(t, err)
}
