// Package binance loads historical OHLCV candles from the Binance
// spot REST API. It is a data-acquisition collaborator: the simulation
// core only ever sees the validated, chronologically ordered candle
// slice this package produces.
package binance

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	sdk "github.com/adshao/go-binance/v2"
	"golang.org/x/time/rate"

	"github.com/Xyxl1kalgo/Backtester-engine/market"
)

const maxCandlesPerRequest = 1000

type Client struct {
	client      *sdk.Client
	rateLimiter *rate.Limiter
}

// NewClient builds a kline client. Historical market data is public,
// so no API keys are required.
func NewClient() *Client {
	httpClient := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	client := sdk.NewClient("", "")
	client.HTTPClient = httpClient

	// 10 requests per second with burst of 20 stays well inside the
	// exchange request-weight limits.
	limiter := rate.NewLimiter(rate.Limit(10), 20)

	return &Client{
		client:      client,
		rateLimiter: limiter,
	}
}

// Klines fetches candles for [start, end], paginating at 1000 candles
// per request. Results are deduplicated by open time and returned in
// ascending order.
func (c *Client) Klines(ctx context.Context, symbol, interval string, start, end time.Time) ([]market.Candle, error) {
	if symbol == "" {
		return nil, fmt.Errorf("binance: symbol is required")
	}
	if interval == "" {
		return nil, fmt.Errorf("binance: interval is required")
	}
	if !end.After(start) {
		return nil, fmt.Errorf("binance: end %s not after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	startMs := start.UnixMilli()
	endMs := end.UnixMilli()

	var candles []market.Candle
	seen := make(map[int64]bool)

	since := startMs
	for since <= endMs {
		batch, err := c.fetchBatch(ctx, symbol, interval, since, endMs)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}

		for _, k := range batch {
			if k.OpenTime > endMs {
				continue
			}
			if seen[k.OpenTime] {
				continue
			}
			seen[k.OpenTime] = true

			candle, err := convertKline(k)
			if err != nil {
				return nil, err
			}
			candles = append(candles, candle)
		}

		// Next page starts just after the last returned candle.
		since = batch[len(batch)-1].OpenTime + 1
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})

	if err := market.ValidateSeries(candles); err != nil {
		return nil, fmt.Errorf("binance: bad kline series: %w", err)
	}
	return candles, nil
}

func (c *Client) fetchBatch(ctx context.Context, symbol, interval string, startMs, endMs int64) ([]*sdk.Kline, error) {
	maxRetries := 3
	backoff := 100 * time.Millisecond

	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		klines, err := c.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(startMs).
			EndTime(endMs).
			Limit(maxCandlesPerRequest).
			Do(ctx)
		if err == nil {
			return klines, nil
		}
		if attempt == maxRetries {
			return nil, fmt.Errorf("binance: fetch klines: %w", err)
		}

		waitTime := time.Duration(math.Pow(2, float64(attempt))) * backoff
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

func convertKline(k *sdk.Kline) (market.Candle, error) {
	vals := make([]float64, 5)
	for i, s := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return market.Candle{}, fmt.Errorf("binance: bad kline field %q: %w", s, err)
		}
		vals[i] = v
	}

	return market.Candle{
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
