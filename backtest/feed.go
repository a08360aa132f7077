package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Xyxl1kalgo/Backtester-engine/market"
)

// CandleFeed yields candles one at a time in chronological order.
// Implementations should be deterministic and return (ok=false,
// err=nil) at EOF.
type CandleFeed interface {
	Next() (c market.Candle, ok bool, err error)
	Close() error
}

// SliceFeed replays an in-memory candle slice.
type SliceFeed struct {
	candles []market.Candle
	index   int
}

func NewSliceFeed(candles []market.Candle) *SliceFeed {
	return &SliceFeed{candles: candles}
}

func (f *SliceFeed) Next() (market.Candle, bool, error) {
	if f.index >= len(f.candles) {
		return market.Candle{}, false, nil
	}
	c := f.candles[f.index]
	f.index++
	return c, true, nil
}

func (f *SliceFeed) Close() error { return nil }

// CSVFeed reads canonical candle CSV rows:
//
//	time,open,high,low,close,volume
//
// where time is RFC3339, RFC3339Nano, or unix milliseconds.
//
// It optionally filters candles to [From, To) when both are set.
// A header row ("time,...") is allowed. Empty rows are skipped.
type CSVFeed struct {
	f    *os.File
	r    *csv.Reader
	from time.Time
	to   time.Time

	sawFirst bool
}

func NewCSVFeed(path string, from, to time.Time) (*CSVFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	return &CSVFeed{f: f, r: r, from: from, to: to}, nil
}

func (f *CSVFeed) Close() error {
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

func (f *CSVFeed) Next() (market.Candle, bool, error) {
	for {
		row, err := f.r.Read()
		if err == io.EOF {
			return market.Candle{}, false, nil
		}
		if err != nil {
			return market.Candle{}, false, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row
		if !f.sawFirst {
			f.sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		c, err := parseCandleRow(row)
		if err != nil {
			return market.Candle{}, false, err
		}
		if !inRange(c.Time, f.from, f.to) {
			continue
		}
		return c, true, nil
	}
}

func parseCandleRow(row []string) (market.Candle, error) {
	if len(row) < 6 {
		return market.Candle{}, fmt.Errorf("bad row (need time,open,high,low,close,volume): %v", row)
	}

	t, err := parseTime(strings.TrimSpace(row[0]))
	if err != nil {
		return market.Candle{}, err
	}

	vals := make([]float64, 5)
	names := []string{"open", "high", "low", "close", "volume"}
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return market.Candle{}, fmt.Errorf("bad %s %q: %w", names[i], row[i+1], err)
		}
		vals[i] = v
	}

	return market.Candle{
		Time:   t,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad time %q (want RFC3339 or unix ms)", s)
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
