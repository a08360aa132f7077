package market

import (
	"fmt"
	"time"
)

// Candle represents one OHLCV bar. The simulation treats candles as
// read-only input.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

func (c Candle) Bullish() bool { return c.Close > c.Open }
func (c Candle) Bearish() bool { return c.Close < c.Open }

// ValidateSeries checks that a candle series is fit to replay:
// timestamps strictly increasing and prices positive.
func ValidateSeries(candles []Candle) error {
	var prev time.Time
	for i, c := range candles {
		if c.Time.IsZero() {
			return fmt.Errorf("candle %d: zero timestamp", i)
		}
		if i > 0 && !c.Time.After(prev) {
			return fmt.Errorf("candle %d: timestamp %s not after %s", i, c.Time.Format(time.RFC3339), prev.Format(time.RFC3339))
		}
		if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
			return fmt.Errorf("candle %d: non-positive price", i)
		}
		prev = c.Time
	}
	return nil
}
