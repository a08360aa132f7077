// Package indicators provides streaming moving averages over candle
// closes, used by the indicator-based strategy variants.
package indicators

import (
	"fmt"

	"github.com/Xyxl1kalgo/Backtester-engine/market"
)

// SimpleMA is a streaming Simple Moving Average indicator
type SimpleMA struct {
	period int
	closes []float64
}

// NewMA creates a new Simple Moving Average indicator with the given period
func NewMA(period int) *SimpleMA {
	return &SimpleMA{
		period: period,
		closes: make([]float64, 0, period),
	}
}

func (m *SimpleMA) Name() string {
	return fmt.Sprintf("MA(%d)", m.period)
}

func (m *SimpleMA) Warmup() int {
	return m.period
}

func (m *SimpleMA) Reset() {
	m.closes = m.closes[:0]
}

func (m *SimpleMA) Update(c market.Candle) {
	m.closes = append(m.closes, c.Close)
	// Keep only the last 'period' closes
	if len(m.closes) > m.period {
		m.closes = m.closes[1:]
	}
}

func (m *SimpleMA) Ready() bool {
	return len(m.closes) >= m.period
}

func (m *SimpleMA) Value() float64 {
	if !m.Ready() {
		return 0
	}

	sum := 0.0
	for _, close := range m.closes {
		sum += close
	}
	return sum / float64(len(m.closes))
}

// ExponentialMA is a streaming Exponential Moving Average indicator
type ExponentialMA struct {
	period     int
	multiplier float64
	ema        float64
	count      int
	warmupSum  float64
}

// NewEMA creates a new Exponential Moving Average indicator with the given period
func NewEMA(period int) *ExponentialMA {
	return &ExponentialMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *ExponentialMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.period)
}

func (e *ExponentialMA) Warmup() int {
	return e.period
}

func (e *ExponentialMA) Reset() {
	e.ema = 0
	e.count = 0
	e.warmupSum = 0
}

func (e *ExponentialMA) Update(c market.Candle) {
	if e.count < e.period {
		// During warmup, accumulate sum for initial SMA
		e.warmupSum += c.Close
		e.count++
		if e.count == e.period {
			// Initialize EMA with SMA
			e.ema = e.warmupSum / float64(e.period)
		}
	} else {
		e.ema = (c.Close-e.ema)*e.multiplier + e.ema
	}
}

func (e *ExponentialMA) Ready() bool {
	return e.count >= e.period
}

func (e *ExponentialMA) Value() float64 {
	if !e.Ready() {
		return 0
	}
	return e.ema
}
