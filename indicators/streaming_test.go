package indicators

import (
	"testing"
	"time"

	"github.com/Xyxl1kalgo/Backtester-engine/market"
)

func closeCandle(px float64) market.Candle {
	return market.Candle{
		Time:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Open:   px,
		High:   px,
		Low:    px,
		Close:  px,
		Volume: 1,
	}
}

func TestSimpleMA(t *testing.T) {
	ma := NewMA(3)

	if ma.Ready() {
		t.Fatal("MA ready before warmup")
	}
	if got := ma.Value(); got != 0 {
		t.Fatalf("Value() before warmup = %v, want 0", got)
	}

	ma.Update(closeCandle(1))
	ma.Update(closeCandle(2))
	if ma.Ready() {
		t.Fatal("MA ready after 2 of 3 closes")
	}

	ma.Update(closeCandle(3))
	if !ma.Ready() {
		t.Fatal("MA not ready after warmup")
	}
	if got := ma.Value(); got != 2 {
		t.Fatalf("MA value = %v, want 2", got)
	}

	// Window slides: (2+3+4)/3
	ma.Update(closeCandle(4))
	if got := ma.Value(); got != 3 {
		t.Fatalf("MA value after slide = %v, want 3", got)
	}

	if got := ma.Name(); got != "MA(3)" {
		t.Fatalf("Name() = %q", got)
	}

	ma.Reset()
	if ma.Ready() {
		t.Fatal("MA ready after Reset")
	}
}

func TestExponentialMA(t *testing.T) {
	ema := NewEMA(2)

	if got := ema.Warmup(); got != 2 {
		t.Fatalf("Warmup() = %d, want 2", got)
	}

	ema.Update(closeCandle(10))
	if ema.Ready() {
		t.Fatal("EMA ready after 1 of 2 closes")
	}

	// Warmup completes with the SMA seed: (10+20)/2 = 15.
	ema.Update(closeCandle(20))
	if !ema.Ready() {
		t.Fatal("EMA not ready after warmup")
	}
	if got := ema.Value(); got != 15 {
		t.Fatalf("EMA seed = %v, want 15", got)
	}

	// multiplier = 2/(2+1); (30-15)*2/3 + 15 = 25.
	ema.Update(closeCandle(30))
	if got := ema.Value(); got != 25 {
		t.Fatalf("EMA value = %v, want 25", got)
	}

	if got := ema.Name(); got != "EMA(2)" {
		t.Fatalf("Name() = %q", got)
	}

	ema.Reset()
	if ema.Ready() {
		t.Fatal("EMA ready after Reset")
	}
}
