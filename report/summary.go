// Package report derives the human-facing summary figures from the
// two run logs. Everything here is pure computation over the trade
// log and the equity curve; no simulation state is consulted.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/Xyxl1kalgo/Backtester-engine/journal"
)

// Summary holds the derived result figures of one run.
type Summary struct {
	InitialBalance float64
	FinalBalance   float64
	FinalEquity    float64

	TotalPnL    float64 // FinalEquity - InitialBalance
	TotalPnLPct float64
	ClosedPnL   float64 // sum of realized PnL over closes

	Orders int // executed order count (opens + closes)
	Opens  int
	Wins   int // closes with positive PnL
	Losses int // closes with negative PnL

	WinRate        float64 // wins / (wins+losses), 0 when no closes
	MaxDrawdownPct float64 // worst peak-to-trough equity drop

	// Open position at end of run, taken from the last trade record.
	// Its mark-to-market value is FinalEquity - FinalBalance and is
	// reported separately from realized PnL.
	OpenPosition    float64
	UnrealizedValue float64
}

// Summarize computes the run summary from the ordered logs.
func Summarize(initialBalance float64, trades []journal.TradeRecord, equity []journal.EquitySample) Summary {
	s := Summary{
		InitialBalance: initialBalance,
		FinalBalance:   initialBalance,
		FinalEquity:    initialBalance,
	}

	if n := len(equity); n > 0 {
		s.FinalBalance = equity[n-1].Balance
		s.FinalEquity = equity[n-1].Equity
	}

	for _, t := range trades {
		s.Orders++
		if journal.IsOpen(t.Kind) {
			s.Opens++
			continue
		}
		s.ClosedPnL += t.PnL
		if t.PnL > 0 {
			s.Wins++
		} else if t.PnL < 0 {
			s.Losses++
		}
	}

	if n := len(trades); n > 0 {
		s.OpenPosition = trades[n-1].PositionAfter
	}
	s.UnrealizedValue = s.FinalEquity - s.FinalBalance

	s.TotalPnL = s.FinalEquity - s.InitialBalance
	if s.InitialBalance > 0 {
		s.TotalPnLPct = s.TotalPnL / s.InitialBalance * 100
	}
	if closed := s.Wins + s.Losses; closed > 0 {
		s.WinRate = float64(s.Wins) / float64(closed)
	}
	s.MaxDrawdownPct = maxDrawdownPct(equity)

	return s
}

func maxDrawdownPct(equity []journal.EquitySample) float64 {
	peak := 0.0
	worst := 0.0
	for _, e := range equity {
		if e.Equity > peak {
			peak = e.Equity
		}
		if peak > 0 {
			dd := (peak - e.Equity) / peak * 100
			if dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// Print writes the summary in the fixed-width console format.
func Print(w io.Writer, s Summary, start, end time.Time) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	if !start.IsZero() {
		fmt.Fprintf(w, "Start:          %s\n", start.Format(time.RFC3339))
		fmt.Fprintf(w, "End:            %s\n", end.Format(time.RFC3339))
	}

	fmt.Fprintf(w, "Initial Balance: %.2f\n", s.InitialBalance)
	fmt.Fprintf(w, "Final Balance:   %.2f\n", s.FinalBalance)
	fmt.Fprintf(w, "Final Equity:    %.2f\n", s.FinalEquity)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total P/L:       %.2f (%.2f%%)\n", s.TotalPnL, s.TotalPnLPct)
	fmt.Fprintf(w, "Closed P/L:      %.2f\n", s.ClosedPnL)
	fmt.Fprintf(w, "Max Drawdown:    %.2f%%\n", s.MaxDrawdownPct)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Orders:          %d (opens: %d)\n", s.Orders, s.Opens)
	fmt.Fprintf(w, "Wins:            %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:          %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:        %.2f%%\n", s.WinRate*100)

	if s.OpenPosition != 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Open Position:   %.6f (unrealized value %.2f)\n", s.OpenPosition, s.UnrealizedValue)
	}
}
