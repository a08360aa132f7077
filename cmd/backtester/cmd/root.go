package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backtester",
	Short: "A crypto spot backtesting engine with long/short position simulation",
	Long: `Backtester replays historical price series through a trading strategy
and tracks the resulting account state over time.

It provides tools for:
  - Simulating long and short spot positions with transaction fees
  - Replaying candle data from CSV files or the Binance REST API
  - Recording trade and equity logs to CSV or SQLite
  - Pluggable strategies (candle flip, EMA crossover)
  - Run summaries with PnL, win rate and drawdown`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
