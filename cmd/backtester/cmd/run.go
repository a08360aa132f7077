package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Xyxl1kalgo/Backtester-engine/backtest"
	"github.com/Xyxl1kalgo/Backtester-engine/binance"
	"github.com/Xyxl1kalgo/Backtester-engine/config"
	"github.com/Xyxl1kalgo/Backtester-engine/internal/id"
	"github.com/Xyxl1kalgo/Backtester-engine/internal/logx"
	"github.com/Xyxl1kalgo/Backtester-engine/journal"
	"github.com/Xyxl1kalgo/Backtester-engine/report"
	"github.com/Xyxl1kalgo/Backtester-engine/sim"
	"github.com/Xyxl1kalgo/Backtester-engine/strategies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a candle series through a strategy",
	Long: `Run replays candles through the simulation engine and prints the
resulting summary. Candles come from a CSV file or, when no CSV is
given, are fetched from Binance for the configured symbol and range.

Examples:
  backtester run --csv data/btcusdt-1h.csv --strategy flip --fraction 0.1
  backtester run --symbol BTCUSDT --interval 1h --start 2024-01-01 --end 2024-06-30
  backtester run --config run.yaml`,
	RunE: runRun,
}

var (
	runConfigPath string
	runCSVPath    string
	runSymbol     string
	runInterval   string
	runStart      string
	runEnd        string

	runBalance  float64
	runFee      float64
	runMinOrder float64

	runStrategy string
	runFraction float64
	runFast     int
	runSlow     int

	runJournalType string
	runTradesFile  string
	runEquityFile  string
	runDBPath      string

	runOrgPath   string
	runLogLevel  string
	runLogFormat string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to a YAML/JSON config (flags below are ignored)")

	runCmd.Flags().StringVar(&runCSVPath, "csv", "", "path to candle CSV (time,open,high,low,close,volume)")
	runCmd.Flags().StringVar(&runSymbol, "symbol", "BTCUSDT", "symbol to fetch when no CSV is given")
	runCmd.Flags().StringVar(&runInterval, "interval", "1h", "kline interval (1m, 5m, 1h, 4h, 1d)")
	runCmd.Flags().StringVar(&runStart, "start", "", "start date YYYY-MM-DD")
	runCmd.Flags().StringVar(&runEnd, "end", "", "end date YYYY-MM-DD")

	runCmd.Flags().Float64VarP(&runBalance, "balance", "b", sim.DefaultInitialBalance, "starting balance in quote currency")
	runCmd.Flags().Float64Var(&runFee, "fee", sim.DefaultFee, "transaction fee fraction")
	runCmd.Flags().Float64Var(&runMinOrder, "min-order", sim.DefaultMinOrder, "minimum open notional")

	runCmd.Flags().StringVarP(&runStrategy, "strategy", "s", "flip", "strategy name (noop, flip, ema-cross)")
	runCmd.Flags().Float64Var(&runFraction, "fraction", 0.1, "sizing fraction per open, (0, 1]")
	runCmd.Flags().IntVar(&runFast, "fast", 10, "ema-cross: fast EMA period")
	runCmd.Flags().IntVar(&runSlow, "slow", 30, "ema-cross: slow EMA period")

	runCmd.Flags().StringVar(&runJournalType, "journal", "memory", "journal type (memory, csv, sqlite)")
	runCmd.Flags().StringVar(&runTradesFile, "trades-file", "./trades.csv", "CSV journal: trades output path")
	runCmd.Flags().StringVar(&runEquityFile, "equity-file", "./equity.csv", "CSV journal: equity output path")
	runCmd.Flags().StringVarP(&runDBPath, "db", "d", "./backtest.sqlite", "SQLite journal: database path")

	runCmd.Flags().StringVar(&runOrgPath, "org", "", "also write an org-mode run report to this path")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&runLogFormat, "log-format", "text", "log format (text, json)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig()
	if err != nil {
		return err
	}

	log := logx.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	mem := journal.NewMemory()
	j, err := buildJournal(cfg, mem)
	if err != nil {
		return err
	}
	defer j.Close()

	engine, err := sim.NewEngine(cfg.SimConfig(), j, log)
	if err != nil {
		return err
	}

	strat, err := strategies.StrategyByName(
		cfg.Strategy.Name,
		cfg.Strategy.SizingFraction,
		cfg.Strategy.FastPeriod,
		cfg.Strategy.SlowPeriod,
	)
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	ctx := context.Background()

	feed, dataset, err := buildFeed(ctx, cfg)
	if err != nil {
		return err
	}

	runner := &backtest.Runner{
		Engine:   engine,
		Feed:     feed,
		Strategy: strat,
	}

	res, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	summary := report.Summarize(engine.InitialBalance(), mem.Trades(), mem.Equity())
	report.Print(os.Stdout, summary, res.Start, res.End)

	if runOrgPath != "" {
		rep := &report.Run{
			RunID:    id.New(),
			Created:  time.Now(),
			Symbol:   cfg.Data.Symbol,
			Interval: cfg.Data.Interval,
			Strategy: cfg.Strategy.Name,
			Dataset:  dataset,
			Start:    res.Start,
			End:      res.End,
			Summary:  summary,
		}
		if err := rep.WriteOrg(runOrgPath); err != nil {
			return fmt.Errorf("write org report: %w", err)
		}
		fmt.Printf("\nReport written to %s\n", runOrgPath)
	}
	return nil
}

func buildRunConfig() (*config.Config, error) {
	if runConfigPath != "" {
		return config.LoadFromFile(runConfigPath)
	}

	cfg := &config.Config{
		Engine: config.EngineConfig{
			InitialBalance: runBalance,
			Fee:            runFee,
			MinOrder:       runMinOrder,
		},
		Strategy: config.StrategyConfig{
			Name:           runStrategy,
			SizingFraction: runFraction,
			FastPeriod:     runFast,
			SlowPeriod:     runSlow,
		},
		Data: config.DataConfig{
			CSVPath:  runCSVPath,
			Symbol:   runSymbol,
			Interval: runInterval,
			Start:    runStart,
			End:      runEnd,
		},
		Journal: config.JournalConfig{
			Type:       runJournalType,
			TradesFile: runTradesFile,
			EquityFile: runEquityFile,
			DBPath:     runDBPath,
		},
		Log: config.LogConfig{
			Level:  runLogLevel,
			Format: runLogFormat,
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildJournal always includes the in-memory log so the summary can be
// derived after the run, plus the configured persistent sink.
func buildJournal(cfg *config.Config, mem *journal.Memory) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "memory":
		return mem, nil
	case "csv":
		csvJ, err := journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
		if err != nil {
			return nil, fmt.Errorf("open csv journal: %w", err)
		}
		return journal.NewMulti(mem, csvJ), nil
	case "sqlite":
		dbJ, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		return journal.NewMulti(mem, dbJ), nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}
}

func buildFeed(ctx context.Context, cfg *config.Config) (backtest.CandleFeed, string, error) {
	from, to, err := cfg.Data.Range()
	if err != nil {
		return nil, "", err
	}

	if cfg.Data.CSVPath != "" {
		feed, err := backtest.NewCSVFeed(cfg.Data.CSVPath, from, to)
		if err != nil {
			return nil, "", fmt.Errorf("open candle csv: %w", err)
		}
		return feed, cfg.Data.CSVPath, nil
	}

	if to.IsZero() {
		to = time.Now().UTC()
	}

	fmt.Printf("Fetching %s %s candles %s..%s\n",
		cfg.Data.Symbol, cfg.Data.Interval,
		from.Format("2006-01-02"), to.Format("2006-01-02"))

	candles, err := binance.NewClient().Klines(ctx, cfg.Data.Symbol, cfg.Data.Interval, from, to)
	if err != nil {
		return nil, "", err
	}
	if len(candles) == 0 {
		return nil, "", fmt.Errorf("no candles returned for %s %s", cfg.Data.Symbol, cfg.Data.Interval)
	}
	fmt.Printf("Loaded %d candles\n\n", len(candles))

	dataset := fmt.Sprintf("binance:%s:%s", cfg.Data.Symbol, cfg.Data.Interval)
	return backtest.NewSliceFeed(candles), dataset, nil
}
