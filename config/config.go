package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Xyxl1kalgo/Backtester-engine/sim"
)

// Config represents the complete backtest run configuration
type Config struct {
	Engine   EngineConfig   `json:"engine" yaml:"engine"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// EngineConfig contains the simulation engine parameters
type EngineConfig struct {
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
	Fee            float64 `json:"fee" yaml:"fee"`
	MinOrder       float64 `json:"min_order" yaml:"min_order"`
}

// StrategyConfig contains strategy selection and parameters
type StrategyConfig struct {
	Name           string  `json:"name" yaml:"name"`
	SizingFraction float64 `json:"sizing_fraction" yaml:"sizing_fraction"`
	FastPeriod     int     `json:"fast_period,omitempty" yaml:"fast_period,omitempty"`
	SlowPeriod     int     `json:"slow_period,omitempty" yaml:"slow_period,omitempty"`
}

// DataConfig selects the candle source: a CSV file, or a symbol plus
// date range fetched from the exchange.
type DataConfig struct {
	CSVPath  string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
	Symbol   string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Interval string `json:"interval,omitempty" yaml:"interval,omitempty"`
	Start    string `json:"start,omitempty" yaml:"start,omitempty"` // YYYY-MM-DD
	End      string `json:"end,omitempty" yaml:"end,omitempty"`     // YYYY-MM-DD
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "memory", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "text" or "json"
}

// Range parses the configured date range. End is extended to the end
// of its day so the whole end date is included.
func (d DataConfig) Range() (start, end time.Time, err error) {
	if d.Start != "" {
		start, err = time.Parse("2006-01-02", d.Start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("bad start date %q: %w", d.Start, err)
		}
	}
	if d.End != "" {
		end, err = time.Parse("2006-01-02", d.End)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("bad end date %q: %w", d.End, err)
		}
		end = end.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s before start date %s", d.End, d.Start)
	}
	return start, end, nil
}

// LoadFromFile loads configuration from a file (JSON or YAML based on content)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Engine.InitialBalance <= 0 {
		return fmt.Errorf("engine.initial_balance must be positive")
	}
	if c.Engine.Fee < 0 || c.Engine.Fee >= 1 {
		return fmt.Errorf("engine.fee must be in [0, 1)")
	}
	if c.Engine.MinOrder <= 0 {
		return fmt.Errorf("engine.min_order must be positive")
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if c.Strategy.SizingFraction <= 0 || c.Strategy.SizingFraction > 1 {
		return fmt.Errorf("strategy.sizing_fraction must be in (0, 1]")
	}
	if c.Data.CSVPath == "" {
		if c.Data.Symbol == "" || c.Data.Interval == "" || c.Data.Start == "" {
			return fmt.Errorf("data requires csv_path, or symbol, interval and start")
		}
	}
	if _, _, err := c.Data.Range(); err != nil {
		return err
	}
	switch c.Journal.Type {
	case "memory":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'memory', 'csv' or 'sqlite'")
	}
	return nil
}

// SimConfig converts to the engine's own config type.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		InitialBalance: c.Engine.InitialBalance,
		Fee:            c.Engine.Fee,
		MinOrder:       c.Engine.MinOrder,
	}
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			InitialBalance: sim.DefaultInitialBalance,
			Fee:            sim.DefaultFee,
			MinOrder:       sim.DefaultMinOrder,
		},
		Strategy: StrategyConfig{
			Name:           "flip",
			SizingFraction: 0.1,
			FastPeriod:     10,
			SlowPeriod:     30,
		},
		Data: DataConfig{
			Symbol:   "BTCUSDT",
			Interval: "1h",
			Start:    "2024-01-01",
			End:      "2024-06-30",
		},
		Journal: JournalConfig{
			Type: "memory",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
