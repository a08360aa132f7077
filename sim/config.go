package sim

import "fmt"

// Defaults mirror the reference setup: 10k quote units starting
// balance, spot taker fee, 5 quote-unit minimum order notional.
const (
	DefaultInitialBalance = 10_000.0
	DefaultFee            = 0.00075
	DefaultMinOrder       = 5.0
)

// Config holds the engine parameters for one simulation run.
type Config struct {
	InitialBalance float64 // starting cash, quote currency
	Fee            float64 // transaction fee fraction, [0, 1)
	MinOrder       float64 // minimum open notional, quote currency
}

func DefaultConfig() Config {
	return Config{
		InitialBalance: DefaultInitialBalance,
		Fee:            DefaultFee,
		MinOrder:       DefaultMinOrder,
	}
}

func (c Config) Validate() error {
	if c.InitialBalance <= 0 {
		return fmt.Errorf("initial balance must be positive, got %v", c.InitialBalance)
	}
	if c.Fee < 0 || c.Fee >= 1 {
		return fmt.Errorf("fee must be in [0, 1), got %v", c.Fee)
	}
	if c.MinOrder <= 0 {
		return fmt.Errorf("min order must be positive, got %v", c.MinOrder)
	}
	return nil
}
