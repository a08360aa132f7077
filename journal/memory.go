package journal

// Memory keeps both logs in memory for the duration of one run. It is
// the journal reporting reads back after the replay finishes.
type Memory struct {
	trades []TradeRecord
	equity []EquitySample
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) RecordTrade(t TradeRecord) error {
	m.trades = append(m.trades, t)
	return nil
}

func (m *Memory) RecordEquity(e EquitySample) error {
	m.equity = append(m.equity, e)
	return nil
}

func (m *Memory) Close() error { return nil }

// Trades returns the ordered trade log.
func (m *Memory) Trades() []TradeRecord { return m.trades }

// Equity returns the ordered equity curve.
func (m *Memory) Equity() []EquitySample { return m.equity }
