package journal

// Multi fans every record out to several journals, e.g. the in-memory
// log for reporting plus a persistent CSV or SQLite sink.
type Multi struct {
	sinks []Journal
}

func NewMulti(sinks ...Journal) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) RecordTrade(t TradeRecord) error {
	for _, s := range m.sinks {
		if err := s.RecordTrade(t); err != nil {
			return err
		}
	}
	return nil
}

func (m *Multi) RecordEquity(e EquitySample) error {
	for _, s := range m.sinks {
		if err := s.RecordEquity(e); err != nil {
			return err
		}
	}
	return nil
}

func (m *Multi) Close() error {
	var first error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
