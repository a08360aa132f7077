package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSV struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSV, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)

	if err := tw.Write([]string{"trade_id", "time", "kind", "price", "coins", "cash_flow", "balance_after", "position_after", "pnl"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"time", "balance", "equity"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSV{tw, ew, tf, ef}, nil
}

func (j *CSV) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.ID,
		t.Time.Format(time.RFC3339),
		t.Kind,
		f(t.Price),
		f(t.Coins),
		f(t.CashFlow),
		f(t.BalanceAfter),
		f(t.PositionAfter),
		f(t.PnL),
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSV) RecordEquity(e EquitySample) error {
	err := j.equity.Write([]string{
		e.Time.Format(time.RFC3339),
		f(e.Balance),
		f(e.Equity),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSV) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
