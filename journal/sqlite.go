package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, time, kind, price, coins, cash_flow, balance_after, position_after, pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Time, t.Kind, t.Price, t.Coins,
		t.CashFlow, t.BalanceAfter, t.PositionAfter, t.PnL,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySample) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, balance, equity)
		VALUES (?, ?, ?)`,
		e.Time, e.Balance, e.Equity,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
