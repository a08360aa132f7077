package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	var rec TradeRecord

	row := j.db.QueryRow(`
		SELECT trade_id, time, kind, price, coins, cash_flow, balance_after, position_after, pnl
		FROM trades
		WHERE trade_id = ?`, tradeID)

	err := row.Scan(
		&rec.ID,
		&rec.Time,
		&rec.Kind,
		&rec.Price,
		&rec.Coins,
		&rec.CashFlow,
		&rec.BalanceAfter,
		&rec.PositionAfter,
		&rec.PnL,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns all trade records in execution order.
func (j *SQLite) ListTrades() ([]TradeRecord, error) {
	return j.listTrades(`
		SELECT trade_id, time, kind, price, coins, cash_flow, balance_after, position_after, pnl
		FROM trades
		ORDER BY time ASC, trade_id ASC`)
}

// ListTradesBetween returns trades executed within [start, end).
func (j *SQLite) ListTradesBetween(start, end time.Time) ([]TradeRecord, error) {
	return j.listTrades(`
		SELECT trade_id, time, kind, price, coins, cash_flow, balance_after, position_after, pnl
		FROM trades
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, trade_id ASC`, start, end)
}

func (j *SQLite) listTrades(query string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Time,
			&rec.Kind,
			&rec.Price,
			&rec.Coins,
			&rec.CashFlow,
			&rec.BalanceAfter,
			&rec.PositionAfter,
			&rec.PnL,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquity returns the full equity curve in time order.
func (j *SQLite) ListEquity() ([]EquitySample, error) {
	rows, err := j.db.Query(`
		SELECT time, balance, equity
		FROM equity
		ORDER BY time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySample
	for rows.Next() {
		var rec EquitySample
		if err := rows.Scan(&rec.Time, &rec.Balance, &rec.Equity); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
