package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	kind TEXT NOT NULL,
	price REAL NOT NULL,
	coins REAL NOT NULL,
	cash_flow REAL NOT NULL,
	balance_after REAL NOT NULL,
	position_after REAL NOT NULL,
	pnl REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	balance REAL NOT NULL,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);
CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
