// Package sim implements the position and equity simulation engine:
// it owns the cash balance and the single signed position, validates
// and executes order requests, applies transaction costs, books
// realized PnL, and records the trade and equity logs.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Xyxl1kalgo/Backtester-engine/internal/id"
	"github.com/Xyxl1kalgo/Backtester-engine/internal/logx"
	"github.com/Xyxl1kalgo/Backtester-engine/journal"
)

// ErrShortCloseShortfall is the one fatal run condition: the balance
// cannot cover buying back the open short. The engine refuses the
// close, leaves all state untouched, and the driving loop is expected
// to abort the run. No forced liquidation is modeled.
var ErrShortCloseShortfall = errors.New("balance cannot cover short buy-back")

// Engine executes order requests against an in-memory account and
// position. All state belongs to a single run and a single goroutine;
// the replay loop is strictly sequential, so no locking is needed.
//
// The four order operations return (executed, err). An ordinary
// rejection (wrong-direction open, nothing to close, bad sizing
// fraction, below-minimum notional) is (false, nil): state is
// unchanged and an "order rejected" event is emitted. A non-nil error
// is reserved for the fatal short-close shortfall and for journal
// write failures; both end the run.
type Engine struct {
	cfg  Config
	acct Account
	pos  Position

	journal journal.Journal
	log     *slog.Logger
}

func NewEngine(cfg Config, j journal.Journal, log *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if j == nil {
		return nil, fmt.Errorf("engine: journal is required")
	}
	if log == nil {
		log = logx.Discard()
	}

	return &Engine{
		cfg:     cfg,
		acct:    Account{Balance: cfg.InitialBalance},
		journal: j,
		log:     log,
	}, nil
}

// Accessors exposed to strategies. They form the read half of the
// capability interface; the order operations are the command half.

func (e *Engine) Balance() float64        { return e.acct.Balance }
func (e *Engine) PositionSize() float64   { return e.pos.Size }
func (e *Engine) EntryPrice() float64     { return e.pos.EntryPrice }
func (e *Engine) Side() Side              { return e.pos.Side() }
func (e *Engine) InitialBalance() float64 { return e.cfg.InitialBalance }

// Equity returns balance plus the mark-to-market value of the open
// position at the given price.
func (e *Engine) Equity(price float64) float64 {
	return e.acct.Balance + e.pos.Size*price
}

// OpenLong spends fraction of the balance at price, acquiring
// (spend/price)*(1-fee) base units. The position must be flat.
func (e *Engine) OpenLong(ts time.Time, price, fraction float64) (bool, error) {
	switch {
	case e.pos.Size > 0:
		return e.reject(ts, journal.KindOpenLong, "already in a long position"), nil
	case e.pos.Size < 0:
		return e.reject(ts, journal.KindOpenLong, "short position still open"), nil
	case e.acct.Balance <= 0:
		return e.reject(ts, journal.KindOpenLong, "non-positive balance"), nil
	case fraction <= 0 || fraction > 1:
		return e.reject(ts, journal.KindOpenLong, "sizing fraction outside (0, 1]"), nil
	}

	spend := e.acct.Balance * fraction
	if spend < e.cfg.MinOrder {
		return e.reject(ts, journal.KindOpenLong, "notional below minimum"), nil
	}

	coins := (spend / price) * (1 - e.cfg.Fee)

	e.acct.Balance -= spend
	e.pos = Position{Size: coins, EntryPrice: price}

	return true, e.record(journal.TradeRecord{
		ID:            id.New(),
		Time:          ts,
		Kind:          journal.KindOpenLong,
		Price:         price,
		Coins:         coins,
		CashFlow:      -spend,
		BalanceAfter:  e.acct.Balance,
		PositionAfter: e.pos.Size,
	})
}

// CloseLong liquidates the entire long position at price. Revenue is
// charged the fee; realized PnL is net revenue minus the entry cost.
func (e *Engine) CloseLong(ts time.Time, price float64) (bool, error) {
	if e.pos.Size <= 0 {
		return e.reject(ts, journal.KindCloseLong, "no open long position"), nil
	}

	revenue := e.pos.Size * price * (1 - e.cfg.Fee)
	pnl := revenue - e.pos.Size*e.pos.EntryPrice

	e.acct.Balance += revenue
	e.pos = Position{}

	return true, e.record(journal.TradeRecord{
		ID:            id.New(),
		Time:          ts,
		Kind:          journal.KindCloseLong,
		Price:         price,
		CashFlow:      revenue,
		BalanceAfter:  e.acct.Balance,
		PositionAfter: 0,
		PnL:           pnl,
	})
}

// OpenShort sells (notional/price)*(1-fee) borrowed base units, where
// notional is fraction of the balance. Net proceeds are credited to
// the balance and the position size goes negative.
func (e *Engine) OpenShort(ts time.Time, price, fraction float64) (bool, error) {
	switch {
	case e.pos.Size < 0:
		return e.reject(ts, journal.KindOpenShort, "already in a short position"), nil
	case e.pos.Size > 0:
		return e.reject(ts, journal.KindOpenShort, "long position still open"), nil
	case fraction <= 0 || fraction > 1:
		return e.reject(ts, journal.KindOpenShort, "sizing fraction outside (0, 1]"), nil
	}

	notional := e.acct.Balance * fraction
	if notional < e.cfg.MinOrder {
		return e.reject(ts, journal.KindOpenShort, "notional below minimum"), nil
	}

	coins := (notional / price) * (1 - e.cfg.Fee)
	proceeds := notional * (1 - e.cfg.Fee)

	e.acct.Balance += proceeds
	e.pos = Position{Size: -coins, EntryPrice: price}

	return true, e.record(journal.TradeRecord{
		ID:            id.New(),
		Time:          ts,
		Kind:          journal.KindOpenShort,
		Price:         price,
		Coins:         -coins,
		CashFlow:      proceeds,
		BalanceAfter:  e.acct.Balance,
		PositionAfter: e.pos.Size,
	})
}

// CloseShort buys back the entire short at price, fee added to the
// buy-back cost. If the balance cannot cover the cost the operation
// fails with ErrShortCloseShortfall and nothing changes.
func (e *Engine) CloseShort(ts time.Time, price float64) (bool, error) {
	if e.pos.Size >= 0 {
		return e.reject(ts, journal.KindCloseShort, "no open short position"), nil
	}

	coins := -e.pos.Size
	cost := coins * price * (1 + e.cfg.Fee)

	if e.acct.Balance < cost {
		e.log.Error("run aborted",
			"kind", journal.KindCloseShort,
			"time", ts,
			"price", price,
			"balance", e.acct.Balance,
			"required", cost,
		)
		return false, fmt.Errorf("close short: need %.2f, have %.2f: %w",
			cost, e.acct.Balance, ErrShortCloseShortfall)
	}

	proceeds := coins * e.pos.EntryPrice * (1 - e.cfg.Fee)
	pnl := proceeds - cost

	e.acct.Balance -= cost
	e.pos = Position{}

	return true, e.record(journal.TradeRecord{
		ID:            id.New(),
		Time:          ts,
		Kind:          journal.KindCloseShort,
		Price:         price,
		CashFlow:      -cost,
		BalanceAfter:  e.acct.Balance,
		PositionAfter: 0,
		PnL:           pnl,
	})
}

// MarkToMarket appends one equity sample at the given close price.
// The replay loop calls this exactly once per candle, after the
// strategy callback returns.
func (e *Engine) MarkToMarket(ts time.Time, closePrice float64) (float64, error) {
	equity := e.Equity(closePrice)
	err := e.journal.RecordEquity(journal.EquitySample{
		Time:    ts,
		Balance: e.acct.Balance,
		Equity:  equity,
	})
	return equity, err
}

func (e *Engine) record(rec journal.TradeRecord) error {
	if err := e.journal.RecordTrade(rec); err != nil {
		return fmt.Errorf("record trade: %w", err)
	}
	e.log.Info("trade executed",
		"trade_id", rec.ID,
		"kind", rec.Kind,
		"time", rec.Time,
		"price", rec.Price,
		"coins", rec.Coins,
		"cash_flow", rec.CashFlow,
		"balance", rec.BalanceAfter,
		"position", rec.PositionAfter,
		"pnl", rec.PnL,
	)
	return nil
}

func (e *Engine) reject(ts time.Time, kind, reason string) bool {
	e.log.Debug("order rejected",
		"kind", kind,
		"time", ts,
		"reason", reason,
		"balance", e.acct.Balance,
		"position", e.pos.Size,
	)
	return false
}
