package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOrg(t *testing.T) {
	run := &Run{
		RunID:    "01J9TEST",
		Created:  time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC),
		Symbol:   "BTCUSDT",
		Interval: "1h",
		Strategy: "flip",
		Dataset:  "binance",
		Start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Summary: Summary{
			InitialBalance: 10000,
			FinalBalance:   10300,
			FinalEquity:    10300,
			TotalPnL:       300,
			TotalPnLPct:    3,
			ClosedPnL:      300,
			Orders:         4,
			Opens:          2,
			Wins:           1,
			Losses:         1,
			WinRate:        0.5,
		},
		Notes: []string{"fee asymmetry dominates short legs"},
	}

	path := filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, run.WriteOrg(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "* BACKTEST: flip BTCUSDT 1h")
	assert.Contains(t, out, ":RUN_ID:      01J9TEST")
	assert.Contains(t, out, ":NET_PL:      300.00")
	assert.Contains(t, out, ":WIN_RATE:    50.00")
	assert.Contains(t, out, ":START_DATE:  2024-01-01")
	assert.Contains(t, out, "- Win Rate:         *50.00%*")
	assert.Contains(t, out, "** Observations")
	assert.Contains(t, out, "fee asymmetry dominates short legs")

	// Flat run: no open-position line.
	assert.NotContains(t, out, "Open Position")
}

func TestWriteOrgFillsPlaceholders(t *testing.T) {
	run := &Run{Strategy: "noop", Symbol: "BTCUSDT"}

	path := filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, run.WriteOrg(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "(interval?)")
	assert.Contains(t, out, "(run-id?)")
	assert.Contains(t, out, "(dataset?)")
}
