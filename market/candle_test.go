package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandleColor(t *testing.T) {
	up := Candle{Open: 100, Close: 110}
	down := Candle{Open: 100, Close: 90}
	flat := Candle{Open: 100, Close: 100}

	assert.True(t, up.Bullish())
	assert.False(t, up.Bearish())

	assert.True(t, down.Bearish())
	assert.False(t, down.Bullish())

	assert.False(t, flat.Bullish())
	assert.False(t, flat.Bearish())
}

func TestValidateSeries(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ok := []Candle{
		{Time: start, Open: 1, High: 2, Low: 1, Close: 2, Volume: 1},
		{Time: start.Add(time.Hour), Open: 2, High: 3, Low: 2, Close: 3, Volume: 1},
	}
	require.NoError(t, ValidateSeries(ok))
	require.NoError(t, ValidateSeries(nil))

	zeroTime := []Candle{{Open: 1, High: 1, Low: 1, Close: 1}}
	assert.Error(t, ValidateSeries(zeroTime))

	dup := []Candle{ok[0], ok[0]}
	assert.Error(t, ValidateSeries(dup))

	backwards := []Candle{ok[1], ok[0]}
	assert.Error(t, ValidateSeries(backwards))

	badPrice := []Candle{{Time: start, Open: 1, High: 2, Low: -1, Close: 2}}
	assert.Error(t, ValidateSeries(badPrice))
}
