package binance

import (
	"context"
	"testing"
	"time"

	sdk "github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertKline(t *testing.T) {
	k := &sdk.Kline{
		OpenTime: 1704067200000, // 2024-01-01T00:00:00Z
		Open:     "42000.5",
		High:     "42100",
		Low:      "41900.25",
		Close:    "42050",
		Volume:   "123.456",
	}

	c, err := convertKline(k)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), c.Time)
	assert.Equal(t, 42000.5, c.Open)
	assert.Equal(t, 42100.0, c.High)
	assert.Equal(t, 41900.25, c.Low)
	assert.Equal(t, 42050.0, c.Close)
	assert.Equal(t, 123.456, c.Volume)
}

func TestConvertKlineBadField(t *testing.T) {
	k := &sdk.Kline{
		OpenTime: 1704067200000,
		Open:     "not-a-number",
		High:     "1",
		Low:      "1",
		Close:    "1",
		Volume:   "1",
	}
	_, err := convertKline(k)
	require.Error(t, err)
}

func TestKlinesValidatesArguments(t *testing.T) {
	c := NewClient()
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := c.Klines(ctx, "", "1h", start, start.Add(time.Hour))
	require.Error(t, err)

	_, err = c.Klines(ctx, "BTCUSDT", "", start, start.Add(time.Hour))
	require.Error(t, err)

	_, err = c.Klines(ctx, "BTCUSDT", "1h", start, start)
	require.Error(t, err)
}
