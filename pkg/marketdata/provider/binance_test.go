package provider

import (
	"context"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertTimespanToBinanceInterval(t *testing.T) {
	tests := []struct {
		timespan   models.Timespan
		multiplier int
		want       string
		wantErr    bool
	}{
		{models.Minute, 1, "1m", false},
		{models.Minute, 15, "15m", false},
		{models.Hour, 4, "4h", false},
		{models.Day, 1, "1d", false},
		{models.Week, 1, "1w", false},
		{models.Week, 2, "", true},
		{models.Month, 1, "1M", false},
		{models.Month, 3, "", true},
		{models.Second, 1, "", true},
	}

	for _, tt := range tests {
		got, err := convertTimespanToBinanceInterval(tt.timespan, tt.multiplier)
		if tt.wantErr {
			assert.Error(t, err, "timespan %s x%d", tt.timespan, tt.multiplier)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestBinanceDownloadRequiresWriter(t *testing.T) {
	client, err := NewBinanceClient()
	require.NoError(t, err)

	_, err = client.Download(
		context.Background(),
		"BTCUSDT",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		1, models.Day, nil,
	)
	assert.Error(t, err)
}

func TestPolygonRequiresAPIKey(t *testing.T) {
	_, err := NewPolygonClient("")
	assert.Error(t, err)
}

func TestPolygonDownloadRequiresWriter(t *testing.T) {
	client, err := NewPolygonClient("test-key")
	require.NoError(t, err)

	_, err = client.Download(
		context.Background(),
		"AAPL",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		1, models.Day, nil,
	)
	assert.Error(t, err)
}
