package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/polygon-io/client-go/rest/models"

	"github.com/quantor-lab/quantor/pkg/marketdata/writer"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

// OnDownloadProgress is called as a download advances.
type OnDownloadProgress = func(current float64, total float64, message string)

// Provider downloads historical bars for a ticker and hands them to a
// configured writer.
type Provider interface {
	// ConfigWriter configures the writer the downloaded bars are sent to.
	ConfigWriter(writer writer.BarWriter)
	// Download fetches bars for the ticker in [startDate, endDate] at the
	// given resolution and returns the path the writer produced. Cancel the
	// context to abort the download.
	Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error)
}

// NewMarketDataProvider creates a provider of the given type. The polygon
// provider takes its API key as config.
func NewMarketDataProvider(providerType ProviderType, config any) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, fmt.Errorf("polygon provider requires API key string config")
		}

		return NewPolygonClient(apiKey)
	default:
		return nil, fmt.Errorf("unsupported market data provider: %s", providerType)
	}
}
