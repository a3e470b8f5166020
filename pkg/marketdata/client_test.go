package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"
)

type ClientTestSuite struct {
	suite.Suite
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) validConfig() ClientConfig {
	return ClientConfig{
		ProviderType: ProviderBinance,
		WriterType:   WriterDuckDB,
		DataPath:     suite.T().TempDir(),
	}
}

func (suite *ClientTestSuite) TestNewClient() {
	client, err := NewClient(suite.validConfig(), nil)
	suite.Require().NoError(err)
	suite.NotNil(client)
}

func (suite *ClientTestSuite) TestNewClientRequiresPolygonKey() {
	config := suite.validConfig()
	config.ProviderType = ProviderPolygon

	_, err := NewClient(config, nil)
	suite.Error(err)

	config.PolygonApiKey = "test-key"
	client, err := NewClient(config, nil)
	suite.Require().NoError(err)
	suite.NotNil(client)
}

func (suite *ClientTestSuite) TestNewClientRejectsUnknownProvider() {
	config := suite.validConfig()
	config.ProviderType = "yahoo"

	_, err := NewClient(config, nil)
	suite.Error(err)
}

func (suite *ClientTestSuite) TestDownloadRejectsInvalidParams() {
	client, err := NewClient(suite.validConfig(), nil)
	suite.Require().NoError(err)

	// End date before start date.
	_, err = client.Download(context.Background(), DownloadParams{
		Ticker:     "BTCUSDT",
		StartDate:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Multiplier: 1,
		Timespan:   models.Day,
	})
	suite.Error(err)

	// Missing ticker.
	_, err = client.Download(context.Background(), DownloadParams{
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Multiplier: 1,
		Timespan:   models.Day,
	})
	suite.Error(err)
}

func (suite *ClientTestSuite) TestOutputFileName() {
	name := OutputFileName(DownloadParams{
		Ticker:     "AAPL",
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Multiplier: 1,
		Timespan:   models.Day,
	})
	suite.Equal("AAPL_2024-01-01_2024-06-01_1_day.parquet", name)
}
