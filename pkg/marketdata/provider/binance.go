package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/quantor-lab/quantor/pkg/marketdata/writer"
)

// binancePageSize is the maximum number of klines the Binance API returns
// per request.
const binancePageSize = 500

type BinanceClient struct {
	client *binance.Client
	writer writer.BarWriter
}

func NewBinanceClient() (Provider, error) {
	return &BinanceClient{
		client: binance.NewClient("", ""),
		writer: nil,
	}, nil
}

func (c *BinanceClient) ConfigWriter(w writer.BarWriter) {
	c.writer = w
}

// Download fetches historical klines from Binance page by page and streams
// them into the configured writer. Binance caps each response at 500 rows,
// so the request window advances past the last close time of every page.
func (c *BinanceClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error) {
	interval, err := convertTimespanToBinanceInterval(timespan, multiplier)
	if err != nil {
		return "", fmt.Errorf("failed to convert timespan to Binance interval: %w", err)
	}

	if c.writer == nil {
		return "", fmt.Errorf("writer is not configured")
	}

	err = c.writer.Initialize()
	if err != nil {
		return "", fmt.Errorf("failed to initialize writer: %w", err)
	}

	defer func() {
		if cerr := c.writer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing writer: %w", cerr)
		}
	}()

	startTimeMillis := startDate.UnixMilli()
	endTimeMillis := endDate.UnixMilli()
	currentStartTime := startTimeMillis

	for {
		klines, err := c.client.NewKlinesService().
			Symbol(ticker).
			Interval(interval).
			StartTime(currentStartTime).
			EndTime(endTimeMillis).
			Do(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to fetch klines from Binance: %w", err)
		}

		if onProgress != nil {
			onProgress(
				float64(currentStartTime-startTimeMillis),
				float64(endTimeMillis-startTimeMillis),
				fmt.Sprintf("Downloading %s klines from Binance", ticker),
			)
		}

		if err := writeKlines(c.writer, ticker, klines); err != nil {
			return "", fmt.Errorf("failed to process klines: %w", err)
		}

		// Last page: no data or a short page.
		if len(klines) < binancePageSize {
			break
		}

		// Advance past the close time of the last kline to avoid duplicates.
		currentStartTime = klines[len(klines)-1].CloseTime + 1
		if currentStartTime >= endTimeMillis {
			break
		}
	}

	outputPath, err := c.writer.Finalize()
	if err != nil {
		return "", fmt.Errorf("failed to finalize writer: %w", err)
	}

	return outputPath, nil
}

// writeKlines converts Binance klines to writer records and persists them.
func writeKlines(w writer.BarWriter, ticker string, klines []*binance.Kline) error {
	for _, k := range klines {
		open, _ := strconv.ParseFloat(k.Open, 64)
		high, _ := strconv.ParseFloat(k.High, 64)
		low, _ := strconv.ParseFloat(k.Low, 64)
		closePrice, _ := strconv.ParseFloat(k.Close, 64)
		volume, _ := strconv.ParseFloat(k.Volume, 64)

		record := writer.Record{
			Symbol: ticker,
			Time:   time.UnixMilli(k.OpenTime),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		}

		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write bar: %w", err)
		}
	}

	return nil
}

// convertTimespanToBinanceInterval converts the polygon timespan and multiplier to a Binance interval string.
// Binance intervals: 1m, 3m, 5m, 15m, 30m, 1h, 2h, 4h, 6h, 8h, 12h, 1d, 3d, 1w, 1M
func convertTimespanToBinanceInterval(timespan models.Timespan, multiplier int) (string, error) {
	switch timespan {
	case models.Minute:
		return fmt.Sprintf("%dm", multiplier), nil
	case models.Hour:
		return fmt.Sprintf("%dh", multiplier), nil
	case models.Day:
		return fmt.Sprintf("%dd", multiplier), nil
	case models.Week:
		if multiplier == 1 {
			return "1w", nil
		}

		return "", fmt.Errorf("unsupported weekly multiplier for Binance: %d", multiplier)
	case models.Month:
		if multiplier == 1 {
			return "1M", nil
		}

		return "", fmt.Errorf("unsupported monthly multiplier for Binance: %d", multiplier)
	default:
		return "", fmt.Errorf("unsupported timespan for Binance: %s", timespan)
	}
}
