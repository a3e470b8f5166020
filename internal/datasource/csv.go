package datasource

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/quantor-lab/quantor/internal/logger"
	"github.com/quantor-lab/quantor/internal/types"
	"github.com/quantor-lab/quantor/pkg/errors"
)

// csvColumns is the required header of a bar CSV file, in order.
var csvColumns = []string{"time", "open", "high", "low", "close", "volume"}

// CSVLoader reads bars from a CSV file with a time,open,high,low,close,volume
// header. Times are RFC 3339 timestamps or plain dates.
type CSVLoader struct {
	path   string
	logger *logger.Logger
}

// NewCSVLoader builds a loader for the given file path. A nil logger
// disables logging.
func NewCSVLoader(path string, log *logger.Logger) *CSVLoader {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &CSVLoader{
		path:   path,
		logger: log,
	}
}

// Load implements Loader.
func (l *CSVLoader) Load(ctx context.Context) (types.Series, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to open %s", l.path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataReadFailed, err, "failed to read header of %s", l.path)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var series types.Series
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeDataReadFailed, err, "failed to read %s line %d", l.path, line)
		}

		bar, err := parseBar(record)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeDataReadFailed, err, "invalid bar at %s line %d", l.path, line)
		}
		series = append(series, bar)
	}

	l.logger.Info("loaded csv series", zap.String("path", l.path), zap.Int("bars", len(series)))

	return series, nil
}

// Close implements Loader. The CSV loader holds nothing open between loads.
func (l *CSVLoader) Close() error {
	return nil
}

func validateHeader(header []string) error {
	if len(header) != len(csvColumns) {
		return errors.Newf(errors.ErrCodeDataReadFailed, "header has %d columns, want %d", len(header), len(csvColumns))
	}
	for i, want := range csvColumns {
		if header[i] != want {
			return errors.Newf(errors.ErrCodeDataReadFailed, "header column %d is %q, want %q", i, header[i], want)
		}
	}

	return nil
}

func parseBar(record []string) (types.Bar, error) {
	if len(record) != len(csvColumns) {
		return types.Bar{}, errors.Newf(errors.ErrCodeDataReadFailed, "row has %d columns, want %d", len(record), len(csvColumns))
	}

	barTime, err := parseTime(record[0])
	if err != nil {
		return types.Bar{}, err
	}

	fields := make([]float64, 5)
	for i := range fields {
		value, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return types.Bar{}, errors.Wrapf(errors.ErrCodeDataReadFailed, err, "column %s is not a number", csvColumns[i+1])
		}
		fields[i] = value
	}

	return types.Bar{
		Time:   barTime,
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: fields[4],
	}, nil
}

func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}

	return time.Time{}, errors.Newf(errors.ErrCodeDataReadFailed, "unparseable time %q", value)
}
