package datasource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/quantor-lab/quantor/internal/logger"
	"github.com/quantor-lab/quantor/internal/types"
	"github.com/quantor-lab/quantor/pkg/errors"
)

// DuckDBLoader reads bars for one symbol from a Parquet file through an
// in-memory DuckDB view. The Parquet schema is the one the market data
// writer produces: time, symbol, open, high, low, close, volume.
type DuckDBLoader struct {
	db     *sql.DB
	symbol string
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBLoader opens the Parquet file at path and prepares a view over
// it. A nil logger disables logging.
func NewDuckDBLoader(path string, symbol string, log *logger.Logger) (*DuckDBLoader, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataReadFailed, "failed to open duckdb", err)
	}

	// Squirrel doesn't support CREATE VIEW, raw SQL here.
	query := fmt.Sprintf(`CREATE VIEW market_data AS SELECT * FROM read_parquet('%s')`, path)
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read parquet file %s", path)
	}

	return &DuckDBLoader{
		db:     db,
		symbol: symbol,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Load implements Loader.
func (l *DuckDBLoader) Load(ctx context.Context) (types.Series, error) {
	query := l.sq.
		Select("time", "open", "high", "low", "close", "volume").
		From("market_data").
		Where(squirrel.Eq{"symbol": l.symbol}).
		OrderBy("time").
		RunWith(l.db)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query bars for %s", l.symbol)
	}
	defer rows.Close()

	var series types.Series
	for rows.Next() {
		var bar types.Bar
		if err := rows.Scan(&bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar", err)
		}
		series = append(series, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate bars", err)
	}

	if len(series) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no bars for symbol %s", l.symbol)
	}

	l.logger.Info("loaded parquet series", zap.String("symbol", l.symbol), zap.Int("bars", len(series)))

	return series, nil
}

// Close implements Loader.
func (l *DuckDBLoader) Close() error {
	return l.db.Close()
}
