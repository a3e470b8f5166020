package backtest

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/quantor-lab/quantor/internal/logger"
	"github.com/quantor-lab/quantor/internal/types"
	"github.com/quantor-lab/quantor/pkg/errors"
)

// Journal persists completed runs into an in-memory DuckDB so they can be
// queried with SQL and exported to Parquet. The journal sits outside the
// simulation loop: run IDs are random but never feed back into a result.
type Journal struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewJournal opens an in-memory journal.
func NewJournal(log *logger.Logger) (*Journal, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalFailed, "failed to open journal database", err)
	}

	return &Journal{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the journal tables.
func (j *Journal) Initialize() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			symbol TEXT,
			strategy TEXT,
			period_start TIMESTAMP,
			period_end TIMESTAMP,
			initial_capital DOUBLE,
			final_value DOUBLE,
			realized_pnl DOUBLE,
			unrealized_pnl DOUBLE,
			total_commission DOUBLE,
			total_return DOUBLE,
			max_drawdown DOUBLE,
			sharpe_ratio DOUBLE,
			liquidated BOOLEAN
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			run_id TEXT,
			order_id TEXT,
			side TEXT,
			requested_price DOUBLE,
			filled_price DOUBLE,
			quantity DOUBLE,
			commission DOUBLE,
			timestamp TIMESTAMP,
			reason TEXT,
			message TEXT,
			strategy_name TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS trades (
			run_id TEXT,
			entry_order_id TEXT,
			exit_order_id TEXT,
			entry_time TIMESTAMP,
			exit_time TIMESTAMP,
			quantity DOUBLE,
			entry_price DOUBLE,
			exit_price DOUBLE,
			commission DOUBLE,
			realized_pnl DOUBLE,
			holding_bars INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS equity (
			run_id TEXT,
			time TIMESTAMP,
			value DOUBLE
		)`,
	}

	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return errors.Wrap(errors.ErrCodeJournalFailed, "failed to create journal tables", err)
		}
	}

	return nil
}

// Record stores one completed result and returns the run ID it was filed
// under.
func (j *Journal) Record(result *types.BacktestResult) (string, error) {
	runID := uuid.New().String()

	tx, err := j.db.Begin()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeJournalFailed, "failed to begin transaction", err)
	}

	runInsert := j.sq.
		Insert("runs").
		Columns(
			"run_id", "symbol", "strategy", "period_start", "period_end",
			"initial_capital", "final_value", "realized_pnl", "unrealized_pnl",
			"total_commission", "total_return", "max_drawdown", "sharpe_ratio", "liquidated",
		).
		Values(
			runID, result.Symbol, result.Strategy, result.Period.Start, result.Period.End,
			result.Execution.InitialCapital, result.Execution.FinalValue,
			result.Execution.RealizedPnL, result.Execution.UnrealizedPnL,
			result.Execution.TotalCommission, result.Metrics.TotalReturn,
			result.Metrics.MaxDrawdown, result.Metrics.SharpeRatio, result.Execution.Liquidated,
		).
		RunWith(tx)
	if _, err := runInsert.Exec(); err != nil {
		tx.Rollback()
		return "", errors.Wrap(errors.ErrCodeJournalFailed, "failed to insert run", err)
	}

	for _, order := range result.Orders {
		insert := j.sq.
			Insert("orders").
			Columns(
				"run_id", "order_id", "side", "requested_price", "filled_price",
				"quantity", "commission", "timestamp", "reason", "message", "strategy_name",
			).
			Values(
				runID, order.ID, order.Side, order.RequestedPrice, order.FilledPrice,
				order.Quantity, order.Commission, order.Timestamp,
				order.Reason.Reason, order.Reason.Message, order.StrategyName,
			).
			RunWith(tx)
		if _, err := insert.Exec(); err != nil {
			tx.Rollback()
			return "", errors.Wrap(errors.ErrCodeJournalFailed, "failed to insert order", err)
		}
	}

	for _, trade := range result.Trades {
		insert := j.sq.
			Insert("trades").
			Columns(
				"run_id", "entry_order_id", "exit_order_id", "entry_time", "exit_time",
				"quantity", "entry_price", "exit_price", "commission", "realized_pnl", "holding_bars",
			).
			Values(
				runID, trade.EntryOrderID, trade.ExitOrderID, trade.EntryTime, trade.ExitTime,
				trade.Quantity, trade.EntryPrice, trade.ExitPrice, trade.Commission,
				trade.RealizedPnL, trade.HoldingBars,
			).
			RunWith(tx)
		if _, err := insert.Exec(); err != nil {
			tx.Rollback()
			return "", errors.Wrap(errors.ErrCodeJournalFailed, "failed to insert trade", err)
		}
	}

	for _, point := range result.Equity {
		insert := j.sq.
			Insert("equity").
			Columns("run_id", "time", "value").
			Values(runID, point.Time, point.Value).
			RunWith(tx)
		if _, err := insert.Exec(); err != nil {
			tx.Rollback()
			return "", errors.Wrap(errors.ErrCodeJournalFailed, "failed to insert equity point", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(errors.ErrCodeJournalFailed, "failed to commit run", err)
	}

	j.logger.Info("run journaled",
		zap.String("run_id", runID),
		zap.String("symbol", result.Symbol),
		zap.Int("orders", len(result.Orders)),
		zap.Int("trades", len(result.Trades)),
	)

	return runID, nil
}

// Trades reads back the trades of one run in exit order.
func (j *Journal) Trades(runID string) ([]types.Trade, error) {
	query := j.sq.
		Select(
			"entry_order_id", "exit_order_id", "entry_time", "exit_time",
			"quantity", "entry_price", "exit_price", "commission", "realized_pnl", "holding_bars",
		).
		From("trades").
		Where(squirrel.Eq{"run_id": runID}).
		OrderBy("exit_time").
		RunWith(j.db)

	rows, err := query.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalFailed, "failed to query trades", err)
	}
	defer rows.Close()

	var trades []types.Trade
	for rows.Next() {
		var trade types.Trade
		if err := rows.Scan(
			&trade.EntryOrderID, &trade.ExitOrderID, &trade.EntryTime, &trade.ExitTime,
			&trade.Quantity, &trade.EntryPrice, &trade.ExitPrice, &trade.Commission,
			&trade.RealizedPnL, &trade.HoldingBars,
		); err != nil {
			return nil, errors.Wrap(errors.ErrCodeJournalFailed, "failed to scan trade", err)
		}
		trades = append(trades, trade)
	}

	return trades, rows.Err()
}

// Equity reads back the equity curve of one run in bar order.
func (j *Journal) Equity(runID string) ([]types.EquityPoint, error) {
	query := j.sq.
		Select("time", "value").
		From("equity").
		Where(squirrel.Eq{"run_id": runID}).
		OrderBy("time").
		RunWith(j.db)

	rows, err := query.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalFailed, "failed to query equity", err)
	}
	defer rows.Close()

	var points []types.EquityPoint
	for rows.Next() {
		var point types.EquityPoint
		if err := rows.Scan(&point.Time, &point.Value); err != nil {
			return nil, errors.Wrap(errors.ErrCodeJournalFailed, "failed to scan equity point", err)
		}
		points = append(points, point)
	}

	return points, rows.Err()
}

// Export writes the journal tables to Parquet files in the given directory.
func (j *Journal) Export(dir string) error {
	// Squirrel has no COPY support, so these stay raw SQL.
	for _, table := range []string{"runs", "orders", "trades", "equity"} {
		path := filepath.Join(dir, table+".parquet")
		if _, err := j.db.Exec(fmt.Sprintf(`COPY %s TO '%s' (FORMAT PARQUET)`, table, path)); err != nil {
			return errors.Wrapf(errors.ErrCodeJournalFailed, err, "failed to export %s", table)
		}
	}

	j.logger.Info("journal exported", zap.String("dir", dir))

	return nil
}

// Close releases the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
