package backtest

import (
	"time"

	"go.uber.org/zap"

	"github.com/quantor-lab/quantor/internal/logger"
	"github.com/quantor-lab/quantor/internal/strategy"
	"github.com/quantor-lab/quantor/internal/types"
	"github.com/quantor-lab/quantor/pkg/errors"
)

// State is the lifecycle phase of an engine.
type State string

const (
	// StateConfigured means the engine is ready to run.
	StateConfigured State = "CONFIGURED"
	// StateRunning means Execute is in progress.
	StateRunning State = "RUNNING"
	// StateComplete means Execute finished and the result is available.
	StateComplete State = "COMPLETE"
	// StateFailed means Execute aborted; no partial result exists.
	StateFailed State = "FAILED"
)

// ProgressFunc is called after each simulated bar with the number of bars
// processed so far and the total.
type ProgressFunc func(current, total int)

// Engine runs one backtest: it folds a strategy over a bar series, books the
// resulting fills in a ledger, and derives metrics from the equity curve.
// The loop only ever sees history up to the current bar, so a strategy
// cannot look ahead. An Engine is single-use; rerun with a fresh one.
type Engine struct {
	config     Config
	strategy   strategy.Strategy
	execution  *ExecutionModel
	logger     *logger.Logger
	state      State
	onProgress ProgressFunc
}

// NewEngine builds an engine from a validated config and strategy. A nil
// logger disables logging.
func NewEngine(config Config, strat strategy.Strategy, log *logger.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if strat == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "strategy is required")
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Engine{
		config:    config,
		strategy:  strat,
		execution: NewExecutionModel(config.Commission, config.Slippage, config.DecimalPrecision),
		logger:    log,
		state:     StateConfigured,
	}, nil
}

// State returns the engine's lifecycle phase.
func (e *Engine) State() State {
	return e.state
}

// SetProgressFunc registers a callback invoked once per simulated bar.
func (e *Engine) SetProgressFunc(fn ProgressFunc) {
	e.onProgress = fn
}

// Execute runs the backtest over the series and returns the result. The
// series is clipped to the configured period first; the same engine cannot
// be executed twice.
func (e *Engine) Execute(series types.Series) (*types.BacktestResult, error) {
	if e.state != StateConfigured {
		return nil, errors.Newf(errors.ErrCodeBacktestAlreadyRun, "engine is %s, create a new engine to rerun", e.state)
	}
	e.state = StateRunning

	var start, end time.Time
	if e.config.StartTime.IsSome() {
		start = e.config.StartTime.Unwrap()
	}
	if e.config.EndTime.IsSome() {
		end = e.config.EndTime.Unwrap()
	}
	clipped := series.Clip(start, end)

	minBars := e.config.MinBars
	if warmup := e.strategy.WarmupPeriod(); warmup > minBars {
		minBars = warmup
	}
	if err := clipped.Validate(minBars); err != nil {
		return nil, e.fail(err)
	}

	e.logger.Info("backtest starting",
		zap.String("symbol", e.config.Symbol),
		zap.String("strategy", e.strategy.Name()),
		zap.Int("bars", len(clipped)),
		zap.Float64("initial_capital", e.config.InitialCapital),
	)

	ledger := NewLedger(e.config.InitialCapital)
	equity := make([]types.EquityPoint, 0, len(clipped))
	orderSeq := 1

	for i := range clipped {
		bar := clipped[i]

		signal, err := e.strategy.Signal(clipped[:i+1])
		if err != nil {
			return nil, e.fail(errors.Wrapf(errors.ErrCodeStrategyFault, err, "strategy %s failed at bar %d", e.strategy.Name(), i))
		}

		order, skipped := e.execution.Fill(signal, bar, ledger.Cash(), ledger.Position(), orderSeq)
		if order.IsSome() {
			filled := order.Unwrap()
			filled.StrategyName = e.strategy.Name()
			if err := ledger.ApplyFill(filled, i); err != nil {
				return nil, e.fail(err)
			}
			orderSeq++

			e.logger.Debug("order filled",
				zap.String("id", filled.ID),
				zap.String("side", string(filled.Side)),
				zap.Float64("price", filled.FilledPrice),
				zap.Float64("quantity", filled.Quantity),
			)
		}
		if skipped.IsSome() {
			ledger.Skip(skipped.Unwrap())
		}

		equity = append(equity, ledger.MarkToMarket(bar))
		if e.onProgress != nil {
			e.onProgress(i+1, len(clipped))
		}
	}

	summary := ledger.Finalize(clipped.Last())
	metrics := Analyze(e.config.InitialCapital, equity, clipped, ledger.Trades(), len(ledger.Skipped()), e.config.AnnualizationFactor)

	result := &types.BacktestResult{
		Symbol:   e.config.Symbol,
		Strategy: e.strategy.Name(),
		Period: types.Period{
			Start: clipped.First().Time,
			End:   clipped.Last().Time,
		},
		Execution: summary,
		Equity:    equity,
		Orders:    ledger.Orders(),
		Trades:    ledger.Trades(),
		Skipped:   ledger.Skipped(),
		Metrics:   metrics,
	}

	e.state = StateComplete
	e.logger.Info("backtest complete",
		zap.Float64("final_value", summary.FinalValue),
		zap.Float64("total_return", metrics.TotalReturn),
		zap.Int("trades", metrics.Trades.Total),
	)

	return result, nil
}

func (e *Engine) fail(err error) error {
	e.state = StateFailed
	e.logger.Error("backtest failed", zap.Error(err))

	return err
}
