package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Period bounds a backtest run. A zero Start or End leaves that side
// unbounded.
type Period struct {
	Start time.Time `yaml:"start" json:"start"`
	End   time.Time `yaml:"end" json:"end"`
}

// EquityPoint is the total portfolio value (cash + marked position) after
// one bar. Exactly one point is appended per input bar, in bar order.
type EquityPoint struct {
	Time  time.Time `yaml:"time" json:"time" csv:"time"`
	Value float64   `yaml:"value" json:"value" csv:"value"`
}

// ExecutionSummary captures the final accounting state of a run.
type ExecutionSummary struct {
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	// FinalValue is cash plus any open position marked at the last close.
	FinalValue float64 `yaml:"final_value" json:"final_value"`
	FinalCash  float64 `yaml:"final_cash" json:"final_cash"`
	// FinalPositionQuantity is the still-open quantity at the end of the
	// run. Its notional value at the last close is part of FinalValue but
	// is not a trade: no commission is charged and no trade is logged.
	FinalPositionQuantity float64 `yaml:"final_position_quantity" json:"final_position_quantity"`
	FinalPositionValue    float64 `yaml:"final_position_value" json:"final_position_value"`
	RealizedPnL           float64 `yaml:"realized_pnl" json:"realized_pnl"`
	UnrealizedPnL         float64 `yaml:"unrealized_pnl" json:"unrealized_pnl"`
	TotalCommission       float64 `yaml:"total_commission" json:"total_commission"`
	// Liquidated is true when an open position was marked to the last close.
	Liquidated bool `yaml:"liquidated" json:"liquidated"`
}

// TradeBreakdown summarizes trading activity over a run.
type TradeBreakdown struct {
	Total          int     `yaml:"total" json:"total"`
	Winning        int     `yaml:"winning" json:"winning"`
	Losing         int     `yaml:"losing" json:"losing"`
	WinRate        float64 `yaml:"win_rate" json:"win_rate"`
	MaxProfit      float64 `yaml:"max_profit" json:"max_profit"`
	MaxLoss        float64 `yaml:"max_loss" json:"max_loss"`
	AvgHoldingBars float64 `yaml:"avg_holding_bars" json:"avg_holding_bars"`
	SkippedSignals int     `yaml:"skipped_signals" json:"skipped_signals"`
}

// Metrics is the post-run performance breakdown derived from the equity
// curve and trade log. Every ratio is defined to be 0, never NaN or Inf,
// when its denominator degenerates.
type Metrics struct {
	TotalReturn      float64 `yaml:"total_return" json:"total_return"`
	BuyAndHoldReturn float64 `yaml:"buy_and_hold_return" json:"buy_and_hold_return"`
	MaxDrawdown      float64 `yaml:"max_drawdown" json:"max_drawdown"`
	// Drawdown holds one value per equity point: the fractional decline
	// from the running peak, in [0, 1].
	Drawdown []float64 `yaml:"drawdown" json:"drawdown"`
	// DailyReturns holds one value per equity point; index 0 is defined
	// to be 0.
	DailyReturns []float64      `yaml:"daily_returns" json:"daily_returns"`
	SharpeRatio  float64        `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	Trades       TradeBreakdown `yaml:"trades" json:"trades"`
}

// BacktestResult is the immutable output of one engine run.
type BacktestResult struct {
	Symbol    string           `yaml:"symbol" json:"symbol"`
	Strategy  string           `yaml:"strategy" json:"strategy"`
	Period    Period           `yaml:"period" json:"period"`
	Execution ExecutionSummary `yaml:"execution" json:"execution"`
	Equity    []EquityPoint    `yaml:"equity" json:"equity"`
	Orders    []Order          `yaml:"orders" json:"orders"`
	Trades    []Trade          `yaml:"trades" json:"trades"`
	Skipped   []SkippedSignal  `yaml:"skipped" json:"skipped"`
	Metrics   Metrics          `yaml:"metrics" json:"metrics"`
}

// WriteResult serializes a result to a YAML file.
func WriteResult(path string, result *BacktestResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}
