package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position represents the current holding of the backtested symbol.
// The ledger owns the position exclusively; everything else reads copies.
type Position struct {
	Quantity float64 `yaml:"quantity" json:"quantity"`
	// AverageCost is the per-share entry cost including the buy commission.
	// Folding the fee into the cost basis keeps the accounting identity
	// finalValue - initialCapital == realizedPnL + unrealizedPnL exact.
	AverageCost  float64   `yaml:"average_cost" json:"average_cost"`
	OpenTime     time.Time `yaml:"open_time" json:"open_time"`
	EntryOrderID string    `yaml:"entry_order_id" json:"entry_order_id"`
}

// IsOpen reports whether any quantity is held.
func (p *Position) IsOpen() bool {
	return p.Quantity > 0
}

// MarketValue returns the position valued at the given close price.
func (p *Position) MarketValue(close float64) float64 {
	value, _ := decimal.NewFromFloat(p.Quantity).Mul(decimal.NewFromFloat(close)).Float64()

	return value
}

// UnrealizedPnL returns the mark-to-market profit of the open position at
// the given close price.
func (p *Position) UnrealizedPnL(close float64) float64 {
	if !p.IsOpen() {
		return 0
	}

	qty := decimal.NewFromFloat(p.Quantity)
	exit := qty.Mul(decimal.NewFromFloat(close))
	entry := qty.Mul(decimal.NewFromFloat(p.AverageCost))
	pnl, _ := exit.Sub(entry).Float64()

	return pnl
}

// Trade is one closed round trip: a buy fill matched against the sell fill
// that flattened it. Appended to the trade log and never mutated.
type Trade struct {
	EntryOrderID string    `yaml:"entry_order_id" json:"entry_order_id" csv:"entry_order_id"`
	ExitOrderID  string    `yaml:"exit_order_id" json:"exit_order_id" csv:"exit_order_id"`
	EntryTime    time.Time `yaml:"entry_time" json:"entry_time" csv:"entry_time"`
	ExitTime     time.Time `yaml:"exit_time" json:"exit_time" csv:"exit_time"`
	Quantity     float64   `yaml:"quantity" json:"quantity" csv:"quantity"`
	// EntryPrice is the average cost basis including the buy commission.
	EntryPrice float64 `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	// ExitPrice is the sell fill price after slippage.
	ExitPrice float64 `yaml:"exit_price" json:"exit_price" csv:"exit_price"`
	// Commission is the total fee paid across both legs.
	Commission float64 `yaml:"commission" json:"commission" csv:"commission"`
	// RealizedPnL is net of all commission on the round trip.
	RealizedPnL float64 `yaml:"realized_pnl" json:"realized_pnl" csv:"realized_pnl"`
	// HoldingBars is the number of bars the position was held.
	HoldingBars int `yaml:"holding_bars" json:"holding_bars" csv:"holding_bars"`
}

// SkippedSignal records a signal that could not be sized and was downgraded
// to HOLD. Kept for transparency; not an error.
type SkippedSignal struct {
	Time   time.Time  `yaml:"time" json:"time"`
	Type   SignalType `yaml:"type" json:"type"`
	Reason string     `yaml:"reason" json:"reason"`
}
