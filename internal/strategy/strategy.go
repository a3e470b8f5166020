// Package strategy defines the strategy plug-in boundary of the backtest
// engine and ships the reference moving-average crossover strategy.
package strategy

import (
	"github.com/quantor-lab/quantor/internal/types"
)

// Strategy maps a bar plus its trailing history to a trading signal.
//
// Implementations may keep internal state (accumulators, previous values)
// but must not read wall-clock time, randomness, or perform I/O: the engine
// relies on this to make runs reproducible. A strategy called with fewer
// bars than its warmup period must return HOLD, not an error.
type Strategy interface {
	// Name identifies the strategy in orders and results.
	Name() string
	// WarmupPeriod is the minimum number of bars of history required
	// before the strategy can emit a non-HOLD signal.
	WarmupPeriod() int
	// Signal computes the trade intent for the latest bar of history.
	// history always contains at least one bar and is read-only.
	Signal(history types.Series) (types.Signal, error)
}
