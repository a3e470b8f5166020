package strategy

import (
	"fmt"

	"github.com/quantor-lab/quantor/internal/indicator"
	"github.com/quantor-lab/quantor/internal/types"
	"github.com/quantor-lab/quantor/pkg/errors"
)

// MACrossover buys when the short moving average crosses above the long
// moving average and sells on the reverse cross. Crossing is detected by
// comparing the sign of (shortMA - longMA) between the previous and the
// current bar: an edge, not a level, so a strategy sitting above or below
// the long MA without crossing does not re-fire. Ties count as no cross.
type MACrossover struct {
	shortPeriod int
	longPeriod  int
	kind        indicator.Kind
}

// NewMACrossover creates a moving-average crossover strategy. shortPeriod
// must be positive and strictly less than longPeriod; kind selects simple
// or exponential averaging.
func NewMACrossover(shortPeriod, longPeriod int, kind indicator.Kind) (*MACrossover, error) {
	if shortPeriod <= 0 {
		return nil, errors.Newf(errors.ErrCodeStrategyConfig, "short period must be positive, got %d", shortPeriod)
	}

	if longPeriod <= shortPeriod {
		return nil, errors.Newf(errors.ErrCodeStrategyConfig,
			"long period %d must be greater than short period %d", longPeriod, shortPeriod)
	}

	if kind != indicator.KindSMA && kind != indicator.KindEMA {
		return nil, errors.Newf(errors.ErrCodeStrategyConfig, "unknown moving average kind: %s", kind)
	}

	return &MACrossover{
		shortPeriod: shortPeriod,
		longPeriod:  longPeriod,
		kind:        kind,
	}, nil
}

// Name returns the name of the strategy.
func (s *MACrossover) Name() string {
	return fmt.Sprintf("ma_crossover_%s_%d_%d", s.kind, s.shortPeriod, s.longPeriod)
}

// WarmupPeriod returns the history needed for a current and a previous
// long-period average.
func (s *MACrossover) WarmupPeriod() int {
	return s.longPeriod + 1
}

// Signal implements Strategy.
func (s *MACrossover) Signal(history types.Series) (types.Signal, error) {
	bar := history.Last()

	// Need a previous value of both averages to detect an edge.
	if len(history) < s.WarmupPeriod() {
		return types.Hold(bar.Time, "warming up"), nil
	}

	closes := history.Closes()
	prevCloses := closes[:len(closes)-1]

	shortMA, err := indicator.MovingAverage(s.kind, closes, s.shortPeriod)
	if err != nil {
		return types.Signal{}, err
	}

	longMA, err := indicator.MovingAverage(s.kind, closes, s.longPeriod)
	if err != nil {
		return types.Signal{}, err
	}

	prevShortMA, err := indicator.MovingAverage(s.kind, prevCloses, s.shortPeriod)
	if err != nil {
		return types.Signal{}, err
	}

	prevLongMA, err := indicator.MovingAverage(s.kind, prevCloses, s.longPeriod)
	if err != nil {
		return types.Signal{}, err
	}

	switch {
	case shortMA > longMA && prevShortMA <= prevLongMA:
		return types.Signal{
			Time:   bar.Time,
			Type:   types.SignalTypeBuy,
			Reason: fmt.Sprintf("short %s %.4f crossed above long %s %.4f", s.kind, shortMA, s.kind, longMA),
		}, nil
	case shortMA < longMA && prevShortMA >= prevLongMA:
		return types.Signal{
			Time:   bar.Time,
			Type:   types.SignalTypeSell,
			Reason: fmt.Sprintf("short %s %.4f crossed below long %s %.4f", s.kind, shortMA, s.kind, longMA),
		}, nil
	default:
		return types.Hold(bar.Time, "no cross"), nil
	}
}
