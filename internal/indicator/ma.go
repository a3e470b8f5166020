// Package indicator provides the moving-average calculations used by the
// reference strategies. All functions are pure: they read the given price
// history and nothing else.
package indicator

import (
	"github.com/quantor-lab/quantor/pkg/errors"
)

// Kind selects the moving-average flavor.
type Kind string

const (
	KindSMA Kind = "sma"
	KindEMA Kind = "ema"
)

// SMA returns the simple moving average of the last period values.
// Returns 0 when there is not enough history.
func SMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}

	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}

	return sum / float64(period)
}

// EMA returns the exponential moving average over the full history with the
// standard smoothing factor 2/(period+1), seeded with the SMA of the first
// period values. Returns 0 when there is not enough history.
func EMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}

	ema := SMA(values[:period], period)
	multiplier := 2.0 / (float64(period) + 1.0)

	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
	}

	return ema
}

// MovingAverage dispatches on kind. Returns an error for an unknown kind.
func MovingAverage(kind Kind, values []float64, period int) (float64, error) {
	switch kind {
	case KindSMA:
		return SMA(values, period), nil
	case KindEMA:
		return EMA(values, period), nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "unknown moving average kind: %s", kind)
	}
}
