package types

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/quantor-lab/quantor/pkg/errors"
)

// Bar is a single OHLCV record for a fixed time interval.
type Bar struct {
	Time   time.Time `yaml:"time" json:"time" csv:"time" validate:"required"`
	Open   float64   `yaml:"open" json:"open" csv:"open" validate:"required,gt=0"`
	High   float64   `yaml:"high" json:"high" csv:"high" validate:"required,gt=0"`
	Low    float64   `yaml:"low" json:"low" csv:"low" validate:"required,gt=0"`
	Close  float64   `yaml:"close" json:"close" csv:"close" validate:"required,gt=0"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume" validate:"gte=0"`
}

// Validate checks the structural and price invariants of a bar:
// low <= open, close <= high and volume >= 0.
func (b *Bar) Validate() error {
	validate := validator.New()
	if err := validate.Struct(b); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidBar, "invalid bar", err)
	}

	if b.Low > b.High {
		return errors.Newf(errors.ErrCodeInvalidBar, "low %.4f above high %.4f at %s", b.Low, b.High, b.Time)
	}

	if b.Open < b.Low || b.Open > b.High {
		return errors.Newf(errors.ErrCodeInvalidBar, "open %.4f outside [low, high] at %s", b.Open, b.Time)
	}

	if b.Close < b.Low || b.Close > b.High {
		return errors.Newf(errors.ErrCodeInvalidBar, "close %.4f outside [low, high] at %s", b.Close, b.Time)
	}

	return nil
}

// Series is an ordered sequence of bars, strictly increasing by time.
// The engine treats a series as read-only input owned by the caller.
type Series []Bar

// MinSeriesLength is the default minimum number of bars a series must
// contain: a strategy needs at least one bar of history to warm up.
const MinSeriesLength = 2

// Validate checks that the series has at least minLength bars, that every
// bar is valid, and that bar times are strictly increasing (no duplicates).
func (s Series) Validate(minLength int) error {
	if minLength < MinSeriesLength {
		minLength = MinSeriesLength
	}

	if len(s) < minLength {
		return errors.Newf(errors.ErrCodeInvalidSeries, "series has %d bars, need at least %d", len(s), minLength)
	}

	for i := range s {
		if err := s[i].Validate(); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidSeries, err, "bar %d invalid", i)
		}

		if i > 0 && !s[i].Time.After(s[i-1].Time) {
			return errors.Newf(errors.ErrCodeInvalidSeries,
				"bar %d time %s does not advance past bar %d time %s", i, s[i].Time, i-1, s[i-1].Time)
		}
	}

	return nil
}

// Closes returns the close prices of the series in order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i := range s {
		closes[i] = s[i].Close
	}

	return closes
}

// First returns the first bar of the series. Panics on an empty series.
func (s Series) First() Bar {
	return s[0]
}

// Last returns the last bar of the series. Panics on an empty series.
func (s Series) Last() Bar {
	return s[len(s)-1]
}

// Clip returns the sub-series whose bar times fall within [start, end].
// A zero start or end leaves that side unbounded. The returned series
// shares the backing array with the receiver.
func (s Series) Clip(start, end time.Time) Series {
	lo := 0
	for lo < len(s) && !start.IsZero() && s[lo].Time.Before(start) {
		lo++
	}

	hi := len(s)
	for hi > lo && !end.IsZero() && s[hi-1].Time.After(end) {
		hi--
	}

	return s[lo:hi]
}
