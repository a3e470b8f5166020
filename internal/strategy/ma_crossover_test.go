package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quantor-lab/quantor/internal/indicator"
	"github.com/quantor-lab/quantor/internal/types"
	"github.com/quantor-lab/quantor/pkg/errors"
)

type MACrossoverTestSuite struct {
	suite.Suite
}

func TestMACrossoverSuite(t *testing.T) {
	suite.Run(t, new(MACrossoverTestSuite))
}

func seriesFromCloses(closes ...float64) types.Series {
	s := make(types.Series, len(closes))
	for i, c := range closes {
		s[i] = types.Bar{
			Time:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}

	return s
}

func (suite *MACrossoverTestSuite) TestNewMACrossoverValidation() {
	_, err := NewMACrossover(0, 3, indicator.KindSMA)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyConfig))

	_, err = NewMACrossover(3, 3, indicator.KindSMA)
	suite.Error(err)

	_, err = NewMACrossover(5, 2, indicator.KindSMA)
	suite.Error(err)

	_, err = NewMACrossover(2, 3, indicator.Kind("wma"))
	suite.Error(err)

	s, err := NewMACrossover(2, 3, indicator.KindEMA)
	suite.NoError(err)
	suite.Equal("ma_crossover_ema_2_3", s.Name())
	suite.Equal(4, s.WarmupPeriod())
}

func (suite *MACrossoverTestSuite) TestHoldDuringWarmup() {
	s, err := NewMACrossover(2, 3, indicator.KindSMA)
	suite.Require().NoError(err)

	series := seriesFromCloses(100, 90, 80)
	for i := 1; i <= len(series); i++ {
		sig, err := s.Signal(series[:i])
		suite.NoError(err)
		suite.Equal(types.SignalTypeHold, sig.Type)
	}
}

func (suite *MACrossoverTestSuite) TestGoldenCrossFiresOnce() {
	s, err := NewMACrossover(2, 3, indicator.KindSMA)
	suite.Require().NoError(err)

	// SMA(2) crosses above SMA(3) on the 105 bar:
	// prev short 85 <= prev long 90, current short 92.5 > current long 91.67.
	series := seriesFromCloses(100, 90, 80, 105, 120, 130)

	sig, err := s.Signal(series[:4])
	suite.NoError(err)
	suite.Equal(types.SignalTypeBuy, sig.Type)
	suite.Equal(series[3].Time, sig.Time)

	// Short MA stays above long MA afterwards: no re-fire.
	for i := 5; i <= len(series); i++ {
		sig, err := s.Signal(series[:i])
		suite.NoError(err)
		suite.Equal(types.SignalTypeHold, sig.Type)
	}
}

func (suite *MACrossoverTestSuite) TestDeathCross() {
	s, err := NewMACrossover(2, 3, indicator.KindSMA)
	suite.Require().NoError(err)

	series := seriesFromCloses(100, 90, 80, 105, 120, 130, 125, 118)

	sig, err := s.Signal(series)
	suite.NoError(err)
	suite.Equal(types.SignalTypeSell, sig.Type)
}

func (suite *MACrossoverTestSuite) TestTieIsNoCross() {
	s, err := NewMACrossover(2, 3, indicator.KindSMA)
	suite.Require().NoError(err)

	// At the 110 bar both averages equal 100 exactly: a tie is not a cross.
	series := seriesFromCloses(100, 100, 90, 110)

	sig, err := s.Signal(series)
	suite.NoError(err)
	suite.Equal(types.SignalTypeHold, sig.Type)
}

func (suite *MACrossoverTestSuite) TestFlatMarketNeverFires() {
	s, err := NewMACrossover(2, 3, indicator.KindSMA)
	suite.Require().NoError(err)

	series := seriesFromCloses(100, 100, 100, 100, 100, 100, 100, 100, 100, 100)
	for i := 1; i <= len(series); i++ {
		sig, err := s.Signal(series[:i])
		suite.NoError(err)
		suite.Equal(types.SignalTypeHold, sig.Type)
	}
}

func (suite *MACrossoverTestSuite) TestEMACrossover() {
	s, err := NewMACrossover(2, 3, indicator.KindEMA)
	suite.Require().NoError(err)

	// EMA reacts faster than SMA; the rebound bar already triggers a buy.
	series := seriesFromCloses(100, 100, 90, 110)

	sig, err := s.Signal(series)
	suite.NoError(err)
	suite.Equal(types.SignalTypeBuy, sig.Type)
}
