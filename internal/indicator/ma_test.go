package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MATestSuite struct {
	suite.Suite
}

func TestMASuite(t *testing.T) {
	suite.Run(t, new(MATestSuite))
}

func (suite *MATestSuite) TestSMA() {
	tests := []struct {
		name     string
		values   []float64
		period   int
		expected float64
	}{
		{"simple average", []float64{1, 2, 3, 4, 5}, 5, 3},
		{"window over tail", []float64{1, 2, 3, 4, 5}, 2, 4.5},
		{"period one", []float64{7, 9}, 1, 9},
		{"insufficient data", []float64{1, 2}, 3, 0},
		{"zero period", []float64{1, 2, 3}, 0, 0},
		{"empty", nil, 2, 0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.InDelta(tc.expected, SMA(tc.values, tc.period), 1e-9)
		})
	}
}

func (suite *MATestSuite) TestEMA() {
	// Seeded with SMA(10, 11, 12) = 11, multiplier = 0.5:
	// next = (13-11)*0.5 + 11 = 12, then (14-12)*0.5 + 12 = 13.
	values := []float64{10, 11, 12, 13, 14}
	suite.InDelta(13.0, EMA(values, 3), 1e-9)

	// With exactly period values, EMA equals the seed SMA.
	suite.InDelta(11.0, EMA(values[:3], 3), 1e-9)

	suite.Zero(EMA([]float64{1, 2}, 3))
	suite.Zero(EMA(nil, 1))
}

func (suite *MATestSuite) TestEMAConvergesTowardConstant() {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 100
	}

	suite.InDelta(100.0, EMA(values, 10), 1e-9)
	suite.InDelta(100.0, SMA(values, 10), 1e-9)
}

func (suite *MATestSuite) TestMovingAverage() {
	values := []float64{1, 2, 3, 4}

	sma, err := MovingAverage(KindSMA, values, 2)
	suite.NoError(err)
	suite.InDelta(3.5, sma, 1e-9)

	ema, err := MovingAverage(KindEMA, values, 2)
	suite.NoError(err)
	suite.Greater(ema, 0.0)

	_, err = MovingAverage(Kind("wma"), values, 2)
	suite.Error(err)
}
