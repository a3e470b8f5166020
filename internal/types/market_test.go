package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quantor-lab/quantor/pkg/errors"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func flatBar(n int, close float64) Bar {
	return Bar{
		Time:   day(n),
		Open:   close,
		High:   close,
		Low:    close,
		Close:  close,
		Volume: 1000,
	}
}

func (suite *MarketTestSuite) TestBarValidate() {
	tests := []struct {
		name    string
		bar     Bar
		wantErr bool
	}{
		{
			name:    "valid bar",
			bar:     Bar{Time: day(0), Open: 101, High: 105, Low: 99, Close: 103, Volume: 10},
			wantErr: false,
		},
		{
			name:    "flat bar",
			bar:     flatBar(0, 100),
			wantErr: false,
		},
		{
			name:    "low above high",
			bar:     Bar{Time: day(0), Open: 101, High: 100, Low: 102, Close: 101, Volume: 10},
			wantErr: true,
		},
		{
			name:    "open above high",
			bar:     Bar{Time: day(0), Open: 106, High: 105, Low: 99, Close: 103, Volume: 10},
			wantErr: true,
		},
		{
			name:    "close below low",
			bar:     Bar{Time: day(0), Open: 101, High: 105, Low: 99, Close: 98, Volume: 10},
			wantErr: true,
		},
		{
			name:    "negative volume",
			bar:     Bar{Time: day(0), Open: 101, High: 105, Low: 99, Close: 103, Volume: -1},
			wantErr: true,
		},
		{
			name:    "zero time",
			bar:     Bar{Open: 101, High: 105, Low: 99, Close: 103, Volume: 10},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			err := tc.bar.Validate()
			if tc.wantErr {
				suite.Error(err)
			} else {
				suite.NoError(err)
			}
		})
	}
}

func (suite *MarketTestSuite) TestSeriesValidate() {
	valid := Series{flatBar(0, 100), flatBar(1, 101), flatBar(2, 102)}
	suite.NoError(valid.Validate(2))

	tooShort := Series{flatBar(0, 100)}
	err := tooShort.Validate(2)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSeries))

	duplicate := Series{flatBar(0, 100), flatBar(0, 101)}
	suite.Error(duplicate.Validate(2))

	outOfOrder := Series{flatBar(1, 100), flatBar(0, 101)}
	suite.Error(outOfOrder.Validate(2))
}

func (suite *MarketTestSuite) TestSeriesValidateMinLengthFloor() {
	// A minLength below the package default is raised to the default.
	single := Series{flatBar(0, 100)}
	suite.Error(single.Validate(0))
}

func (suite *MarketTestSuite) TestSeriesCloses() {
	s := Series{flatBar(0, 100), flatBar(1, 101.5)}
	suite.Equal([]float64{100, 101.5}, s.Closes())
}

func (suite *MarketTestSuite) TestSeriesFirstLast() {
	s := Series{flatBar(0, 100), flatBar(1, 101), flatBar(2, 102)}
	suite.Equal(100.0, s.First().Close)
	suite.Equal(102.0, s.Last().Close)
}

func (suite *MarketTestSuite) TestSeriesClip() {
	s := Series{flatBar(0, 100), flatBar(1, 101), flatBar(2, 102), flatBar(3, 103)}

	clipped := s.Clip(day(1), day(2))
	suite.Len(clipped, 2)
	suite.Equal(101.0, clipped.First().Close)
	suite.Equal(102.0, clipped.Last().Close)

	// Zero bounds leave the series untouched.
	suite.Len(s.Clip(time.Time{}, time.Time{}), 4)

	// Start half-bounded.
	suite.Len(s.Clip(day(2), time.Time{}), 2)

	// Window outside the series clips everything.
	suite.Len(s.Clip(day(10), day(20)), 0)
}
