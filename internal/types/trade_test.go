package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TradeTestSuite struct {
	suite.Suite
}

func TestTradeSuite(t *testing.T) {
	suite.Run(t, new(TradeTestSuite))
}

func (suite *TradeTestSuite) TestPositionIsOpen() {
	var p Position
	suite.False(p.IsOpen())

	p.Quantity = 10
	suite.True(p.IsOpen())
}

func (suite *TradeTestSuite) TestPositionMarketValue() {
	p := Position{Quantity: 100, AverageCost: 50}
	suite.InDelta(10000.0, p.MarketValue(100), 1e-9)
}

func (suite *TradeTestSuite) TestPositionUnrealizedPnL() {
	p := Position{Quantity: 100, AverageCost: 100.01}
	suite.InDelta(999.0, p.UnrealizedPnL(110.0), 1e-9)

	flat := Position{}
	suite.Zero(flat.UnrealizedPnL(110.0))
}

func (suite *TradeTestSuite) TestOrderValidate() {
	order := Order{
		ID:             "ord-000001",
		Side:           SideBuy,
		RequestedPrice: 100,
		FilledPrice:    100.1,
		Quantity:       10,
		Commission:     1,
		Timestamp:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Reason:         Reason{Reason: OrderReasonSignal, Message: "short MA crossed above long MA"},
		StrategyName:   "ma_crossover_2_3",
	}
	suite.NoError(order.Validate())
	suite.InDelta(1001.0, order.Notional(), 1e-9)

	bad := order
	bad.Side = "SHORT"
	suite.Error(bad.Validate())

	bad = order
	bad.Quantity = 0
	suite.Error(bad.Validate())

	bad = order
	bad.FilledPrice = -1
	suite.Error(bad.Validate())
}
