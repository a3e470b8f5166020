package backtest

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"

	"github.com/quantor-lab/quantor/internal/types"
)

// maxQuantityIterations bounds the fee refinement loop. The proportional
// adjustment converges in two or three steps for any sane fee schedule.
const maxQuantityIterations = 10

// ExecutionModel converts signals into fills. It applies slippage to the bar
// close, charges commission on the notional, and sizes buys so that the total
// cost never exceeds the available cash.
type ExecutionModel struct {
	commission CostModel
	slippage   CostModel
	precision  int
}

// NewExecutionModel builds an execution model from the configured cost
// components and quantity precision.
func NewExecutionModel(commission, slippage CostModel, precision int) *ExecutionModel {
	return &ExecutionModel{
		commission: commission,
		slippage:   slippage,
		precision:  precision,
	}
}

// FillPrice applies slippage to the bar close. Slippage always moves the
// price against the trader: up on buys, down on sells. A sell price is
// clamped at zero.
func (m *ExecutionModel) FillPrice(side types.Side, closePrice float64) float64 {
	var price float64
	switch m.slippage.Type {
	case CostTypePercentage:
		if side == types.SideBuy {
			price = closePrice * (1 + m.slippage.Value)
		} else {
			price = closePrice * (1 - m.slippage.Value)
		}
	case CostTypeFixed:
		if side == types.SideBuy {
			price = closePrice + m.slippage.Value
		} else {
			price = closePrice - m.slippage.Value
		}
	default:
		price = closePrice
	}

	return math.Max(price, 0)
}

// Commission returns the commission charged on a fill with the given
// notional value.
func (m *ExecutionModel) Commission(notional float64) float64 {
	switch m.commission.Type {
	case CostTypePercentage:
		return notional * m.commission.Value
	case CostTypeFixed:
		return m.commission.Value
	default:
		return 0
	}
}

// MaxQuantity returns the largest quantity purchasable at price such that
// notional plus commission stays within balance. The estimate starts fee-free
// and is refined by scaling the quantity down proportionally.
func (m *ExecutionModel) MaxQuantity(balance float64, price float64) float64 {
	if price <= 0 || balance <= 0 {
		return 0
	}

	maxQty := balance / price
	for i := 0; i < maxQuantityIterations; i++ {
		totalCost := maxQty*price + m.Commission(maxQty*price)
		if totalCost <= balance {
			break
		}
		maxQty = maxQty * (balance / totalCost)
	}

	return maxQty
}

// RoundQuantity floors the quantity to the configured decimal precision so a
// fill never exceeds what the sizing allows.
func (m *ExecutionModel) RoundQuantity(quantity float64) float64 {
	multiplier := math.Pow10(m.precision)

	return math.Floor(quantity*multiplier) / multiplier
}

// Fill turns a signal into at most one order against the current bar. A
// signal that cannot be executed is downgraded to no action and reported as
// a skipped signal: buys while a position is open, sells while flat, and
// buys whose affordable quantity rounds to zero.
func (m *ExecutionModel) Fill(sig types.Signal, bar types.Bar, cash float64, position types.Position, seq int) (optional.Option[types.Order], optional.Option[types.SkippedSignal]) {
	switch sig.Type {
	case types.SignalTypeBuy:
		if position.IsOpen() {
			return optional.None[types.Order](), optional.Some(types.SkippedSignal{
				Time:   sig.Time,
				Type:   sig.Type,
				Reason: "position already open",
			})
		}

		budget := cash
		if sig.TargetSize.IsSome() {
			budget = cash * sig.TargetSize.Unwrap()
		}

		fillPrice := m.FillPrice(types.SideBuy, bar.Close)
		quantity := m.RoundQuantity(m.MaxQuantity(budget, fillPrice))
		if quantity <= 0 {
			return optional.None[types.Order](), optional.Some(types.SkippedSignal{
				Time:   sig.Time,
				Type:   sig.Type,
				Reason: "insufficient capital for one unit",
			})
		}

		return optional.Some(m.order(types.SideBuy, sig, bar, fillPrice, quantity, seq)), optional.None[types.SkippedSignal]()

	case types.SignalTypeSell:
		if !position.IsOpen() {
			return optional.None[types.Order](), optional.Some(types.SkippedSignal{
				Time:   sig.Time,
				Type:   sig.Type,
				Reason: "no open position",
			})
		}

		fillPrice := m.FillPrice(types.SideSell, bar.Close)

		return optional.Some(m.order(types.SideSell, sig, bar, fillPrice, position.Quantity, seq)), optional.None[types.SkippedSignal]()

	default:
		return optional.None[types.Order](), optional.None[types.SkippedSignal]()
	}
}

func (m *ExecutionModel) order(side types.Side, sig types.Signal, bar types.Bar, fillPrice, quantity float64, seq int) types.Order {
	return types.Order{
		ID:             fmt.Sprintf("ord-%06d", seq),
		Side:           side,
		RequestedPrice: bar.Close,
		FilledPrice:    fillPrice,
		Quantity:       quantity,
		Commission:     m.Commission(quantity * fillPrice),
		Timestamp:      bar.Time,
		Reason: types.Reason{
			Reason:  types.OrderReasonSignal,
			Message: sig.Reason,
		},
	}
}
