package backtest

import (
	"github.com/shopspring/decimal"

	"github.com/quantor-lab/quantor/internal/types"
	"github.com/quantor-lab/quantor/pkg/errors"
)

// cashTolerance absorbs float-to-decimal conversion noise when checking that
// a fill fits in the available cash. Sizing already guarantees the fit in
// float arithmetic.
var cashTolerance = decimal.NewFromFloat(1e-6)

// Ledger is the single book of record for a run: cash, the open position,
// every order and closed trade, and the realized P&L. All money arithmetic
// goes through decimals so the accounting identity holds to the cent.
type Ledger struct {
	initialCapital decimal.Decimal
	cash           decimal.Decimal
	realized       decimal.Decimal
	commission     decimal.Decimal

	position        types.Position
	entryCommission decimal.Decimal
	entryBarIndex   int

	orders  []types.Order
	trades  []types.Trade
	skipped []types.SkippedSignal
}

// NewLedger opens a ledger with the given starting cash.
func NewLedger(initialCapital float64) *Ledger {
	capital := decimal.NewFromFloat(initialCapital)

	return &Ledger{
		initialCapital: capital,
		cash:           capital,
		orders:         []types.Order{},
		trades:         []types.Trade{},
		skipped:        []types.SkippedSignal{},
	}
}

// ApplyFill books a filled order at the given bar index. Buys debit cash and
// open the position with the commission folded into the average cost; sells
// credit the net proceeds, realize the P&L, and close the round trip into
// the trade log.
func (l *Ledger) ApplyFill(order types.Order, barIndex int) error {
	if err := order.Validate(); err != nil {
		return err
	}

	quantity := decimal.NewFromFloat(order.Quantity)
	notional := quantity.Mul(decimal.NewFromFloat(order.FilledPrice))
	fee := decimal.NewFromFloat(order.Commission)

	switch order.Side {
	case types.SideBuy:
		if l.position.IsOpen() {
			return errors.Newf(errors.ErrCodePositionMismatch, "buy order %s while position of %f already open", order.ID, l.position.Quantity)
		}

		total := notional.Add(fee)
		if total.Sub(l.cash).GreaterThan(cashTolerance) {
			return errors.Newf(errors.ErrCodeInsufficientFunds, "order %s costs %s but only %s cash available", order.ID, total, l.cash)
		}

		l.cash = l.cash.Sub(total)
		averageCost, _ := total.Div(quantity).Float64()
		l.position = types.Position{
			Quantity:     order.Quantity,
			AverageCost:  averageCost,
			OpenTime:     order.Timestamp,
			EntryOrderID: order.ID,
		}
		l.entryCommission = fee
		l.entryBarIndex = barIndex

	case types.SideSell:
		if !l.position.IsOpen() {
			return errors.Newf(errors.ErrCodePositionMismatch, "sell order %s with no open position", order.ID)
		}
		if order.Quantity != l.position.Quantity {
			return errors.Newf(errors.ErrCodePositionMismatch, "sell order %s for %f does not match open position of %f", order.ID, order.Quantity, l.position.Quantity)
		}

		proceeds := notional.Sub(fee)
		costBasis := quantity.Mul(decimal.NewFromFloat(l.position.AverageCost))
		pnl := proceeds.Sub(costBasis)

		l.cash = l.cash.Add(proceeds)
		l.realized = l.realized.Add(pnl)

		realizedPnL, _ := pnl.Float64()
		tradeCommission, _ := l.entryCommission.Add(fee).Float64()
		l.trades = append(l.trades, types.Trade{
			EntryOrderID: l.position.EntryOrderID,
			ExitOrderID:  order.ID,
			EntryTime:    l.position.OpenTime,
			ExitTime:     order.Timestamp,
			Quantity:     order.Quantity,
			EntryPrice:   l.position.AverageCost,
			ExitPrice:    order.FilledPrice,
			Commission:   tradeCommission,
			RealizedPnL:  realizedPnL,
			HoldingBars:  barIndex - l.entryBarIndex,
		})

		l.position = types.Position{}
		l.entryCommission = decimal.Zero
		l.entryBarIndex = 0

	default:
		return errors.Newf(errors.ErrCodeInvalidOrder, "order %s has unknown side %q", order.ID, order.Side)
	}

	l.commission = l.commission.Add(fee)
	l.orders = append(l.orders, order)

	return nil
}

// Skip records a signal that was downgraded to no action.
func (l *Ledger) Skip(s types.SkippedSignal) {
	l.skipped = append(l.skipped, s)
}

// MarkToMarket values the portfolio at the bar close: cash plus the open
// position at the close price.
func (l *Ledger) MarkToMarket(bar types.Bar) types.EquityPoint {
	value := l.cash.Add(decimal.NewFromFloat(l.position.MarketValue(bar.Close)))
	equity, _ := value.Float64()

	return types.EquityPoint{
		Time:  bar.Time,
		Value: equity,
	}
}

// Finalize closes the books against the last bar. An open position is marked
// at the last close as unrealized P&L; it is not a trade and pays no
// commission.
func (l *Ledger) Finalize(lastBar types.Bar) types.ExecutionSummary {
	positionValue := decimal.NewFromFloat(l.position.MarketValue(lastBar.Close))
	finalValue := l.cash.Add(positionValue)

	initialCapital, _ := l.initialCapital.Float64()
	finalValueF, _ := finalValue.Float64()
	finalCash, _ := l.cash.Float64()
	positionValueF, _ := positionValue.Float64()
	realized, _ := l.realized.Float64()
	commission, _ := l.commission.Float64()

	return types.ExecutionSummary{
		InitialCapital:        initialCapital,
		FinalValue:            finalValueF,
		FinalCash:             finalCash,
		FinalPositionQuantity: l.position.Quantity,
		FinalPositionValue:    positionValueF,
		RealizedPnL:           realized,
		UnrealizedPnL:         l.position.UnrealizedPnL(lastBar.Close),
		TotalCommission:       commission,
		Liquidated:            l.position.IsOpen(),
	}
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() float64 {
	cash, _ := l.cash.Float64()

	return cash
}

// Position returns a copy of the open position.
func (l *Ledger) Position() types.Position {
	return l.position
}

// Orders returns the order log in fill order.
func (l *Ledger) Orders() []types.Order {
	return l.orders
}

// Trades returns the closed round trips in exit order.
func (l *Ledger) Trades() []types.Trade {
	return l.trades
}

// Skipped returns the signals that were downgraded to no action.
func (l *Ledger) Skipped() []types.SkippedSignal {
	return l.skipped
}
