package types

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/quantor-lab/quantor/pkg/errors"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

const (
	OrderReasonSignal      string = "strategy_signal"
	OrderReasonLiquidation string = "final_liquidation"
)

// Reason records why an order was created.
type Reason struct {
	Reason  string `yaml:"reason" json:"reason" csv:"reason" validate:"required"`
	Message string `yaml:"message" json:"message" csv:"message"`
}

// Order is a filled order: the engine has no pending state, every order is
// executed at creation and never mutated afterwards. IDs are sequential
// within a run so that identical inputs produce identical results.
type Order struct {
	ID string `yaml:"id" json:"id" csv:"id" validate:"required"`
	// Side is the direction of the order.
	Side Side `yaml:"side" json:"side" csv:"side" validate:"required,oneof=BUY SELL"`
	// RequestedPrice is the reference price the signal was based on (bar close).
	RequestedPrice float64 `yaml:"requested_price" json:"requested_price" csv:"requested_price" validate:"required,gt=0"`
	// FilledPrice is the execution price after slippage.
	FilledPrice float64 `yaml:"filled_price" json:"filled_price" csv:"filled_price" validate:"required,gt=0"`
	Quantity    float64 `yaml:"quantity" json:"quantity" csv:"quantity" validate:"required,gt=0"`
	// Commission is the fee charged on the filled notional.
	Commission float64   `yaml:"commission" json:"commission" csv:"commission" validate:"gte=0"`
	Timestamp  time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp" validate:"required"`
	Reason     Reason    `yaml:"reason" json:"reason" csv:"reason" validate:"required"`
	// StrategyName is the name of the strategy that produced the signal.
	StrategyName string `yaml:"strategy_name" json:"strategy_name" csv:"strategy_name" validate:"required"`
}

// Notional returns the filled value of the order before commission.
func (o *Order) Notional() float64 {
	return o.FilledPrice * o.Quantity
}

// Validate validates the Order struct.
func (o *Order) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order", err)
	}

	return nil
}
