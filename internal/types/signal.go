package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type SignalType string

const (
	// SignalTypeBuy tells the engine to open a long position.
	SignalTypeBuy SignalType = "BUY"
	// SignalTypeSell tells the engine to close the open position.
	SignalTypeSell SignalType = "SELL"
	// SignalTypeHold tells the engine to take no action.
	SignalTypeHold SignalType = "HOLD"
)

// Signal is a strategy's trade intent for the current bar. It is produced
// and consumed within one simulation step and never stored.
type Signal struct {
	// Time is the time of the bar the signal was computed on.
	Time time.Time
	// Type is the trade intent.
	Type SignalType
	// Reason is a human-readable explanation, carried into the order log.
	Reason string
	// TargetSize is the fraction of available capital to deploy on a buy,
	// in (0, 1]. None means full-capital sizing.
	TargetSize optional.Option[float64]
}

// Hold returns a HOLD signal for the given bar time.
func Hold(t time.Time, reason string) Signal {
	return Signal{
		Time:       t,
		Type:       SignalTypeHold,
		Reason:     reason,
		TargetSize: optional.None[float64](),
	}
}
