package backtest

import (
	"math"

	"github.com/quantor-lab/quantor/internal/types"
)

// Analyze derives performance metrics from the equity curve and trade log of
// a completed run. Every ratio degrades to 0 instead of NaN or Inf when its
// denominator is zero.
func Analyze(initialCapital float64, equity []types.EquityPoint, series types.Series, trades []types.Trade, skipped int, annualization float64) types.Metrics {
	metrics := types.Metrics{
		Drawdown:     make([]float64, len(equity)),
		DailyReturns: make([]float64, len(equity)),
		Trades:       analyzeTrades(trades, skipped),
	}

	if len(equity) == 0 {
		return metrics
	}

	peak := equity[0].Value
	for i, point := range equity {
		if point.Value > peak {
			peak = point.Value
		}
		if peak > 0 {
			metrics.Drawdown[i] = (peak - point.Value) / peak
		}
		if metrics.Drawdown[i] > metrics.MaxDrawdown {
			metrics.MaxDrawdown = metrics.Drawdown[i]
		}

		if i > 0 && equity[i-1].Value > 0 {
			metrics.DailyReturns[i] = point.Value/equity[i-1].Value - 1
		}
	}

	if initialCapital > 0 {
		metrics.TotalReturn = equity[len(equity)-1].Value/initialCapital - 1
	}
	if len(series) > 0 && series[0].Close > 0 {
		metrics.BuyAndHoldReturn = series[len(series)-1].Close/series[0].Close - 1
	}

	metrics.SharpeRatio = sharpeRatio(metrics.DailyReturns, annualization)

	return metrics
}

// sharpeRatio computes the annualized Sharpe ratio over the per-bar returns,
// assuming a zero risk-free rate. The leading structural zero is skipped.
func sharpeRatio(returns []float64, annualization float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	returns = returns[1:]

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}

	return mean / std * math.Sqrt(annualization)
}

func analyzeTrades(trades []types.Trade, skipped int) types.TradeBreakdown {
	breakdown := types.TradeBreakdown{
		Total:          len(trades),
		SkippedSignals: skipped,
	}

	var holdingBars int
	for _, trade := range trades {
		holdingBars += trade.HoldingBars
		switch {
		case trade.RealizedPnL > 0:
			breakdown.Winning++
			if trade.RealizedPnL > breakdown.MaxProfit {
				breakdown.MaxProfit = trade.RealizedPnL
			}
		case trade.RealizedPnL < 0:
			breakdown.Losing++
			if trade.RealizedPnL < breakdown.MaxLoss {
				breakdown.MaxLoss = trade.RealizedPnL
			}
		}
	}

	if breakdown.Total > 0 {
		breakdown.WinRate = float64(breakdown.Winning) / float64(breakdown.Total)
		breakdown.AvgHoldingBars = float64(holdingBars) / float64(breakdown.Total)
	}

	return breakdown
}
