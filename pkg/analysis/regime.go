package analysis

import "finbrief/internal/model"

const (
	TrendUp       = "uptrend"
	TrendDown     = "downtrend"
	TrendSideways = "sideways"

	MomentumOverbought = "overbought"
	MomentumOversold   = "oversold"
	MomentumNeutral    = "neutral"

	VolatilityHigh   = "high"
	VolatilityNormal = "normal"
	VolatilityLow    = "low"
)

// Classify buckets a snapshot into trend, momentum, and volatility
// labels the LLM can reason about without touching raw numbers.
func Classify(s model.Snapshot) model.Regime {
	return model.Regime{
		Trend:      classifyTrend(s),
		Momentum:   classifyMomentum(s),
		Volatility: classifyVolatility(s),
	}
}

func classifyTrend(s model.Snapshot) string {
	// With fewer than 50 candles SMA50 is zero; fall back to the
	// short average against price.
	if s.SMA50 == 0 {
		switch {
		case s.Close > s.SMA20*1.01:
			return TrendUp
		case s.Close < s.SMA20*0.99:
			return TrendDown
		default:
			return TrendSideways
		}
	}

	switch {
	case s.Close > s.SMA20 && s.SMA20 > s.SMA50:
		return TrendUp
	case s.Close < s.SMA20 && s.SMA20 < s.SMA50:
		return TrendDown
	default:
		return TrendSideways
	}
}

func classifyMomentum(s model.Snapshot) string {
	switch {
	case s.RSI14 >= 70:
		return MomentumOverbought
	case s.RSI14 > 0 && s.RSI14 <= 30:
		return MomentumOversold
	default:
		return MomentumNeutral
	}
}

func classifyVolatility(s model.Snapshot) string {
	switch {
	case s.Volatility20 >= 40:
		return VolatilityHigh
	case s.Volatility20 > 0 && s.Volatility20 < 15:
		return VolatilityLow
	default:
		return VolatilityNormal
	}
}
