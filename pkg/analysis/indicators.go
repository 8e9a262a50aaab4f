package analysis

import "math"

// SMA returns the simple moving average of the last period values.
// Returns 0 when there is not enough data.
func SMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}

	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// EMA returns the exponential moving average of values with the given
// period, seeded with the SMA of the first period values.
func EMA(values []float64, period int) float64 {
	series := emaSeries(values, period)
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

func emaSeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	k := 2.0 / (float64(period) + 1.0)

	var seed float64
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)

	series := make([]float64, 0, len(values)-period+1)
	series = append(series, seed)

	ema := seed
	for _, v := range values[period:] {
		ema = v*k + ema*(1-k)
		series = append(series, ema)
	}

	return series
}

// RSI returns Wilder's relative strength index over the given period.
// Needs at least period+1 closes; returns 0 otherwise.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 0
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD returns the MACD line (EMA12-EMA26) and its 9-period signal line.
func MACD(closes []float64) (macd, signal float64) {
	const (
		fast       = 12
		slow       = 26
		signalSpan = 9
	)

	if len(closes) < slow {
		return 0, 0
	}

	fastSeries := emaSeries(closes, fast)
	slowSeries := emaSeries(closes, slow)

	// Align: slowSeries starts (slow-fast) entries later.
	offset := len(fastSeries) - len(slowSeries)
	macdLine := make([]float64, len(slowSeries))
	for i := range slowSeries {
		macdLine[i] = fastSeries[i+offset] - slowSeries[i]
	}

	macd = macdLine[len(macdLine)-1]

	if len(macdLine) < signalSpan {
		return macd, 0
	}

	signalSeries := emaSeries(macdLine, signalSpan)
	return macd, signalSeries[len(signalSeries)-1]
}

// ChangePercent returns the percent change between the close n days ago
// and the latest close.
func ChangePercent(closes []float64, days int) float64 {
	if days <= 0 || len(closes) < days+1 {
		return 0
	}

	prev := closes[len(closes)-1-days]
	if prev == 0 {
		return 0
	}
	return (closes[len(closes)-1]/prev - 1) * 100
}

// Volatility returns the annualized standard deviation of daily returns
// over the last period days, as a percentage.
func Volatility(closes []float64, period int) float64 {
	if period <= 1 || len(closes) < period+1 {
		return 0
	}

	window := closes[len(closes)-period-1:]
	returns := make([]float64, 0, period)
	for i := 1; i < len(window); i++ {
		if window[i-1] == 0 {
			continue
		}
		returns = append(returns, window[i]/window[i-1]-1)
	}

	if len(returns) < 2 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	const tradingDays = 252
	return math.Sqrt(variance) * math.Sqrt(tradingDays) * 100
}
