package analysis

import (
	"fmt"

	"finbrief/internal/model"
	"finbrief/pkg/marketdata"
)

// MinCandles is the fewest daily candles a snapshot can be built from.
// Below this the longer indicators are all zero and the narrative would
// have nothing to say.
const MinCandles = 21

func BuildSnapshot(candles []marketdata.Candle) (*model.Snapshot, error) {
	if len(candles) < MinCandles {
		return nil, fmt.Errorf("need at least %d candles, got %d", MinCandles, len(candles))
	}

	closes := make([]float64, len(candles))
	volumes := make([]float64, len(candles))
	var high, low float64
	for i, c := range candles {
		closes[i] = c.Close
		volumes[i] = c.Volume
		if c.High > high {
			high = c.High
		}
		// Sources missing OHLC data report zero lows; skip them.
		if c.Low > 0 && (low == 0 || c.Low < low) {
			low = c.Low
		}
	}

	macd, signal := MACD(closes)

	s := &model.Snapshot{
		Close:        closes[len(closes)-1],
		SMA20:        SMA(closes, 20),
		SMA50:        SMA(closes, 50),
		EMA12:        EMA(closes, 12),
		EMA26:        EMA(closes, 26),
		RSI14:        RSI(closes, 14),
		MACD:         macd,
		MACDSignal:   signal,
		Change1D:     ChangePercent(closes, 1),
		Change5D:     ChangePercent(closes, 5),
		Change20D:    ChangePercent(closes, 20),
		Volatility20: Volatility(closes, 20),
		PeriodHigh:   high,
		PeriodLow:    low,
		AvgVolume:    SMA(volumes, min(20, len(volumes))),
		Candles:      len(candles),
	}

	return s, nil
}
