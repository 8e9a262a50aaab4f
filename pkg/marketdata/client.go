package marketdata

import "time"

type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

type Client interface {
	// Candles returns up to days daily candles for symbol, oldest first.
	Candles(symbol string, days int) ([]Candle, error)
	Name() string
}
