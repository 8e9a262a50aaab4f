package marketdata

import (
	"context"
	"fmt"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

type FinnHubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnHubClient(apiKey string) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client}
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}

func (c *FinnHubClient) Candles(symbol string, days int) ([]Candle, error) {
	to := time.Now()
	// Weekends and holidays mean roughly 5 trading days per 7 calendar days.
	from := to.AddDate(0, 0, -(days*7/5 + 10))

	res, _, err := c.client.StockCandles(context.Background()).
		Symbol(symbol).
		Resolution("D").
		From(from.Unix()).
		To(to.Unix()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub candles: %w", err)
	}

	if res.S != nil && *res.S != "ok" {
		return nil, fmt.Errorf("finnhub candles: status %q for %s", *res.S, symbol)
	}

	if res.T == nil || res.C == nil {
		return nil, fmt.Errorf("finnhub candles: empty response for %s", symbol)
	}

	ts := *res.T
	closes := *res.C

	candles := make([]Candle, 0, len(ts))
	for i := range ts {
		if i >= len(closes) {
			break
		}

		candle := Candle{
			Time:  time.Unix(ts[i], 0),
			Close: float64(closes[i]),
		}

		if res.O != nil && i < len(*res.O) {
			candle.Open = float64((*res.O)[i])
		}
		if res.H != nil && i < len(*res.H) {
			candle.High = float64((*res.H)[i])
		}
		if res.L != nil && i < len(*res.L) {
			candle.Low = float64((*res.L)[i])
		}
		if res.V != nil && i < len(*res.V) {
			candle.Volume = float64((*res.V)[i])
		}

		candles = append(candles, candle)
	}

	if len(candles) > days {
		candles = candles[len(candles)-days:]
	}

	return candles, nil
}
