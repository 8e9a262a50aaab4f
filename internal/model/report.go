package model

import "time"

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

type ReportJob struct {
	ID        int64
	Symbol    string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot holds the indicator values computed from daily candles.
// Stored as JSONB alongside the report so a narrative can always be
// checked against the exact numbers it was generated from.
type Snapshot struct {
	Close        float64 `json:"close"`
	SMA20        float64 `json:"sma_20"`
	SMA50        float64 `json:"sma_50"`
	EMA12        float64 `json:"ema_12"`
	EMA26        float64 `json:"ema_26"`
	RSI14        float64 `json:"rsi_14"`
	MACD         float64 `json:"macd"`
	MACDSignal   float64 `json:"macd_signal"`
	Change1D     float64 `json:"change_1d"`
	Change5D     float64 `json:"change_5d"`
	Change20D    float64 `json:"change_20d"`
	Volatility20 float64 `json:"volatility_20"`
	PeriodHigh   float64 `json:"period_high"`
	PeriodLow    float64 `json:"period_low"`
	AvgVolume    float64 `json:"avg_volume"`
	Candles      int     `json:"candles"`
}

type Regime struct {
	Trend      string `json:"trend"`
	Momentum   string `json:"momentum"`
	Volatility string `json:"volatility"`
}

type Report struct {
	ID            int64
	JobID         int64
	Symbol        string
	Headline      string
	Narrative     string
	Takeaways     []string
	Snapshot      Snapshot
	Regime        Regime
	ModelUsed     string
	PromptVersion string
	GeneratedAt   time.Time
}

type Ticker struct {
	ID        int64
	Symbol    string
	Name      string
	Active    bool
	CreatedAt time.Time
}

type ProcessingError struct {
	ID           int64
	JobID        int64
	ErrorMessage string
	ErrorType    string
	CreatedAt    time.Time
}
