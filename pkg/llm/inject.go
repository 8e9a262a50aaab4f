package llm

import (
	"fmt"
	"regexp"
	"strings"

	"finbrief/internal/model"
)

var placeholderPattern = regexp.MustCompile(`\{([a-z0-9_]+)\}`)

// Placeholders returns the formatted value for every placeholder the
// narrative is allowed to use. Indicators that could not be computed
// (zero value with enough context to know why) are omitted so the
// prompt never offers them.
func Placeholders(s model.Snapshot) map[string]string {
	values := map[string]string{
		"close":       formatPrice(s.Close),
		"change_1d":   formatPercent(s.Change1D),
		"change_5d":   formatPercent(s.Change5D),
		"change_20d":  formatPercent(s.Change20D),
		"period_high": formatPrice(s.PeriodHigh),
		"period_low":  formatPrice(s.PeriodLow),
		"avg_volume":  formatVolume(s.AvgVolume),
	}

	if s.SMA20 > 0 {
		values["sma_20"] = formatPrice(s.SMA20)
	}
	if s.SMA50 > 0 {
		values["sma_50"] = formatPrice(s.SMA50)
	}
	if s.EMA12 > 0 {
		values["ema_12"] = formatPrice(s.EMA12)
	}
	if s.EMA26 > 0 {
		values["ema_26"] = formatPrice(s.EMA26)
	}
	if s.RSI14 > 0 {
		values["rsi_14"] = fmt.Sprintf("%.1f", s.RSI14)
	}
	if s.Volatility20 > 0 {
		values["volatility_20"] = fmt.Sprintf("%.1f%%", s.Volatility20)
	}
	if s.MACD != 0 || s.MACDSignal != 0 {
		values["macd"] = fmt.Sprintf("%.2f", s.MACD)
		values["macd_signal"] = fmt.Sprintf("%.2f", s.MACDSignal)
	}

	return values
}

// Inject substitutes placeholder tokens in text with their computed
// values. A placeholder without a value fails the whole injection:
// shipping a report with a dangling {token} or a hallucinated number
// is worse than regenerating it.
func Inject(text string, values map[string]string) (string, error) {
	var missing []string

	result := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := values[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("unknown placeholders: %s", strings.Join(missing, ", "))
	}

	return result, nil
}

// InjectNumbers renders every placeholder in a narrative result in place.
func InjectNumbers(result *NarrativeResult, s model.Snapshot) error {
	values := Placeholders(s)

	headline, err := Inject(result.Headline, values)
	if err != nil {
		return fmt.Errorf("headline: %w", err)
	}

	narrative, err := Inject(result.Narrative, values)
	if err != nil {
		return fmt.Errorf("narrative: %w", err)
	}

	takeaways := make([]string, len(result.Takeaways))
	for i, takeaway := range result.Takeaways {
		rendered, err := Inject(takeaway, values)
		if err != nil {
			return fmt.Errorf("takeaway %d: %w", i, err)
		}
		takeaways[i] = rendered
	}

	result.Headline = headline
	result.Narrative = narrative
	result.Takeaways = takeaways
	return nil
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

func formatVolume(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
