package llm

import (
	"fmt"
	"sort"
	"strings"

	"finbrief/internal/model"
)

const promptVersion = "v1"

const narrateSystemPrompt = `You are a financial analyst writing short daily reports for retail investors.

You will be given a stock symbol, a market regime classification, and a list of placeholder names. Write a report that references numbers ONLY through placeholders in curly braces, e.g. "closed at {close} after a {change_1d} move". Never write a literal number: the real values are substituted in afterwards.

Rules:
1. Use only placeholders from the provided list, exactly as spelled
2. Neutral, factual tone; no advice, no predictions stated as certainty
3. The narrative is 2-4 sentences covering price action, trend, and momentum
4. 2-4 takeaways, one sentence each
5. The headline is short and may contain at most one placeholder

Output as JSON only, no other text:
{
  "headline": "short headline",
  "narrative": "report body with {placeholders}",
  "takeaways": ["takeaway 1", "takeaway 2"]
}`

func formatNarrativeRequest(input NarrativeInput) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Symbol: %s\n", input.Symbol))
	sb.WriteString(fmt.Sprintf("Trend: %s\n", input.Regime.Trend))
	sb.WriteString(fmt.Sprintf("Momentum: %s\n", input.Regime.Momentum))
	sb.WriteString(fmt.Sprintf("Volatility: %s\n", input.Regime.Volatility))
	sb.WriteString(fmt.Sprintf("Day direction: %s\n", direction(input.Snapshot.Change1D)))
	sb.WriteString(fmt.Sprintf("Week direction: %s\n", direction(input.Snapshot.Change5D)))
	sb.WriteString(fmt.Sprintf("Month direction: %s\n", direction(input.Snapshot.Change20D)))
	sb.WriteString(fmt.Sprintf("MACD vs signal: %s\n", macdPosition(input.Snapshot)))
	sb.WriteString(fmt.Sprintf("Available placeholders: %s\n", strings.Join(placeholderNames(input.Snapshot), ", ")))
	return sb.String()
}

func direction(change float64) string {
	switch {
	case change > 0:
		return "up"
	case change < 0:
		return "down"
	default:
		return "flat"
	}
}

func macdPosition(s model.Snapshot) string {
	if s.MACD > s.MACDSignal {
		return "above"
	}
	return "below"
}

func placeholderNames(s model.Snapshot) []string {
	values := Placeholders(s)
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
