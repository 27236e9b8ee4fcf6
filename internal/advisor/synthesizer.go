// Package advisor fuses the sentiment and trend signals into a trading
// recommendation and orchestrates the full article pipeline.
package advisor

import (
	"math"
	"strings"

	"stock-news-advisor/internal/types"
)

const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionHold = "HOLD"
)

const (
	reasonBullish      = "Positive sentiment and upward trend"
	reasonBearish      = "Negative sentiment and downward trend"
	reasonMixed        = "Mixed signals"
	reasonInsufficient = "Insufficient data"
)

// Synthesize combines a sentiment distribution with a trend prediction into a
// bounded-confidence recommendation. The rule is deterministic: identical
// inputs always yield the identical recommendation.
func Synthesize(sentiment types.SentimentResult, ind types.Indicators) types.Recommendation {
	dominant, score, ok := sentiment.Dominant()
	if !ok || ind.Empty() {
		return types.Recommendation{Action: ActionHold, Confidence: 0.0, Reason: reasonInsufficient}
	}

	switch {
	case strings.EqualFold(dominant, "positive") && ind.Direction == "up":
		return types.Recommendation{
			Action:     ActionBuy,
			Confidence: round2((score + ind.ProbUp) / 2),
			Reason:     reasonBullish,
		}
	case strings.EqualFold(dominant, "negative") && ind.Direction == "down":
		return types.Recommendation{
			Action:     ActionSell,
			Confidence: round2((score + (1 - ind.ProbUp)) / 2),
			Reason:     reasonBearish,
		}
	default:
		neutral := 0.0
		for label, s := range sentiment.Scores {
			if strings.EqualFold(label, "neutral") {
				neutral = s
				break
			}
		}
		trendStrength := 1 - 2*math.Abs(0.5-ind.ProbUp)
		return types.Recommendation{
			Action:     ActionHold,
			Confidence: round2(math.Max(neutral, trendStrength)),
			Reason:     reasonMixed,
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
