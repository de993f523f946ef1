package analyze

import (
	"strings"

	"marketscout/internal/core"
)

const sentimentMargin = 0.2

// sentimentPolarity scores text as (positive hits - negative hits) over the
// token count, in [-1, 1].
func sentimentPolarity(text string) float64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0
	}
	var positive, negative int
	for _, field := range tokens {
		token := strings.Trim(field, ".,!?;:\"'()[]")
		if positiveWords[token] {
			positive++
		} else if negativeWords[token] {
			negative++
		}
	}
	return float64(positive-negative) / float64(len(tokens))
}

func polarityLabel(polarity float64) string {
	switch {
	case polarity > 0:
		return "positive"
	case polarity < 0:
		return "negative"
	default:
		return "neutral"
	}
}

// aggregateSentiment labels each result and summarizes the corpus. The
// overall label requires a clear margin between positive and negative shares
// before leaving neutral.
func aggregateSentiment(results []core.RawResult) core.SentimentSummary {
	summary := core.SentimentSummary{OverallSentiment: "neutral"}
	if len(results) == 0 {
		return summary
	}

	var total float64
	for _, r := range results {
		polarity := sentimentPolarity(lowerText(r))
		total += polarity
		switch polarityLabel(polarity) {
		case "positive":
			summary.Distribution.Positive++
		case "negative":
			summary.Distribution.Negative++
		default:
			summary.Distribution.Neutral++
		}
	}
	summary.AverageScore = total / float64(len(results))

	balance := float64(summary.Distribution.Positive-summary.Distribution.Negative) / float64(len(results))
	switch {
	case balance > sentimentMargin:
		summary.OverallSentiment = "positive"
	case balance < -sentimentMargin:
		summary.OverallSentiment = "negative"
	}
	return summary
}
