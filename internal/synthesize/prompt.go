package synthesize

import (
	"fmt"
	"strings"

	"marketscout/internal/core"
)

const (
	promptSnippets = 10
	promptDomains  = 8
	promptClusters = 8
)

// buildPrompt summarizes the corpus into a single structured prompt and asks
// the model for a fixed JSON schema.
func buildPrompt(corpus core.ProcessedCorpus, query string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a market intelligence analyst. Research query: %q\n\n", query)

	fmt.Fprintf(&b, "Corpus: %d sources, average relevance %.2f, source reliability %.2f, %d published within 90 days.\n",
		corpus.TotalSources,
		corpus.QualityMetrics.AverageRelevanceScore,
		corpus.QualityMetrics.SourceReliability,
		corpus.QualityMetrics.RecentSources)
	fmt.Fprintf(&b, "Overall sentiment: %s (mean polarity %.2f).\n\n",
		corpus.Sentiment.OverallSentiment, corpus.Sentiment.AverageScore)

	if domains := topDomains(corpus, promptDomains); len(domains) > 0 {
		b.WriteString("Top source domains:\n")
		for _, name := range domains {
			stat := corpus.DomainDistribution[name]
			fmt.Fprintf(&b, "- %s (%s, %d results, avg score %.2f)\n",
				name, stat.Type, stat.Count, stat.AvgScore)
		}
		b.WriteString("\n")
	}

	if clusters := topClusters(corpus, promptClusters); len(clusters) > 0 {
		b.WriteString("Recurring topics:\n")
		for _, phrase := range clusters {
			cluster := corpus.TopicClusters[phrase]
			fmt.Fprintf(&b, "- %s (%d mentions, avg score %.2f)\n", phrase, cluster.Count, cluster.AvgScore)
		}
		b.WriteString("\n")
	}

	dist := corpus.TimeDistribution
	fmt.Fprintf(&b, "Publication ages: %d last week, %d last month, %d last quarter, %d last year, %d older, %d undated.\n\n",
		dist.LastWeek, dist.LastMonth, dist.LastQuarter, dist.LastYear, dist.Older, dist.Unknown)

	if len(corpus.KeyContent) > 0 {
		b.WriteString("Key findings from top sources:\n")
		for i, snippet := range corpus.KeyContent {
			if i == promptSnippets {
				break
			}
			fmt.Fprintf(&b, "%d. [%s] %s: %s\n", i+1, snippet.Sentiment, snippet.Title, snippet.Snippet)
			if len(snippet.Entities) > 0 {
				fmt.Fprintf(&b, "   Entities: %s\n", strings.Join(snippet.Entities, ", "))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(`Return a single JSON object with this exact shape and nothing else:
{
  "key_trends": ["3-5 market trends grounded in the findings above"],
  "market_opportunities": ["2-4 concrete opportunities"],
  "risk_factors": ["2-4 risks or headwinds"],
  "recommendations": ["2-4 actionable recommendations"],
  "competitive_landscape": {
    "major_players": ["companies named in the findings"],
    "market_position": "one sentence on where the market stands",
    "competitive_advantages": ["what differentiates the leaders"],
    "market_concentration": "concentrated, moderate, or fragmented"
  },
  "market_dynamics": "one paragraph on supply, demand and pricing forces",
  "summary": "2-3 sentence executive summary"
}

Every claim must be supported by the findings above. Do not invent companies
or figures.`)

	return b.String()
}
