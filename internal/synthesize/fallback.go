package synthesize

import (
	"fmt"
	"strings"

	"marketscout/internal/core"
)

// Fallback builds a deterministic AnalysisResult from corpus statistics
// alone. It is total: any corpus, including an empty one, yields a complete
// result.
func Fallback(corpus core.ProcessedCorpus, query string) core.AnalysisResult {
	if corpus.TotalSources == 0 {
		return emptyCorpusResult(corpus, query)
	}

	confidence := confidenceLevel(confidencePoints(corpus))
	clusters := topClusters(corpus, 5)
	domains := topDomains(corpus, 3)

	trends := make([]string, 0, len(clusters))
	for _, phrase := range clusters {
		cluster := corpus.TopicClusters[phrase]
		trends = append(trends, fmt.Sprintf("%s is a recurring theme across %d sources (avg relevance %.2f)",
			phrase, cluster.Count, cluster.AvgScore))
	}
	if len(trends) == 0 {
		trends = []string{fmt.Sprintf("No dominant theme emerged across the %d sources reviewed for %q",
			corpus.TotalSources, query)}
	}

	opportunities := []string{
		fmt.Sprintf("Deeper analysis of the %d highest-relevance sources may surface actionable signals", len(corpus.KeyContent)),
	}
	if len(clusters) > 1 {
		opportunities = append(opportunities,
			fmt.Sprintf("The intersection of %s and %s appears underexplored", clusters[0], clusters[1]))
	}

	risks := []string{
		fmt.Sprintf("Automated synthesis was unavailable; findings rest on statistical aggregation of %d sources", corpus.TotalSources),
	}
	if corpus.QualityMetrics.SourceReliability < 0.7 {
		risks = append(risks,
			fmt.Sprintf("Average source reliability is %.2f; corroborate before acting", corpus.QualityMetrics.SourceReliability))
	}
	if corpus.QualityMetrics.RecentSources < corpus.TotalSources/2 {
		risks = append(risks, "Fewer than half of the sources were published within the last 90 days")
	}

	recommendations := []string{
		fmt.Sprintf("Review the %d key findings manually before drawing conclusions", len(corpus.KeyContent)),
		"Re-run the analysis when the language-model service is available",
	}

	players := entityPlayers(corpus)
	position := fmt.Sprintf("Coverage of %q spans %d domains with %s overall sentiment",
		query, len(corpus.DomainDistribution), corpus.Sentiment.OverallSentiment)

	summary := fmt.Sprintf(
		"Statistical analysis of %d sources for %q: %s data confidence, source reliability %.2f, %d sources published within 90 days.",
		corpus.TotalSources, query, confidence, corpus.QualityMetrics.SourceReliability,
		corpus.QualityMetrics.RecentSources)
	if len(clusters) > 0 {
		summary += fmt.Sprintf(" Leading topics: %s.", strings.Join(clusters, ", "))
	}

	return core.AnalysisResult{
		KeyTrends:           trends,
		MarketOpportunities: opportunities,
		RiskFactors:         risks,
		Recommendations:     recommendations,
		CompetitiveLandscape: core.CompetitiveLandscape{
			MajorPlayers:          players,
			MarketPosition:        position,
			CompetitiveAdvantages: []string{fmt.Sprintf("Strongest coverage from %s", strings.Join(domains, ", "))},
			MarketConcentration:   "unknown",
		},
		DataConfidence:   confidence,
		Summary:          summary,
		AnalysisMetadata: buildMetadata(corpus),
	}
}

func emptyCorpusResult(corpus core.ProcessedCorpus, query string) core.AnalysisResult {
	return core.AnalysisResult{
		KeyTrends:           []string{fmt.Sprintf("No sources were gathered for %q", query)},
		MarketOpportunities: []string{"Broaden the search terms or relax the domain filters"},
		RiskFactors:         []string{"Analysis is based on zero sources and carries no evidential weight"},
		Recommendations:     []string{"Re-run with a more general query"},
		CompetitiveLandscape: core.CompetitiveLandscape{
			MajorPlayers:          []string{},
			MarketPosition:        "No coverage available",
			CompetitiveAdvantages: []string{},
			MarketConcentration:   "unknown",
		},
		DataConfidence:   core.ConfidenceLow,
		Summary:          fmt.Sprintf("No usable sources were found for %q; no conclusions can be drawn.", query),
		AnalysisMetadata: buildMetadata(corpus),
	}
}

// entityPlayers collects distinct entity mentions from the key content, in
// first-seen order.
func entityPlayers(corpus core.ProcessedCorpus) []string {
	seen := make(map[string]bool)
	var players []string
	for _, snippet := range corpus.KeyContent {
		for _, entity := range snippet.Entities {
			if seen[entity] {
				continue
			}
			seen[entity] = true
			players = append(players, entity)
			if len(players) == 8 {
				return players
			}
		}
	}
	if players == nil {
		players = []string{}
	}
	return players
}
