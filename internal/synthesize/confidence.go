package synthesize

import (
	"fmt"
	"sort"

	"marketscout/internal/core"
)

// Confidence thresholds on the 100-point factor scale.
const (
	highConfidenceFloor   = 75.0
	mediumConfidenceFloor = 45.0
)

// confidencePoints computes the weighted confidence score. Each factor is
// capped individually: source count up to 25 points at 1.5 per source,
// average relevance up to 25, source reliability up to 20, recency ratio up
// to 15 and domain diversity up to 15 at 2 per domain.
func confidencePoints(corpus core.ProcessedCorpus) float64 {
	if corpus.TotalSources == 0 {
		return 0
	}

	points := minFloat(float64(corpus.TotalSources)*1.5, 25)
	points += corpus.QualityMetrics.AverageRelevanceScore * 25
	points += corpus.QualityMetrics.SourceReliability * 20
	points += float64(corpus.QualityMetrics.RecentSources) / float64(corpus.TotalSources) * 15
	points += minFloat(float64(len(corpus.DomainDistribution))*2, 15)
	return points
}

func confidenceLevel(points float64) core.DataConfidence {
	switch {
	case points >= highConfidenceFloor:
		return core.ConfidenceHigh
	case points >= mediumConfidenceFloor:
		return core.ConfidenceMedium
	default:
		return core.ConfidenceLow
	}
}

// recencyScore blends the temporal buckets with weights 4/3/2/1 for
// week/month/quarter/year, normalized by source count and capped at 4.
func recencyScore(corpus core.ProcessedCorpus) float64 {
	if corpus.TotalSources == 0 {
		return 0
	}
	dist := corpus.TimeDistribution
	weighted := float64(4*dist.LastWeek + 3*dist.LastMonth + 2*dist.LastQuarter + 1*dist.LastYear)
	return minFloat(weighted/float64(corpus.TotalSources), 4)
}

// diversityScore rewards spread over domain types and distinct domains,
// capped at 5.
func diversityScore(corpus core.ProcessedCorpus) float64 {
	types := make(map[core.DomainType]bool)
	for _, stat := range corpus.DomainDistribution {
		types[stat.Type] = true
	}
	return minFloat(0.4*float64(len(types))+0.1*float64(len(corpus.DomainDistribution)), 5)
}

func buildMetadata(corpus core.ProcessedCorpus) core.AnalysisMetadata {
	return core.AnalysisMetadata{
		SourcesAnalyzed:   corpus.TotalSources,
		QualityScore:      corpus.QualityMetrics.AverageRelevanceScore,
		ReliabilityScore:  corpus.QualityMetrics.SourceReliability,
		RecencyScore:      recencyScore(corpus),
		DiversityScore:    diversityScore(corpus),
		SentimentScore:    corpus.Sentiment.AverageScore,
		ConfidenceFactors: confidenceFactors(corpus),
	}
}

func confidenceFactors(corpus core.ProcessedCorpus) []string {
	factors := []string{
		fmt.Sprintf("%d sources analyzed", corpus.TotalSources),
		fmt.Sprintf("average relevance %.2f", corpus.QualityMetrics.AverageRelevanceScore),
		fmt.Sprintf("source reliability %.2f", corpus.QualityMetrics.SourceReliability),
	}
	if corpus.TotalSources > 0 {
		factors = append(factors,
			fmt.Sprintf("%d of %d sources published within 90 days",
				corpus.QualityMetrics.RecentSources, corpus.TotalSources),
			fmt.Sprintf("%d distinct domains", len(corpus.DomainDistribution)))
	}
	return factors
}

// topClusters returns cluster phrases ordered by avgScore*count descending.
func topClusters(corpus core.ProcessedCorpus, max int) []string {
	phrases := make([]string, 0, len(corpus.TopicClusters))
	for phrase := range corpus.TopicClusters {
		phrases = append(phrases, phrase)
	}
	sort.Slice(phrases, func(i, j int) bool {
		ci, cj := corpus.TopicClusters[phrases[i]], corpus.TopicClusters[phrases[j]]
		ri, rj := ci.AvgScore*float64(ci.Count), cj.AvgScore*float64(cj.Count)
		if ri != rj {
			return ri > rj
		}
		return phrases[i] < phrases[j]
	})
	if len(phrases) > max {
		phrases = phrases[:max]
	}
	return phrases
}

// topDomains returns domain names ordered by avgScore*credibility*count
// descending, mirroring the analyzer's ranking.
func topDomains(corpus core.ProcessedCorpus, max int) []string {
	names := make([]string, 0, len(corpus.DomainDistribution))
	for name := range corpus.DomainDistribution {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		si, sj := corpus.DomainDistribution[names[i]], corpus.DomainDistribution[names[j]]
		ri := si.AvgScore * si.Credibility * float64(si.Count)
		rj := sj.AvgScore * sj.Credibility * float64(sj.Count)
		if ri != rj {
			return ri > rj
		}
		return names[i] < names[j]
	})
	if len(names) > max {
		names = names[:max]
	}
	return names
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
