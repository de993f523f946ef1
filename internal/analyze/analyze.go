package analyze

import (
	"sort"
	"time"

	"marketscout/internal/core"
	"marketscout/internal/domains"
	"marketscout/internal/logger"
)

// Caps on the derived aggregates.
const (
	maxDomains       = 15
	maxKeyContent    = 15
	maxTopicClusters = 12
)

// Analyzer computes the ProcessedCorpus aggregates over a deduplicated
// result set. It makes no external calls and never fails: an empty input
// yields a well-defined zero corpus.
type Analyzer struct {
	now func() time.Time
}

// New creates an Analyzer using wall-clock time for recency bucketing.
func New() *Analyzer {
	return &Analyzer{now: time.Now}
}

// Analyze builds the corpus aggregates from the gathered results.
func (a *Analyzer) Analyze(results []core.RawResult) core.ProcessedCorpus {
	corpus := core.ProcessedCorpus{
		TotalSources:       len(results),
		DomainDistribution: map[string]core.DomainStat{},
		TopicClusters:      map[string]core.TopicCluster{},
		Sentiment:          core.SentimentSummary{OverallSentiment: "neutral"},
	}
	if len(results) == 0 {
		return corpus
	}

	now := a.now()

	corpus.DomainDistribution = aggregateDomains(results)
	corpus.QualityMetrics = qualityMetrics(results, now)
	corpus.TimeDistribution = timeDistribution(results, now)
	corpus.TopicClusters = topicClusters(results)
	corpus.Sentiment = aggregateSentiment(results)
	corpus.KeyContent = extractKeyContent(results, now)

	logger.Debug("corpus analyzed",
		"sources", corpus.TotalSources,
		"domains", len(corpus.DomainDistribution),
		"clusters", len(corpus.TopicClusters))

	return corpus
}

// aggregateDomains groups results by domain and keeps the top domains ranked
// by average score weighted by credibility and volume.
func aggregateDomains(results []core.RawResult) map[string]core.DomainStat {
	type agg struct {
		count int
		total float64
	}
	byDomain := make(map[string]*agg)
	for _, r := range results {
		entry, ok := byDomain[r.Domain]
		if !ok {
			entry = &agg{}
			byDomain[r.Domain] = entry
		}
		entry.count++
		entry.total += r.RelevanceScore
	}

	type ranked struct {
		domain  string
		stat    core.DomainStat
		ranking float64
	}
	rankedDomains := make([]ranked, 0, len(byDomain))
	for domain, entry := range byDomain {
		profile := domains.Classify(domain)
		avg := entry.total / float64(entry.count)
		rankedDomains = append(rankedDomains, ranked{
			domain: domain,
			stat: core.DomainStat{
				Count:       entry.count,
				AvgScore:    avg,
				Type:        profile.Type,
				Credibility: profile.Credibility,
			},
			ranking: avg * profile.Credibility * float64(entry.count),
		})
	}

	sort.Slice(rankedDomains, func(i, j int) bool {
		if rankedDomains[i].ranking != rankedDomains[j].ranking {
			return rankedDomains[i].ranking > rankedDomains[j].ranking
		}
		return rankedDomains[i].domain < rankedDomains[j].domain
	})
	if len(rankedDomains) > maxDomains {
		rankedDomains = rankedDomains[:maxDomains]
	}

	out := make(map[string]core.DomainStat, len(rankedDomains))
	for _, entry := range rankedDomains {
		out[entry.domain] = entry.stat
	}
	return out
}

func qualityMetrics(results []core.RawResult, now time.Time) core.QualityMetrics {
	var metrics core.QualityMetrics
	var totalScore, totalCredibility float64
	var totalLength int

	for _, r := range results {
		totalScore += r.RelevanceScore
		totalLength += len(r.Content)
		totalCredibility += domains.Classify(r.Domain).Credibility

		switch {
		case r.RelevanceScore == 0:
			metrics.ScoreDistribution.Unknown++
		case r.RelevanceScore > 0.7:
			metrics.ScoreDistribution.High++
		case r.RelevanceScore >= 0.4:
			metrics.ScoreDistribution.Medium++
		default:
			metrics.ScoreDistribution.Low++
		}

		if r.PublishedDate != nil {
			age := now.Sub(*r.PublishedDate)
			if age <= 90*24*time.Hour {
				metrics.RecentSources++
			}
			if age <= 30*24*time.Hour {
				metrics.VeryRecentSources++
			}
		}
	}

	n := float64(len(results))
	metrics.AverageRelevanceScore = totalScore / n
	metrics.SourceReliability = totalCredibility / n
	metrics.AverageContentLength = float64(totalLength) / n
	return metrics
}

func timeDistribution(results []core.RawResult, now time.Time) core.TimeDistribution {
	var dist core.TimeDistribution
	for _, r := range results {
		if r.PublishedDate == nil {
			dist.Unknown++
			continue
		}
		age := now.Sub(*r.PublishedDate)
		switch {
		case age <= 7*24*time.Hour:
			dist.LastWeek++
		case age <= 30*24*time.Hour:
			dist.LastMonth++
		case age <= 90*24*time.Hour:
			dist.LastQuarter++
		case age <= 365*24*time.Hour:
			dist.LastYear++
		default:
			dist.Older++
		}
	}
	return dist
}

// topicClusters scans each result for the fixed business vocabulary and
// keeps recurring phrases ranked by average score weighted by volume.
func topicClusters(results []core.RawResult) map[string]core.TopicCluster {
	type agg struct {
		count int
		total float64
	}
	byPhrase := make(map[string]*agg)
	for _, r := range results {
		text := lowerText(r)
		for _, phrase := range topicVocabulary {
			if !containsPhrase(text, phrase) {
				continue
			}
			entry, ok := byPhrase[phrase]
			if !ok {
				entry = &agg{}
				byPhrase[phrase] = entry
			}
			entry.count++
			entry.total += r.RelevanceScore
		}
	}

	type ranked struct {
		phrase  string
		cluster core.TopicCluster
	}
	var clusters []ranked
	for phrase, entry := range byPhrase {
		if entry.count <= 1 {
			continue
		}
		clusters = append(clusters, ranked{
			phrase: phrase,
			cluster: core.TopicCluster{
				Count:    entry.count,
				AvgScore: entry.total / float64(entry.count),
			},
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		ri := clusters[i].cluster.AvgScore * float64(clusters[i].cluster.Count)
		rj := clusters[j].cluster.AvgScore * float64(clusters[j].cluster.Count)
		if ri != rj {
			return ri > rj
		}
		return clusters[i].phrase < clusters[j].phrase
	})
	if len(clusters) > maxTopicClusters {
		clusters = clusters[:maxTopicClusters]
	}

	out := make(map[string]core.TopicCluster, len(clusters))
	for _, entry := range clusters {
		out[entry.phrase] = entry.cluster
	}
	return out
}

// recencyMultiplier biases key-content selection toward fresh sources.
func recencyMultiplier(published *time.Time, now time.Time) float64 {
	if published == nil {
		return 0.5
	}
	age := now.Sub(*published)
	switch {
	case age <= 7*24*time.Hour:
		return 1.2
	case age <= 30*24*time.Hour:
		return 1.1
	case age <= 90*24*time.Hour:
		return 1.0
	case age <= 365*24*time.Hour:
		return 0.9
	default:
		return 0.7
	}
}
