package core

import "time"

// SearchDepth selects how thoroughly the search service explores a query.
type SearchDepth string

const (
	DepthBasic    SearchDepth = "basic"
	DepthAdvanced SearchDepth = "advanced"
)

// SearchType tags a result with the tier of the term that produced it.
type SearchType string

const (
	SearchTypePrimary   SearchType = "primary"
	SearchTypeSecondary SearchType = "secondary"
)

// SearchStrategy is the structured multi-term plan derived from a free-text
// research query. It is created once per pipeline run and never mutated.
type SearchStrategy struct {
	PrimaryTerms    []string    `json:"primary_terms"`    // 3-6 terms, weight 1.0
	SecondaryTerms  []string    `json:"secondary_terms"`  // 0-4 terms, weight 0.7
	Domains         []string    `json:"domains"`          // Hint only, not enforced
	TimeRange       string      `json:"time_range"`       // e.g. "year", "month"
	SearchDepth     SearchDepth `json:"search_depth"`     // Depth for primary-tier requests
	ExpectedSources int         `json:"expected_sources"` // Clamped to [1,25]
}

// RawResult is one retained hit from the external search service, normalized
// and tagged with the term that found it. Immutable after creation; raw
// results are discarded at the end of a run, only derived aggregates survive.
type RawResult struct {
	Title          string     `json:"title"`
	URL            string     `json:"url"`
	Content        string     `json:"content"`
	Score          float64    `json:"score"` // Service score clamped to [0,1]
	PublishedDate  *time.Time `json:"published_date,omitempty"`
	Domain         string     `json:"domain"`
	SearchTerm     string     `json:"search_term"`
	SearchType     SearchType `json:"search_type"`
	Weight         float64    `json:"weight"`
	RelevanceScore float64    `json:"relevance_score"`
}

// DomainType is the topic category assigned to a source hostname.
type DomainType string

const (
	DomainNews       DomainType = "news"
	DomainBusiness   DomainType = "business"
	DomainTechnology DomainType = "technology"
	DomainAcademic   DomainType = "academic"
	DomainGovernment DomainType = "government"
	DomainIndustry   DomainType = "industry"
	DomainGeneral    DomainType = "general"
)

// DomainProfile is the derived classification of a source hostname.
// Recomputed on demand, never stored.
type DomainProfile struct {
	Type        DomainType `json:"type"`
	Credibility float64    `json:"credibility"` // [0.6, 1.0]
}

// DomainStat aggregates the results contributed by one domain.
type DomainStat struct {
	Count       int        `json:"count"`
	AvgScore    float64    `json:"avg_score"`
	Type        DomainType `json:"type"`
	Credibility float64    `json:"credibility"`
}

// ScoreDistribution buckets results by relevance score.
type ScoreDistribution struct {
	High    int `json:"high"`    // score > 0.7
	Medium  int `json:"medium"`  // score in [0.4, 0.7]
	Low     int `json:"low"`     // score in (0, 0.4)
	Unknown int `json:"unknown"` // no score reported
}

// QualityMetrics summarizes corpus-wide relevance and reliability.
type QualityMetrics struct {
	AverageRelevanceScore float64           `json:"average_relevance_score"`
	ScoreDistribution     ScoreDistribution `json:"score_distribution"`
	RecentSources         int               `json:"recent_sources"`      // Published within 90 days
	VeryRecentSources     int               `json:"very_recent_sources"` // Published within 30 days
	SourceReliability     float64           `json:"source_reliability"`  // Mean domain credibility
	AverageContentLength  float64           `json:"average_content_length"`
}

// TimeDistribution buckets results by publication age.
type TimeDistribution struct {
	LastWeek    int `json:"last_week"`
	LastMonth   int `json:"last_month"`
	LastQuarter int `json:"last_quarter"`
	LastYear    int `json:"last_year"`
	Older       int `json:"older"`
	Unknown     int `json:"unknown"`
}

// TopicCluster tracks occurrences of one business-vocabulary phrase.
type TopicCluster struct {
	Count    int     `json:"count"`
	AvgScore float64 `json:"avg_score"`
}

// SentimentDistribution counts results by coarse polarity label.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// SentimentSummary aggregates per-result polarity over the corpus.
type SentimentSummary struct {
	Distribution     SentimentDistribution `json:"distribution"`
	AverageScore     float64               `json:"average_score"`
	OverallSentiment string                `json:"overall_sentiment"` // positive, neutral, negative
}

// KeySnippet is an extracted highlight from one high-ranking result, used to
// build the synthesis prompt.
type KeySnippet struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Snippet    string   `json:"snippet"` // Sentence-boundary aware, <= 250 chars
	KeyPhrases []string `json:"key_phrases"`
	Sentiment  string   `json:"sentiment"`
	Entities   []string `json:"entities"`
}

// ProcessedCorpus is the aggregate view of a gathered result set, built once
// per run by the analyzer and immutable afterwards. It is one of the two
// records handed to the downstream report/persistence collaborator.
type ProcessedCorpus struct {
	TotalSources       int                     `json:"total_sources"`
	DomainDistribution map[string]DomainStat   `json:"domain_distribution"`
	QualityMetrics     QualityMetrics          `json:"quality_metrics"`
	TimeDistribution   TimeDistribution        `json:"time_distribution"`
	TopicClusters      map[string]TopicCluster `json:"topic_clusters"`
	Sentiment          SentimentSummary        `json:"sentiment"`
	KeyContent         []KeySnippet            `json:"key_content"`
}

// DataConfidence is the three-level summary judgment over corpus quality.
type DataConfidence string

const (
	ConfidenceHigh   DataConfidence = "high"
	ConfidenceMedium DataConfidence = "medium"
	ConfidenceLow    DataConfidence = "low"
)

// CompetitiveLandscape describes the competitive structure of the researched
// market as reported by the trend synthesis step.
type CompetitiveLandscape struct {
	MajorPlayers          []string `json:"major_players"`
	MarketPosition        string   `json:"market_position"`
	CompetitiveAdvantages []string `json:"competitive_advantages"`
	MarketConcentration   string   `json:"market_concentration"`
}

// AnalysisMetadata carries the deterministic scores computed alongside the
// synthesized insights.
type AnalysisMetadata struct {
	SourcesAnalyzed   int      `json:"sources_analyzed"`
	QualityScore      float64  `json:"quality_score"`
	ReliabilityScore  float64  `json:"reliability_score"`
	RecencyScore      float64  `json:"recency_score"`
	DiversityScore    float64  `json:"diversity_score"`
	SentimentScore    float64  `json:"sentiment_score"`
	ConfidenceFactors []string `json:"confidence_factors"`
}

// AnalysisResult is the terminal artifact of the pipeline: structured
// market-intelligence signals plus deterministic confidence metadata.
// Immutable once produced.
type AnalysisResult struct {
	KeyTrends            []string             `json:"key_trends"`
	MarketOpportunities  []string             `json:"market_opportunities"`
	RiskFactors          []string             `json:"risk_factors"`
	Recommendations      []string             `json:"recommendations"`
	CompetitiveLandscape CompetitiveLandscape `json:"competitive_landscape"`
	DataConfidence       DataConfidence       `json:"data_confidence"`
	Summary              string               `json:"summary"`
	AnalysisMetadata     AnalysisMetadata     `json:"analysis_metadata"`
}
