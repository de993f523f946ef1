package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"marketscout/internal/core"
	"marketscout/internal/dedup"
	"marketscout/internal/logger"
)

// ErrLimitReached is returned when a run is requested above the concurrency
// ceiling. Runs are rejected immediately, never queued.
var ErrLimitReached = errors.New("maximum concurrent research runs reached")

// Strategist plans the search terms for a query.
type Strategist interface {
	Plan(ctx context.Context, query string) (core.SearchStrategy, error)
}

// Collector executes a strategy against the search service.
type Collector interface {
	Gather(ctx context.Context, strategy core.SearchStrategy) ([]core.RawResult, error)
}

// CorpusAnalyzer aggregates raw results into a processed corpus.
type CorpusAnalyzer interface {
	Analyze(results []core.RawResult) core.ProcessedCorpus
}

// Insighter derives the structured analysis from a corpus.
type Insighter interface {
	Synthesize(ctx context.Context, corpus core.ProcessedCorpus, query string) core.AnalysisResult
}

// Outcome is the complete record of one research run. Raw results are
// discarded once analyzed; only the derived corpus and analysis survive.
type Outcome struct {
	RunID     uuid.UUID            `json:"run_id"`
	Query     string               `json:"query"`
	Strategy  core.SearchStrategy  `json:"strategy"`
	Corpus    core.ProcessedCorpus `json:"corpus"`
	Analysis  core.AnalysisResult  `json:"analysis"`
	StartedAt time.Time            `json:"started_at"`
	Duration  time.Duration        `json:"duration"`
}

// Runner folds a query through the four pipeline stages. Each stage takes an
// immutable input and returns a new record; there is no shared mutable state
// between stages. A bounded semaphore caps simultaneous runs.
type Runner struct {
	strategist Strategist
	collector  Collector
	analyzer   CorpusAnalyzer
	insighter  Insighter
	admission  *semaphore.Weighted
	now        func() time.Time
}

// NewRunner creates a Runner with the given concurrency ceiling. A ceiling
// below 1 is treated as 1.
func NewRunner(strategist Strategist, collector Collector, analyzer CorpusAnalyzer, insighter Insighter, maxConcurrent int64) *Runner {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Runner{
		strategist: strategist,
		collector:  collector,
		analyzer:   analyzer,
		insighter:  insighter,
		admission:  semaphore.NewWeighted(maxConcurrent),
		now:        time.Now,
	}
}

// Run executes the full pipeline for one query. On success the outcome
// always carries a corpus and an analysis, even when the language-model
// stages degraded to their fallbacks. Gather failures that leave no usable
// data propagate as typed errors.
func (r *Runner) Run(ctx context.Context, query string) (*Outcome, error) {
	if !r.admission.TryAcquire(1) {
		return nil, ErrLimitReached
	}
	defer r.admission.Release(1)

	started := r.now()
	runID := uuid.New()
	logger.Info("research run started", "run_id", runID.String(), "query", query)

	strategy, err := r.strategist.Plan(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("planning %q: %w", query, err)
	}

	raw, err := r.collector.Gather(ctx, strategy)
	if err != nil {
		return nil, fmt.Errorf("gathering for %q: %w", query, err)
	}

	results := dedup.Deduplicate(raw)
	corpus := r.analyzer.Analyze(results)
	analysis := r.insighter.Synthesize(ctx, corpus, query)

	outcome := &Outcome{
		RunID:     runID,
		Query:     query,
		Strategy:  strategy,
		Corpus:    corpus,
		Analysis:  analysis,
		StartedAt: started,
		Duration:  r.now().Sub(started),
	}

	logger.Info("research run finished",
		"run_id", runID.String(),
		"sources", corpus.TotalSources,
		"confidence", string(analysis.DataConfidence),
		"duration", outcome.Duration.String())

	return outcome, nil
}
