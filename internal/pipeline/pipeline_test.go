package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"marketscout/internal/core"
)

type stubStages struct {
	mu         sync.Mutex
	planErr    error
	gatherErr  error
	results    []core.RawResult
	gatherGate chan struct{} // when set, Gather blocks until closed
	runs       int
}

func (s *stubStages) Plan(ctx context.Context, query string) (core.SearchStrategy, error) {
	if s.planErr != nil {
		return core.SearchStrategy{}, s.planErr
	}
	return core.SearchStrategy{
		PrimaryTerms:    []string{query},
		SearchDepth:     core.DepthAdvanced,
		ExpectedSources: 15,
	}, nil
}

func (s *stubStages) Gather(ctx context.Context, strategy core.SearchStrategy) ([]core.RawResult, error) {
	s.mu.Lock()
	s.runs++
	gate := s.gatherGate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.gatherErr != nil {
		return nil, s.gatherErr
	}
	return s.results, nil
}

func (s *stubStages) Analyze(results []core.RawResult) core.ProcessedCorpus {
	return core.ProcessedCorpus{TotalSources: len(results)}
}

func (s *stubStages) Synthesize(ctx context.Context, corpus core.ProcessedCorpus, query string) core.AnalysisResult {
	return core.AnalysisResult{
		Summary:        "stub analysis for " + query,
		DataConfidence: core.ConfidenceLow,
	}
}

func newStubRunner(stages *stubStages, maxConcurrent int64) *Runner {
	return NewRunner(stages, stages, stages, stages, maxConcurrent)
}

func TestRunProducesCompleteOutcome(t *testing.T) {
	stages := &stubStages{results: []core.RawResult{
		{Title: "a", URL: "https://a.com/1", RelevanceScore: 0.9},
		{Title: "b", URL: "https://b.com/1", RelevanceScore: 0.5},
	}}

	outcome, err := newStubRunner(stages, 2).Run(context.Background(), "EV batteries")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if outcome.RunID == uuid.Nil {
		t.Error("RunID should be assigned")
	}
	if outcome.Query != "EV batteries" {
		t.Errorf("Query = %q", outcome.Query)
	}
	if outcome.Corpus.TotalSources != 2 {
		t.Errorf("TotalSources = %d, want 2", outcome.Corpus.TotalSources)
	}
	if outcome.Analysis.Summary == "" {
		t.Error("Analysis should be populated")
	}
	if len(outcome.Strategy.PrimaryTerms) == 0 {
		t.Error("Strategy should be carried on the outcome")
	}
}

func TestRunDeduplicatesBeforeAnalysis(t *testing.T) {
	stages := &stubStages{results: []core.RawResult{
		{Title: "first copy", URL: "https://a.com/1", Content: "entirely original words here", RelevanceScore: 0.4},
		{Title: "second copy", URL: "https://a.com/1", Content: "different phrasing altogether now", RelevanceScore: 0.9},
		{Title: "unrelated piece", URL: "https://b.com/2", Content: "nothing shared with the others", RelevanceScore: 0.5},
	}}

	outcome, err := newStubRunner(stages, 1).Run(context.Background(), "widgets")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Corpus.TotalSources != 2 {
		t.Errorf("TotalSources = %d, want 2 after URL dedup", outcome.Corpus.TotalSources)
	}
}

func TestRunRejectsAboveConcurrencyCeiling(t *testing.T) {
	gate := make(chan struct{})
	stages := &stubStages{gatherGate: gate}
	runner := newStubRunner(stages, 1)

	firstDone := make(chan error, 1)
	go func() {
		_, err := runner.Run(context.Background(), "slow query")
		firstDone <- err
	}()

	// Wait for the first run to be inside Gather and holding the slot.
	for {
		stages.mu.Lock()
		started := stages.runs > 0
		stages.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := runner.Run(context.Background(), "rejected query"); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("second run error = %v, want ErrLimitReached", err)
	}

	close(gate)
	if err := <-firstDone; err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Slot released, a new run is admitted again.
	if _, err := runner.Run(context.Background(), "third query"); err != nil {
		t.Fatalf("third run after release: %v", err)
	}
}

func TestRunPropagatesGatherFailure(t *testing.T) {
	sentinel := errors.New("service down")
	stages := &stubStages{gatherErr: sentinel}

	_, err := newStubRunner(stages, 1).Run(context.Background(), "widgets")
	if !errors.Is(err, sentinel) {
		t.Fatalf("error = %v, want wrapped sentinel", err)
	}
}

func TestRunPropagatesPlanFailure(t *testing.T) {
	sentinel := errors.New("no terms")
	stages := &stubStages{planErr: sentinel}

	_, err := newStubRunner(stages, 1).Run(context.Background(), "widgets")
	if !errors.Is(err, sentinel) {
		t.Fatalf("error = %v, want wrapped sentinel", err)
	}
}
