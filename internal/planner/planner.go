package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"marketscout/internal/core"
	"marketscout/internal/llm"
	"marketscout/internal/logger"
)

// ErrInvalidStrategy is returned when planning produced an empty primary term
// set even after the fallback. Unreachable by construction; the check stays
// as a guard on the gatherer's input invariant.
var ErrInvalidStrategy = errors.New("search strategy has no primary terms")

// Strategy bounds enforced by validation.
const (
	minPrimaryTerms        = 3
	maxPrimaryTerms        = 6
	maxSecondaryTerms      = 4
	minExpectedSources     = 1
	maxExpectedSources     = 25
	defaultExpectedSources = 15
	defaultTimeRange       = "year"
)

// TextGenerator is the language-model call the planner depends on.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts llm.Options) (string, error)
}

// Planner converts a free-text query into a validated SearchStrategy. The
// language model proposes the strategy; every field is validated and clamped,
// and any model or parse failure degrades to a deterministic fallback.
type Planner struct {
	llm         TextGenerator
	temperature float32
	maxTokens   int32
}

// New creates a Planner. A nil generator is allowed and forces the fallback
// path on every call.
func New(generator TextGenerator) *Planner {
	return &Planner{
		llm:         generator,
		temperature: 0.3,
		maxTokens:   1024,
	}
}

// strategyPayload is the JSON shape requested from the model.
type strategyPayload struct {
	PrimaryTerms    []string `json:"primary_terms"`
	SecondaryTerms  []string `json:"secondary_terms"`
	Domains         []string `json:"domains"`
	TimeRange       string   `json:"time_range"`
	SearchDepth     string   `json:"search_depth"`
	ExpectedSources int      `json:"expected_sources"`
}

// Plan derives a SearchStrategy for the query. Model failures are logged and
// downgrade to the fallback; they never propagate.
func (p *Planner) Plan(ctx context.Context, query string) (core.SearchStrategy, error) {
	query = strings.TrimSpace(query)

	strategy := p.planWithModel(ctx, query)
	if len(strategy.PrimaryTerms) == 0 {
		return core.SearchStrategy{}, ErrInvalidStrategy
	}
	return strategy, nil
}

func (p *Planner) planWithModel(ctx context.Context, query string) core.SearchStrategy {
	if p.llm == nil {
		logger.Debug("no language model configured, using fallback strategy", "query", query)
		return Fallback(query)
	}

	raw, err := p.llm.GenerateText(ctx, buildPrompt(query), llm.Options{
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		logger.Warn("strategy planning degraded to fallback", "query", query, "reason", err.Error())
		return Fallback(query)
	}

	jsonStr, ok := llm.ExtractJSON(raw)
	if !ok {
		logger.Warn("strategy planning degraded to fallback", "query", query, "reason", "no JSON in model output")
		return Fallback(query)
	}

	var payload strategyPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		logger.Warn("strategy planning degraded to fallback", "query", query, "reason", err.Error())
		return Fallback(query)
	}

	return validate(payload, query)
}

func buildPrompt(query string) string {
	return fmt.Sprintf(`You are planning web searches for a market research query.

Research query: %q

Return a single JSON object with this exact shape and nothing else:
{
  "primary_terms": ["3-6 focused search queries covering the core question"],
  "secondary_terms": ["0-4 supporting queries for adjacent angles"],
  "domains": ["optional preferred source domains"],
  "time_range": "year",
  "search_depth": "basic or advanced",
  "expected_sources": 15
}

Primary terms should be specific and suitable for a search engine. Secondary
terms should cover competitors, market size or forecasts.`, query)
}

// validate clamps every model-provided field to the allowed ranges,
// substituting fallback values where the model came back short.
func validate(payload strategyPayload, query string) core.SearchStrategy {
	fallback := Fallback(query)

	primary := cleanTerms(payload.PrimaryTerms, maxPrimaryTerms)
	primary = padTerms(primary, fallback.PrimaryTerms, minPrimaryTerms)

	secondary := cleanTerms(payload.SecondaryTerms, maxSecondaryTerms)
	if len(secondary) == 0 {
		secondary = fallback.SecondaryTerms
		if len(secondary) > maxSecondaryTerms {
			secondary = secondary[:maxSecondaryTerms]
		}
	}

	depth := core.SearchDepth(strings.ToLower(strings.TrimSpace(payload.SearchDepth)))
	if depth != core.DepthBasic && depth != core.DepthAdvanced {
		depth = core.DepthAdvanced
	}

	timeRange := strings.TrimSpace(payload.TimeRange)
	if timeRange == "" {
		timeRange = defaultTimeRange
	}

	expected := payload.ExpectedSources
	if expected == 0 {
		expected = defaultExpectedSources
	}
	if expected < minExpectedSources {
		expected = minExpectedSources
	}
	if expected > maxExpectedSources {
		expected = maxExpectedSources
	}

	return core.SearchStrategy{
		PrimaryTerms:    primary,
		SecondaryTerms:  secondary,
		Domains:         cleanTerms(payload.Domains, len(payload.Domains)),
		TimeRange:       timeRange,
		SearchDepth:     depth,
		ExpectedSources: expected,
	}
}

// Fallback builds a deterministic strategy from the query alone. It is total
// and idempotent: the same query always yields the same strategy.
func Fallback(query string) core.SearchStrategy {
	query = strings.TrimSpace(query)
	if query == "" {
		query = "market research"
	}

	return core.SearchStrategy{
		PrimaryTerms: []string{
			query,
			query + " market analysis",
			query + " industry trends",
			query + " competitors",
		},
		SecondaryTerms: []string{
			query + " market size",
			query + " forecast",
			query + " growth opportunities",
		},
		TimeRange:       defaultTimeRange,
		SearchDepth:     core.DepthAdvanced,
		ExpectedSources: defaultExpectedSources,
	}
}

// cleanTerms trims, drops empties and case-insensitive duplicates, and caps
// the list length.
func cleanTerms(terms []string, max int) []string {
	seen := make(map[string]bool, len(terms))
	var out []string
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		key := strings.ToLower(term)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, term)
		if len(out) == max {
			break
		}
	}
	return out
}

// padTerms appends entries from pool until terms reaches min length,
// skipping duplicates.
func padTerms(terms, pool []string, min int) []string {
	if len(terms) >= min {
		return terms
	}
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		seen[strings.ToLower(term)] = true
	}
	for _, candidate := range pool {
		if len(terms) >= min {
			break
		}
		if seen[strings.ToLower(candidate)] {
			continue
		}
		seen[strings.ToLower(candidate)] = true
		terms = append(terms, candidate)
	}
	return terms
}
