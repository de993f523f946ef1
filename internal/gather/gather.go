package gather

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"marketscout/internal/core"
	"marketscout/internal/dedup"
	"marketscout/internal/logger"
	"marketscout/internal/planner"
	"marketscout/internal/search"
)

// ErrServiceUnavailable is returned when every planned term exhausted its
// retries and the gather produced no usable data.
var ErrServiceUnavailable = errors.New("search service unavailable for all planned terms")

// Per-tier pacing between successive requests to the search service. This is
// an explicit contract with the external service, not a tuning knob.
const (
	defaultPrimaryInterval   = 1000 * time.Millisecond
	defaultSecondaryInterval = 800 * time.Millisecond
)

// Term weights and caps per tier.
const (
	primaryWeight    = 1.0
	secondaryWeight  = 0.7
	secondaryTermCap = 3
	minContentLength = 50
	maxTitleLength   = 200
	maxContentLength = 1000
)

// blockedDomains are discussion and social sites whose hits are too noisy to
// score.
var blockedDomains = []string{
	"reddit.com",
	"quora.com",
	"pinterest.com",
	"facebook.com",
	"twitter.com",
	"x.com",
	"instagram.com",
	"tiktok.com",
	"answers.yahoo.com",
	"4chan.org",
}

// Gatherer executes a search strategy against the external search service and
// produces the cleaned, deduplicated, relevance-ordered raw result set.
type Gatherer struct {
	provider          search.Provider
	primaryInterval   time.Duration
	secondaryInterval time.Duration
}

// New creates a Gatherer with the default pacing intervals.
func New(provider search.Provider) *Gatherer {
	return &Gatherer{
		provider:          provider,
		primaryInterval:   defaultPrimaryInterval,
		secondaryInterval: defaultSecondaryInterval,
	}
}

// SetPacing overrides the per-tier request spacing. Intended for tests.
func (g *Gatherer) SetPacing(primary, secondary time.Duration) {
	g.primaryInterval = primary
	g.secondaryInterval = secondary
}

// Gather runs every planned term, primary tier first, and returns the merged
// result set. An individual term failure only logs and contributes zero
// results; the error return is reserved for an invalid plan, cancellation,
// and the case where every term failed.
func (g *Gatherer) Gather(ctx context.Context, strategy core.SearchStrategy) ([]core.RawResult, error) {
	if len(strategy.PrimaryTerms) == 0 {
		return nil, planner.ErrInvalidStrategy
	}

	primaryCap := (strategy.ExpectedSources + len(strategy.PrimaryTerms) - 1) / len(strategy.PrimaryTerms)
	if primaryCap < 1 {
		primaryCap = 1
	}

	primaryDepth := strategy.SearchDepth
	if primaryDepth != core.DepthBasic {
		primaryDepth = core.DepthAdvanced
	}

	var results []core.RawResult
	var failures, terms int

	tiers := []struct {
		terms    []string
		typ      core.SearchType
		weight   float64
		depth    core.SearchDepth
		cap      int
		interval time.Duration
	}{
		{strategy.PrimaryTerms, core.SearchTypePrimary, primaryWeight, primaryDepth, primaryCap, g.primaryInterval},
		{strategy.SecondaryTerms, core.SearchTypeSecondary, secondaryWeight, core.DepthBasic, secondaryTermCap, g.secondaryInterval},
	}

	for _, tier := range tiers {
		if len(tier.terms) == 0 {
			continue
		}
		tierResults, tierFailures, err := g.searchTier(ctx, tier.terms, tier.typ, tier.weight, tier.depth, tier.cap, strategy.Domains, tier.interval)
		if err != nil {
			return nil, err
		}
		results = append(results, tierResults...)
		failures += tierFailures
		terms += len(tier.terms)
	}

	if failures == terms {
		return nil, fmt.Errorf("%w: %d terms failed", ErrServiceUnavailable, failures)
	}

	results = dedup.Deduplicate(results)
	sortByRelevance(results)

	logger.Info("gather complete",
		"terms", terms, "failed_terms", failures, "results", len(results))

	return results, nil
}

// searchTier fans out one goroutine per term. Each term keeps its own retry
// state inside the provider call; a shared rate limiter preserves the pacing
// contract across the concurrent requests. The errgroup wait is the
// fan-in barrier: it returns only once every term finished or the context
// was cancelled.
func (g *Gatherer) searchTier(ctx context.Context, terms []string, typ core.SearchType, weight float64, depth core.SearchDepth, perTermCap int, domainHints []string, interval time.Duration) ([]core.RawResult, int, error) {
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	grp, grpCtx := errgroup.WithContext(ctx)
	slots := make([][]core.RawResult, len(terms))
	failed := make([]bool, len(terms))

	for i, term := range terms {
		i, term := i, term
		grp.Go(func() error {
			if err := limiter.Wait(grpCtx); err != nil {
				if ctxErr := grpCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				return err
			}

			hits, err := g.provider.Search(grpCtx, term, search.Config{
				Depth:          depth,
				MaxResults:     perTermCap,
				ExcludeDomains: blockedDomains,
			})
			if err != nil {
				if grpCtx.Err() != nil {
					return grpCtx.Err()
				}
				logger.Warn("term search failed, continuing without it",
					"term", term, "type", string(typ), "reason", err.Error())
				failed[i] = true
				return nil
			}

			slots[i] = cleanHits(hits, term, typ, weight)
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, 0, err
	}

	var results []core.RawResult
	failures := 0
	for i := range terms {
		if failed[i] {
			failures++
			continue
		}
		results = append(results, slots[i]...)
	}
	_ = domainHints // Strategy domains are a hint only; the service is not constrained by them.

	return results, failures, nil
}

// cleanHits filters and normalizes the raw hits for one term: non-empty
// title and URL, content longer than the minimum after cleanup, no blocked
// domains; survivors are truncated, clamped and tagged.
func cleanHits(hits []search.Result, term string, typ core.SearchType, weight float64) []core.RawResult {
	results := make([]core.RawResult, 0, len(hits))

	for _, hit := range hits {
		title := collapseWhitespace(hit.Title)
		content := collapseWhitespace(stripMarkup(hit.Content))
		if title == "" || hit.URL == "" || len(content) <= minContentLength {
			continue
		}

		host := hostOf(hit.URL)
		if host == "" || isBlocked(host) {
			continue
		}

		score := clamp01(hit.Score)

		results = append(results, core.RawResult{
			Title:          truncate(title, maxTitleLength),
			URL:            hit.URL,
			Content:        truncate(content, maxContentLength),
			Score:          score,
			PublishedDate:  hit.PublishedDate,
			Domain:         host,
			SearchTerm:     term,
			SearchType:     typ,
			Weight:         weight,
			RelevanceScore: score,
		})
	}

	return results
}

// sortByRelevance orders by weighted relevance descending, primary results
// before secondary on ties, then newest publication date; results without a
// date sort as oldest.
func sortByRelevance(results []core.RawResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]

		wa := a.RelevanceScore * a.Weight
		wb := b.RelevanceScore * b.Weight
		if wa != wb {
			return wa > wb
		}

		if a.SearchType != b.SearchType {
			return a.SearchType == core.SearchTypePrimary
		}

		switch {
		case a.PublishedDate == nil && b.PublishedDate == nil:
			return false
		case a.PublishedDate == nil:
			return false
		case b.PublishedDate == nil:
			return true
		default:
			return a.PublishedDate.After(*b.PublishedDate)
		}
	})
}

func isBlocked(host string) bool {
	for _, blocked := range blockedDomains {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return true
		}
	}
	return false
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
