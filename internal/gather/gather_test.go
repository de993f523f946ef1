package gather

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"marketscout/internal/core"
	"marketscout/internal/planner"
	"marketscout/internal/search"
)

const longContent = "This body is comfortably longer than the fifty character minimum required by the gather filter stage."

func testStrategy(primary, secondary []string) core.SearchStrategy {
	return core.SearchStrategy{
		PrimaryTerms:    primary,
		SecondaryTerms:  secondary,
		TimeRange:       "year",
		SearchDepth:     core.DepthAdvanced,
		ExpectedSources: 12,
	}
}

func newTestGatherer(provider search.Provider) *Gatherer {
	g := New(provider)
	g.SetPacing(time.Millisecond, time.Millisecond)
	return g
}

func TestGatherFiltersAndCollapsesDuplicates(t *testing.T) {
	mock := search.NewMockProvider()

	// 12 valid results across two terms, plus short-content junk and a
	// duplicate URL pair. Titles and bodies are genuinely distinct so only
	// the scripted duplicates collapse.
	titles := []string{
		"Solar panel imports surge as tariffs loosen",
		"Wind developers face turbine blade shortages",
		"Hydrogen hubs win a new federal funding round",
		"Geothermal startups are drilling much deeper wells",
		"Nuclear restarts gain unexpected political momentum",
		"Biomass plants struggle with rising feedstock costs",
		"Tidal pilot arrays report strong first-year uptime",
		"Battery storage bids now undercut gas peakers",
		"Grid operators warn of an interconnection backlog",
		"Carbon capture projects attract the oil majors",
		"Heat pump adoption doubles in cold climates",
		"Efficiency retrofits lag in commercial buildings",
	}
	var termA, termB []search.Result
	for i, title := range titles {
		hit := search.Result{
			Title:   title,
			URL:     fmt.Sprintf("https://site%d.com/story", i),
			Content: fmt.Sprintf("%s. %s Case file %c.", title, longContent, 'A'+i),
			Score:   0.9 - float64(i)*0.03,
		}
		if i < 6 {
			termA = append(termA, hit)
		} else {
			termB = append(termB, hit)
		}
	}
	// Invalid: short or missing content and title.
	termA = append(termA,
		search.Result{Title: "too short 1", URL: "https://short1.com", Content: "tiny", Score: 0.9},
		search.Result{Title: "too short 2", URL: "https://short2.com", Content: "also tiny", Score: 0.9},
		search.Result{Title: "", URL: "https://notitle.com", Content: longContent, Score: 0.9},
	)
	// Duplicate URLs of existing results, lower scores.
	termB = append(termB,
		search.Result{Title: titles[0], URL: "https://site0.com/story", Content: titles[0] + ". " + longContent + " Case file A.", Score: 0.2},
		search.Result{Title: titles[6], URL: "https://site6.com/story", Content: titles[6] + ". " + longContent + " Case file G.", Score: 0.2},
	)

	mock.SetResults("renewable energy trends", termA)
	mock.SetResults("renewable energy trends storage", termB)

	strategy := testStrategy([]string{"renewable energy trends", "renewable energy trends storage"}, nil)
	strategy.ExpectedSources = 25 // cap 13 per term so nothing is trimmed by the service

	results, err := newTestGatherer(mock).Gather(context.Background(), strategy)
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	if len(results) != 12 {
		t.Errorf("expected 12 results after filtering and dedup, got %d", len(results))
	}
	seen := make(map[string]bool)
	for _, r := range results {
		if len(r.Content) <= 50 {
			t.Errorf("result %s has content length %d", r.URL, len(r.Content))
		}
		if seen[r.URL] {
			t.Errorf("duplicate URL survived: %s", r.URL)
		}
		seen[r.URL] = true
	}
}

func TestGatherTagsTiers(t *testing.T) {
	mock := search.NewMockProvider()
	mock.SetResults("p", []search.Result{{Title: "Primary tier hit about solar manufacturing", URL: "https://a.com/p", Content: longContent, Score: 0.9}})
	mock.SetResults("s", []search.Result{{Title: "Secondary tier hit about grid batteries", URL: "https://b.com/s", Content: "A different opening for this body. " + longContent, Score: 0.9}})

	results, err := newTestGatherer(mock).Gather(context.Background(), testStrategy([]string{"p"}, []string{"s"}))
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	byURL := map[string]core.RawResult{}
	for _, r := range results {
		byURL[r.URL] = r
	}
	p := byURL["https://a.com/p"]
	if p.SearchType != core.SearchTypePrimary || p.Weight != 1.0 || p.SearchTerm != "p" {
		t.Errorf("primary tagging wrong: %+v", p)
	}
	s := byURL["https://b.com/s"]
	if s.SearchType != core.SearchTypeSecondary || s.Weight != 0.7 {
		t.Errorf("secondary tagging wrong: %+v", s)
	}

	// Secondary requests use basic depth and the fixed cap.
	for _, call := range mock.Calls() {
		if call.Query == "s" {
			if call.Config.Depth != core.DepthBasic {
				t.Errorf("secondary depth = %s, want basic", call.Config.Depth)
			}
			if call.Config.MaxResults != 3 {
				t.Errorf("secondary cap = %d, want 3", call.Config.MaxResults)
			}
		}
		if call.Query == "p" && call.Config.Depth != core.DepthAdvanced {
			t.Errorf("primary depth = %s, want advanced", call.Config.Depth)
		}
	}
}

func TestGatherPerTermCap(t *testing.T) {
	mock := search.NewMockProvider()
	strategy := testStrategy([]string{"a", "b", "c"}, nil)
	strategy.ExpectedSources = 10 // ceil(10/3) = 4 per primary term

	if _, err := newTestGatherer(mock).Gather(context.Background(), strategy); err != nil {
		t.Fatalf("Gather: %v", err)
	}

	for _, call := range mock.Calls() {
		if call.Config.MaxResults != 4 {
			t.Errorf("per-term cap for %q = %d, want 4", call.Query, call.Config.MaxResults)
		}
	}
}

func TestGatherBlockedDomains(t *testing.T) {
	mock := search.NewMockProvider()
	mock.SetResults("q", []search.Result{
		{Title: "Forum thread about batteries and opinions", URL: "https://www.reddit.com/r/x", Content: longContent, Score: 0.9},
		{Title: "Actual coverage from a publication", URL: "https://news.example.com/x", Content: longContent + " more.", Score: 0.5},
	})

	results, err := newTestGatherer(mock).Gather(context.Background(), testStrategy([]string{"q"}, nil))
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(results) != 1 || results[0].Domain != "news.example.com" {
		t.Errorf("blocklist not applied: %+v", results)
	}
}

func TestGatherNormalization(t *testing.T) {
	longTitle := ""
	for i := 0; i < 30; i++ {
		longTitle += "very long title "
	}
	hugeContent := ""
	for i := 0; i < 200; i++ {
		hugeContent += "word word word "
	}

	mock := search.NewMockProvider()
	mock.SetResults("q", []search.Result{
		{Title: longTitle, URL: "https://a.com/1", Content: hugeContent, Score: 7.5},
		{Title: "An article <b>with</b> markup", URL: "https://b.com/2", Content: "<p>" + longContent + "</p><script>alert(1)</script>", Score: -2},
	})

	results, err := newTestGatherer(mock).Gather(context.Background(), testStrategy([]string{"q"}, nil))
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	for _, r := range results {
		if len(r.Title) > 200 {
			t.Errorf("title not truncated: %d chars", len(r.Title))
		}
		if len(r.Content) > 1000 {
			t.Errorf("content not truncated: %d chars", len(r.Content))
		}
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("score not clamped: %v", r.Score)
		}
	}

	for _, r := range results {
		if r.URL == "https://b.com/2" {
			if r.Content != longContent {
				t.Errorf("markup not stripped: %q", r.Content)
			}
		}
	}
}

func TestGatherOrdering(t *testing.T) {
	older := time.Now().AddDate(0, -6, 0)
	newer := time.Now().AddDate(0, 0, -2)

	mock := search.NewMockProvider()
	mock.SetResults("p", []search.Result{
		{Title: "Primary low score story about something", URL: "https://a.com/1", Content: "Opening angle first. " + longContent, Score: 0.5},
	})
	mock.SetResults("s", []search.Result{
		{Title: "Secondary high score story about another thing", URL: "https://b.com/2", Content: "A second distinct framing. " + longContent, Score: 0.9, PublishedDate: &older},
		{Title: "Secondary same weighted score but newer item", URL: "https://c.com/3", Content: "Yet another unrelated body of text. " + longContent, Score: 0.9, PublishedDate: &newer},
	})

	results, err := newTestGatherer(mock).Gather(context.Background(), testStrategy([]string{"p"}, []string{"s"}))
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// Weighted scores: secondary 0.9*0.7 = 0.63 beats primary 0.5*1.0 = 0.5.
	// Between the two secondaries the newer date wins.
	if results[0].URL != "https://c.com/3" {
		t.Errorf("expected newest equal-weight result first, got %s", results[0].URL)
	}
	if results[1].URL != "https://b.com/2" {
		t.Errorf("expected older equal-weight result second, got %s", results[1].URL)
	}
	if results[2].URL != "https://a.com/1" {
		t.Errorf("expected lower weighted score last, got %s", results[2].URL)
	}
}

func TestGatherTermFailureContinues(t *testing.T) {
	mock := search.NewMockProvider()
	mock.SetError("bad", &search.ServiceUnavailableError{StatusCode: 429, Err: errors.New("throttled")})
	mock.SetResults("good", []search.Result{
		{Title: "Surviving story from the healthy term", URL: "https://a.com/1", Content: longContent, Score: 0.8},
	})

	results, err := newTestGatherer(mock).Gather(context.Background(), testStrategy([]string{"bad", "good"}, nil))
	if err != nil {
		t.Fatalf("one failed term must not abort the gather: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected the healthy term's result, got %d results", len(results))
	}
}

func TestGatherAllTermsFailed(t *testing.T) {
	mock := search.NewMockProvider()
	mock.SetError("a", &search.ServiceUnavailableError{StatusCode: 503, Err: errors.New("down")})
	mock.SetError("b", &search.ServiceUnavailableError{StatusCode: 429, Err: errors.New("throttled")})

	_, err := newTestGatherer(mock).Gather(context.Background(), testStrategy([]string{"a", "b"}, nil))
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestGatherInvalidStrategy(t *testing.T) {
	mock := search.NewMockProvider()
	_, err := newTestGatherer(mock).Gather(context.Background(), core.SearchStrategy{})
	if !errors.Is(err, planner.ErrInvalidStrategy) {
		t.Fatalf("expected ErrInvalidStrategy, got %v", err)
	}
}

func TestGatherCancellation(t *testing.T) {
	mock := search.NewMockProvider()
	g := New(mock)
	g.SetPacing(time.Hour, time.Hour) // force the limiter to block

	strategy := testStrategy([]string{"a", "b"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := g.Gather(ctx, strategy)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation to surface, got %v", err)
	}
}
