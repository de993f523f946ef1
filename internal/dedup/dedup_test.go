package dedup

import (
	"testing"

	"marketscout/internal/core"
)

func TestDeduplicateKeepsHigherRelevance(t *testing.T) {
	results := []core.RawResult{
		{URL: "https://example.com/a", Title: "EV battery outlook", Content: "first version of the story body", RelevanceScore: 0.4},
		{URL: "https://example.com/a", Title: "EV battery outlook updated", Content: "second longer version of the story body", RelevanceScore: 0.9},
	}

	out := Deduplicate(results)
	if len(out) != 1 {
		t.Fatalf("expected 1 result, got %d", len(out))
	}
	if out[0].RelevanceScore != 0.9 {
		t.Errorf("expected the higher-relevance record to survive, got score %v", out[0].RelevanceScore)
	}
}

func TestDeduplicateNoSharedURLs(t *testing.T) {
	results := []core.RawResult{
		{URL: "https://a.com/1", Title: "Solar capacity grows in Spain", Content: "Spain added significant solar capacity this quarter according to grid data.", RelevanceScore: 0.8},
		{URL: "https://b.com/2", Title: "Wind turbine supply chains tighten", Content: "Manufacturers report component shortages across the wind turbine supply chain.", RelevanceScore: 0.7},
		{URL: "https://a.com/1", Title: "Solar capacity grows in Spain", Content: "Spain added significant solar capacity this quarter according to grid data.", RelevanceScore: 0.6},
	}

	out := Deduplicate(results)
	seen := make(map[string]bool)
	for _, r := range out {
		if seen[r.URL] {
			t.Errorf("duplicate URL in output: %s", r.URL)
		}
		seen[r.URL] = true
	}
	if len(out) != 2 {
		t.Errorf("expected 2 unique results, got %d", len(out))
	}
}

func TestDeduplicateSuppressesNearDuplicateTitles(t *testing.T) {
	results := []core.RawResult{
		{URL: "https://a.com/story", Title: "Global EV sales hit record in 2025", Content: "Electric vehicle sales reached a new global record driven by falling battery costs and new models.", RelevanceScore: 0.9},
		{URL: "https://b.com/story", Title: "Global EV sales hit record in 2026", Content: "A completely different body of text talking about charging infrastructure buildout across Europe instead.", RelevanceScore: 0.8},
	}

	out := Deduplicate(results)
	if len(out) != 1 {
		t.Fatalf("expected near-duplicate title to be suppressed, got %d results", len(out))
	}
	if out[0].URL != "https://a.com/story" {
		t.Errorf("expected the first-accepted record to survive, got %s", out[0].URL)
	}
}

func TestDeduplicateKeepsDistinctResults(t *testing.T) {
	results := []core.RawResult{
		{URL: "https://a.com/1", Title: "Hydrogen pilot plants expand", Content: "Several hydrogen pilot plants announced expansions across Asia this year.", RelevanceScore: 0.6},
		{URL: "https://b.com/2", Title: "Grid storage economics improve", Content: "Utility-scale battery storage costs continue to decline, improving project economics.", RelevanceScore: 0.5},
	}

	out := Deduplicate(results)
	if len(out) != 2 {
		t.Errorf("expected both distinct results kept, got %d", len(out))
	}
}

func TestSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"", "anything", 0},
		{"same", "same", 1},
		{"abcd", "abce", 0.75},
	}

	for _, tc := range cases {
		got := similarity(tc.a, tc.b)
		if got != tc.want {
			t.Errorf("similarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
