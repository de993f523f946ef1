package search

import (
	"context"
	"time"

	"marketscout/internal/core"
)

// Provider defines the interface to the external search service. The gatherer
// issues one call per planned term through this interface.
type Provider interface {
	// Search performs a single search request.
	Search(ctx context.Context, query string, config Config) ([]Result, error)

	// GetName returns the name of the search provider
	GetName() string
}

// Config holds configuration for one search request.
type Config struct {
	Depth          core.SearchDepth // basic or advanced
	MaxResults     int              // Per-request result cap
	ExcludeDomains []string         // Domains the service should skip
}

// Result is one hit as returned by the search service, before filtering and
// normalization.
type Result struct {
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Content       string     `json:"content"`
	Score         float64    `json:"score"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
}
