package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"marketscout/internal/logger"
)

const defaultBaseURL = "https://api.tavily.com/search"

// Retry policy for one request. Rate-limit responses back off harder than
// server errors; other client errors abort immediately.
const (
	defaultMaxRetries       = 3
	defaultRateLimitBackoff = 2000 * time.Millisecond
	defaultServerBackoff    = 1000 * time.Millisecond
)

// TavilyProvider implements Provider against the Tavily search API.
type TavilyProvider struct {
	apiKey           string
	baseURL          string
	client           *http.Client
	maxRetries       int
	rateLimitBackoff time.Duration
	serverBackoff    time.Duration
}

// NewTavilyProvider creates a new Tavily search provider.
func NewTavilyProvider(apiKey string) (*TavilyProvider, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &TavilyProvider{
		apiKey:           apiKey,
		baseURL:          defaultBaseURL,
		client:           &http.Client{Timeout: 30 * time.Second},
		maxRetries:       defaultMaxRetries,
		rateLimitBackoff: defaultRateLimitBackoff,
		serverBackoff:    defaultServerBackoff,
	}, nil
}

// GetName returns the name of this provider
func (t *TavilyProvider) GetName() string {
	return "Tavily"
}

// SetBaseURL overrides the API endpoint. Intended for tests.
func (t *TavilyProvider) SetBaseURL(url string) {
	t.baseURL = url
}

// SetBackoff overrides the retry wait bases. Intended for tests.
func (t *TavilyProvider) SetBackoff(rateLimit, server time.Duration) {
	t.rateLimitBackoff = rateLimit
	t.serverBackoff = server
}

// searchRequest is the Tavily wire format.
type searchRequest struct {
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth,omitempty"` // basic or advanced
	MaxResults     int      `json:"max_results,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
}

type searchResponse struct {
	Query   string `json:"query"`
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		Score         float64 `json:"score"`
		PublishedDate string  `json:"published_date"`
	} `json:"results"`
}

// Search performs one search with retry and exponential backoff. Rate-limit
// responses wait 2^attempt * rateLimitBackoff, server and connection errors
// 2^attempt * serverBackoff; other non-2xx responses abort immediately.
// Exhausting retries yields a *ServiceUnavailableError carrying the last
// status code.
func (t *TavilyProvider) Search(ctx context.Context, query string, config Config) ([]Result, error) {
	var lastErr error

	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		results, err := t.doSearch(ctx, query, config)
		if err == nil {
			return results, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err

		wait, retryable := t.classify(err, attempt)
		if !retryable {
			return nil, err
		}
		if attempt == t.maxRetries {
			break
		}

		logger.Debug("search attempt failed, backing off",
			"query", query, "attempt", attempt, "wait", wait.String())
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	status := 0
	var se *StatusError
	if errors.As(lastErr, &se) {
		status = se.StatusCode
	}
	return nil, &ServiceUnavailableError{StatusCode: status, Err: lastErr}
}

// classify maps an attempt error to its backoff wait. The second return is
// false for errors that must not be retried.
func (t *TavilyProvider) classify(err error, attempt int) (time.Duration, bool) {
	factor := time.Duration(1 << attempt)

	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusTooManyRequests:
			return factor * t.rateLimitBackoff, true
		case se.StatusCode >= 500:
			return factor * t.serverBackoff, true
		default:
			// Malformed request, auth failure and similar: retrying cannot help.
			return 0, false
		}
	}

	// Connection-level failure.
	return factor * t.serverBackoff, true
}

func (t *TavilyProvider) doSearch(ctx context.Context, query string, config Config) ([]Result, error) {
	payload, err := json.Marshal(searchRequest{
		Query:          query,
		SearchDepth:    string(config.Depth),
		MaxResults:     config.MaxResults,
		ExcludeDomains: config.ExcludeDomains,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal search response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, hit := range parsed.Results {
		results = append(results, Result{
			Title:         hit.Title,
			URL:           hit.URL,
			Content:       hit.Content,
			Score:         hit.Score,
			PublishedDate: parseDate(hit.PublishedDate),
		})
	}

	return results, nil
}

// dateLayouts are the publication date formats the service has been observed
// to emit.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed
		}
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
