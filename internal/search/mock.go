package search

import (
	"context"
	"sync"
)

// MockProvider implements Provider for testing purposes. Results and errors
// can be scripted per query; calls are recorded.
type MockProvider struct {
	mu      sync.Mutex
	name    string
	results map[string][]Result
	errs    map[string]error
	calls   []MockCall
}

// MockCall records one Search invocation.
type MockCall struct {
	Query  string
	Config Config
}

// NewMockProvider creates a new mock search provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		name:    "Mock",
		results: make(map[string][]Result),
		errs:    make(map[string]error),
	}
}

// GetName returns the name of this provider
func (m *MockProvider) GetName() string {
	return m.name
}

// SetResults scripts the results returned for a query.
func (m *MockProvider) SetResults(query string, results []Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[query] = results
}

// SetError scripts an error returned for a query.
func (m *MockProvider) SetError(query string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[query] = err
}

// Calls returns a copy of the recorded invocations.
func (m *MockProvider) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Search returns the scripted results for the query, capped at
// config.MaxResults.
func (m *MockProvider) Search(ctx context.Context, query string, config Config) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Query: query, Config: config})

	if err, ok := m.errs[query]; ok {
		return nil, err
	}

	results := m.results[query]
	if config.MaxResults > 0 && len(results) > config.MaxResults {
		results = results[:config.MaxResults]
	}

	out := make([]Result, len(results))
	copy(out, results)
	return out, nil
}
