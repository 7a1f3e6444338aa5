package provider

import (
	"context"
	"net/url"
	"strconv"

	"github.com/content-architect/outbound/client"
)

// SearchQuery describes a web search request.
type SearchQuery struct {
	// Query is the search terms.
	Query string

	// Count caps the number of results. Zero means the provider default.
	Count int

	// Freshness restricts results by age, e.g. "day", "week", "month".
	Freshness string
}

// SearchResult is one web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Search adapts a resilient client to the web search provider.
type Search struct {
	caller Caller
}

// NewSearch creates a search adapter.
func NewSearch(caller Caller) *Search {
	return &Search{caller: caller}
}

// Search runs a web search.
func (s *Search) Search(ctx context.Context, q SearchQuery) ([]SearchResult, error) {
	if q.Query == "" {
		return nil, ErrEmptyQuery
	}

	query := url.Values{"q": {q.Query}}
	if q.Count > 0 {
		query.Set("count", strconv.Itoa(q.Count))
	}
	if q.Freshness != "" {
		query.Set("freshness", q.Freshness)
	}

	resp, err := s.caller.Do(ctx, client.Request{
		Path:      "/v1/search",
		Query:     query,
		Operation: "search",
	})
	if err != nil {
		return nil, err
	}

	var body struct {
		Results []SearchResult `json:"results"`
	}
	if err := resp.JSON(&body); err != nil {
		return nil, err
	}
	return body.Results, nil
}
