package provider

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/content-architect/outbound/client"
)

// NewsQuery describes a headline search request.
type NewsQuery struct {
	// Topic is the subject to search headlines for.
	Topic string

	// Language is a two-letter language code. Zero means the provider
	// default.
	Language string

	// PageSize caps the number of articles returned.
	PageSize int
}

// Article is one news article.
type Article struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"publishedAt"`
}

// News adapts a resilient client to the news provider.
type News struct {
	caller Caller
}

// NewNews creates a news adapter.
func NewNews(caller Caller) *News {
	return &News{caller: caller}
}

// Headlines fetches recent articles about a topic.
func (n *News) Headlines(ctx context.Context, q NewsQuery) ([]Article, error) {
	if q.Topic == "" {
		return nil, ErrEmptyQuery
	}

	query := url.Values{"q": {q.Topic}}
	if q.Language != "" {
		query.Set("language", q.Language)
	}
	if q.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(q.PageSize))
	}

	resp, err := n.caller.Do(ctx, client.Request{
		Path:      "/v1/news",
		Query:     query,
		Operation: "headlines",
	})
	if err != nil {
		return nil, err
	}

	var body struct {
		Articles []Article `json:"articles"`
	}
	if err := resp.JSON(&body); err != nil {
		return nil, err
	}
	return body.Articles, nil
}
