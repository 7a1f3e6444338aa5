package provider

import (
	"context"
	"errors"

	"github.com/content-architect/outbound/client"
)

// Caller issues outbound requests. Both *client.Client and
// *cache.Middleware satisfy it, so adapters can be built over a bare
// client or a caching stack without knowing the difference.
type Caller interface {
	Do(ctx context.Context, req client.Request) (*client.Response, error)
}

var (
	// ErrEmptyQuery indicates a search or news query with no terms.
	ErrEmptyQuery = errors.New("provider: query is required")

	// ErrEmptyTopic indicates a generation request with no topic.
	ErrEmptyTopic = errors.New("provider: topic is required")

	// ErrEmptyContent indicates an analysis request with no content.
	ErrEmptyContent = errors.New("provider: content is required")
)
